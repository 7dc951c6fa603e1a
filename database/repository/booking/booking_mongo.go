package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"driveline/database"
	"driveline/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB. Legs are
// embedded in the booking document, so window scans match on the embedded
// array and pick out the qualifying legs in Go.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo() BookingRepository {
	coll := database.MongoClient.Database("driveline").Collection("bookings")
	repo := &MongoBookingRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "legs.leg_start_time", Value: 1}}},
		{Keys: bson.D{{Key: "legs.leg_end_time", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new booking document with its embedded legs.
func (r *MongoBookingRepo) Create(b *models.Booking) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// FindByID retrieves a booking by its unique id.
func (r *MongoBookingRepo) FindByID(id string) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var b models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&b); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("booking with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get booking %s: %w", id, err)
	}
	return &b, nil
}

// UpdateStatus persists the booking's status and mirrored leg statuses.
func (r *MongoBookingRepo) UpdateStatus(b *models.Booking) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	b.UpdatedAt = time.Now()
	filter := bson.M{"id": b.ID}
	update := bson.M{"$set": bson.M{
		"status":         b.Status,
		"payment_status": b.PaymentStatus,
		"legs":           b.Legs,
		"updated_at":     b.UpdatedAt,
	}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update booking %s: %w", b.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("booking with id %s not found", b.ID)
	}
	return nil
}

// FindLegsStartingInWindow returns legs whose start time falls in the window.
func (r *MongoBookingRepo) FindLegsStartingInWindow(window TimeWindow) ([]LegWithBooking, error) {
	filter := bson.M{"legs": bson.M{"$elemMatch": bson.M{
		"leg_start_time": bson.M{"$gte": window.From, "$lt": window.To},
	}}}
	return r.findLegs(filter, func(leg models.BookingLeg) bool {
		return window.Contains(leg.LegStartTime)
	})
}

// FindLegsEndingInWindow returns legs whose end time falls in the window.
func (r *MongoBookingRepo) FindLegsEndingInWindow(window TimeWindow) ([]LegWithBooking, error) {
	filter := bson.M{"legs": bson.M{"$elemMatch": bson.M{
		"leg_end_time": bson.M{"$gte": window.From, "$lt": window.To},
	}}}
	return r.findLegs(filter, func(leg models.BookingLeg) bool {
		return window.Contains(leg.LegEndTime)
	})
}

func (r *MongoBookingRepo) findLegs(filter bson.M, inWindow func(models.BookingLeg) bool) ([]LegWithBooking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query legs: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	var out []LegWithBooking
	for _, b := range bookings {
		for _, leg := range b.Legs {
			if inWindow(leg) {
				out = append(out, LegWithBooking{Leg: leg, Booking: b})
			}
		}
	}
	return out, nil
}

// FindEligibleForActivation returns CONFIRMED, PAID bookings whose first leg
// window has already started.
func (r *MongoBookingRepo) FindEligibleForActivation(now time.Time) ([]*models.Booking, error) {
	filter := bson.M{
		"status":         models.BookingConfirmed,
		"payment_status": models.PaymentPaid,
		"legs.0.leg_start_time": bson.M{"$lte": now},
	}
	return r.findBookings(filter)
}

// FindEligibleForCompletion returns ACTIVE bookings whose end date has passed.
func (r *MongoBookingRepo) FindEligibleForCompletion(now time.Time) ([]*models.Booking, error) {
	filter := bson.M{
		"status":   models.BookingActive,
		"end_date": bson.M{"$lte": now},
	}
	return r.findBookings(filter)
}

func (r *MongoBookingRepo) findBookings(filter bson.M) ([]*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*models.Booking
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return out, nil
}
