package notificationRepo

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

// MongoNotificationRepo implements NotificationRepository using MongoDB.
type MongoNotificationRepo struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepo creates a new instance of NotificationRepository using MongoDB.
func NewMongoNotificationRepo() NotificationRepository {
	coll := database.MongoClient.Database("driveline").Collection("notifications")
	repo := &MongoNotificationRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoNotificationRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "booking_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Save upserts a notification document keyed by id.
func (r *MongoNotificationRepo) Save(n *models.Notification) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	n.UpdatedAt = time.Now()
	filter := bson.M{"id": n.ID}
	update := bson.M{"$set": n}
	opts := options.Update().SetUpsert(true)

	if _, err := r.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to save notification %s: %w", n.ID, err)
	}
	return nil
}

// GetByID retrieves a notification by its unique id.
func (r *MongoNotificationRepo) GetByID(id string) (*models.Notification, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var n models.Notification
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&n); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("notification with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get notification %s: %w", id, err)
	}
	return &n, nil
}

// FindPending retrieves all notifications in PENDING status.
func (r *MongoNotificationRepo) FindPending() ([]*models.Notification, error) {
	return r.findByFilter(bson.M{"status": models.NotificationPending})
}

// FindRetryable retrieves all FAILED notifications that still have attempts
// left in their budget.
func (r *MongoNotificationRepo) FindRetryable() ([]*models.Notification, error) {
	return r.findByFilter(bson.M{
		"status":        models.NotificationFailed,
		"attempt_count": bson.M{"$lt": models.MaxDeliveryAttempts},
	})
}

// FindByBookingID retrieves all notifications correlated with a booking.
func (r *MongoNotificationRepo) FindByBookingID(bookingID string) ([]*models.Notification, error) {
	return r.findByFilter(bson.M{"booking_id": bookingID})
}

func (r *MongoNotificationRepo) findByFilter(filter bson.M) ([]*models.Notification, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var results []*models.Notification
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return results, nil
}
