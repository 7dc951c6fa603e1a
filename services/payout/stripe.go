package payout

import (
	"context"
	"fmt"
	"time"

	"driveline/config"
	"driveline/database"
	"driveline/utils"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/transfer"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// pendingPayout is the persisted payout ledger row. The unique booking_id
// index is what makes InitiateTransfer idempotent.
type pendingPayout struct {
	ID        string    `bson:"id"`
	BookingID string    `bson:"booking_id"`
	OwnerID   string    `bson:"owner_id"`
	Amount    int64     `bson:"amount"`
	Currency  string    `bson:"currency"`
	Status    string    `bson:"status"`
	Reason    string    `bson:"reason,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

const (
	payoutPending = "pending"
	payoutDone    = "done"
	payoutFailed  = "failed"
)

// SettlementEvents is notified after each payout settles, one way or the
// other. Notification failures never affect the ledger.
type SettlementEvents interface {
	PayoutCompleted(ctx context.Context, bookingID, ownerID string, amount int64)
	PayoutFailed(ctx context.Context, bookingID, ownerID string, amount int64, reason string)
}

// StripePayoutService settles payouts through Stripe transfers, with the
// pending ledger kept in Mongo.
type StripePayoutService struct {
	coll *mongo.Collection
	// Events may be nil; settlement then happens silently.
	Events SettlementEvents
}

// NewStripePayoutService sets the global stripe key and prepares the ledger
// collection.
func NewStripePayoutService() *StripePayoutService {
	stripe.Key = config.AppConfig.StripeKey
	coll := database.MongoClient.Database("driveline").Collection("payouts")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "booking_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		utils.GetLogger().Warn("failed to create payout index", zap.Error(err))
	}
	return &StripePayoutService{coll: coll}
}

// InitiateTransfer records a pending payout. A duplicate booking id hits the
// unique index and is treated as already initiated.
func (s *StripePayoutService) InitiateTransfer(ctx context.Context, bookingID, ownerID string, amount int64) error {
	now := time.Now()
	row := pendingPayout{
		ID:        uuid.New().String(),
		BookingID: bookingID,
		OwnerID:   ownerID,
		Amount:    amount,
		Currency:  config.AppConfig.PayoutCurrency,
		Status:    payoutPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := s.coll.InsertOne(cctx, row); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.GetLogger().Info("payout already initiated", zap.String("booking_id", bookingID))
			return nil
		}
		return fmt.Errorf("failed to record payout for booking %s: %w", bookingID, err)
	}
	return nil
}

// ProcessPendingPayouts executes every pending transfer. A failure on one
// payout marks that row failed and the batch continues; the settled count is
// returned.
func (s *StripePayoutService) ProcessPendingPayouts(ctx context.Context) (int, error) {
	logger := utils.GetLogger()

	cctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cursor, err := s.coll.Find(cctx, bson.M{"status": payoutPending})
	if err != nil {
		return 0, fmt.Errorf("failed to load pending payouts: %w", err)
	}
	var rows []pendingPayout
	if err := cursor.All(cctx, &rows); err != nil {
		return 0, fmt.Errorf("failed to decode pending payouts: %w", err)
	}

	settled := 0
	for _, row := range rows {
		if err := s.transfer(row); err != nil {
			logger.Warn("payout transfer failed",
				zap.String("booking_id", row.BookingID),
				zap.String("owner_id", row.OwnerID),
				zap.Error(err),
			)
			s.markStatus(ctx, row.ID, payoutFailed, err.Error())
			if s.Events != nil {
				s.Events.PayoutFailed(ctx, row.BookingID, row.OwnerID, row.Amount, err.Error())
			}
			continue
		}
		s.markStatus(ctx, row.ID, payoutDone, "")
		if s.Events != nil {
			s.Events.PayoutCompleted(ctx, row.BookingID, row.OwnerID, row.Amount)
		}
		settled++
	}

	logger.Info("payout batch finished", zap.Int("pending", len(rows)), zap.Int("settled", settled))
	return settled, nil
}

func (s *StripePayoutService) transfer(row pendingPayout) error {
	params := &stripe.TransferParams{
		Amount:      stripe.Int64(row.Amount),
		Currency:    stripe.String(row.Currency),
		Destination: stripe.String(row.OwnerID),
	}
	params.SetIdempotencyKey("payout-" + row.BookingID)
	if _, err := transfer.New(params); err != nil {
		return fmt.Errorf("stripe transfer failed: %w", err)
	}
	return nil
}

func (s *StripePayoutService) markStatus(ctx context.Context, id, status, reason string) {
	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "reason": reason, "updated_at": time.Now()}}
	if _, err := s.coll.UpdateOne(cctx, bson.M{"id": id}, update); err != nil {
		utils.GetLogger().Error("failed to update payout status", zap.String("payout_id", id), zap.Error(err))
	}
}
