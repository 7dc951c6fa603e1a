package orchestrator

import (
	"context"

	directoryRepo "driveline/database/repository/directory"
	"driveline/models"
	"driveline/services/notification"
	"driveline/utils"

	"go.uber.org/zap"
)

// DefaultPayoutOrchestrator implements PayoutEvents.
type DefaultPayoutOrchestrator struct {
	Users    directoryRepo.UserDirectory
	Notifier notification.NotificationService
	Currency string
}

func (o *DefaultPayoutOrchestrator) notifyOutcome(ctx context.Context, bookingID, ownerID string, amount int64, succeeded bool, reason string) {
	var ownerFetch utils.Settled[*models.UserProfile]
	utils.SettleAll(
		utils.Settle(&ownerFetch, func() (*models.UserProfile, error) { return o.Users.GetUserByID(ownerID) }),
	)
	owner := contactInfo(ownerFetch, fallbackOwnerName, ownerID)

	_, err := o.Notifier.SendPayoutResult(ctx, notification.PayoutResultData{
		BookingID: bookingID,
		Amount:    amount,
		Currency:  o.Currency,
		Succeeded: succeeded,
		Reason:    reason,
		Owner:     owner,
	})
	if err != nil {
		utils.GetLogger().Warn("orchestrator: payout result notification failed",
			zap.String("booking_id", bookingID),
			zap.String("owner_id", ownerID),
			zap.Bool("succeeded", succeeded),
			zap.Error(err),
		)
	}
}

// PayoutCompleted reports a settled transfer to the fleet owner.
func (o *DefaultPayoutOrchestrator) PayoutCompleted(ctx context.Context, bookingID, ownerID string, amount int64) {
	o.notifyOutcome(ctx, bookingID, ownerID, amount, true, "")
}

// PayoutFailed reports a failed transfer to the fleet owner.
func (o *DefaultPayoutOrchestrator) PayoutFailed(ctx context.Context, bookingID, ownerID string, amount int64, reason string) {
	o.notifyOutcome(ctx, bookingID, ownerID, amount, false, reason)
}
