package orchestrator

import (
	"context"
	"fmt"
	"time"

	directoryRepo "driveline/database/repository/directory"
	"driveline/models"
	"driveline/services/notification"
	"driveline/utils"

	"go.uber.org/zap"
)

// DefaultAccountOrchestrator implements AccountEvents.
type DefaultAccountOrchestrator struct {
	Users    directoryRepo.UserDirectory
	Notifier notification.NotificationService
}

func (o *DefaultAccountOrchestrator) loadUser(event, userID string) *models.UserProfile {
	u, err := o.Users.GetUserByID(userID)
	if err != nil {
		utils.GetLogger().Warn("orchestrator: user not found, dropping event",
			zap.String("event", event),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil
	}
	return u
}

func userContact(u *models.UserProfile) notification.ContactInfo {
	return notification.ContactInfo{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

// UserRegistered sends the welcome notification.
func (o *DefaultAccountOrchestrator) UserRegistered(ctx context.Context, userID string) {
	u := o.loadUser("user.registered", userID)
	if u == nil {
		return
	}
	_, err := o.Notifier.SendWelcome(ctx, notification.WelcomeData{User: userContact(u)}, u.Role)
	if err != nil {
		utils.GetLogger().Warn("orchestrator: welcome notification failed",
			zap.String("user_id", userID), zap.Error(err))
	}
}

// UserLoggedIn sends the sign-in confirmation.
func (o *DefaultAccountOrchestrator) UserLoggedIn(ctx context.Context, userID, device string) {
	u := o.loadUser("user.logged_in", userID)
	if u == nil {
		return
	}
	_, err := o.Notifier.SendLoginConfirmation(ctx, notification.LoginConfirmationData{
		User:     userContact(u),
		Device:   device,
		SignedAt: time.Now(),
	}, u.Role)
	if err != nil {
		utils.GetLogger().Warn("orchestrator: login confirmation failed",
			zap.String("user_id", userID), zap.Error(err))
	}
}

// FleetOwnerApproved congratulates a fleet owner on passing review.
func (o *DefaultAccountOrchestrator) FleetOwnerApproved(ctx context.Context, ownerID string) {
	u := o.loadUser("fleet_owner.approved", ownerID)
	if u == nil {
		return
	}
	_, err := o.Notifier.SendFleetOwnerAlert(ctx, notification.FleetOwnerAlertData{
		Event: "your fleet owner account has been approved",
		Owner: userContact(u),
	})
	if err != nil {
		utils.GetLogger().Warn("orchestrator: fleet owner approval notice failed",
			zap.String("owner_id", ownerID), zap.Error(err))
	}
}

// OTPGenerated delivers a one-time password. Unlike the other handlers it
// re-throws delivery failure: a dropped OTP locks the user out, so the event
// must be marked failed for infrastructure-level alerting.
func (o *DefaultAccountOrchestrator) OTPGenerated(ctx context.Context, userID, code string, expiresInMins int) error {
	u := o.loadUser("otp.generated", userID)
	if u == nil {
		return fmt.Errorf("otp delivery failed: user %s not found", userID)
	}
	_, err := o.Notifier.SendOTP(ctx, notification.OTPData{
		Code:          code,
		ExpiresInMins: expiresInMins,
		User:          userContact(u),
	}, u.Role)
	if err != nil {
		return fmt.Errorf("otp delivery failed for user %s: %w", userID, err)
	}
	return nil
}
