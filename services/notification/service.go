package notification

import (
	"context"
	"fmt"

	notificationRepo "driveline/database/repository/notification"
	"driveline/models"
	"driveline/utils"

	"go.uber.org/zap"
)

// DefaultNotificationService is the production implementation of
// NotificationService.
type DefaultNotificationService struct {
	Repo  notificationRepo.NotificationRepository
	Email EmailSender
	SMS   SMSSender
}

// NewDefaultNotificationService wires the delivery pipeline.
func NewDefaultNotificationService(
	repo notificationRepo.NotificationRepository,
	email EmailSender,
	sms SMSSender,
) (*DefaultNotificationService, error) {
	if repo == nil || email == nil || sms == nil {
		return nil, fmt.Errorf("notification service initialization error: repository or sender is nil")
	}
	return &DefaultNotificationService{Repo: repo, Email: email, SMS: sms}, nil
}

// sendAll persists and delivers a freshly built batch. Persistence or
// delivery failure fails the whole call with the first error, but siblings
// that already went out are not rolled back: delivery is at-most-once per
// attempt, not an atomic batch.
func (s *DefaultNotificationService) sendAll(ctx context.Context, kind string, batch []*models.Notification) (string, error) {
	if len(batch) == 0 {
		return fmt.Sprintf("no reachable recipients for %s, nothing sent", kind), nil
	}

	for _, n := range batch {
		if err := s.Repo.Save(n); err != nil {
			return "", fmt.Errorf("failed to persist %s notification: %w", kind, err)
		}
	}
	for _, n := range batch {
		if err := s.DeliverNotification(ctx, n); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("sent %d %s notification(s)", len(batch), kind), nil
}

func (s *DefaultNotificationService) SendBookingLegReminder(ctx context.Context, data BookingLegReminderData) (string, error) {
	batch, err := BuildLegReminder(data)
	if err != nil {
		return "", err
	}
	return s.sendAll(ctx, fmt.Sprintf("leg %s reminder", data.Kind), batch)
}

func (s *DefaultNotificationService) SendTripReminder(ctx context.Context, data TripReminderData) (string, error) {
	batch, err := BuildTripReminder(data)
	if err != nil {
		return "", err
	}
	return s.sendAll(ctx, fmt.Sprintf("trip %s reminder", data.Kind), batch)
}

func (s *DefaultNotificationService) SendStatusUpdate(ctx context.Context, data BookingStatusUpdateData) (string, error) {
	batch, err := BuildStatusUpdate(data)
	if err != nil {
		return "", err
	}
	return s.sendAll(ctx, "status update", batch)
}

func (s *DefaultNotificationService) SendFleetOwnerAlert(ctx context.Context, data FleetOwnerAlertData) (string, error) {
	batch, err := BuildFleetOwnerAlert(data)
	if err != nil {
		return "", err
	}
	return s.sendAll(ctx, "fleet owner alert", batch)
}

func (s *DefaultNotificationService) SendOTP(ctx context.Context, data OTPData, role models.RecipientRole) (string, error) {
	batch, err := BuildOTP(data, role)
	if err != nil {
		return "", err
	}
	return s.sendAll(ctx, "OTP", batch)
}

func (s *DefaultNotificationService) SendWelcome(ctx context.Context, data WelcomeData, role models.RecipientRole) (string, error) {
	batch, err := BuildWelcome(data, role)
	if err != nil {
		return "", err
	}
	return s.sendAll(ctx, "welcome", batch)
}

func (s *DefaultNotificationService) SendLoginConfirmation(ctx context.Context, data LoginConfirmationData, role models.RecipientRole) (string, error) {
	batch, err := BuildLoginConfirmation(data, role)
	if err != nil {
		return "", err
	}
	return s.sendAll(ctx, "login confirmation", batch)
}

func (s *DefaultNotificationService) SendPayoutResult(ctx context.Context, data PayoutResultData) (string, error) {
	batch, err := BuildPayoutResult(data)
	if err != nil {
		return "", err
	}
	return s.sendAll(ctx, "payout result", batch)
}

// DeliverNotification performs one delivery attempt. The attempt is recorded
// before any transport is touched, regardless of outcome. Content is
// interpolated exactly once per attempt, from the stored original.
func (s *DefaultNotificationService) DeliverNotification(ctx context.Context, n *models.Notification) error {
	logger := utils.GetLogger()

	n.RecordAttempt()
	content := n.Content.Interpolate()

	if n.NeedsEmailDelivery() {
		if err := s.deliverEmail(ctx, n, content); err != nil {
			return s.failAndPersist(n, err)
		}
	}
	if n.NeedsSMSDelivery() {
		if err := s.deliverSMS(ctx, n, content); err != nil {
			return s.failAndPersist(n, err)
		}
	}

	if err := n.MarkSent(); err != nil {
		return s.failAndPersist(n, err)
	}
	if err := s.Repo.Save(n); err != nil {
		return fmt.Errorf("failed to persist sent notification %s: %w", n.ID, err)
	}

	logger.Info("notification sent",
		zap.String("notification_id", n.ID),
		zap.String("type", string(n.Type)),
		zap.String("channel", string(n.Channel)),
		zap.Int("attempt", n.AttemptCount),
	)
	return nil
}

func (s *DefaultNotificationService) deliverEmail(ctx context.Context, n *models.Notification, content models.NotificationContent) error {
	if !n.Recipient.HasEmail() {
		return &EmailDeliveryError{NotificationID: n.ID, Reason: "recipient has no email address"}
	}
	result, err := s.Email.Send(ctx, EmailMessage{
		To:          n.Recipient.Email,
		Subject:     content.Subject,
		HTMLContent: s.Email.RenderTemplate(content),
		TextContent: content.Body,
	})
	if err != nil {
		return &EmailDeliveryError{NotificationID: n.ID, Reason: err.Error()}
	}
	if !result.Success {
		return &EmailDeliveryError{NotificationID: n.ID, Reason: result.Error}
	}
	return nil
}

func (s *DefaultNotificationService) deliverSMS(ctx context.Context, n *models.Notification, content models.NotificationContent) error {
	if !n.Recipient.HasPhone() {
		return &SMSDeliveryError{NotificationID: n.ID, Reason: "recipient has no phone number"}
	}
	result, err := s.SMS.Send(ctx, SMSMessage{
		To:      n.Recipient.Phone,
		Message: content.Body,
	})
	if err != nil {
		return &SMSDeliveryError{NotificationID: n.ID, Reason: err.Error()}
	}
	if !result.Success {
		return &SMSDeliveryError{NotificationID: n.ID, Reason: result.Error}
	}
	return nil
}

// failAndPersist drives the notification to FAILED, persists it and returns
// the original delivery error to the caller.
func (s *DefaultNotificationService) failAndPersist(n *models.Notification, cause error) error {
	logger := utils.GetLogger()

	if err := n.MarkFailed(cause.Error()); err != nil {
		logger.Error("failed to mark notification as failed",
			zap.String("notification_id", n.ID), zap.Error(err))
	}
	if err := s.Repo.Save(n); err != nil {
		logger.Error("failed to persist failed notification",
			zap.String("notification_id", n.ID), zap.Error(err))
	}

	logger.Warn("notification delivery failed",
		zap.String("notification_id", n.ID),
		zap.String("type", string(n.Type)),
		zap.Int("attempt", n.AttemptCount),
		zap.Error(cause),
	)
	return cause
}

// ProcessPendingNotifications attempts delivery for every PENDING
// notification independently. Individual failures never abort the batch; a
// single BatchProcessingError with per-item messages and counts is raised
// only after the whole batch has been attempted. Iteration is sequential on
// purpose: one bad recipient cannot block the wave, and the log/outcome order
// stays predictable.
func (s *DefaultNotificationService) ProcessPendingNotifications(ctx context.Context) error {
	pending, err := s.Repo.FindPending()
	if err != nil {
		return fmt.Errorf("failed to load pending notifications: %w", err)
	}
	return s.deliverBatch(ctx, pending, nil)
}

// RetryFailedNotifications resets every retryable notification to PENDING and
// re-attempts delivery, with the same all-attempt-before-throw discipline.
func (s *DefaultNotificationService) RetryFailedNotifications(ctx context.Context) error {
	retryable, err := s.Repo.FindRetryable()
	if err != nil {
		return fmt.Errorf("failed to load retryable notifications: %w", err)
	}
	return s.deliverBatch(ctx, retryable, func(n *models.Notification) error {
		return n.Retry()
	})
}

func (s *DefaultNotificationService) deliverBatch(ctx context.Context, batch []*models.Notification, prepare func(*models.Notification) error) error {
	var (
		succeeded int
		failed    int
		errMsgs   []string
	)

	for _, n := range batch {
		if prepare != nil {
			if err := prepare(n); err != nil {
				failed++
				errMsgs = append(errMsgs, err.Error())
				continue
			}
		}
		if err := s.DeliverNotification(ctx, n); err != nil {
			failed++
			errMsgs = append(errMsgs, err.Error())
			continue
		}
		succeeded++
	}

	if failed > 0 {
		return &BatchProcessingError{Succeeded: succeeded, Failed: failed, Errors: errMsgs}
	}
	return nil
}
