package notification

import (
	"context"

	"driveline/models"
)

// EmailMessage is one outbound email.
type EmailMessage struct {
	To          string
	Subject     string
	HTMLContent string
	TextContent string
}

// SMSMessage is one outbound SMS/WhatsApp message.
type SMSMessage struct {
	To          string
	Message     string
	TemplateKey string
	Variables   map[string]string
}

// SendResult is the downstream sender's own success/failure signal. There is
// no local delivery deadline; failure is only ever detected through this.
type SendResult struct {
	Success   bool
	MessageID string
	Error     string
}

// EmailSender is the email transport collaborator contract.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) (SendResult, error)
	RenderTemplate(content models.NotificationContent) string
}

// SMSSender is the SMS/WhatsApp transport collaborator contract.
type SMSSender interface {
	Send(ctx context.Context, msg SMSMessage) (SendResult, error)
}

// NotificationService drives notification construction, persistence and
// channel-aware delivery, including batch processing and bounded retry.
type NotificationService interface {
	SendBookingLegReminder(ctx context.Context, data BookingLegReminderData) (string, error)
	SendTripReminder(ctx context.Context, data TripReminderData) (string, error)
	SendStatusUpdate(ctx context.Context, data BookingStatusUpdateData) (string, error)
	SendFleetOwnerAlert(ctx context.Context, data FleetOwnerAlertData) (string, error)
	SendOTP(ctx context.Context, data OTPData, role models.RecipientRole) (string, error)
	SendWelcome(ctx context.Context, data WelcomeData, role models.RecipientRole) (string, error)
	SendLoginConfirmation(ctx context.Context, data LoginConfirmationData, role models.RecipientRole) (string, error)
	SendPayoutResult(ctx context.Context, data PayoutResultData) (string, error)

	DeliverNotification(ctx context.Context, n *models.Notification) error
	ProcessPendingNotifications(ctx context.Context) error
	RetryFailedNotifications(ctx context.Context) error
}
