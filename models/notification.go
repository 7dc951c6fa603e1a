package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NotificationType tags what a notification is about.
type NotificationType string

const (
	NotificationLegStartReminder  NotificationType = "LEG_START_REMINDER"
	NotificationLegEndReminder    NotificationType = "LEG_END_REMINDER"
	NotificationTripStartReminder NotificationType = "TRIP_START_REMINDER"
	NotificationTripEndReminder   NotificationType = "TRIP_END_REMINDER"
	NotificationStatusUpdate      NotificationType = "STATUS_UPDATE"
	NotificationFleetOwnerAlert   NotificationType = "FLEET_OWNER_ALERT"
	NotificationOTP               NotificationType = "OTP"
	NotificationWelcome           NotificationType = "WELCOME"
	NotificationLoginConfirmation NotificationType = "LOGIN_CONFIRMATION"
	NotificationPayoutResult      NotificationType = "PAYOUT_RESULT"
)

// NotificationChannel selects the delivery transport(s).
type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "EMAIL"
	ChannelSMS   NotificationChannel = "SMS"
	ChannelBoth  NotificationChannel = "BOTH"
)

// NotificationStatus is the delivery lifecycle state.
type NotificationStatus string

const (
	NotificationPending   NotificationStatus = "PENDING"
	NotificationSent      NotificationStatus = "SENT"
	NotificationFailed    NotificationStatus = "FAILED"
	NotificationDelivered NotificationStatus = "DELIVERED"
)

// MaxDeliveryAttempts bounds retries per notification.
const MaxDeliveryAttempts = 3

// InvalidChannelError signals that the requested channel does not match the
// recipient's available contact methods. It is a construction-time contract
// violation and is never retried.
type InvalidChannelError struct {
	Channel     NotificationChannel
	RecipientID string
	Missing     string
}

func (e *InvalidChannelError) Error() string {
	return fmt.Sprintf("channel %s requires %s, but recipient %s has none", e.Channel, e.Missing, e.RecipientID)
}

// RetryExhaustedError signals that a notification cannot be retried, either
// because the attempt budget is consumed or because it is not in FAILED state.
// The two causes are distinguished for observability.
type RetryExhaustedError struct {
	NotificationID string
	AttemptCount   int
	Status         NotificationStatus
}

func (e *RetryExhaustedError) Error() string {
	if e.Status != NotificationFailed {
		return fmt.Sprintf("notification %s cannot be retried: status is %s, not FAILED", e.NotificationID, e.Status)
	}
	return fmt.Sprintf("notification %s cannot be retried: %d of %d attempts used", e.NotificationID, e.AttemptCount, MaxDeliveryAttempts)
}

// Notification represents one attempt to inform one recipient. It is mutated
// only through its own state-transition methods and is never deleted; FAILED
// (with attempts exhausted) and DELIVERED are the terminal states.
type Notification struct {
	ID            string              `bson:"id" json:"id"`
	Type          NotificationType    `bson:"type" json:"type"`
	Recipient     Recipient           `bson:"recipient" json:"recipient"`
	Content       NotificationContent `bson:"content" json:"content"`
	Channel       NotificationChannel `bson:"channel" json:"channel"`
	Status        NotificationStatus  `bson:"status" json:"status"`
	AttemptCount  int                 `bson:"attempt_count" json:"attempt_count"`
	LastAttemptAt *time.Time          `bson:"last_attempt_at,omitempty" json:"last_attempt_at,omitempty"`
	SentAt        *time.Time          `bson:"sent_at,omitempty" json:"sent_at,omitempty"`
	DeliveredAt   *time.Time          `bson:"delivered_at,omitempty" json:"delivered_at,omitempty"`
	FailureReason string              `bson:"failure_reason,omitempty" json:"failure_reason,omitempty"`
	BookingID     string              `bson:"booking_id,omitempty" json:"booking_id,omitempty"`
	BookingLegID  string              `bson:"booking_leg_id,omitempty" json:"booking_leg_id,omitempty"`
	CreatedAt     time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time           `bson:"updated_at" json:"updated_at"`
}

// NewNotification creates a PENDING notification. It fails with
// InvalidChannelError when the recipient lacks the contact method(s) the
// channel requires.
func NewNotification(
	nType NotificationType,
	recipient Recipient,
	content NotificationContent,
	channel NotificationChannel,
	bookingID, bookingLegID string,
) (*Notification, error) {
	switch channel {
	case ChannelEmail:
		if !recipient.HasEmail() {
			return nil, &InvalidChannelError{Channel: channel, RecipientID: recipient.ID, Missing: "an email address"}
		}
	case ChannelSMS:
		if !recipient.HasPhone() {
			return nil, &InvalidChannelError{Channel: channel, RecipientID: recipient.ID, Missing: "a phone number"}
		}
	case ChannelBoth:
		if !recipient.HasEmail() || !recipient.HasPhone() {
			return nil, &InvalidChannelError{Channel: channel, RecipientID: recipient.ID, Missing: "both an email address and a phone number"}
		}
	default:
		return nil, fmt.Errorf("unknown notification channel: %s", channel)
	}

	now := time.Now()
	return &Notification{
		ID:           uuid.New().String(),
		Type:         nType,
		Recipient:    recipient,
		Content:      content,
		Channel:      channel,
		Status:       NotificationPending,
		BookingID:    bookingID,
		BookingLegID: bookingLegID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// RecordAttempt increments the attempt counter and stamps the attempt time.
// It is called before every delivery attempt, regardless of outcome.
func (n *Notification) RecordAttempt() {
	now := time.Now()
	n.AttemptCount++
	n.LastAttemptAt = &now
	n.UpdatedAt = now
}

// MarkSent transitions PENDING -> SENT.
func (n *Notification) MarkSent() error {
	if n.Status != NotificationPending {
		return fmt.Errorf("notification %s cannot be marked sent from status %s", n.ID, n.Status)
	}
	now := time.Now()
	n.Status = NotificationSent
	n.SentAt = &now
	n.UpdatedAt = now
	return nil
}

// MarkDelivered transitions SENT -> DELIVERED.
func (n *Notification) MarkDelivered() error {
	if n.Status != NotificationSent {
		return fmt.Errorf("notification %s cannot be marked delivered from status %s", n.ID, n.Status)
	}
	now := time.Now()
	n.Status = NotificationDelivered
	n.DeliveredAt = &now
	n.UpdatedAt = now
	return nil
}

// MarkFailed records a delivery failure. A non-empty reason is required and
// the notification must not already be in a terminal state.
func (n *Notification) MarkFailed(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("notification %s: failure reason must not be empty", n.ID)
	}
	if n.Status == NotificationDelivered {
		return fmt.Errorf("notification %s cannot fail: already delivered", n.ID)
	}
	if n.Status == NotificationFailed && !n.CanRetry() {
		return fmt.Errorf("notification %s cannot fail: already terminally failed", n.ID)
	}
	now := time.Now()
	n.Status = NotificationFailed
	n.FailureReason = reason
	n.LastAttemptAt = &now
	n.UpdatedAt = now
	return nil
}

// CanRetry reports whether a retry is permitted.
func (n *Notification) CanRetry() bool {
	return n.Status == NotificationFailed && n.AttemptCount < MaxDeliveryAttempts
}

// Retry resets a failed notification to PENDING and clears the failure
// reason. It fails with RetryExhaustedError when retry is not permitted.
func (n *Notification) Retry() error {
	if !n.CanRetry() {
		return &RetryExhaustedError{
			NotificationID: n.ID,
			AttemptCount:   n.AttemptCount,
			Status:         n.Status,
		}
	}
	n.Status = NotificationPending
	n.FailureReason = ""
	n.UpdatedAt = time.Now()
	return nil
}

// NeedsEmailDelivery reports whether the email transport must be exercised.
func (n *Notification) NeedsEmailDelivery() bool {
	return n.Channel == ChannelEmail || n.Channel == ChannelBoth
}

// NeedsSMSDelivery reports whether the SMS transport must be exercised.
func (n *Notification) NeedsSMSDelivery() bool {
	return n.Channel == ChannelSMS || n.Channel == ChannelBoth
}
