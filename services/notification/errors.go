package notification

import (
	"fmt"
	"strings"
)

// EmailDeliveryError signals a transient email transport failure. It drives
// the notification to FAILED and is eligible for bounded retry.
type EmailDeliveryError struct {
	NotificationID string
	Reason         string
}

func (e *EmailDeliveryError) Error() string {
	return fmt.Sprintf("email delivery failed for notification %s: %s", e.NotificationID, e.Reason)
}

// SMSDeliveryError is the SMS counterpart of EmailDeliveryError.
type SMSDeliveryError struct {
	NotificationID string
	Reason         string
}

func (e *SMSDeliveryError) Error() string {
	return fmt.Sprintf("sms delivery failed for notification %s: %s", e.NotificationID, e.Reason)
}

// BatchProcessingError aggregates per-item failures after a full batch pass.
// It is only raised once every item in the batch has been attempted.
type BatchProcessingError struct {
	Succeeded int
	Failed    int
	Errors    []string
}

func (e *BatchProcessingError) Error() string {
	return fmt.Sprintf("batch processing finished with %d succeeded, %d failed: %s",
		e.Succeeded, e.Failed, strings.Join(e.Errors, "; "))
}
