package notificationRepo

import "driveline/models"

// NotificationRepository defines methods for notification persistence. Every
// write goes through Save, keyed by notification id, last writer wins; the
// state machine on the entity itself guards against invalid transitions.
type NotificationRepository interface {
	// Save inserts or replaces a notification by its id.
	Save(n *models.Notification) error
	// GetByID retrieves a notification by its unique id.
	GetByID(id string) (*models.Notification, error)
	// FindPending retrieves all notifications in PENDING status.
	FindPending() ([]*models.Notification, error)
	// FindRetryable retrieves all FAILED notifications with attempts remaining.
	FindRetryable() ([]*models.Notification, error)
	// FindByBookingID retrieves all notifications correlated with a booking.
	FindByBookingID(bookingID string) ([]*models.Notification, error)
}
