package notificationRepo

import (
	"fmt"
	"sort"
	"sync"

	"driveline/models"
)

// MemoryNotificationRepo is an in-memory NotificationRepository. It exists as
// a test double only; production deployments share state through Mongo.
type MemoryNotificationRepo struct {
	mu    sync.RWMutex
	items map[string]models.Notification
}

// NewMemoryNotificationRepo creates an empty in-memory repository.
func NewMemoryNotificationRepo() *MemoryNotificationRepo {
	return &MemoryNotificationRepo{items: make(map[string]models.Notification)}
}

// Save stores a copy of the notification keyed by id.
func (r *MemoryNotificationRepo) Save(n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[n.ID] = *n
	return nil
}

// GetByID retrieves a copy of the stored notification.
func (r *MemoryNotificationRepo) GetByID(id string) (*models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("notification with id %s not found", id)
	}
	return &n, nil
}

// FindPending retrieves all notifications in PENDING status.
func (r *MemoryNotificationRepo) FindPending() ([]*models.Notification, error) {
	return r.filter(func(n models.Notification) bool {
		return n.Status == models.NotificationPending
	}), nil
}

// FindRetryable retrieves all FAILED notifications with attempts remaining.
func (r *MemoryNotificationRepo) FindRetryable() ([]*models.Notification, error) {
	return r.filter(func(n models.Notification) bool {
		return n.Status == models.NotificationFailed && n.AttemptCount < models.MaxDeliveryAttempts
	}), nil
}

// FindByBookingID retrieves all notifications correlated with a booking.
func (r *MemoryNotificationRepo) FindByBookingID(bookingID string) ([]*models.Notification, error) {
	return r.filter(func(n models.Notification) bool {
		return n.BookingID == bookingID
	}), nil
}

func (r *MemoryNotificationRepo) filter(keep func(models.Notification) bool) []*models.Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.Notification
	for _, n := range r.items {
		if keep(n) {
			copied := n
			out = append(out, &copied)
		}
	}
	// Map iteration order is random; sort for predictable batch logs.
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
