package bookingRepo

import (
	"time"

	"driveline/models"
)

// TimeWindow is a half-open interval [From, To) used by the reminder scans.
type TimeWindow struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the window.
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// BookingRepository defines the booking read/scan contract the engine
// consumes. Booking writes beyond status transitions belong to the booking
// API, which is outside this engine.
type BookingRepository interface {
	// Create inserts a new booking with its legs.
	Create(b *models.Booking) error
	// FindByID retrieves a booking by its unique id.
	FindByID(id string) (*models.Booking, error)
	// UpdateStatus persists a booking's current status, mirrored legs included.
	UpdateStatus(b *models.Booking) error
	// FindLegsStartingInWindow returns legs whose start time falls in the window,
	// joined with their parent booking.
	FindLegsStartingInWindow(window TimeWindow) ([]LegWithBooking, error)
	// FindLegsEndingInWindow returns legs whose end time falls in the window.
	FindLegsEndingInWindow(window TimeWindow) ([]LegWithBooking, error)
	// FindEligibleForActivation returns CONFIRMED+PAID bookings whose first leg
	// window has already started.
	FindEligibleForActivation(now time.Time) ([]*models.Booking, error)
	// FindEligibleForCompletion returns ACTIVE bookings whose end date has passed.
	FindEligibleForCompletion(now time.Time) ([]*models.Booking, error)
}

// LegWithBooking pairs a leg with its parent booking so window scans can
// check booking-level preconditions without a second lookup.
type LegWithBooking struct {
	Leg     models.BookingLeg
	Booking *models.Booking
}
