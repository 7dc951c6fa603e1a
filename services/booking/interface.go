package booking

import (
	"context"
	"time"
)

// LegScanService finds booking legs whose reminder moment falls inside the
// lookahead window and pushes each one through the delivery pipeline.
type LegScanService interface {
	// ProcessStartReminders sends start reminders for eligible legs and
	// returns how many legs were processed.
	ProcessStartReminders(ctx context.Context, now time.Time) (int, error)
	// ProcessEndReminders is the end-of-leg counterpart.
	ProcessEndReminders(ctx context.Context, now time.Time) (int, error)
}

// LifecycleService performs the polled booking status transitions. The scans
// run on a fixed cadence, so a booking may stay in its prior status for up to
// one scan interval past the real-world trigger time.
type LifecycleService interface {
	// ActivateDueBookings moves CONFIRMED bookings whose first leg window has
	// started to ACTIVE and returns the transition count.
	ActivateDueBookings(ctx context.Context, now time.Time) (int, error)
	// CompleteDueBookings moves ACTIVE bookings past their end date to
	// COMPLETED and returns the transition count.
	CompleteDueBookings(ctx context.Context, now time.Time) (int, error)
}
