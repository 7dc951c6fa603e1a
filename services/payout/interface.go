package payout

import "context"

// PayoutService is the payout collaborator contract. Payouts are initiated
// when a booking completes and settled later by the processing queue's batch
// job. Idempotency of the transfer lives here, not in the orchestrator that
// triggers it: initiating the same booking's payout twice is a no-op.
type PayoutService interface {
	// InitiateTransfer records a pending payout for the booking. Calling it
	// again for the same booking does nothing.
	InitiateTransfer(ctx context.Context, bookingID, ownerID string, amount int64) error
	// ProcessPendingPayouts executes all recorded pending payouts and returns
	// how many were settled.
	ProcessPendingPayouts(ctx context.Context) (int, error)
}
