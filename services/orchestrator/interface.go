package orchestrator

import "context"

// Orchestrators are the engine's saga layer: each one reacts to exactly one
// domain event, reads from the collaborator domains with the settle-all
// strategy, and triggers the delivery pipeline. They keep no state of their
// own and are at-least-once relative to whatever delivers the event;
// idempotency of the final effect belongs to the collaborator domain.
//
// Handlers do not return errors except where silent failure would strand a
// user (OTP delivery): per-branch failures are caught, logged and isolated.

// BookingEvents reacts to booking lifecycle events.
type BookingEvents interface {
	BookingActivated(ctx context.Context, bookingID string)
	BookingCompleted(ctx context.Context, bookingID string)
	BookingCancelled(ctx context.Context, bookingID string)
	ChauffeurAssigned(ctx context.Context, bookingID, chauffeurID string)
	ChauffeurUnassigned(ctx context.Context, bookingID, chauffeurID string)
	PaymentVerified(ctx context.Context, bookingID string)
}

// AccountEvents reacts to user account events.
type AccountEvents interface {
	UserRegistered(ctx context.Context, userID string)
	UserLoggedIn(ctx context.Context, userID, device string)
	FleetOwnerApproved(ctx context.Context, ownerID string)
	// OTPGenerated re-throws on delivery failure: a silently dropped OTP
	// locks the user out, so infrastructure-level alerting must fire.
	OTPGenerated(ctx context.Context, userID, code string, expiresInMins int) error
}

// PayoutEvents reacts to payout settlement outcomes.
type PayoutEvents interface {
	PayoutCompleted(ctx context.Context, bookingID, ownerID string, amount int64)
	PayoutFailed(ctx context.Context, bookingID, ownerID string, amount int64, reason string)
}
