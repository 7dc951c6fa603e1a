package notification

import "time"

// ContactInfo carries one party's display name and contact channels as
// gathered (possibly with fallbacks) by an orchestrator or scan. A party with
// neither email nor phone is silently skipped by the factory.
type ContactInfo struct {
	ID    string
	Name  string
	Email string
	Phone string
}

// HasAnyContact reports whether at least one contact channel is present.
func (c ContactInfo) HasAnyContact() bool {
	return c.Email != "" || c.Phone != ""
}

// ReminderKind distinguishes start from end reminders.
type ReminderKind string

const (
	ReminderStart ReminderKind = "start"
	ReminderEnd   ReminderKind = "end"
)

// BookingLegReminderData is the flat payload for one leg's reminder wave.
type BookingLegReminderData struct {
	BookingID      string
	LegID          string
	Kind           ReminderKind
	LegDate        time.Time
	LegStartTime   time.Time
	LegEndTime     time.Time
	PickupLocation string
	ReturnLocation string
	CarName        string
	Customer       ContactInfo
	Chauffeur      ContactInfo
}

// TripReminderData is the trip-level reminder payload (first pickup / final
// drop-off of the whole booking).
type TripReminderData struct {
	BookingID       string
	Kind            ReminderKind
	StartDate       time.Time
	EndDate         time.Time
	PickupLocation  string
	DropoffLocation string
	CarName         string
	Customer        ContactInfo
	Chauffeur       ContactInfo
}

// BookingStatusUpdateData announces a booking lifecycle transition to the
// customer.
type BookingStatusUpdateData struct {
	BookingID string
	NewStatus string
	CarName   string
	Customer  ContactInfo
}

// FleetOwnerAlertData informs a fleet owner about activity on one of their
// cars.
type FleetOwnerAlertData struct {
	BookingID string
	CarName   string
	Event     string
	Owner     ContactInfo
}

// OTPData carries a one-time password for account verification.
type OTPData struct {
	Code          string
	ExpiresInMins int
	User          ContactInfo
}

// WelcomeData greets a freshly registered user.
type WelcomeData struct {
	User ContactInfo
}

// LoginConfirmationData confirms a successful sign-in.
type LoginConfirmationData struct {
	User     ContactInfo
	Device   string
	SignedAt time.Time
}

// PayoutResultData reports a completed or failed payout to a fleet owner.
type PayoutResultData struct {
	BookingID string
	Amount    int64
	Currency  string
	Succeeded bool
	Reason    string
	Owner     ContactInfo
}
