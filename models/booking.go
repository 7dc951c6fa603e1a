package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the booking lifecycle state.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingActive    BookingStatus = "ACTIVE"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// PaymentStatus tracks the payment side of a booking.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "UNPAID"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
	PaymentFailed   PaymentStatus = "FAILED"
)

// Booking is the rental aggregate. Status advances only through the defined
// transitions: PENDING -> CONFIRMED (payment capture) -> ACTIVE (first leg
// window entered) -> COMPLETED (end date reached); CANCELLED is reachable from
// PENDING or CONFIRMED only and is terminal. The CONFIRMED->ACTIVE and
// ACTIVE->COMPLETED transitions are driven by scheduled scans, not API calls.
type Booking struct {
	ID              string        `bson:"id" json:"id"`
	CustomerID      string        `bson:"customer_id" json:"customer_id"`
	CarID           string        `bson:"car_id" json:"car_id"`
	ChauffeurID     string        `bson:"chauffeur_id,omitempty" json:"chauffeur_id,omitempty"`
	StartDate       time.Time     `bson:"start_date" json:"start_date"`
	EndDate         time.Time     `bson:"end_date" json:"end_date"`
	PickupLocation  string        `bson:"pickup_location" json:"pickup_location"`
	DropoffLocation string        `bson:"dropoff_location" json:"dropoff_location"`
	Status          BookingStatus `bson:"status" json:"status"`
	PaymentStatus   PaymentStatus `bson:"payment_status" json:"payment_status"`
	TotalPriceCents int64         `bson:"total_price_cents" json:"total_price_cents"`
	Legs            []BookingLeg  `bson:"legs" json:"legs"`
	CreatedAt       time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `bson:"updated_at" json:"updated_at"`
}

// NewBooking creates a PENDING booking and splits its date range into
// day-granular legs. It fails unless endDate > startDate.
func NewBooking(customerID, carID string, startDate, endDate time.Time, pickup, dropoff string) (*Booking, error) {
	if !endDate.After(startDate) {
		return nil, fmt.Errorf("booking end date %s must be after start date %s", endDate.Format(time.RFC3339), startDate.Format(time.RFC3339))
	}
	now := time.Now()
	b := &Booking{
		ID:              uuid.New().String(),
		CustomerID:      customerID,
		CarID:           carID,
		StartDate:       startDate,
		EndDate:         endDate,
		PickupLocation:  pickup,
		DropoffLocation: dropoff,
		Status:          BookingPending,
		PaymentStatus:   PaymentUnpaid,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	b.Legs = splitIntoLegs(b)
	return b, nil
}

// splitIntoLegs cuts [StartDate, EndDate] into one leg per calendar day. Each
// leg is clamped to its day's boundaries, so legs never overlap. The first leg
// inherits the booking's pickup location and the last leg its drop-off
// location; intermediate legs start and end wherever the car already is.
// Day boundaries are local to the booking's start-date zone, not UTC.
func splitIntoLegs(b *Booking) []BookingLeg {
	var legs []BookingLeg

	loc := b.StartDate.Location()
	day := midnightOf(b.StartDate, loc)
	lastDay := midnightOf(b.EndDate, loc)

	for !day.After(lastDay) {
		nextDay := day.AddDate(0, 0, 1)

		start := day
		if b.StartDate.After(start) {
			start = b.StartDate
		}
		end := nextDay
		if b.EndDate.Before(end) {
			end = b.EndDate
		}

		leg := BookingLeg{
			ID:             uuid.New().String(),
			BookingID:      b.ID,
			LegDate:        day,
			LegStartTime:   start,
			LegEndTime:     end,
			Status:         b.Status,
			PickupLocation: b.PickupLocation,
			ReturnLocation: b.PickupLocation,
		}
		if day.Equal(lastDay) {
			leg.ReturnLocation = b.DropoffLocation
		}
		legs = append(legs, leg)
		day = nextDay
	}
	return legs
}

// midnightOf returns the start of t's calendar day in loc.
func midnightOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Confirm transitions PENDING -> CONFIRMED on payment capture.
func (b *Booking) Confirm() error {
	if b.Status != BookingPending {
		return fmt.Errorf("booking %s cannot be confirmed from status %s", b.ID, b.Status)
	}
	b.Status = BookingConfirmed
	b.PaymentStatus = PaymentPaid
	b.touch()
	return nil
}

// Activate transitions CONFIRMED -> ACTIVE. Invoked by the hourly lifecycle
// scan once the first leg's window has started.
func (b *Booking) Activate() error {
	if b.Status != BookingConfirmed {
		return fmt.Errorf("booking %s cannot be activated from status %s", b.ID, b.Status)
	}
	b.Status = BookingActive
	b.touch()
	return nil
}

// Complete transitions ACTIVE -> COMPLETED. Invoked by the hourly lifecycle
// scan once the booking's end date has passed.
func (b *Booking) Complete() error {
	if b.Status != BookingActive {
		return fmt.Errorf("booking %s cannot be completed from status %s", b.ID, b.Status)
	}
	b.Status = BookingCompleted
	b.touch()
	return nil
}

// Cancel transitions PENDING or CONFIRMED to CANCELLED. Cancellation is
// terminal.
func (b *Booking) Cancel() error {
	if b.Status != BookingPending && b.Status != BookingConfirmed {
		return fmt.Errorf("booking %s cannot be cancelled from status %s", b.ID, b.Status)
	}
	b.Status = BookingCancelled
	b.touch()
	return nil
}

// AssignChauffeur attaches a chauffeur to the booking.
func (b *Booking) AssignChauffeur(chauffeurID string) {
	b.ChauffeurID = chauffeurID
	b.UpdatedAt = time.Now()
}

// UnassignChauffeur detaches the current chauffeur.
func (b *Booking) UnassignChauffeur() {
	b.ChauffeurID = ""
	b.UpdatedAt = time.Now()
}

// HasChauffeur reports whether a chauffeur is assigned.
func (b *Booking) HasChauffeur() bool {
	return b.ChauffeurID != ""
}

// touch updates the timestamp and mirrors the booking status onto its legs.
func (b *Booking) touch() {
	b.UpdatedAt = time.Now()
	for i := range b.Legs {
		b.Legs[i].Status = b.Status
	}
}
