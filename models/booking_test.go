package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBooking_rejectsInvertedDates(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	_, err := NewBooking("c1", "car1", start, start, "Airport", "Downtown")
	require.Error(t, err)

	_, err = NewBooking("c1", "car1", start, start.Add(-time.Hour), "Airport", "Downtown")
	require.Error(t, err)
}

func TestNewBooking_splitsThreeDayRangeIntoThreeLegs(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 12, 17, 0, 0, 0, time.UTC)

	b, err := NewBooking("c1", "car1", start, end, "Airport", "Downtown")
	require.NoError(t, err)
	require.Len(t, b.Legs, 3)

	// One leg per calendar day, clamped to the booking's own boundaries.
	assert.Equal(t, start, b.Legs[0].LegStartTime)
	assert.Equal(t, end, b.Legs[2].LegEndTime)
	for i, leg := range b.Legs {
		assert.Equal(t, b.ID, leg.BookingID)
		expectedDay := time.Date(2026, 3, 10+i, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, expectedDay, leg.LegDate)
		assert.True(t, leg.LegEndTime.After(leg.LegStartTime))
	}

	// Legs never overlap.
	for i := 1; i < len(b.Legs); i++ {
		assert.False(t, b.Legs[i].LegStartTime.Before(b.Legs[i-1].LegEndTime))
	}

	// First leg picks up at the booking's pickup, last returns at the drop-off.
	assert.Equal(t, "Airport", b.Legs[0].PickupLocation)
	assert.Equal(t, "Airport", b.Legs[0].ReturnLocation)
	assert.Equal(t, "Airport", b.Legs[1].ReturnLocation)
	assert.Equal(t, "Downtown", b.Legs[2].ReturnLocation)
}

func TestNewBooking_splitsOnLocalCalendarDays(t *testing.T) {
	// 01:00 local on Jan 1 is still Dec 31 in UTC; the split must follow
	// the booking's own calendar, not UTC midnights.
	loc := time.FixedZone("UTC+5", 5*60*60)
	start := time.Date(2026, 1, 1, 1, 0, 0, 0, loc)
	end := time.Date(2026, 1, 3, 23, 0, 0, 0, loc)

	b, err := NewBooking("c1", "car1", start, end, "Airport", "Downtown")
	require.NoError(t, err)
	require.Len(t, b.Legs, 3)

	assert.Equal(t, start, b.Legs[0].LegStartTime)
	assert.Equal(t, end, b.Legs[2].LegEndTime)
	for i, leg := range b.Legs {
		expectedDay := time.Date(2026, 1, 1+i, 0, 0, 0, 0, loc)
		assert.True(t, expectedDay.Equal(leg.LegDate), "leg %d date %s", i, leg.LegDate)
	}
}

func TestNewBooking_sameDayBookingHasOneLeg(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)

	b, err := NewBooking("c1", "car1", start, end, "Airport", "Downtown")
	require.NoError(t, err)
	require.Len(t, b.Legs, 1)
	assert.Equal(t, start, b.Legs[0].LegStartTime)
	assert.Equal(t, end, b.Legs[0].LegEndTime)
	assert.Equal(t, "Downtown", b.Legs[0].ReturnLocation)
}

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	b, err := NewBooking("c1", "car1", start, start.Add(48*time.Hour), "Airport", "Downtown")
	require.NoError(t, err)
	return b
}

func TestBooking_lifecycleTransitions(t *testing.T) {
	b := newTestBooking(t)
	assert.Equal(t, BookingPending, b.Status)
	assert.Equal(t, PaymentUnpaid, b.PaymentStatus)

	// Scans may not activate or complete a booking that was never confirmed.
	require.Error(t, b.Activate())
	require.Error(t, b.Complete())

	require.NoError(t, b.Confirm())
	assert.Equal(t, BookingConfirmed, b.Status)
	assert.Equal(t, PaymentPaid, b.PaymentStatus)
	require.Error(t, b.Confirm())

	require.NoError(t, b.Activate())
	assert.Equal(t, BookingActive, b.Status)
	require.Error(t, b.Cancel())

	require.NoError(t, b.Complete())
	assert.Equal(t, BookingCompleted, b.Status)
	require.Error(t, b.Complete())
}

func TestBooking_cancelOnlyBeforeActive(t *testing.T) {
	b := newTestBooking(t)
	require.NoError(t, b.Cancel())
	assert.Equal(t, BookingCancelled, b.Status)
	require.Error(t, b.Confirm())

	b2 := newTestBooking(t)
	require.NoError(t, b2.Confirm())
	require.NoError(t, b2.Cancel())
	assert.Equal(t, BookingCancelled, b2.Status)
}

func TestBooking_transitionsMirrorOntoLegs(t *testing.T) {
	b := newTestBooking(t)
	require.NoError(t, b.Confirm())
	require.NoError(t, b.Activate())
	for _, leg := range b.Legs {
		assert.Equal(t, BookingActive, leg.Status)
	}
}

func TestBooking_chauffeurAssignment(t *testing.T) {
	b := newTestBooking(t)
	assert.False(t, b.HasChauffeur())

	b.AssignChauffeur("ch1")
	assert.True(t, b.HasChauffeur())
	assert.Equal(t, "ch1", b.ChauffeurID)

	b.UnassignChauffeur()
	assert.False(t, b.HasChauffeur())
}
