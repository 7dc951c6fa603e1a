package models

import "time"

// BookingLeg is one calendar day's segment of a multi-day booking. Legs are
// created once at booking-creation time and are immutable afterwards, except
// for the status field which mirrors the parent booking's activity.
type BookingLeg struct {
	ID             string        `bson:"id" json:"id"`
	BookingID      string        `bson:"booking_id" json:"booking_id"`
	LegDate        time.Time     `bson:"leg_date" json:"leg_date"`
	LegStartTime   time.Time     `bson:"leg_start_time" json:"leg_start_time"`
	LegEndTime     time.Time     `bson:"leg_end_time" json:"leg_end_time"`
	Status         BookingStatus `bson:"status" json:"status"`
	PickupLocation string        `bson:"pickup_location" json:"pickup_location"`
	ReturnLocation string        `bson:"return_location" json:"return_location"`
}
