package models

import "time"

// Job payloads are deliberately tiny: a type tag and a timestamp only. They
// carry no entity state, so processors re-derive the eligible bookings and
// legs at execution time and never act on data that went stale between
// enqueue and execution. This also makes every handler safe to run
// concurrently with itself.

// ReminderJobData is the payload of a reminder-emails queue job.
type ReminderJobData struct {
	Type        string    `json:"type"`
	TriggeredAt time.Time `json:"triggeredAt"`
}

// StatusUpdateJobData is the payload of a status-updates queue job.
type StatusUpdateJobData struct {
	Type        string    `json:"type"`
	TriggeredAt time.Time `json:"triggeredAt"`
}

// ProcessingJobData is the payload of a processing-jobs queue job.
type ProcessingJobData struct {
	Type        string    `json:"type"`
	TriggeredAt time.Time `json:"triggeredAt"`
}
