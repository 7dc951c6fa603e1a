package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"driveline/models"

	"github.com/hibiken/asynq"
)

// Queue names. The worker drains them by weight: reminders first, then
// status updates, then background processing.
const (
	QueueReminders     = "reminder-emails"
	QueueStatusUpdates = "status-updates"
	QueueProcessing    = "processing-jobs"
)

// Task types, one per scheduled job. The trip-level names are legacy aliases
// kept for operational replay; they are routed to the leg-based handlers.
const (
	TypeLegStartReminder  = "booking-leg-start-reminder"
	TypeLegEndReminder    = "booking-leg-end-reminder"
	TypeTripStartReminder = "booking-start-reminder"
	TypeTripEndReminder   = "booking-end-reminder"

	TypeConfirmedToActive = "confirmed-to-active"
	TypeActiveToCompleted = "active-to-completed"

	TypeProcessPendingPayouts       = "process-pending-payouts"
	TypeProcessPendingNotifications = "process-pending-notifications"
)

// Retry budgets and backoff bases. RetryDelay implements delay * 2^attempt.
const (
	DefaultMaxRetry = 3
	PayoutMaxRetry  = 5

	defaultBackoffBase = 2000 * time.Millisecond
	payoutBackoffBase  = 5000 * time.Millisecond
)

// RetryDelay is the queue-wide backoff policy, wired into the asynq server
// config. Payout processing backs off more slowly than the rest.
func RetryDelay(n int, _ error, t *asynq.Task) time.Duration {
	base := defaultBackoffBase
	if t.Type() == TypeProcessPendingPayouts {
		base = payoutBackoffBase
	}
	return base * time.Duration(1<<n)
}

func queueFor(taskType string) string {
	switch taskType {
	case TypeLegStartReminder, TypeLegEndReminder, TypeTripStartReminder, TypeTripEndReminder:
		return QueueReminders
	case TypeConfirmedToActive, TypeActiveToCompleted:
		return QueueStatusUpdates
	default:
		return QueueProcessing
	}
}

func maxRetryFor(taskType string) int {
	if taskType == TypeProcessPendingPayouts {
		return PayoutMaxRetry
	}
	return DefaultMaxRetry
}

func payloadFor(taskType string, triggeredAt time.Time) ([]byte, error) {
	switch queueFor(taskType) {
	case QueueReminders:
		return json.Marshal(models.ReminderJobData{Type: taskType, TriggeredAt: triggeredAt})
	case QueueStatusUpdates:
		return json.Marshal(models.StatusUpdateJobData{Type: taskType, TriggeredAt: triggeredAt})
	default:
		return json.Marshal(models.ProcessingJobData{Type: taskType, TriggeredAt: triggeredAt})
	}
}

// NewScheduledTask builds a cron-produced task. The task ID is derived from
// the task type and the trigger hour, so overlapping scheduler instances
// enqueue each job at most once per interval.
func NewScheduledTask(taskType string, triggeredAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := payloadFor(taskType, triggeredAt)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(taskType, b)
	opts := []asynq.Option{
		asynq.Queue(queueFor(taskType)),
		asynq.MaxRetry(maxRetryFor(taskType)),
		asynq.TaskID(fmt.Sprintf("%s:%d", taskType, triggeredAt.Truncate(time.Hour).Unix())),
		asynq.Timeout(10 * time.Minute),
	}
	return task, opts, nil
}

// NewManualTask builds an operator-triggered task. Manual triggers reuse the
// scheduled payload shape but skip the dedup ID (replays must always
// enqueue) and get no automatic retries: the operator is watching.
func NewManualTask(taskType string, triggeredAt time.Time) (*asynq.Task, []asynq.Option, error) {
	if !KnownType(taskType) {
		return nil, nil, fmt.Errorf("unknown job type: %s", taskType)
	}
	b, err := payloadFor(taskType, triggeredAt)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(taskType, b)
	opts := []asynq.Option{
		asynq.Queue(queueFor(taskType)),
		asynq.MaxRetry(0),
		asynq.Timeout(10 * time.Minute),
	}
	return task, opts, nil
}

// KnownType reports whether taskType names a schedulable job.
func KnownType(taskType string) bool {
	switch taskType {
	case TypeLegStartReminder, TypeLegEndReminder,
		TypeTripStartReminder, TypeTripEndReminder,
		TypeConfirmedToActive, TypeActiveToCompleted,
		TypeProcessPendingPayouts, TypeProcessPendingNotifications:
		return true
	}
	return false
}
