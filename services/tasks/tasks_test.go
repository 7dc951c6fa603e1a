package tasks

import (
	"encoding/json"
	"testing"
	"time"

	"driveline/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFor_routesByTaskFamily(t *testing.T) {
	assert.Equal(t, QueueReminders, queueFor(TypeLegStartReminder))
	assert.Equal(t, QueueReminders, queueFor(TypeLegEndReminder))
	assert.Equal(t, QueueReminders, queueFor(TypeTripStartReminder))
	assert.Equal(t, QueueReminders, queueFor(TypeTripEndReminder))
	assert.Equal(t, QueueStatusUpdates, queueFor(TypeConfirmedToActive))
	assert.Equal(t, QueueStatusUpdates, queueFor(TypeActiveToCompleted))
	assert.Equal(t, QueueProcessing, queueFor(TypeProcessPendingPayouts))
	assert.Equal(t, QueueProcessing, queueFor(TypeProcessPendingNotifications))
}

func TestMaxRetryFor_payoutsGetLargerBudget(t *testing.T) {
	assert.Equal(t, PayoutMaxRetry, maxRetryFor(TypeProcessPendingPayouts))
	assert.Equal(t, DefaultMaxRetry, maxRetryFor(TypeLegStartReminder))
	assert.Equal(t, DefaultMaxRetry, maxRetryFor(TypeProcessPendingNotifications))
}

func TestRetryDelay_exponentialBackoff(t *testing.T) {
	reminder := asynq.NewTask(TypeLegStartReminder, nil)
	assert.Equal(t, 2*time.Second, RetryDelay(0, nil, reminder))
	assert.Equal(t, 4*time.Second, RetryDelay(1, nil, reminder))
	assert.Equal(t, 16*time.Second, RetryDelay(3, nil, reminder))

	payoutTask := asynq.NewTask(TypeProcessPendingPayouts, nil)
	assert.Equal(t, 5*time.Second, RetryDelay(0, nil, payoutTask))
	assert.Equal(t, 20*time.Second, RetryDelay(2, nil, payoutTask))
}

func TestNewScheduledTask_payloadCarriesTypeAndTimestamp(t *testing.T) {
	triggeredAt := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	task, opts, err := NewScheduledTask(TypeLegStartReminder, triggeredAt)
	require.NoError(t, err)
	assert.Equal(t, TypeLegStartReminder, task.Type())
	assert.NotEmpty(t, opts)

	var payload models.ReminderJobData
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, TypeLegStartReminder, payload.Type)
	assert.True(t, payload.TriggeredAt.Equal(triggeredAt))
}

func TestNewScheduledTask_dedupIDIsStableWithinTheHour(t *testing.T) {
	hour := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	_, optsA, err := NewScheduledTask(TypeConfirmedToActive, hour.Add(2*time.Minute))
	require.NoError(t, err)
	_, optsB, err := NewScheduledTask(TypeConfirmedToActive, hour.Add(40*time.Minute))
	require.NoError(t, err)
	_, optsNext, err := NewScheduledTask(TypeConfirmedToActive, hour.Add(61*time.Minute))
	require.NoError(t, err)

	idOf := func(opts []asynq.Option) string {
		for _, o := range opts {
			if o.Type() == asynq.TaskIDOpt {
				return o.Value().(string)
			}
		}
		return ""
	}

	assert.NotEmpty(t, idOf(optsA))
	assert.Equal(t, idOf(optsA), idOf(optsB))
	assert.NotEqual(t, idOf(optsA), idOf(optsNext))
}

func TestNewManualTask_rejectsUnknownTypeAndSkipsDedup(t *testing.T) {
	_, _, err := NewManualTask("not-a-job", time.Now())
	require.Error(t, err)

	_, opts, err := NewManualTask(TypeProcessPendingNotifications, time.Now())
	require.NoError(t, err)
	for _, o := range opts {
		assert.NotEqual(t, asynq.TaskIDOpt, o.Type())
		if o.Type() == asynq.MaxRetryOpt {
			assert.Equal(t, 0, o.Value().(int))
		}
	}
}

func TestKnownType(t *testing.T) {
	assert.True(t, KnownType(TypeLegStartReminder))
	assert.True(t, KnownType(TypeProcessPendingPayouts))
	assert.False(t, KnownType(""))
	assert.False(t, KnownType("unknown"))
}
