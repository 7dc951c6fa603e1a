package cron

import (
	"fmt"

	"driveline/config"
	"driveline/services/tasks"

	"github.com/hibiken/asynq"
)

// QueueStats is the per-queue snapshot surfaced to operational dashboards.
type QueueStats struct {
	Queue     string `json:"queue"`
	Waiting   int    `json:"waiting"`
	Active    int    `json:"active"`
	Completed int    `json:"completed"`
	Failed    int    `json:"failed"`
	Delayed   int    `json:"delayed"`
}

// StatsReader reads queue counters through the asynq inspector.
type StatsReader struct {
	inspector *asynq.Inspector
}

// NewStatsReader builds an inspector over the queue redis DB.
func NewStatsReader() *StatsReader {
	return &StatsReader{
		inspector: asynq.NewInspector(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		}),
	}
}

// Snapshot returns counters for all three queues. Scheduled and retry tasks
// are both reported as delayed: either way they are waiting on a clock.
func (r *StatsReader) Snapshot() ([]QueueStats, error) {
	queues := []string{tasks.QueueReminders, tasks.QueueStatusUpdates, tasks.QueueProcessing}

	out := make([]QueueStats, 0, len(queues))
	for _, q := range queues {
		info, err := r.inspector.GetQueueInfo(q)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect queue %s: %w", q, err)
		}
		out = append(out, QueueStats{
			Queue:     q,
			Waiting:   info.Pending,
			Active:    info.Active,
			Completed: info.Completed,
			Failed:    info.Failed,
			Delayed:   info.Scheduled + info.Retry,
		})
	}
	return out, nil
}
