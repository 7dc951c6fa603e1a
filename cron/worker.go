package cron

import (
	"context"
	"encoding/json"
	"time"

	"driveline/config"
	booking "driveline/services/booking"
	"driveline/services/notification"
	"driveline/services/payout"
	"driveline/services/tasks"
	"driveline/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Worker consumes the three queues. One handler exists per task type; every
// handler logs start/success/failure and returns its error so asynq's
// retry/backoff applies. Payloads carry only a type tag and timestamp, so
// handlers re-derive eligible entities at execution time and are safe to run
// concurrently with themselves.
type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

// NewWorker wires the queue handlers to the domain services.
func NewWorker(
	legScan booking.LegScanService,
	lifecycle booking.LifecycleService,
	notifier notification.NotificationService,
	payouts payout.PayoutService,
) *Worker {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		},
		asynq.Config{
			Concurrency: config.AppConfig.WorkerConcurrency,
			Queues: map[string]int{
				tasks.QueueReminders:     6,
				tasks.QueueStatusUpdates: 3,
				tasks.QueueProcessing:    1,
			},
			RetryDelayFunc: tasks.RetryDelay,
		},
	)

	mux := asynq.NewServeMux()

	// Reminder queue. The trip-level names are legacy aliases from the old
	// duplicate pipeline; they run the canonical leg-based scan.
	mux.HandleFunc(tasks.TypeLegStartReminder, logged(tasks.TypeLegStartReminder, countHandler(func(ctx context.Context) (int, error) {
		return legScan.ProcessStartReminders(ctx, time.Now())
	})))
	mux.HandleFunc(tasks.TypeLegEndReminder, logged(tasks.TypeLegEndReminder, countHandler(func(ctx context.Context) (int, error) {
		return legScan.ProcessEndReminders(ctx, time.Now())
	})))
	mux.HandleFunc(tasks.TypeTripStartReminder, logged(tasks.TypeTripStartReminder, countHandler(func(ctx context.Context) (int, error) {
		return legScan.ProcessStartReminders(ctx, time.Now())
	})))
	mux.HandleFunc(tasks.TypeTripEndReminder, logged(tasks.TypeTripEndReminder, countHandler(func(ctx context.Context) (int, error) {
		return legScan.ProcessEndReminders(ctx, time.Now())
	})))

	// Status-update queue.
	mux.HandleFunc(tasks.TypeConfirmedToActive, logged(tasks.TypeConfirmedToActive, countHandler(func(ctx context.Context) (int, error) {
		return lifecycle.ActivateDueBookings(ctx, time.Now())
	})))
	mux.HandleFunc(tasks.TypeActiveToCompleted, logged(tasks.TypeActiveToCompleted, countHandler(func(ctx context.Context) (int, error) {
		return lifecycle.CompleteDueBookings(ctx, time.Now())
	})))

	// Processing queue.
	mux.HandleFunc(tasks.TypeProcessPendingPayouts, logged(tasks.TypeProcessPendingPayouts, countHandler(func(ctx context.Context) (int, error) {
		return payouts.ProcessPendingPayouts(ctx)
	})))
	mux.HandleFunc(tasks.TypeProcessPendingNotifications, logged(tasks.TypeProcessPendingNotifications, func(ctx context.Context, _ *asynq.Task) error {
		return notifier.ProcessPendingNotifications(ctx)
	}))

	return &Worker{srv: srv, mux: mux}
}

// Run blocks processing jobs until Shutdown is called.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

// Start begins processing in the background.
func (w *Worker) Start() error {
	return w.srv.Start(w.mux)
}

// Shutdown waits for in-flight jobs and stops the server.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}

// countHandler adapts a scan returning a processed count into an asynq
// handler, logging the count on success.
func countHandler(run func(ctx context.Context) (int, error)) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		count, err := run(ctx)
		if err != nil {
			return err
		}
		utils.GetLogger().Info("job processed entities",
			zap.String("type", t.Type()), zap.Int("count", count))
		return nil
	}
}

// logged wraps a handler with uniform start/success/failure logging. Errors
// are returned, not swallowed, so the queue's retry policy fires; one job's
// failure never touches its neighbors.
func logged(taskType string, next asynq.HandlerFunc) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		logger := utils.GetLogger()

		var meta struct {
			TriggeredAt time.Time `json:"triggeredAt"`
		}
		_ = json.Unmarshal(t.Payload(), &meta)

		started := time.Now()
		logger.Info("job started",
			zap.String("type", taskType),
			zap.Time("triggered_at", meta.TriggeredAt),
		)

		if err := next(ctx, t); err != nil {
			logger.Error("job failed",
				zap.String("type", taskType),
				zap.Duration("elapsed", time.Since(started)),
				zap.Error(err),
			)
			return err
		}

		logger.Info("job succeeded",
			zap.String("type", taskType),
			zap.Duration("elapsed", time.Since(started)),
		)
		return nil
	}
}
