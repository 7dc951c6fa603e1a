package cron

import (
	"errors"
	"time"

	"driveline/config"
	"driveline/services/tasks"
	"driveline/utils"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler translates wall-clock time into typed jobs on the three queues.
// Each entry is a fire-and-forget enqueue; an enqueue failure is logged for
// alerting and the next tick tries again. Cron expressions come from config,
// so the calendar is configuration, not code.
type Scheduler struct {
	c      *cron.Cron
	client *asynq.Client
}

// NewScheduler builds the cron runner and its asynq producer client.
func NewScheduler() *Scheduler {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	return &Scheduler{
		c:      cron.New(),
		client: client,
	}
}

// Start registers every scheduled producer and runs the cron loop in the
// background.
func (s *Scheduler) Start() error {
	entries := []struct {
		spec     string
		taskType string
	}{
		{config.AppConfig.CronLegStartReminders, tasks.TypeLegStartReminder},
		{config.AppConfig.CronLegEndReminders, tasks.TypeLegEndReminder},
		{config.AppConfig.CronStatusActivation, tasks.TypeConfirmedToActive},
		{config.AppConfig.CronStatusCompletion, tasks.TypeActiveToCompleted},
		{config.AppConfig.CronPendingPayouts, tasks.TypeProcessPendingPayouts},
		{config.AppConfig.CronPendingDeliveries, tasks.TypeProcessPendingNotifications},
	}

	for _, e := range entries {
		taskType := e.taskType
		if _, err := s.c.AddFunc(e.spec, func() { s.enqueue(taskType) }); err != nil {
			return err
		}
	}

	s.c.Start()
	utils.GetLogger().Info("scheduler started", zap.Int("entries", len(entries)))
	return nil
}

// Stop halts the cron loop and closes the producer client.
func (s *Scheduler) Stop() {
	ctx := s.c.Stop()
	<-ctx.Done()
	if err := s.client.Close(); err != nil {
		utils.GetLogger().Warn("failed to close queue client", zap.Error(err))
	}
}

func (s *Scheduler) enqueue(taskType string) {
	logger := utils.GetLogger()

	task, opts, err := tasks.NewScheduledTask(taskType, time.Now())
	if err != nil {
		logger.Error("failed to build scheduled task", zap.String("type", taskType), zap.Error(err))
		return
	}

	info, err := s.client.Enqueue(task, opts...)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			// Another scheduler instance got there first this interval.
			logger.Debug("scheduled task already enqueued", zap.String("type", taskType))
			return
		}
		logger.Error("failed to enqueue scheduled task", zap.String("type", taskType), zap.Error(err))
		return
	}

	logger.Info("scheduled task enqueued",
		zap.String("type", taskType),
		zap.String("queue", info.Queue),
		zap.String("task_id", info.ID),
	)
}

// EnqueueManual is the operator entry point for replaying any job type
// outside its cron calendar.
func (s *Scheduler) EnqueueManual(taskType string) (string, error) {
	task, opts, err := tasks.NewManualTask(taskType, time.Now())
	if err != nil {
		return "", err
	}
	info, err := s.client.Enqueue(task, opts...)
	if err != nil {
		return "", err
	}
	utils.GetLogger().Info("manual task enqueued",
		zap.String("type", taskType),
		zap.String("queue", info.Queue),
		zap.String("task_id", info.ID),
	)
	return info.ID, nil
}
