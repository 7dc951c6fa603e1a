package handlers

import (
	"context"
	"net/http"
	"time"

	"driveline/cron"
	"driveline/database"
	"driveline/utils"

	"github.com/gin-gonic/gin"
)

// OpsHandler exposes the operational surface: manual job replay and queue
// statistics. There is deliberately no queue-inspection UI here, only the
// counters dashboards scrape.
type OpsHandler struct {
	Scheduler *cron.Scheduler
	Stats     *cron.StatsReader
}

// NewOpsHandler builds the ops handler.
func NewOpsHandler(scheduler *cron.Scheduler, stats *cron.StatsReader) *OpsHandler {
	return &OpsHandler{Scheduler: scheduler, Stats: stats}
}

// TriggerJobHandler enqueues one job of the given type outside its cron
// calendar. Used for operational replay.
func (h *OpsHandler) TriggerJobHandler(c *gin.Context) {
	jobType := c.Param("type")

	taskID, err := h.Scheduler.EnqueueManual(jobType)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to trigger job", err.Error())
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"job": jobType, "taskId": taskID})
}

// QueueStatsHandler reports waiting/active/completed/failed/delayed counts
// per queue.
func (h *OpsHandler) QueueStatsHandler(c *gin.Context) {
	stats, err := h.Stats.Snapshot()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to read queue stats", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"queues": stats})
}

// HealthHandler is the readiness probe. It pings Mongo and both Redis
// databases so a broken dependency surfaces here before jobs start failing.
func (h *OpsHandler) HealthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	deps := gin.H{"mongo": "ok", "cache": "ok", "queue": "ok"}
	healthy := true

	if err := database.MongoClient.Ping(ctx, nil); err != nil {
		deps["mongo"] = err.Error()
		healthy = false
	}
	if err := utils.GetCacheClient().Ping(ctx).Err(); err != nil {
		deps["cache"] = err.Error()
		healthy = false
	}
	if err := utils.GetQueueClient().Ping(ctx).Err(); err != nil {
		deps["queue"] = err.Error()
		healthy = false
	}

	status := http.StatusOK
	state := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "dependencies": deps})
}
