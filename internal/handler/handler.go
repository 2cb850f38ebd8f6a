package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"billing-reminder-go/internal/notifier"
	"billing-reminder-go/internal/scheduler"
	"billing-reminder-go/internal/storage"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	db        *gorm.DB
	store     storage.Storage
	runner    *notifier.Runner
	scheduler *scheduler.Scheduler
}

// NewHandlers creates new HTTP handlers
func NewHandlers(db *gorm.DB, store storage.Storage, runner *notifier.Runner, sched *scheduler.Scheduler) *Handlers {
	return &Handlers{
		db:        db,
		store:     store,
		runner:    runner,
		scheduler: sched,
	}
}

// SetupRoutes sets up all HTTP routes
func (h *Handlers) SetupRoutes(router *gin.Engine) {
	router.GET("/healthz", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.GET("/config", h.GetConfig)
		api.PUT("/config", h.UpdateConfig)

		api.GET("/invoices", h.GetInvoices)
		api.GET("/invoices/:id", h.GetInvoice)

		api.GET("/executions", h.GetExecutions)
		api.GET("/executions/:id", h.GetExecution)
		api.GET("/executions/:id/logs", h.GetExecutionLogs)
		api.GET("/logs", h.GetLogs)

		api.GET("/dashboard", h.GetDashboard)

		api.POST("/run", h.Run)

		api.POST("/scheduler/start", h.StartScheduler)
		api.POST("/scheduler/stop", h.StopScheduler)
		api.GET("/scheduler/status", h.GetSchedulerStatus)
	}
}

// HealthCheck handles health check requests
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Database:  "ok",
		Metrics:   make(map[string]string),
	}

	if h.db != nil {
		if err := h.db.Raw("SELECT 1").Error; err != nil {
			response.Status = "error"
			response.Database = "error"
			logrus.Errorf("Database health check failed: %v", err)
		}
	}

	if h.scheduler.IsRunning() {
		response.Metrics["scheduler"] = "running"
		response.Metrics["next_run"] = h.scheduler.GetNextRun().Format(time.RFC3339)
		response.Metrics["last_run"] = h.scheduler.GetLastRun().Format(time.RFC3339)
	} else {
		response.Metrics["scheduler"] = "stopped"
	}

	statusCode := http.StatusOK
	if response.Status == "error" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}
