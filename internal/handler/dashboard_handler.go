package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetDashboard returns aggregate invoice and dispatch figures
func (h *Handlers) GetDashboard(c *gin.Context) {
	metrics, err := h.store.DashboardMetrics(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "storage_error",
			Message: "Failed to compute dashboard metrics",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, metrics)
}
