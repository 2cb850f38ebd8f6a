package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"billing-reminder-go/internal/notifier"
)

// Run triggers one notification run and returns the finished execution
func (h *Handlers) Run(c *gin.Context) {
	execution, err := h.runner.RunOnce(c.Request.Context(), time.Now())
	if err != nil {
		switch {
		case errors.Is(err, notifier.ErrConfigIncomplete):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "config_incomplete",
				Message: err.Error(),
				Code:    http.StatusBadRequest,
			})
		case errors.Is(err, notifier.ErrRunInProgress):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "run_in_progress",
				Message: err.Error(),
				Code:    http.StatusConflict,
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "run_failed",
				Message: err.Error(),
				Code:    http.StatusInternalServerError,
			})
		}
		return
	}

	c.JSON(http.StatusOK, execution)
}
