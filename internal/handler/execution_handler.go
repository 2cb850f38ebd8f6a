package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"billing-reminder-go/internal/storage"
)

// GetExecutions returns all executions, most recent first
func (h *Handlers) GetExecutions(c *gin.Context) {
	executions, err := h.store.ListExecutions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "storage_error",
			Message: "Failed to list executions",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"executions": executions,
		"total":      len(executions),
	})
}

// GetExecution returns one execution with its dispatch logs
func (h *Handlers) GetExecution(c *gin.Context) {
	execution, err := h.store.GetExecution(c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Execution not found",
				Code:    http.StatusNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "storage_error",
			Message: "Failed to fetch execution",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, execution)
}

// GetExecutionLogs returns the dispatch logs of one execution
func (h *Handlers) GetExecutionLogs(c *gin.Context) {
	logs, err := h.store.ListLogs(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "storage_error",
			Message: "Failed to list dispatch logs",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"total": len(logs),
	})
}

// GetLogs returns all dispatch logs across executions
func (h *Handlers) GetLogs(c *gin.Context) {
	logs, err := h.store.ListLogs("")
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "storage_error",
			Message: "Failed to list dispatch logs",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"total": len(logs),
	})
}
