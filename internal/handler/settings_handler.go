package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"billing-reminder-go/internal/storage"
)

// GetConfig returns the runtime settings with secrets masked
func (h *Handlers) GetConfig(c *gin.Context) {
	settings, err := h.store.GetSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "storage_error",
			Message: "Failed to load settings",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	masked := *settings
	masked.AsaasToken = maskSecret(masked.AsaasToken)
	masked.EvolutionAPIKey = maskSecret(masked.EvolutionAPIKey)
	c.JSON(http.StatusOK, masked)
}

// UpdateConfig applies a partial settings update
func (h *Handlers) UpdateConfig(c *gin.Context) {
	var patch storage.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	if patch.WarnDays != nil && *patch.WarnDays < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "warn_days must not be negative",
			Code:    http.StatusBadRequest,
		})
		return
	}

	settings, err := h.store.UpdateSettings(patch)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "storage_error",
			Message: "Failed to update settings",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	masked := *settings
	masked.AsaasToken = maskSecret(masked.AsaasToken)
	masked.EvolutionAPIKey = maskSecret(masked.EvolutionAPIKey)
	c.JSON(http.StatusOK, masked)
}

func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
