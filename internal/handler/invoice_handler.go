package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"billing-reminder-go/internal/storage"
)

// GetInvoices returns all invoices known to the service
func (h *Handlers) GetInvoices(c *gin.Context) {
	invoices, err := h.store.ListInvoices()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "storage_error",
			Message: "Failed to list invoices",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices": invoices,
		"total":    len(invoices),
	})
}

// GetInvoice returns a single invoice by provider id
func (h *Handlers) GetInvoice(c *gin.Context) {
	invoice, err := h.store.GetInvoice(c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Invoice not found",
				Code:    http.StatusNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "storage_error",
			Message: "Failed to fetch invoice",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, invoice)
}
