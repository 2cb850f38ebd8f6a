// Package storage defines the persistence boundary of the service. The
// core pipeline only ever sees the Storage interface; the gorm adapter
// backs production and the memory adapter backs tests.
package storage

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"billing-reminder-go/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// SettingsPatch is a partial settings update; nil fields are left untouched.
type SettingsPatch struct {
	AsaasURL          *string `json:"asaas_url"`
	AsaasToken        *string `json:"asaas_token"`
	EvolutionURL      *string `json:"evolution_url"`
	EvolutionInstance *string `json:"evolution_instance"`
	EvolutionAPIKey   *string `json:"evolution_api_key"`
	WarnDays          *int    `json:"warn_days"`
	TemplateDueToday  *string `json:"template_due_today"`
	TemplateReminder  *string `json:"template_reminder"`
	TemplateOverdue   *string `json:"template_overdue"`
}

// InvoicePatch is a partial invoice update; nil fields are left untouched.
type InvoicePatch struct {
	Status *model.InvoiceStatus
	Tag    *model.Tag
}

// ExecutionPatch is a partial execution update; nil fields are left untouched.
type ExecutionPatch struct {
	Status         *model.ExecutionStatus
	ProcessedCount *int
	SentCount      *int
	ErrorCount     *int
}

// DashboardMetrics aggregates invoice and dispatch figures for the
// dashboard view.
type DashboardMetrics struct {
	TotalPending   decimal.Decimal `json:"total_pending"`
	DueToday       int             `json:"due_today"`
	MessagesSent   int             `json:"messages_sent"`
	ConversionRate float64         `json:"conversion_rate"`
}

// Storage is the persistence contract consumed by the pipeline and the
// HTTP layer.
type Storage interface {
	GetSettings() (*model.Settings, error)
	UpdateSettings(patch SettingsPatch) (*model.Settings, error)

	ListInvoices() ([]model.Invoice, error)
	GetInvoice(id string) (*model.Invoice, error)
	UpsertInvoices(invoices []model.Invoice) error
	UpdateInvoice(id string, patch InvoicePatch) (*model.Invoice, error)

	CreateExecution(exec *model.Execution) error
	UpdateExecution(id string, patch ExecutionPatch) (*model.Execution, error)
	GetExecution(id string) (*model.Execution, error)
	ListExecutions() ([]model.Execution, error)

	// AppendLog persists one dispatch log. ListLogs filters by execution
	// when executionID is non-empty, otherwise returns all logs.
	AppendLog(log *model.DispatchLog) error
	ListLogs(executionID string) ([]model.DispatchLog, error)

	DashboardMetrics(now time.Time) (*DashboardMetrics, error)
}

func (p SettingsPatch) apply(s *model.Settings) {
	if p.AsaasURL != nil {
		s.AsaasURL = *p.AsaasURL
	}
	if p.AsaasToken != nil {
		s.AsaasToken = *p.AsaasToken
	}
	if p.EvolutionURL != nil {
		s.EvolutionURL = *p.EvolutionURL
	}
	if p.EvolutionInstance != nil {
		s.EvolutionInstance = *p.EvolutionInstance
	}
	if p.EvolutionAPIKey != nil {
		s.EvolutionAPIKey = *p.EvolutionAPIKey
	}
	if p.WarnDays != nil {
		s.WarnDays = *p.WarnDays
	}
	if p.TemplateDueToday != nil {
		s.TemplateDueToday = *p.TemplateDueToday
	}
	if p.TemplateReminder != nil {
		s.TemplateReminder = *p.TemplateReminder
	}
	if p.TemplateOverdue != nil {
		s.TemplateOverdue = *p.TemplateOverdue
	}
}

func (p InvoicePatch) apply(inv *model.Invoice) {
	if p.Status != nil {
		inv.Status = *p.Status
	}
	if p.Tag != nil {
		inv.Tag = *p.Tag
	}
}

func (p ExecutionPatch) apply(exec *model.Execution) {
	if p.Status != nil {
		exec.Status = *p.Status
	}
	if p.ProcessedCount != nil {
		exec.ProcessedCount = *p.ProcessedCount
	}
	if p.SentCount != nil {
		exec.SentCount = *p.SentCount
	}
	if p.ErrorCount != nil {
		exec.ErrorCount = *p.ErrorCount
	}
}

// midnight truncates t to the start of its calendar day.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
