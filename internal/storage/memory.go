package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"billing-reminder-go/internal/model"
)

// Memory is an in-memory Storage used by tests and credential-less
// local runs. All data is lost on restart.
type Memory struct {
	mu         sync.RWMutex
	settings   model.Settings
	invoices   map[string]model.Invoice
	executions map[string]model.Execution
	logs       []model.DispatchLog
}

// NewMemory returns an in-memory Storage seeded with the given settings.
func NewMemory(defaults model.Settings) *Memory {
	return &Memory{
		settings:   defaults,
		invoices:   make(map[string]model.Invoice),
		executions: make(map[string]model.Execution),
	}
}

func (m *Memory) GetSettings() (*model.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	settings := m.settings
	return &settings, nil
}

func (m *Memory) UpdateSettings(patch SettingsPatch) (*model.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	patch.apply(&m.settings)
	m.settings.UpdatedAt = time.Now()
	settings := m.settings
	return &settings, nil
}

func (m *Memory) ListInvoices() ([]model.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	invoices := lo.Values(m.invoices)
	sort.Slice(invoices, func(i, j int) bool {
		return invoices[i].DueDate.Before(invoices[j].DueDate)
	})
	return invoices, nil
}

func (m *Memory) GetInvoice(id string) (*model.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	invoice, ok := m.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &invoice, nil
}

func (m *Memory) UpsertInvoices(invoices []model.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, invoice := range invoices {
		m.invoices[invoice.ID] = invoice
	}
	return nil
}

func (m *Memory) UpdateInvoice(id string, patch InvoicePatch) (*model.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	invoice, ok := m.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.apply(&invoice)
	invoice.UpdatedAt = time.Now()
	m.invoices[id] = invoice
	return &invoice, nil
}

func (m *Memory) CreateExecution(exec *model.Execution) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if exec.ID == "" {
		exec.ID = uuid.NewString()
	}
	m.executions[exec.ID] = *exec
	return nil
}

func (m *Memory) UpdateExecution(id string, patch ExecutionPatch) (*model.Execution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exec, ok := m.executions[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.apply(&exec)
	m.executions[id] = exec
	return &exec, nil
}

func (m *Memory) GetExecution(id string) (*model.Execution, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	exec, ok := m.executions[id]
	if !ok {
		return nil, ErrNotFound
	}
	exec.Logs = lo.Filter(m.logs, func(log model.DispatchLog, _ int) bool {
		return log.ExecutionID == id
	})
	return &exec, nil
}

func (m *Memory) ListExecutions() ([]model.Execution, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	execs := lo.Values(m.executions)
	sort.Slice(execs, func(i, j int) bool {
		return execs[i].StartedAt.After(execs[j].StartedAt)
	})
	return execs, nil
}

func (m *Memory) AppendLog(log *model.DispatchLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	m.logs = append(m.logs, *log)
	return nil
}

func (m *Memory) ListLogs(executionID string) ([]model.DispatchLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if executionID == "" {
		return append([]model.DispatchLog(nil), m.logs...), nil
	}
	return lo.Filter(m.logs, func(log model.DispatchLog, _ int) bool {
		return log.ExecutionID == executionID
	}), nil
}

func (m *Memory) DashboardMetrics(now time.Time) (*DashboardMetrics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	invoices := lo.Values(m.invoices)
	pending := lo.Filter(invoices, func(inv model.Invoice, _ int) bool {
		return inv.Status == model.StatusPending
	})

	totalPending := decimal.Zero
	for _, inv := range pending {
		totalPending = totalPending.Add(inv.Amount)
	}

	today := midnight(now)
	dueToday := lo.CountBy(pending, func(inv model.Invoice) bool {
		return midnight(inv.DueDate).Equal(today)
	})

	cutoff := now.AddDate(0, 0, -30)
	sent := lo.CountBy(m.logs, func(log model.DispatchLog) bool {
		return log.Status == model.LogSuccess && log.CreatedAt.After(cutoff)
	})

	settled := lo.CountBy(invoices, func(inv model.Invoice) bool {
		return inv.Status == model.StatusReceived || inv.Status == model.StatusConfirmed
	})
	var conversion float64
	if len(invoices) > 0 {
		conversion = float64(settled) / float64(len(invoices)) * 100
	}

	return &DashboardMetrics{
		TotalPending:   totalPending,
		DueToday:       dueToday,
		MessagesSent:   sent,
		ConversionRate: conversion,
	}, nil
}
