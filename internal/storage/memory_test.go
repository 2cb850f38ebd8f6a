package storage

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing-reminder-go/internal/model"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func seededMemory() *Memory {
	return NewMemory(model.Settings{
		AsaasToken:      "token",
		EvolutionURL:    "http://gateway.local",
		EvolutionAPIKey: "key",
		WarnDays:        10,
	})
}

func TestMemorySettingsPartialUpdate(t *testing.T) {
	store := seededMemory()

	updated, err := store.UpdateSettings(SettingsPatch{
		WarnDays:         intPtr(5),
		TemplateReminder: strPtr("faltam {{dias_aviso}} dias"),
	})
	require.NoError(t, err)

	assert.Equal(t, 5, updated.WarnDays)
	assert.Equal(t, "faltam {{dias_aviso}} dias", updated.TemplateReminder)
	// Untouched fields keep their values.
	assert.Equal(t, "token", updated.AsaasToken)

	reloaded, err := store.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, 5, reloaded.WarnDays)
}

func TestMemoryInvoiceUpsertAndPatch(t *testing.T) {
	store := seededMemory()

	require.NoError(t, store.UpsertInvoices([]model.Invoice{
		{ID: "pay_1", Status: model.StatusPending, DueDate: date(2024, time.January, 10)},
		{ID: "pay_2", Status: model.StatusPending, DueDate: date(2024, time.January, 5)},
	}))

	// Re-upserting the same id replaces the record.
	require.NoError(t, store.UpsertInvoices([]model.Invoice{
		{ID: "pay_1", Status: model.StatusReceived, DueDate: date(2024, time.January, 10)},
	}))

	invoices, err := store.ListInvoices()
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	// Sorted by due date.
	assert.Equal(t, "pay_2", invoices[0].ID)

	tag := model.TagDueToday
	patched, err := store.UpdateInvoice("pay_1", InvoicePatch{Tag: &tag})
	require.NoError(t, err)
	assert.Equal(t, model.TagDueToday, patched.Tag)
	assert.Equal(t, model.StatusReceived, patched.Status)

	_, err = store.UpdateInvoice("missing", InvoicePatch{Tag: &tag})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryExecutionsSortedByStart(t *testing.T) {
	store := seededMemory()

	older := &model.Execution{StartedAt: date(2024, time.January, 1), Status: model.ExecutionCompleted}
	newer := &model.Execution{StartedAt: date(2024, time.February, 1), Status: model.ExecutionRunning}
	require.NoError(t, store.CreateExecution(older))
	require.NoError(t, store.CreateExecution(newer))
	require.NotEmpty(t, older.ID)

	executions, err := store.ListExecutions()
	require.NoError(t, err)
	require.Len(t, executions, 2)
	assert.Equal(t, newer.ID, executions[0].ID)
}

func TestMemoryLogsFilterByExecution(t *testing.T) {
	store := seededMemory()

	require.NoError(t, store.AppendLog(&model.DispatchLog{ExecutionID: "exec_1", InvoiceID: "pay_1", Status: model.LogSuccess}))
	require.NoError(t, store.AppendLog(&model.DispatchLog{ExecutionID: "exec_2", InvoiceID: "pay_2", Status: model.LogError}))

	all, err := store.ListLogs("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := store.ListLogs("exec_1")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "pay_1", scoped[0].InvoiceID)
}

func TestMemoryDashboardMetrics(t *testing.T) {
	store := seededMemory()
	now := date(2024, time.January, 10)

	require.NoError(t, store.UpsertInvoices([]model.Invoice{
		{ID: "pay_1", Status: model.StatusPending, Amount: decimal.NewFromInt(100), DueDate: date(2024, time.January, 10)},
		{ID: "pay_2", Status: model.StatusPending, Amount: decimal.NewFromInt(50), DueDate: date(2024, time.January, 20)},
		{ID: "pay_3", Status: model.StatusReceived, Amount: decimal.NewFromInt(80), DueDate: date(2024, time.January, 1)},
		{ID: "pay_4", Status: model.StatusConfirmed, Amount: decimal.NewFromInt(70), DueDate: date(2024, time.January, 2)},
	}))

	require.NoError(t, store.AppendLog(&model.DispatchLog{
		ExecutionID: "exec_1", Status: model.LogSuccess, CreatedAt: now.AddDate(0, 0, -1),
	}))
	require.NoError(t, store.AppendLog(&model.DispatchLog{
		ExecutionID: "exec_1", Status: model.LogError, CreatedAt: now.AddDate(0, 0, -1),
	}))
	require.NoError(t, store.AppendLog(&model.DispatchLog{
		ExecutionID: "exec_0", Status: model.LogSuccess, CreatedAt: now.AddDate(0, 0, -45),
	}))

	metrics, err := store.DashboardMetrics(now)
	require.NoError(t, err)

	assert.True(t, metrics.TotalPending.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, 1, metrics.DueToday)
	// Only successes inside the 30 day window count.
	assert.Equal(t, 1, metrics.MessagesSent)
	assert.InDelta(t, 50.0, metrics.ConversionRate, 0.001)
}
