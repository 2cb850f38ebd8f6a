package notifier

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing-reminder-go/internal/asaas"
	"billing-reminder-go/internal/model"
	"billing-reminder-go/internal/storage"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// stubProvider serves canned customers and payments.
type stubProvider struct {
	customers []asaas.Customer
	payments  map[model.InvoiceStatus][]asaas.Payment
	err       error
}

func (p *stubProvider) ListCustomers(ctx context.Context) ([]asaas.Customer, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.customers, nil
}

func (p *stubProvider) ListPayments(ctx context.Context, status model.InvoiceStatus) ([]asaas.Payment, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.payments[status], nil
}

func newRunner(store storage.Storage, provider BillingProvider, gateway Gateway) *Runner {
	return NewRunner(store,
		func(*model.Settings) BillingProvider { return provider },
		func(*model.Settings) Gateway { return gateway },
		nil,
	)
}

func referenceProvider() *stubProvider {
	return &stubProvider{
		customers: []asaas.Customer{
			{ID: "cus_1", Name: "Joao", MobilePhone: "5511999990001"},
			{ID: "cus_2", Name: "Maria", Phone: "551133330002"},
			{ID: "cus_3", Name: "Pedro", MobilePhone: "5511999990003"},
			{ID: "cus_4", Name: "Ana", MobilePhone: "5511999990004"},
		},
		payments: map[model.InvoiceStatus][]asaas.Payment{
			model.StatusPending: {
				{ID: "pay_a", Customer: "cus_1", Value: dec("150.00"), DueDate: "2024-01-10", Status: "PENDING", InvoiceURL: "https://pay.example.com/a"},
				{ID: "pay_b", Customer: "cus_2", Value: dec("200.00"), DueDate: "2024-01-20", Status: "PENDING", InvoiceURL: "https://pay.example.com/b"},
				{ID: "pay_d", Customer: "cus_4", Value: dec("75.00"), DueDate: "2024-02-01", Status: "PENDING", InvoiceURL: "https://pay.example.com/d"},
			},
			model.StatusOverdue: {
				{ID: "pay_c", Customer: "cus_3", Value: dec("99.90"), DueDate: "2023-12-01", Status: "OVERDUE", InvoiceURL: "https://pay.example.com/c"},
			},
		},
	}
}

func TestRunOnceHappyPath(t *testing.T) {
	store := storage.NewMemory(*testSettings())
	gateway := &fakeGateway{}
	runner := newRunner(store, referenceProvider(), gateway)

	execution, err := runner.RunOnce(context.Background(), date(2024, time.January, 10))
	require.NoError(t, err)

	assert.Equal(t, model.ExecutionCompleted, execution.Status)
	assert.Equal(t, 3, execution.ProcessedCount)
	assert.Equal(t, 3, execution.SentCount)
	assert.Equal(t, 0, execution.ErrorCount)
	assert.Len(t, execution.Logs, 3)

	// Tags are recomputed and persisted on every invoice.
	for id, expected := range map[string]model.Tag{
		"pay_a": model.TagDueToday,
		"pay_b": model.TagReminder,
		"pay_c": model.TagOverdue,
		"pay_d": model.TagNone,
	} {
		invoice, err := store.GetInvoice(id)
		require.NoError(t, err)
		assert.Equal(t, expected, invoice.Tag, "invoice %s", id)
	}

	// Customer identity is merged in, preferring the mobile phone.
	invoice, err := store.GetInvoice("pay_b")
	require.NoError(t, err)
	assert.Equal(t, "Maria", invoice.CustomerName)
	assert.Equal(t, "551133330002", invoice.CustomerPhone)

	logs, err := store.ListLogs(execution.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 3)
}

func TestRunOnceIncompleteConfigLeavesNoExecution(t *testing.T) {
	settings := *testSettings()
	settings.AsaasToken = ""
	store := storage.NewMemory(settings)
	runner := newRunner(store, referenceProvider(), &fakeGateway{})

	_, err := runner.RunOnce(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrConfigIncomplete)

	executions, listErr := store.ListExecutions()
	require.NoError(t, listErr)
	assert.Empty(t, executions)
}

func TestRunOnceProviderFailureMarksExecutionFailed(t *testing.T) {
	store := storage.NewMemory(*testSettings())
	provider := &stubProvider{err: fmt.Errorf("provider unavailable")}
	runner := newRunner(store, provider, &fakeGateway{})

	_, err := runner.RunOnce(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider unavailable")

	executions, listErr := store.ListExecutions()
	require.NoError(t, listErr)
	require.Len(t, executions, 1)
	assert.Equal(t, model.ExecutionFailed, executions[0].Status)
	assert.Equal(t, 1, executions[0].ErrorCount)
	assert.Equal(t, 0, executions[0].SentCount)
}

func TestRunOnceGatewayFailureIsIsolated(t *testing.T) {
	store := storage.NewMemory(*testSettings())
	gateway := &fakeGateway{failures: map[string]error{
		"551133330002": fmt.Errorf("number not on whatsapp"),
	}}
	runner := newRunner(store, referenceProvider(), gateway)

	execution, err := runner.RunOnce(context.Background(), date(2024, time.January, 10))
	require.NoError(t, err)

	assert.Equal(t, model.ExecutionCompleted, execution.Status)
	assert.Equal(t, 3, execution.ProcessedCount)
	assert.Equal(t, 2, execution.SentCount)
	assert.Equal(t, 1, execution.ErrorCount)

	logs, err := store.ListLogs(execution.ID)
	require.NoError(t, err)
	for _, log := range logs {
		if log.InvoiceID == "pay_b" {
			assert.Equal(t, model.LogError, log.Status)
			assert.Equal(t, "number not on whatsapp", log.ErrorMsg)
		} else {
			assert.Equal(t, model.LogSuccess, log.Status)
		}
	}
}

func TestRunOnceRejectsConcurrentRuns(t *testing.T) {
	store := storage.NewMemory(*testSettings())
	gateway := &fakeGateway{
		blockOn:   make(chan struct{}),
		unblocked: make(chan struct{}, 1),
	}
	runner := newRunner(store, referenceProvider(), gateway)

	done := make(chan error, 1)
	go func() {
		_, err := runner.RunOnce(context.Background(), date(2024, time.January, 10))
		done <- err
	}()

	// Wait until the first run is inside dispatch, then try a second run.
	<-gateway.unblocked
	_, err := runner.RunOnce(context.Background(), date(2024, time.January, 10))
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(gateway.blockOn)
	require.NoError(t, <-done)
}
