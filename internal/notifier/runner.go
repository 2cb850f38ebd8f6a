package notifier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"billing-reminder-go/internal/asaas"
	"billing-reminder-go/internal/metrics"
	"billing-reminder-go/internal/model"
	"billing-reminder-go/internal/storage"
)

var (
	// ErrConfigIncomplete means the provider or gateway credentials are
	// missing. No execution record is created for this failure.
	ErrConfigIncomplete = errors.New("incomplete settings: missing Asaas token or Evolution API credentials")
	// ErrRunInProgress means another run already holds the run lock.
	ErrRunInProgress = errors.New("a notification run is already in progress")
)

// BillingProvider is the slice of the billing API the pipeline needs.
type BillingProvider interface {
	ListCustomers(ctx context.Context) ([]asaas.Customer, error)
	ListPayments(ctx context.Context, status model.InvoiceStatus) ([]asaas.Payment, error)
}

// ProviderFactory builds a provider client from the current settings.
type ProviderFactory func(settings *model.Settings) BillingProvider

// GatewayFactory builds a gateway client from the current settings.
type GatewayFactory func(settings *model.Settings) Gateway

// Runner is the pipeline entry point. One RunOnce call performs a full
// run: validate settings, fetch, classify, dispatch, record. Runs are
// mutually exclusive; a second caller gets ErrRunInProgress instead of
// racing the first over shared invoice state.
type Runner struct {
	store       storage.Storage
	newProvider ProviderFactory
	newGateway  GatewayFactory
	metrics     *metrics.Metrics
	mu          sync.Mutex
}

// NewRunner creates a runner. metrics may be nil.
func NewRunner(store storage.Storage, newProvider ProviderFactory, newGateway GatewayFactory, m *metrics.Metrics) *Runner {
	return &Runner{
		store:       store,
		newProvider: newProvider,
		newGateway:  newGateway,
		metrics:     m,
	}
}

// RunOnce executes the pipeline once against the given reference date
// and returns the finished execution. Credential validation happens
// before any execution record exists, so an incomplete configuration
// leaves no trace in storage. Any failure after that point finalizes
// the execution as failed and is returned to the caller.
func (r *Runner) RunOnce(ctx context.Context, now time.Time) (*model.Execution, error) {
	if !r.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer r.mu.Unlock()

	start := time.Now()
	if r.metrics != nil {
		r.metrics.RunCount.Inc()
		defer func() {
			r.metrics.RunDuration.Observe(time.Since(start).Seconds())
		}()
	}

	settings, err := r.store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if !settings.Complete() {
		return nil, ErrConfigIncomplete
	}

	recorder := NewRecorder(r.store)
	execution, err := recorder.Begin(now)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Execution %s started", execution.ID)

	execution, err = r.run(ctx, recorder, settings, now)
	if err != nil {
		logrus.Errorf("Execution failed: %v", err)
		if failErr := recorder.Fail(); failErr != nil {
			logrus.Errorf("Failed to mark execution as failed: %v", failErr)
		}
		return nil, err
	}

	logrus.Infof("Execution %s completed: %d messages sent, %d errors",
		execution.ID, execution.SentCount, execution.ErrorCount)
	return execution, nil
}

func (r *Runner) run(ctx context.Context, recorder *Recorder, settings *model.Settings, now time.Time) (*model.Execution, error) {
	provider := r.newProvider(settings)

	logrus.Info("Fetching customers from billing provider")
	customers, err := provider.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customers: %w", err)
	}

	logrus.Info("Fetching pending payments")
	pending, err := provider.ListPayments(ctx, model.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending payments: %w", err)
	}

	logrus.Info("Fetching overdue payments")
	overdue, err := provider.ListPayments(ctx, model.StatusOverdue)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch overdue payments: %w", err)
	}

	invoices := asaas.Merge(append(pending, overdue...), customers)
	if err := r.store.UpsertInvoices(invoices); err != nil {
		return nil, fmt.Errorf("failed to save invoices: %w", err)
	}
	if r.metrics != nil {
		r.metrics.InvoicesFetched.Set(float64(len(invoices)))
	}
	logrus.Infof("Fetched %d invoices", len(invoices))

	for i := range invoices {
		invoices[i].Tag = Classify(invoices[i], now, settings.WarnDays)
		patch := storage.InvoicePatch{Tag: &invoices[i].Tag}
		if _, err := r.store.UpdateInvoice(invoices[i].ID, patch); err != nil {
			return nil, fmt.Errorf("failed to update invoice %s: %w", invoices[i].ID, err)
		}
	}

	dispatcher := NewDispatcher(r.newGateway(settings))
	_, err = dispatcher.Dispatch(ctx, invoices, settings, func(log model.DispatchLog) {
		if appendErr := recorder.Append(log); appendErr != nil {
			logrus.Errorf("Failed to record dispatch log for invoice %s: %v", log.InvoiceID, appendErr)
		}
		if r.metrics != nil {
			switch log.Status {
			case model.LogSuccess:
				r.metrics.MessagesSent.Inc()
			default:
				r.metrics.MessageFailures.Inc()
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("dispatch aborted: %w", err)
	}

	processed := lo.CountBy(invoices, func(inv model.Invoice) bool {
		return inv.Tag.Notifiable()
	})
	return recorder.Complete(processed)
}
