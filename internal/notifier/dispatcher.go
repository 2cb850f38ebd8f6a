package notifier

import (
	"context"
	"time"

	"github.com/samber/lo"

	"billing-reminder-go/internal/model"
)

const (
	// dispatchBatchSize bounds how many sends run concurrently; batches
	// run strictly one after another.
	dispatchBatchSize = 10
	// batchPause is the cooperative sleep between batches, required by
	// the gateway's rate limit.
	batchPause = 2 * time.Second
)

// sentOK is the log message recorded for a delivered notification.
const sentOK = "Mensagem enviada com sucesso"

// Gateway delivers a rendered message to a phone number.
type Gateway interface {
	SendText(ctx context.Context, phone, text string) error
}

// ProgressFunc receives each dispatch log as soon as its send settles.
// It is always invoked from the Dispatch caller's goroutine.
type ProgressFunc func(log model.DispatchLog)

// Dispatcher sends one message per notifiable invoice in fixed-size
// concurrent batches. A failed send is isolated to its own invoice: it
// becomes an error log entry and never aborts the batch or the run.
// There are no retries at this layer.
type Dispatcher struct {
	gateway Gateway
	pause   time.Duration
}

// NewDispatcher creates a dispatcher backed by the given gateway.
func NewDispatcher(gateway Gateway) *Dispatcher {
	return &Dispatcher{gateway: gateway, pause: batchPause}
}

// Dispatch filters invoices down to the notifiable tags, then sends in
// batches. All outcomes of batch N are recorded before batch N+1
// starts; within a batch the outcome order is not guaranteed. The
// context is checked at every batch boundary: on cancellation the logs
// collected so far are returned together with the context error.
func (d *Dispatcher) Dispatch(ctx context.Context, invoices []model.Invoice, settings *model.Settings, onProgress ProgressFunc) ([]model.DispatchLog, error) {
	eligible := lo.Filter(invoices, func(inv model.Invoice, _ int) bool {
		return inv.Tag.Notifiable()
	})

	logs := make([]model.DispatchLog, 0, len(eligible))
	for start := 0; start < len(eligible); start += dispatchBatchSize {
		if err := ctx.Err(); err != nil {
			return logs, err
		}

		end := min(start+dispatchBatchSize, len(eligible))
		batch := eligible[start:end]

		results := make(chan model.DispatchLog, len(batch))
		for _, inv := range batch {
			inv := inv
			go func() {
				results <- d.send(ctx, inv, settings)
			}()
		}
		for range batch {
			log := <-results
			logs = append(logs, log)
			if onProgress != nil {
				onProgress(log)
			}
		}

		if end < len(eligible) {
			select {
			case <-time.After(d.pause):
			case <-ctx.Done():
				return logs, ctx.Err()
			}
		}
	}
	return logs, nil
}

func (d *Dispatcher) send(ctx context.Context, inv model.Invoice, settings *model.Settings) model.DispatchLog {
	log := model.DispatchLog{
		InvoiceID:     inv.ID,
		CustomerName:  inv.CustomerName,
		CustomerPhone: inv.CustomerPhone,
		Tag:           inv.Tag,
		Status:        model.LogSuccess,
		CreatedAt:     time.Now(),
	}

	text := Render(templateFor(inv.Tag, settings), inv, settings.WarnDays)
	if err := d.gateway.SendText(ctx, inv.CustomerPhone, text); err != nil {
		log.Status = model.LogError
		log.ErrorMsg = err.Error()
		return log
	}

	log.Message = sentOK
	return log
}

func templateFor(tag model.Tag, settings *model.Settings) string {
	switch tag {
	case model.TagDueToday:
		return settings.TemplateDueToday
	case model.TagOverdue:
		return settings.TemplateOverdue
	default:
		return settings.TemplateReminder
	}
}
