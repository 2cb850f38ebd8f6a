// Package notifier implements the dunning pipeline: classification of
// invoices by due-date proximity, message rendering, concurrency-bounded
// dispatch and the execution record of each run.
package notifier

import (
	"time"

	"billing-reminder-go/internal/model"
)

// Classify derives the notification category for one invoice. The
// reference date is explicit so runs stay deterministic. Precedence:
// an OVERDUE provider status always wins; then due-today; then the
// warn-window reminder; everything else is none. An invoice already
// past due but still PENDING at the provider classifies as none until
// the provider flips its status.
func Classify(inv model.Invoice, today time.Time, warnDays int) model.Tag {
	if inv.Status == model.StatusOverdue {
		return model.TagOverdue
	}

	diffDays := daysUntil(today, inv.DueDate)
	switch {
	case diffDays == 0:
		return model.TagDueToday
	case warnDays >= 0 && diffDays == warnDays:
		return model.TagReminder
	}
	return model.TagNone
}

// daysUntil returns the signed whole-day distance from today to due.
// Both sides are reduced to their calendar date first; time of day and
// zone never influence the result.
func daysUntil(today, due time.Time) int {
	t := civilDate(today)
	d := civilDate(due)
	return int(d.Sub(t).Hours() / 24)
}

func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
