package notifier

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"billing-reminder-go/internal/model"
)

// The placeholder set is closed: these five tokens are the only ones
// Render recognizes. Anything else that looks like a placeholder is
// passed through verbatim, with no error and no warning; templates are
// operator-supplied text, not a validated language.
const (
	PlaceholderInvoiceLink  = "{{link_fatura}}"
	PlaceholderAmount       = "{{valor}}"
	PlaceholderDueDate      = "{{vencimento}}"
	PlaceholderCustomerName = "{{cliente_nome}}"
	PlaceholderWarnDays     = "{{dias_aviso}}"
)

// Render substitutes every occurrence of every recognized placeholder
// in the template with the invoice's values.
func Render(template string, inv model.Invoice, warnDays int) string {
	return strings.NewReplacer(
		PlaceholderInvoiceLink, inv.InvoiceURL,
		PlaceholderAmount, FormatAmount(inv.Amount),
		PlaceholderDueDate, inv.DueDate.Format("02/01/2006"),
		PlaceholderCustomerName, inv.CustomerName,
		PlaceholderWarnDays, strconv.Itoa(warnDays),
	).Replace(template)
}

// FormatAmount renders an amount as Brazilian currency with two
// decimals, e.g. 1234.5 becomes "R$ 1.234,50".
func FormatAmount(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}

	formatted := "R$ " + b.String() + "," + fracPart
	if amount.IsNegative() {
		formatted = "-" + formatted
	}
	return formatted
}
