package asaas

import (
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"billing-reminder-go/internal/model"
)

// unknownCustomer is used when a payment references a customer the
// provider did not return.
const unknownCustomer = "Cliente não encontrado"

// Merge joins payments with their customers to produce invoices. The
// mobile phone is preferred over the landline; a missing customer
// yields a placeholder name and an empty phone.
func Merge(payments []Payment, customers []Customer) []model.Invoice {
	byID := lo.KeyBy(customers, func(c Customer) string { return c.ID })

	invoices := make([]model.Invoice, 0, len(payments))
	for _, payment := range payments {
		invoice := model.Invoice{
			ID:          payment.ID,
			CustomerID:  payment.Customer,
			Amount:      payment.Value,
			Status:      model.InvoiceStatus(payment.Status),
			InvoiceURL:  payment.InvoiceURL,
			Description: payment.Description,
			Tag:         model.TagNone,
		}

		if customer, ok := byID[payment.Customer]; ok {
			invoice.CustomerName = customer.Name
			invoice.CustomerPhone = customer.MobilePhone
			if invoice.CustomerPhone == "" {
				invoice.CustomerPhone = customer.Phone
			}
		} else {
			invoice.CustomerName = unknownCustomer
		}

		dueDate, err := time.Parse("2006-01-02", payment.DueDate)
		if err != nil {
			logrus.Warnf("Invalid due date %q on payment %s: %v", payment.DueDate, payment.ID, err)
		}
		invoice.DueDate = dueDate

		invoices = append(invoices, invoice)
	}
	return invoices
}
