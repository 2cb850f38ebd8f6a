package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus mirrors the billing provider's payment status values.
type InvoiceStatus string

const (
	StatusPending   InvoiceStatus = "PENDING"
	StatusReceived  InvoiceStatus = "RECEIVED"
	StatusConfirmed InvoiceStatus = "CONFIRMED"
	StatusOverdue   InvoiceStatus = "OVERDUE"
)

// Tag is the computed notification category for an invoice. It is
// recomputed on every run; the persisted value is display-only.
type Tag string

const (
	TagDueToday Tag = "due_today"
	TagReminder Tag = "reminder"
	TagOverdue  Tag = "overdue"
	TagNone     Tag = "none"
)

// Notifiable reports whether an invoice with this tag should receive a message.
func (t Tag) Notifiable() bool {
	switch t {
	case TagDueToday, TagReminder, TagOverdue:
		return true
	}
	return false
}

// Invoice is a billable record pulled from the billing provider, keyed
// by the provider-assigned payment id and upserted on every run.
type Invoice struct {
	ID            string          `json:"id" gorm:"type:varchar(64);primaryKey"`
	CustomerID    string          `json:"customer_id" gorm:"type:varchar(64);not null;index"`
	CustomerName  string          `json:"customer_name" gorm:"type:varchar(255)"`
	CustomerPhone string          `json:"customer_phone" gorm:"type:varchar(32)"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:numeric(12,2)"`
	DueDate       time.Time       `json:"due_date" gorm:"type:date;not null;index"`
	Status        InvoiceStatus   `json:"status" gorm:"type:varchar(20);not null;index"`
	InvoiceURL    string          `json:"invoice_url" gorm:"type:text"`
	Description   string          `json:"description" gorm:"type:text"`
	Tag           Tag             `json:"tag" gorm:"type:varchar(20);default:none"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}
