package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LogStatus is the outcome of a single dispatch attempt.
type LogStatus string

const (
	LogSuccess LogStatus = "success"
	LogError   LogStatus = "error"
)

// DispatchLog is the per-invoice outcome record of one run. Customer
// name and phone are snapshotted at dispatch time. Immutable once
// created; deleted together with its execution.
type DispatchLog struct {
	ID            string    `json:"id" gorm:"type:uuid;primaryKey"`
	ExecutionID   string    `json:"execution_id" gorm:"type:uuid;not null;index"`
	InvoiceID     string    `json:"invoice_id" gorm:"type:varchar(64);not null;index"`
	CustomerName  string    `json:"customer_name" gorm:"type:varchar(255)"`
	CustomerPhone string    `json:"customer_phone" gorm:"type:varchar(32)"`
	Tag           Tag       `json:"tag" gorm:"type:varchar(20);not null"`
	Status        LogStatus `json:"status" gorm:"type:varchar(10);not null"`
	Message       string    `json:"message,omitempty" gorm:"type:text"`
	ErrorMsg      string    `json:"error_msg,omitempty" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName specifies the table name for DispatchLog
func (DispatchLog) TableName() string {
	return "dispatch_logs"
}

func (l *DispatchLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
