package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExecutionStatus is the lifecycle state of a pipeline run. Running is
// the only non-terminal state; completed and failed are final.
type ExecutionStatus string

const (
	ExecutionRunning   ExecutionStatus = "running"
	ExecutionCompleted ExecutionStatus = "completed"
	ExecutionFailed    ExecutionStatus = "failed"
)

// Execution records a single run of the notification pipeline together
// with its aggregate counts and the dispatch logs it owns.
type Execution struct {
	ID             string          `json:"id" gorm:"type:uuid;primaryKey"`
	StartedAt      time.Time       `json:"started_at" gorm:"not null;index"`
	Status         ExecutionStatus `json:"status" gorm:"type:varchar(20);not null"`
	ProcessedCount int             `json:"processed_count" gorm:"not null;default:0"`
	SentCount      int             `json:"sent_count" gorm:"not null;default:0"`
	ErrorCount     int             `json:"error_count" gorm:"not null;default:0"`

	Logs []DispatchLog `json:"logs,omitempty" gorm:"foreignKey:ExecutionID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Execution
func (Execution) TableName() string {
	return "executions"
}

func (e *Execution) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
