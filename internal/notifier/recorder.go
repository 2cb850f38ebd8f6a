package notifier

import (
	"errors"
	"fmt"
	"time"

	"billing-reminder-go/internal/model"
	"billing-reminder-go/internal/storage"
)

// ErrExecutionFinalized is returned on a second finalization attempt.
var ErrExecutionFinalized = errors.New("execution already finalized")

// Recorder owns the lifecycle of one execution record: created as
// running by Begin, appended to while dispatch proceeds, finalized
// exactly once by Complete or Fail. Both final states are terminal.
type Recorder struct {
	store     storage.Storage
	execution *model.Execution
	finalized bool
}

// NewRecorder creates a recorder writing to the given storage.
func NewRecorder(store storage.Storage) *Recorder {
	return &Recorder{store: store}
}

// Begin persists a new running execution with zeroed counts.
func (r *Recorder) Begin(startedAt time.Time) (*model.Execution, error) {
	execution := &model.Execution{
		StartedAt: startedAt,
		Status:    model.ExecutionRunning,
	}
	if err := r.store.CreateExecution(execution); err != nil {
		return nil, fmt.Errorf("failed to create execution: %w", err)
	}
	r.execution = execution
	return execution, nil
}

// Append persists one dispatch log under the execution and accumulates
// it on the in-memory record, bumping the matching counter.
func (r *Recorder) Append(log model.DispatchLog) error {
	log.ExecutionID = r.execution.ID
	if err := r.store.AppendLog(&log); err != nil {
		return fmt.Errorf("failed to append dispatch log: %w", err)
	}

	r.execution.Logs = append(r.execution.Logs, log)
	switch log.Status {
	case model.LogSuccess:
		r.execution.SentCount++
	case model.LogError:
		r.execution.ErrorCount++
	}
	return nil
}

// Complete finalizes the execution as completed with the given
// processed count; sent and error counts come from the appended logs.
func (r *Recorder) Complete(processed int) (*model.Execution, error) {
	if r.finalized {
		return nil, ErrExecutionFinalized
	}
	r.finalized = true

	r.execution.Status = model.ExecutionCompleted
	r.execution.ProcessedCount = processed
	if err := r.persist(); err != nil {
		return nil, err
	}
	return r.execution, nil
}

// Fail finalizes the execution as failed. The error count is a coarse
// flag of 1; pre-dispatch failures are not itemized per invoice.
func (r *Recorder) Fail() error {
	if r.finalized {
		return ErrExecutionFinalized
	}
	r.finalized = true

	r.execution.Status = model.ExecutionFailed
	r.execution.ErrorCount = 1
	return r.persist()
}

func (r *Recorder) persist() error {
	patch := storage.ExecutionPatch{
		Status:         &r.execution.Status,
		ProcessedCount: &r.execution.ProcessedCount,
		SentCount:      &r.execution.SentCount,
		ErrorCount:     &r.execution.ErrorCount,
	}
	if _, err := r.store.UpdateExecution(r.execution.ID, patch); err != nil {
		return fmt.Errorf("failed to finalize execution: %w", err)
	}
	return nil
}
