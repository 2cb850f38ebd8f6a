package notifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing-reminder-go/internal/model"
	"billing-reminder-go/internal/storage"
)

func TestRecorderLifecycle(t *testing.T) {
	store := storage.NewMemory(*testSettings())
	recorder := NewRecorder(store)

	execution, err := recorder.Begin(date(2024, time.January, 10))
	require.NoError(t, err)
	require.NotEmpty(t, execution.ID)
	assert.Equal(t, model.ExecutionRunning, execution.Status)

	require.NoError(t, recorder.Append(model.DispatchLog{
		InvoiceID: "pay_001",
		Status:    model.LogSuccess,
		Message:   sentOK,
	}))
	require.NoError(t, recorder.Append(model.DispatchLog{
		InvoiceID: "pay_002",
		Status:    model.LogError,
		ErrorMsg:  "gateway timeout",
	}))

	finished, err := recorder.Complete(2)
	require.NoError(t, err)
	assert.Equal(t, model.ExecutionCompleted, finished.Status)
	assert.Equal(t, 2, finished.ProcessedCount)
	assert.Equal(t, 1, finished.SentCount)
	assert.Equal(t, 1, finished.ErrorCount)

	stored, err := store.GetExecution(execution.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExecutionCompleted, stored.Status)
	assert.Len(t, stored.Logs, 2)

	logs, err := store.ListLogs(execution.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestRecorderFinalizesOnlyOnce(t *testing.T) {
	store := storage.NewMemory(*testSettings())
	recorder := NewRecorder(store)

	_, err := recorder.Begin(time.Now())
	require.NoError(t, err)

	_, err = recorder.Complete(0)
	require.NoError(t, err)

	_, err = recorder.Complete(0)
	assert.ErrorIs(t, err, ErrExecutionFinalized)
	assert.ErrorIs(t, recorder.Fail(), ErrExecutionFinalized)
}

func TestRecorderFailSetsCoarseErrorCount(t *testing.T) {
	store := storage.NewMemory(*testSettings())
	recorder := NewRecorder(store)

	execution, err := recorder.Begin(time.Now())
	require.NoError(t, err)

	require.NoError(t, recorder.Fail())

	stored, err := store.GetExecution(execution.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExecutionFailed, stored.Status)
	assert.Equal(t, 1, stored.ErrorCount)
	assert.Equal(t, 0, stored.SentCount)
}
