package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"billing-reminder-go/internal/model"
)

type gormStorage struct {
	db *gorm.DB
}

// New returns a gorm-backed Storage. When no settings row exists yet
// the given defaults are persisted as the initial configuration.
func New(db *gorm.DB, defaults model.Settings) (Storage, error) {
	var count int64
	if err := db.Model(&model.Settings{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count settings: %w", err)
	}
	if count == 0 {
		if err := db.Create(&defaults).Error; err != nil {
			return nil, fmt.Errorf("failed to seed settings: %w", err)
		}
	}
	return &gormStorage{db: db}, nil
}

func (s *gormStorage) GetSettings() (*model.Settings, error) {
	var settings model.Settings
	if err := s.db.First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &settings, nil
}

func (s *gormStorage) UpdateSettings(patch SettingsPatch) (*model.Settings, error) {
	settings, err := s.GetSettings()
	if err != nil {
		return nil, err
	}
	patch.apply(settings)
	if err := s.db.Save(settings).Error; err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return settings, nil
}

func (s *gormStorage) ListInvoices() ([]model.Invoice, error) {
	var invoices []model.Invoice
	if err := s.db.Order("due_date ASC").Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

func (s *gormStorage) GetInvoice(id string) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := s.db.First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return &invoice, nil
}

func (s *gormStorage) UpsertInvoices(invoices []model.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&invoices).Error
	if err != nil {
		return fmt.Errorf("failed to upsert invoices: %w", err)
	}
	return nil
}

func (s *gormStorage) UpdateInvoice(id string, patch InvoicePatch) (*model.Invoice, error) {
	invoice, err := s.GetInvoice(id)
	if err != nil {
		return nil, err
	}
	patch.apply(invoice)
	if err := s.db.Save(invoice).Error; err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}
	return invoice, nil
}

func (s *gormStorage) CreateExecution(exec *model.Execution) error {
	if err := s.db.Create(exec).Error; err != nil {
		return fmt.Errorf("failed to create execution: %w", err)
	}
	return nil
}

func (s *gormStorage) UpdateExecution(id string, patch ExecutionPatch) (*model.Execution, error) {
	var exec model.Execution
	if err := s.db.First(&exec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get execution: %w", err)
	}
	patch.apply(&exec)
	if err := s.db.Save(&exec).Error; err != nil {
		return nil, fmt.Errorf("failed to update execution: %w", err)
	}
	return &exec, nil
}

func (s *gormStorage) GetExecution(id string) (*model.Execution, error) {
	var exec model.Execution
	err := s.db.Preload("Logs", func(db *gorm.DB) *gorm.DB {
		return db.Order("dispatch_logs.created_at ASC")
	}).First(&exec, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get execution: %w", err)
	}
	return &exec, nil
}

func (s *gormStorage) ListExecutions() ([]model.Execution, error) {
	var execs []model.Execution
	if err := s.db.Order("started_at DESC").Find(&execs).Error; err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}
	return execs, nil
}

func (s *gormStorage) AppendLog(log *model.DispatchLog) error {
	if err := s.db.Create(log).Error; err != nil {
		return fmt.Errorf("failed to append dispatch log: %w", err)
	}
	return nil
}

func (s *gormStorage) ListLogs(executionID string) ([]model.DispatchLog, error) {
	var logs []model.DispatchLog
	q := s.db.Order("created_at ASC")
	if executionID != "" {
		q = q.Where("execution_id = ?", executionID)
	}
	if err := q.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list dispatch logs: %w", err)
	}
	return logs, nil
}

func (s *gormStorage) DashboardMetrics(now time.Time) (*DashboardMetrics, error) {
	metrics := &DashboardMetrics{TotalPending: decimal.Zero}

	var totalPending decimal.NullDecimal
	err := s.db.Model(&model.Invoice{}).
		Where("status = ?", model.StatusPending).
		Select("SUM(amount)").Scan(&totalPending).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum pending invoices: %w", err)
	}
	if totalPending.Valid {
		metrics.TotalPending = totalPending.Decimal
	}

	today := midnight(now)
	var dueToday int64
	err = s.db.Model(&model.Invoice{}).
		Where("status = ? AND due_date >= ? AND due_date < ?",
			model.StatusPending, today, today.AddDate(0, 0, 1)).
		Count(&dueToday).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count due-today invoices: %w", err)
	}
	metrics.DueToday = int(dueToday)

	var sent int64
	err = s.db.Model(&model.DispatchLog{}).
		Where("status = ? AND created_at > ?", model.LogSuccess, now.AddDate(0, 0, -30)).
		Count(&sent).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count sent messages: %w", err)
	}
	metrics.MessagesSent = int(sent)

	var settled, total int64
	err = s.db.Model(&model.Invoice{}).
		Where("status IN ?", []model.InvoiceStatus{model.StatusReceived, model.StatusConfirmed}).
		Count(&settled).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count settled invoices: %w", err)
	}
	if err := s.db.Model(&model.Invoice{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count invoices: %w", err)
	}
	if total > 0 {
		metrics.ConversionRate = float64(settled) / float64(total) * 100
	}

	return metrics, nil
}
