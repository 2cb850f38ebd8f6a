package model

import "time"

// Settings is the storage-backed runtime configuration: provider
// credentials, the warn window and the message templates. A single row
// is seeded on first boot and edited through the API.
type Settings struct {
	ID                uint      `json:"-" gorm:"primaryKey"`
	AsaasURL          string    `json:"asaas_url" gorm:"type:varchar(255)"`
	AsaasToken        string    `json:"asaas_token" gorm:"type:varchar(255)"`
	EvolutionURL      string    `json:"evolution_url" gorm:"type:varchar(255)"`
	EvolutionInstance string    `json:"evolution_instance" gorm:"type:varchar(255)"`
	EvolutionAPIKey   string    `json:"evolution_api_key" gorm:"type:varchar(255)"`
	WarnDays          int       `json:"warn_days" gorm:"not null;default:10"`
	TemplateDueToday  string    `json:"template_due_today" gorm:"type:text"`
	TemplateReminder  string    `json:"template_reminder" gorm:"type:text"`
	TemplateOverdue   string    `json:"template_overdue" gorm:"type:text"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name for Settings
func (Settings) TableName() string {
	return "settings"
}

// Complete reports whether the credentials needed for a run are present.
func (s *Settings) Complete() bool {
	return s.AsaasToken != "" && s.EvolutionURL != "" && s.EvolutionAPIKey != ""
}
