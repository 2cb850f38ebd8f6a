package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"billing-reminder-go/internal/model"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Asaas     AsaasConfig     `mapstructure:"asaas"`
	Evolution EvolutionConfig `mapstructure:"evolution"`
	Notifier  NotifierConfig  `mapstructure:"notifier"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// AsaasConfig seeds the initial billing provider credentials.
type AsaasConfig struct {
	URL   string `mapstructure:"url"`
	Token string `mapstructure:"token"`
}

// EvolutionConfig seeds the initial messaging gateway credentials.
type EvolutionConfig struct {
	URL      string `mapstructure:"url"`
	Instance string `mapstructure:"instance"`
	APIKey   string `mapstructure:"api_key"`
}

// NotifierConfig seeds the initial warn window.
type NotifierConfig struct {
	WarnDays int `mapstructure:"warn_days"`
}

// SchedulerConfig holds scheduler configuration
type SchedulerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron"`
}

// LoadConfig loads configuration from environment variables and config file
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	viper.AutomaticEnv()
	bindEnvVars()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")

	viper.SetDefault("asaas.url", "https://api.asaas.com/v3")

	viper.SetDefault("notifier.warn_days", 10)

	viper.SetDefault("scheduler.enabled", true)
	viper.SetDefault("scheduler.cron", "0 0 9 * * *")
}

// bindEnvVars binds environment variables to configuration keys
func bindEnvVars() {
	// Server
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.read_timeout", "SERVER_READ_TIMEOUT")
	viper.BindEnv("server.write_timeout", "SERVER_WRITE_TIMEOUT")

	// Database
	viper.BindEnv("database.host", "DB_HOST")
	viper.BindEnv("database.port", "DB_PORT")
	viper.BindEnv("database.user", "DB_USER")
	viper.BindEnv("database.password", "DB_PASSWORD")
	viper.BindEnv("database.dbname", "DB_NAME")
	viper.BindEnv("database.sslmode", "DB_SSLMODE")

	// Billing provider
	viper.BindEnv("asaas.url", "ASAAS_URL")
	viper.BindEnv("asaas.token", "ASAAS_TOKEN")

	// Messaging gateway
	viper.BindEnv("evolution.url", "EVOLUTION_URL")
	viper.BindEnv("evolution.instance", "EVOLUTION_INSTANCE")
	viper.BindEnv("evolution.api_key", "EVOLUTION_APIKEY")

	// Notifier
	viper.BindEnv("notifier.warn_days", "NOTIFIER_WARN_DAYS")

	// Scheduler
	viper.BindEnv("scheduler.enabled", "SCHEDULER_ENABLED")
	viper.BindEnv("scheduler.cron", "SCHEDULER_CRON")
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		return fmt.Errorf("database host, user, and dbname are required")
	}

	if c.Notifier.WarnDays < 0 {
		return fmt.Errorf("warn days must not be negative")
	}

	if c.Scheduler.Enabled && c.Scheduler.Cron == "" {
		return fmt.Errorf("scheduler cron expression is required when the scheduler is enabled")
	}

	return nil
}

// DefaultSettings builds the settings row seeded on first boot from
// the bootstrap configuration and the default templates.
func (c *Config) DefaultSettings() model.Settings {
	return model.Settings{
		AsaasURL:          c.Asaas.URL,
		AsaasToken:        c.Asaas.Token,
		EvolutionURL:      c.Evolution.URL,
		EvolutionInstance: c.Evolution.Instance,
		EvolutionAPIKey:   c.Evolution.APIKey,
		WarnDays:          c.Notifier.WarnDays,
		TemplateDueToday:  DefaultTemplateDueToday,
		TemplateReminder:  DefaultTemplateReminder,
		TemplateOverdue:   DefaultTemplateOverdue,
	}
}
