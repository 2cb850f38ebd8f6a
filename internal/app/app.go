package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"billing-reminder-go/internal/asaas"
	"billing-reminder-go/internal/config"
	"billing-reminder-go/internal/database"
	"billing-reminder-go/internal/evolution"
	"billing-reminder-go/internal/handler"
	"billing-reminder-go/internal/metrics"
	"billing-reminder-go/internal/model"
	"billing-reminder-go/internal/notifier"
	"billing-reminder-go/internal/scheduler"
	"billing-reminder-go/internal/server"
	"billing-reminder-go/internal/storage"
)

// Run initializes and starts the application
func Run() error {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	logrus.Info("Starting Billing Reminder Service")

	// A missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	store, err := storage.New(db, cfg.DefaultSettings())
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	m := metrics.NewMetrics()

	runner := notifier.NewRunner(store,
		func(s *model.Settings) notifier.BillingProvider {
			return asaas.NewClient(s.AsaasURL, s.AsaasToken)
		},
		func(s *model.Settings) notifier.Gateway {
			return evolution.NewClient(s.EvolutionURL, s.EvolutionInstance, s.EvolutionAPIKey)
		},
		m,
	)

	sched := scheduler.NewScheduler(&cfg.Scheduler, runner)

	h := handler.NewHandlers(db, store, runner, sched)
	router := server.SetupRouter(h)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if cfg.Scheduler.Enabled {
		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	}

	go func() {
		logrus.Infof("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sched.Stop(); err != nil {
		logrus.Errorf("Failed to stop scheduler: %v", err)
	}
	sched.Wait()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("HTTP server shutdown error: %v", err)
	}

	logrus.Info("Server stopped gracefully")
	return nil
}
