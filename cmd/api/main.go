package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/clinirec/clinical-api/internal/config"
	"github.com/clinirec/clinical-api/internal/docstore/postgres"
	"github.com/clinirec/clinical-api/internal/email"
	"github.com/clinirec/clinical-api/internal/handler"
	assignmentHandler "github.com/clinirec/clinical-api/internal/handler/assignment"
	doctorHandler "github.com/clinirec/clinical-api/internal/handler/doctor"
	facilityHandler "github.com/clinirec/clinical-api/internal/handler/facility"
	familyHistoryHandler "github.com/clinirec/clinical-api/internal/handler/familyhistory"
	patientHandler "github.com/clinirec/clinical-api/internal/handler/patient"
	recordHandler "github.com/clinirec/clinical-api/internal/handler/record"
	reviewHandler "github.com/clinirec/clinical-api/internal/handler/review"
	repo "github.com/clinirec/clinical-api/internal/repository/docstore"
	"github.com/clinirec/clinical-api/internal/router"
	assignmentService "github.com/clinirec/clinical-api/internal/service/assignment"
	doctorService "github.com/clinirec/clinical-api/internal/service/doctor"
	facilityService "github.com/clinirec/clinical-api/internal/service/facility"
	familyHistoryService "github.com/clinirec/clinical-api/internal/service/familyhistory"
	identityService "github.com/clinirec/clinical-api/internal/service/identity"
	patientService "github.com/clinirec/clinical-api/internal/service/patient"
	reviewService "github.com/clinirec/clinical-api/internal/service/review"
	reviewerService "github.com/clinirec/clinical-api/internal/service/reviewer"
	submissionService "github.com/clinirec/clinical-api/internal/service/submission"
	"github.com/clinirec/clinical-api/pkg/logger"
	redisBroker "github.com/clinirec/clinical-api/pkg/messaging/redis"
	"github.com/clinirec/clinical-api/pkg/metrics"
	"github.com/clinirec/clinical-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	zl := appLogger.Zerolog()

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("failed to load timezone")
	}

	registry := prometheus.NewRegistry()
	appMetrics := metrics.NewMetrics(registry, "clinical", "api")

	store, err := postgres.NewStore(postgres.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	}, appMetrics)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to document store")
	}
	defer store.Close()

	// Repositories
	patientRepo := repo.NewPatientRepository(store)
	doctorRepo := repo.NewDoctorRepository(store)
	facilityRepo := repo.NewFacilityRepository(store)
	assignmentRepo := repo.NewAssignmentRepository(store)
	pendingRepo := repo.NewPendingRepository(store)
	archiveRepo := repo.NewArchiveRepository(store)
	notificationRepo := repo.NewNotificationRepository(store)
	familyHistoryRepo := repo.NewFamilyHistoryRepository(store)
	outboxRepo := repo.NewOutboxRepository(store)

	// Email
	emailSvc := email.NewNoop()
	if cfg.SMTP.Enabled {
		emailSvc = email.NewSMTP(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			AdminTo:  cfg.SMTP.AdminTo,
		})
	}

	// Services
	identitySvc := identityService.NewService(facilityRepo, doctorRepo)
	reviewerSvc := reviewerService.NewService(patientRepo, assignmentRepo, doctorRepo, facilityRepo)
	patientSvc := patientService.NewService(patientRepo, location)
	doctorSvc := doctorService.NewService(doctorRepo, location)
	facilitySvc := facilityService.NewService(facilityRepo, location)
	familyHistorySvc := familyHistoryService.NewService(patientRepo, familyHistoryRepo, location)
	submissionSvc := submissionService.NewService(
		patientRepo, facilityRepo, pendingRepo, outboxRepo,
		identitySvc, reviewerSvc, appMetrics, appLogger, location,
	)
	reviewSvc := reviewService.NewService(
		patientRepo, pendingRepo, archiveRepo, outboxRepo,
		reviewerSvc, identitySvc, appMetrics, appLogger, location,
	)
	assignmentSvc := assignmentService.NewService(
		patientRepo, doctorRepo, assignmentRepo, notificationRepo,
		outboxRepo, emailSvc, appLogger, location,
	)

	// Outbox processor
	broker, err := redisBroker.NewRedisBroker(redisBroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, zl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer broker.Close()

	processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval(),
		RetryAttempts: cfg.Outbox.RetryAttempts,
	}, appLogger, appMetrics)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go processor.Start(ctx)

	// HTTP layer
	r := router.NewRouter(*zl, registry, handler.NewHandler(store), router.Config{
		RateLimit: rate.Limit(cfg.RateLimit.RPS),
		RateBurst: cfg.RateLimit.Burst,
		Timeout:   time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	},
		patientHandler.NewHandler(patientSvc),
		recordHandler.NewHandler(submissionSvc, patientSvc),
		familyHistoryHandler.NewHandler(familyHistorySvc),
		assignmentHandler.NewHandler(assignmentSvc, reviewerSvc),
		reviewHandler.NewHandler(reviewSvc),
		facilityHandler.NewHandler(facilitySvc),
		doctorHandler.NewHandler(doctorSvc),
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		appLogger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	appLogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(err, "graceful shutdown failed")
	}
}
