package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/clinovahealth/clinicflow/internal/advisory"
	"github.com/clinovahealth/clinicflow/internal/authz"
	"github.com/clinovahealth/clinicflow/internal/config"
	"github.com/clinovahealth/clinicflow/internal/domain/appointment"
	"github.com/clinovahealth/clinicflow/internal/domain/lab"
	"github.com/clinovahealth/clinicflow/internal/domain/patient"
	"github.com/clinovahealth/clinicflow/internal/domain/pharmacy"
	v1 "github.com/clinovahealth/clinicflow/internal/handler/v1"
	"github.com/clinovahealth/clinicflow/internal/service"
	"github.com/clinovahealth/clinicflow/internal/store/memory"
	"github.com/clinovahealth/clinicflow/internal/store/postgres"
	"github.com/clinovahealth/clinicflow/pkg/auth"
	"github.com/clinovahealth/clinicflow/pkg/database"
	"github.com/clinovahealth/clinicflow/pkg/logger"
	"github.com/clinovahealth/clinicflow/pkg/metrics"
	"github.com/clinovahealth/clinicflow/pkg/tracer"
)

// repositories is the backend-agnostic repository set. Both stores satisfy
// it, so the rest of main never branches on the driver.
type repositories interface {
	Patients() patient.Repository
	Appointments() appointment.Repository
	Orders() pharmacy.OrderRepository
	Inventory() pharmacy.InventoryRepository
	LabOrders() lab.Repository
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("starting clinicflow",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("store", cfg.Store.Driver),
	)

	if err := authz.Validate(); err != nil {
		return fmt.Errorf("authorization table: %w", err)
	}

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracer: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	m := metrics.NewCollector("clinicflow", prometheus.DefaultRegisterer)

	var (
		repos     repositories
		userRepo  service.UserRepository
		auditRepo service.AuditRepository
	)

	switch cfg.Store.Driver {
	case "postgres":
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		if err := database.Migrate(db, log); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
		st := postgres.New(db)
		repos, userRepo, auditRepo = st, st.Users(), st.Audit()

	default:
		st := memory.New()
		seedPassword := os.Getenv("SEED_PASSWORD")
		if seedPassword == "" {
			seedPassword = "clinicflow-dev"
		}
		if err := memory.Seed(context.Background(), st, seedPassword); err != nil {
			return fmt.Errorf("seeding memory store: %w", err)
		}
		repos, userRepo, auditRepo = st, st.Users(), st.Audit()
		log.Info("memory store seeded; state resets on restart")
	}

	jwtManager := auth.NewJWTManager(cfg.JWT)

	auditSvc := service.NewAuditService(auditRepo, m, log)
	defer auditSvc.Shutdown()

	authSvc := service.NewAuthService(userRepo, jwtManager, log)
	patientSvc := service.NewPatientService(repos.Patients(), auditSvc, m, log)
	flowSvc := service.NewFlowService(
		repos.Appointments(), repos.Patients(), repos.Orders(), repos.LabOrders(),
		auditSvc, m, log, cfg.Clinic.TokenPrefix, cfg.Clinic.ConsultationFee,
	)
	pharmacySvc := service.NewPharmacyService(repos.Orders(), repos.Inventory(), auditSvc, m, log)
	labSvc := service.NewLabService(repos.LabOrders(), auditSvc, m, log)
	advisoryClient := advisory.NewClient(cfg.Advisory, m, log)

	router := v1.NewRouter(v1.Dependencies{
		Config:      cfg,
		JWTManager:  jwtManager,
		Metrics:     m,
		Logger:      log,
		AuthSvc:     authSvc,
		PatientSvc:  patientSvc,
		FlowSvc:     flowSvc,
		PharmacySvc: pharmacySvc,
		LabSvc:      labSvc,
		Advisory:    advisoryClient,
	})

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("clinicflow stopped")
	return nil
}
