package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinovahealth/clinicflow/internal/domain/patient"
	"github.com/clinovahealth/clinicflow/pkg/metrics"
)

type PatientService struct {
	repo     patient.Repository
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewPatientService(repo patient.Repository, auditSvc *AuditService, m *metrics.Collector, log *zap.Logger) *PatientService {
	return &PatientService{repo: repo, auditSvc: auditSvc, metrics: m, log: log}
}

func (s *PatientService) Register(ctx context.Context, cmd *patient.RegisterPatientCommand, callerID uuid.UUID, callerRole string, ip string) (*patient.Patient, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	p := &patient.Patient{
		Name:      cmd.Name,
		Phone:     cmd.Phone,
		Age:       cmd.Age,
		Gender:    cmd.Gender,
		CreatedBy: cmd.CreatedBy,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("registering patient: %w", err)
	}
	s.metrics.PatientsRegisteredTotal.Inc()

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "create", ResourceType: "patient", ResourceID: p.ID.String(), IPAddress: ip,
	})

	s.log.Info("patient registered",
		zap.String("patient_id", p.ID.String()),
		zap.String("registered_by", callerID.String()),
	)

	return p, nil
}

func (s *PatientService) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PatientService) List(ctx context.Context, q *patient.ListPatientsQuery) ([]*patient.Patient, error) {
	return s.repo.List(ctx, q)
}
