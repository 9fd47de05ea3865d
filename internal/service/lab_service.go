package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinovahealth/clinicflow/internal/domain/lab"
	"github.com/clinovahealth/clinicflow/pkg/metrics"
)

type LabService struct {
	repo     lab.Repository
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewLabService(repo lab.Repository, auditSvc *AuditService, m *metrics.Collector, log *zap.Logger) *LabService {
	return &LabService{repo: repo, auditSvc: auditSvc, metrics: m, log: log}
}

// Advance moves a lab order one step forward on its fixed track. Advancing a
// completed order changes nothing and is not an error: the technician's view
// may be stale and a re-click must stay harmless.
func (s *LabService) Advance(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*lab.LabOrder, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !o.Advance() {
		return o, nil
	}

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("updating lab order: %w", err)
	}
	s.metrics.LabAdvancesTotal.WithLabelValues(string(o.Status)).Inc()

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "lab_order", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"status":"%s"}`, o.Status),
	})

	return o, nil
}

func (s *LabService) GetOrder(ctx context.Context, id uuid.UUID) (*lab.LabOrder, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *LabService) ListOrders(ctx context.Context, q *lab.ListOrdersQuery) ([]*lab.LabOrder, error) {
	return s.repo.List(ctx, q)
}

func (s *LabService) Counts(ctx context.Context) (*lab.StatusCounts, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		s.log.Error("failed to aggregate lab counts", zap.Error(err))
		return nil, err
	}
	return counts, nil
}
