package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinovahealth/clinicflow/internal/domain/patient"
)

type patientRepo struct {
	db *gorm.DB
}

func (r *patientRepo) Create(ctx context.Context, p *patient.Patient) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *patientRepo) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	var p patient.Patient
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, patient.ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *patientRepo) List(ctx context.Context, q *patient.ListPatientsQuery) ([]*patient.Patient, error) {
	tx := r.db.WithContext(ctx).Order("created_at ASC")
	if q != nil {
		if search := strings.TrimSpace(q.Search); search != "" {
			pattern := "%" + search + "%"
			tx = tx.Where("name ILIKE ? OR phone LIKE ?", pattern, pattern)
		}
	}

	var out []*patient.Patient
	if err := tx.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
