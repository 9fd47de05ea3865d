package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinovahealth/clinicflow/internal/domain/appointment"
)

type appointmentRepo struct {
	db *gorm.DB
}

func (r *appointmentRepo) Create(ctx context.Context, a *appointment.Appointment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *appointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appointment.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *appointmentRepo) Update(ctx context.Context, a *appointment.Appointment) error {
	res := r.db.WithContext(ctx).Model(&appointment.Appointment{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"status":        a.Status,
			"token_number":  a.TokenNumber,
			"symptoms":      a.Symptoms,
			"diagnosis":     a.Diagnosis,
			"prescriptions": a.Prescriptions,
			"lab_tests":     a.LabTests,
			"total_bill":    a.TotalBill,
			"paid":          a.Paid,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}

func (r *appointmentRepo) List(ctx context.Context, q *appointment.ListAppointmentsQuery) ([]*appointment.Appointment, error) {
	tx := r.db.WithContext(ctx).Order("created_at ASC")
	if q != nil {
		if q.Status != nil {
			tx = tx.Where("status = ?", *q.Status)
		}
		if q.PatientID != nil {
			tx = tx.Where("patient_id = ?", *q.PatientID)
		}
		if search := strings.TrimSpace(q.Search); search != "" {
			pattern := "%" + search + "%"
			tx = tx.Where("patient_name ILIKE ? OR token_number ILIKE ?", pattern, pattern)
		}
	}

	var out []*appointment.Appointment
	if err := tx.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *appointmentRepo) Queue(ctx context.Context) ([]*appointment.Appointment, error) {
	var out []*appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("status IN ?", []appointment.Status{appointment.StatusWaiting, appointment.StatusInProgress}).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *appointmentRepo) ActiveTokens(ctx context.Context) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).Model(&appointment.Appointment{}).
		Where("status NOT IN ?", []appointment.Status{appointment.StatusCompleted, appointment.StatusCancelled}).
		Where("token_number <> ''").
		Pluck("token_number", &tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}
