package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinovahealth/clinicflow/internal/domain/lab"
)

type labRepo struct {
	db *gorm.DB
}

func (r *labRepo) Create(ctx context.Context, o *lab.LabOrder) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *labRepo) GetByID(ctx context.Context, id uuid.UUID) (*lab.LabOrder, error) {
	var o lab.LabOrder
	err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, lab.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *labRepo) Update(ctx context.Context, o *lab.LabOrder) error {
	res := r.db.WithContext(ctx).Model(&lab.LabOrder{}).
		Where("id = ?", o.ID).
		Update("status", o.Status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return lab.ErrOrderNotFound
	}
	return nil
}

func (r *labRepo) List(ctx context.Context, q *lab.ListOrdersQuery) ([]*lab.LabOrder, error) {
	tx := r.db.WithContext(ctx).Order("created_at ASC")
	if q != nil {
		if q.Status != nil {
			tx = tx.Where("status = ?", *q.Status)
		}
		if q.Priority != nil {
			tx = tx.Where("priority = ?", *q.Priority)
		}
		if search := strings.TrimSpace(q.Search); search != "" {
			pattern := "%" + search + "%"
			tx = tx.Where("patient_name ILIKE ? OR test_name ILIKE ?", pattern, pattern)
		}
	}

	var out []*lab.LabOrder
	if err := tx.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *labRepo) CountByStatus(ctx context.Context) (*lab.StatusCounts, error) {
	type row struct {
		Status lab.Status
		N      int
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&lab.LabOrder{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := &lab.StatusCounts{}
	for _, rw := range rows {
		switch rw.Status {
		case lab.StatusPending:
			counts.Pending = rw.N
		case lab.StatusProcessing:
			counts.Processing = rw.N
		case lab.StatusCompleted:
			counts.Completed = rw.N
		}
	}
	return counts, nil
}
