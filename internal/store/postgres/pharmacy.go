package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinovahealth/clinicflow/internal/domain/pharmacy"
)

type orderRepo struct {
	db *gorm.DB
}

func (r *orderRepo) Create(ctx context.Context, o *pharmacy.PrescriptionOrder) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*pharmacy.PrescriptionOrder, error) {
	var o pharmacy.PrescriptionOrder
	err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pharmacy.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) Update(ctx context.Context, o *pharmacy.PrescriptionOrder) error {
	res := r.db.WithContext(ctx).Model(&pharmacy.PrescriptionOrder{}).
		Where("id = ?", o.ID).
		Update("status", o.Status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pharmacy.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepo) List(ctx context.Context, q *pharmacy.ListOrdersQuery) ([]*pharmacy.PrescriptionOrder, error) {
	tx := r.db.WithContext(ctx).Order("created_at ASC")
	if q != nil {
		if q.Status != nil {
			tx = tx.Where("status = ?", *q.Status)
		}
		if q.PatientID != nil {
			tx = tx.Where("patient_id = ?", *q.PatientID)
		}
	}

	var out []*pharmacy.PrescriptionOrder
	if err := tx.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type inventoryRepo struct {
	db *gorm.DB
}

func (r *inventoryRepo) CreateItem(ctx context.Context, i *pharmacy.InventoryItem) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *inventoryRepo) GetItem(ctx context.Context, id uuid.UUID) (*pharmacy.InventoryItem, error) {
	var i pharmacy.InventoryItem
	err := r.db.WithContext(ctx).First(&i, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pharmacy.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *inventoryRepo) UpdateItem(ctx context.Context, i *pharmacy.InventoryItem) error {
	res := r.db.WithContext(ctx).Model(&pharmacy.InventoryItem{}).
		Where("id = ?", i.ID).
		Updates(map[string]any{
			"stock":    i.Stock,
			"price":    i.Price,
			"expiry":   i.Expiry,
			"batch_no": i.BatchNo,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pharmacy.ErrItemNotFound
	}
	return nil
}

func (r *inventoryRepo) ListItems(ctx context.Context, q *pharmacy.ListInventoryQuery) ([]*pharmacy.InventoryItem, error) {
	tx := r.db.WithContext(ctx).Order("name ASC")
	if q != nil {
		if search := strings.TrimSpace(q.Search); search != "" {
			pattern := "%" + search + "%"
			tx = tx.Where("name ILIKE ? OR category ILIKE ?", pattern, pattern)
		}
		if q.OnlyLow {
			tx = tx.Where("stock < ?", pharmacy.LowStockThreshold)
		}
	}

	var out []*pharmacy.InventoryItem
	if err := tx.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
