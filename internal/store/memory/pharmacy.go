package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/clinovahealth/clinicflow/internal/domain/pharmacy"
)

type orderRepo Store

func cloneOrder(o *pharmacy.PrescriptionOrder) *pharmacy.PrescriptionOrder {
	cp := *o
	if o.Items != nil {
		cp.Items = append([]pharmacy.PrescriptionItem(nil), o.Items...)
	}
	return &cp
}

func (r *orderRepo) Create(_ context.Context, o *pharmacy.PrescriptionOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ensureID(&o.ID)
	r.orders = append(r.orders, cloneOrder(o))
	return nil
}

func (r *orderRepo) GetByID(_ context.Context, id uuid.UUID) (*pharmacy.PrescriptionOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.orders {
		if o.ID == id {
			return cloneOrder(o), nil
		}
	}
	return nil, pharmacy.ErrOrderNotFound
}

func (r *orderRepo) Update(_ context.Context, o *pharmacy.PrescriptionOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, got := range r.orders {
		if got.ID == o.ID {
			r.orders[i] = cloneOrder(o)
			return nil
		}
	}
	return pharmacy.ErrOrderNotFound
}

func (r *orderRepo) List(_ context.Context, q *pharmacy.ListOrdersQuery) ([]*pharmacy.PrescriptionOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*pharmacy.PrescriptionOrder, 0, len(r.orders))
	for _, o := range r.orders {
		if q != nil {
			if q.Status != nil && o.Status != *q.Status {
				continue
			}
			if q.PatientID != nil && o.PatientID != *q.PatientID {
				continue
			}
		}
		out = append(out, cloneOrder(o))
	}
	return out, nil
}

type inventoryRepo Store

func (r *inventoryRepo) CreateItem(_ context.Context, i *pharmacy.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ensureID(&i.ID)
	cp := *i
	r.inventory = append(r.inventory, &cp)
	return nil
}

func (r *inventoryRepo) GetItem(_ context.Context, id uuid.UUID) (*pharmacy.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, i := range r.inventory {
		if i.ID == id {
			cp := *i
			return &cp, nil
		}
	}
	return nil, pharmacy.ErrItemNotFound
}

func (r *inventoryRepo) UpdateItem(_ context.Context, i *pharmacy.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for idx, got := range r.inventory {
		if got.ID == i.ID {
			cp := *i
			r.inventory[idx] = &cp
			return nil
		}
	}
	return pharmacy.ErrItemNotFound
}

func (r *inventoryRepo) ListItems(_ context.Context, q *pharmacy.ListInventoryQuery) ([]*pharmacy.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*pharmacy.InventoryItem, 0, len(r.inventory))
	for _, i := range r.inventory {
		if q != nil {
			if search := strings.ToLower(strings.TrimSpace(q.Search)); search != "" &&
				!strings.Contains(strings.ToLower(i.Name), search) &&
				!strings.Contains(strings.ToLower(i.Category), search) {
				continue
			}
			if q.OnlyLow && i.StockStatus() == pharmacy.StockStatusIn {
				continue
			}
		}
		cp := *i
		out = append(out, &cp)
	}
	return out, nil
}
