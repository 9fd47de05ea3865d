package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/clinovahealth/clinicflow/internal/domain/lab"
)

type labRepo Store

func (r *labRepo) Create(_ context.Context, o *lab.LabOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ensureID(&o.ID)
	cp := *o
	r.labOrders = append(r.labOrders, &cp)
	return nil
}

func (r *labRepo) GetByID(_ context.Context, id uuid.UUID) (*lab.LabOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.labOrders {
		if o.ID == id {
			cp := *o
			return &cp, nil
		}
	}
	return nil, lab.ErrOrderNotFound
}

func (r *labRepo) Update(_ context.Context, o *lab.LabOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, got := range r.labOrders {
		if got.ID == o.ID {
			cp := *o
			r.labOrders[i] = &cp
			return nil
		}
	}
	return lab.ErrOrderNotFound
}

func (r *labRepo) List(_ context.Context, q *lab.ListOrdersQuery) ([]*lab.LabOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*lab.LabOrder, 0, len(r.labOrders))
	for _, o := range r.labOrders {
		if q != nil {
			if q.Status != nil && o.Status != *q.Status {
				continue
			}
			if q.Priority != nil && o.Priority != *q.Priority {
				continue
			}
			if search := strings.ToLower(strings.TrimSpace(q.Search)); search != "" &&
				!strings.Contains(strings.ToLower(o.PatientName), search) &&
				!strings.Contains(strings.ToLower(o.TestName), search) {
				continue
			}
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (r *labRepo) CountByStatus(_ context.Context) (*lab.StatusCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := &lab.StatusCounts{}
	for _, o := range r.labOrders {
		switch o.Status {
		case lab.StatusPending:
			counts.Pending++
		case lab.StatusProcessing:
			counts.Processing++
		case lab.StatusCompleted:
			counts.Completed++
		}
	}
	return counts, nil
}
