package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/clinovahealth/clinicflow/internal/domain/patient"
)

type patientRepo Store

func (r *patientRepo) Create(_ context.Context, p *patient.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ensureID(&p.ID)
	cp := *p
	r.patients = append(r.patients, &cp)
	return nil
}

func (r *patientRepo) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.patients {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, patient.ErrPatientNotFound
}

func (r *patientRepo) List(_ context.Context, q *patient.ListPatientsQuery) ([]*patient.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var search string
	if q != nil {
		search = strings.ToLower(strings.TrimSpace(q.Search))
	}

	out := make([]*patient.Patient, 0, len(r.patients))
	for _, p := range r.patients {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(p.Phone, search) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}
