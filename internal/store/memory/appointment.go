package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/clinovahealth/clinicflow/internal/domain/appointment"
	"github.com/clinovahealth/clinicflow/internal/domain/pharmacy"
)

type appointmentRepo Store

func cloneAppointment(a *appointment.Appointment) *appointment.Appointment {
	cp := *a
	if a.Prescriptions != nil {
		cp.Prescriptions = append([]pharmacy.PrescriptionItem(nil), a.Prescriptions...)
	}
	if a.LabTests != nil {
		cp.LabTests = append([]string(nil), a.LabTests...)
	}
	return &cp
}

func (r *appointmentRepo) Create(_ context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ensureID(&a.ID)
	r.appointments = append(r.appointments, cloneAppointment(a))
	return nil
}

func (r *appointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.appointments {
		if a.ID == id {
			return cloneAppointment(a), nil
		}
	}
	return nil, appointment.ErrAppointmentNotFound
}

func (r *appointmentRepo) Update(_ context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, got := range r.appointments {
		if got.ID == a.ID {
			r.appointments[i] = cloneAppointment(a)
			return nil
		}
	}
	return appointment.ErrAppointmentNotFound
}

func (r *appointmentRepo) List(_ context.Context, q *appointment.ListAppointmentsQuery) ([]*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*appointment.Appointment, 0, len(r.appointments))
	for _, a := range r.appointments {
		if q != nil {
			if q.Status != nil && a.Status != *q.Status {
				continue
			}
			if q.PatientID != nil && a.PatientID != *q.PatientID {
				continue
			}
			if search := strings.ToLower(strings.TrimSpace(q.Search)); search != "" &&
				!strings.Contains(strings.ToLower(a.PatientName), search) &&
				!strings.Contains(strings.ToLower(a.TokenNumber), search) {
				continue
			}
		}
		out = append(out, cloneAppointment(a))
	}
	return out, nil
}

func (r *appointmentRepo) Queue(_ context.Context) ([]*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*appointment.Appointment
	for _, a := range r.appointments {
		if a.Status == appointment.StatusWaiting || a.Status == appointment.StatusInProgress {
			out = append(out, cloneAppointment(a))
		}
	}
	return out, nil
}

func (r *appointmentRepo) ActiveTokens(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var tokens []string
	for _, a := range r.appointments {
		if a.IsActive() && a.TokenNumber != "" {
			tokens = append(tokens, a.TokenNumber)
		}
	}
	return tokens, nil
}
