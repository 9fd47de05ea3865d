package appointment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error

	// GetByID returns ErrAppointmentNotFound when the id is unknown.
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// Update persists state changes on an existing appointment.
	Update(ctx context.Context, a *Appointment) error

	// List returns appointments in insertion order, optionally filtered.
	List(ctx context.Context, q *ListAppointmentsQuery) ([]*Appointment, error)

	// Queue returns the doctor's active queue: waiting and in-progress
	// appointments in stable insertion order.
	Queue(ctx context.Context) ([]*Appointment, error)

	// ActiveTokens returns every token currently held by a non-terminal
	// appointment. Token issuance must not collide with this set.
	ActiveTokens(ctx context.Context) ([]string, error)
}
