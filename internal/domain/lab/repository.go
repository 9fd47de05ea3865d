package lab

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, o *LabOrder) error

	// GetByID returns ErrOrderNotFound when the id is unknown.
	GetByID(ctx context.Context, id uuid.UUID) (*LabOrder, error)

	// Update persists status changes on an existing order.
	Update(ctx context.Context, o *LabOrder) error

	// List returns orders in creation order, optionally filtered.
	List(ctx context.Context, q *ListOrdersQuery) ([]*LabOrder, error)

	// CountByStatus aggregates order counts for the dashboard.
	CountByStatus(ctx context.Context) (*StatusCounts, error)
}
