package pharmacy

import (
	"context"

	"github.com/google/uuid"
)

type OrderRepository interface {
	Create(ctx context.Context, o *PrescriptionOrder) error

	// GetByID returns ErrOrderNotFound when the id is unknown.
	GetByID(ctx context.Context, id uuid.UUID) (*PrescriptionOrder, error)

	// Update persists status changes on an existing order.
	Update(ctx context.Context, o *PrescriptionOrder) error

	// List returns orders in creation order, optionally filtered.
	List(ctx context.Context, q *ListOrdersQuery) ([]*PrescriptionOrder, error)
}

type InventoryRepository interface {
	CreateItem(ctx context.Context, i *InventoryItem) error

	// GetItem returns ErrItemNotFound when the id is unknown.
	GetItem(ctx context.Context, id uuid.UUID) (*InventoryItem, error)

	// UpdateItem persists stock adjustments.
	UpdateItem(ctx context.Context, i *InventoryItem) error

	ListItems(ctx context.Context, q *ListInventoryQuery) ([]*InventoryItem, error)
}
