package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinovahealth/clinicflow/internal/domain/pharmacy"
	"github.com/clinovahealth/clinicflow/pkg/metrics"
)

// PharmacyService owns the prescription order queue and the inventory ledger.
type PharmacyService struct {
	orders    pharmacy.OrderRepository
	inventory pharmacy.InventoryRepository
	auditSvc  *AuditService
	metrics   *metrics.Collector
	log       *zap.Logger
}

func NewPharmacyService(
	orders pharmacy.OrderRepository,
	inventory pharmacy.InventoryRepository,
	auditSvc *AuditService,
	m *metrics.Collector,
	log *zap.Logger,
) *PharmacyService {
	return &PharmacyService{
		orders:    orders,
		inventory: inventory,
		auditSvc:  auditSvc,
		metrics:   m,
		log:       log,
	}
}

// DispenseResult reports what actually left the shelf.
type DispenseResult struct {
	Order *pharmacy.PrescriptionOrder
	// Deficits maps medicine name to the shortfall for lines where stock ran
	// out before the prescribed quantity was covered.
	Deficits map[string]int
	Total    int64
}

// Dispense marks a pending order dispensed and deducts each line from
// inventory, flooring stock at zero. Dispensing twice returns
// ErrOrderAlreadyDispensed and touches no stock, so a double click can
// change inventory at most once. Lines whose medicine id is not in the
// inventory are skipped: the bill still charges the prescribed amounts.
func (s *PharmacyService) Dispense(ctx context.Context, orderID uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*DispenseResult, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.MarkDispensed(); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("updating order: %w", err)
	}

	result := &DispenseResult{
		Order:    order,
		Deficits: make(map[string]int),
		Total:    order.Total(),
	}

	for _, line := range order.Items {
		item, err := s.inventory.GetItem(ctx, line.MedicineID)
		if err != nil {
			if errors.Is(err, pharmacy.ErrItemNotFound) {
				s.log.Warn("dispensing unknown medicine, skipping stock deduction",
					zap.String("order_id", orderID.String()),
					zap.String("medicine", line.Name),
				)
				continue
			}
			return nil, fmt.Errorf("loading inventory item: %w", err)
		}

		if line.Quantity > item.Stock {
			result.Deficits[line.Name] = line.Quantity - item.Stock
			s.metrics.StockDeficitTotal.Inc()
		}
		item.Deduct(line.Quantity)
		if err := s.inventory.UpdateItem(ctx, item); err != nil {
			return nil, fmt.Errorf("updating inventory item: %w", err)
		}
	}

	s.metrics.DispensesTotal.Inc()

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "prescription_order", ResourceID: orderID.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"status":"dispensed","total":%d}`, result.Total),
	})

	return result, nil
}

func (s *PharmacyService) GetOrder(ctx context.Context, id uuid.UUID) (*pharmacy.PrescriptionOrder, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *PharmacyService) ListOrders(ctx context.Context, q *pharmacy.ListOrdersQuery) ([]*pharmacy.PrescriptionOrder, error) {
	return s.orders.List(ctx, q)
}

func (s *PharmacyService) ListInventory(ctx context.Context, q *pharmacy.ListInventoryQuery) ([]*pharmacy.InventoryItem, error) {
	return s.inventory.ListItems(ctx, q)
}

// UpdateStock sets an item's stock to an absolute count, as entered by the
// pharmacist after a physical recount or restock.
func (s *PharmacyService) UpdateStock(ctx context.Context, cmd *pharmacy.UpdateStockCommand, callerRole string, ip string) (*pharmacy.InventoryItem, error) {
	if cmd.Stock < 0 {
		return nil, pharmacy.ErrNegativeStock
	}

	item, err := s.inventory.GetItem(ctx, cmd.ItemID)
	if err != nil {
		return nil, err
	}

	prev := item.Stock
	item.Stock = cmd.Stock
	if err := s.inventory.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("updating inventory item: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: cmd.UpdatedBy, UserRole: callerRole,
		Action: "update", ResourceType: "inventory_item", ResourceID: cmd.ItemID.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"stock":{"from":%d,"to":%d}}`, prev, cmd.Stock),
	})

	return item, nil
}
