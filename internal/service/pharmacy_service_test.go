package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clinovahealth/clinicflow/internal/domain/pharmacy"
	"github.com/clinovahealth/clinicflow/internal/store/memory"
	"github.com/clinovahealth/clinicflow/pkg/metrics"
)

func newPharmacyFixture(t *testing.T) (*PharmacyService, *memory.Store) {
	t.Helper()
	st := memory.New()
	m := metrics.NewCollector("test", prometheus.NewRegistry())
	log := zap.NewNop()
	auditSvc := NewAuditService(st.Audit(), m, log)
	t.Cleanup(auditSvc.Shutdown)

	return NewPharmacyService(st.Orders(), st.Inventory(), auditSvc, m, log), st
}

func seedItem(t *testing.T, st *memory.Store, name string, stock int, price int64) *pharmacy.InventoryItem {
	t.Helper()
	item := &pharmacy.InventoryItem{Name: name, Stock: stock, Price: price, Unit: "Tablets"}
	require.NoError(t, st.Inventory().CreateItem(context.Background(), item))
	return item
}

func seedOrder(t *testing.T, st *memory.Store, items []pharmacy.PrescriptionItem) *pharmacy.PrescriptionOrder {
	t.Helper()
	order := &pharmacy.PrescriptionOrder{
		AppointmentID: uuid.New(),
		PatientID:     uuid.New(),
		PatientName:   "Asha Rao",
		DoctorName:    "Dr. Sarah Wilson",
		Status:        pharmacy.StatusPending,
		Items:         items,
	}
	require.NoError(t, st.Orders().Create(context.Background(), order))
	return order
}

func TestDispenseDeductsStock(t *testing.T) {
	svc, st := newPharmacyFixture(t)
	ctx := context.Background()

	item := seedItem(t, st, "Amoxicillin 500mg", 45, 50)
	order := seedOrder(t, st, []pharmacy.PrescriptionItem{
		{MedicineID: item.ID, Name: item.Name, Quantity: 15, UnitPrice: 50},
	})

	result, err := svc.Dispense(ctx, order.ID, uuid.New(), "pharmacist", "")
	require.NoError(t, err)
	assert.Equal(t, pharmacy.StatusDispensed, result.Order.Status)
	assert.Equal(t, int64(750), result.Total)
	assert.Empty(t, result.Deficits)

	stored, err := st.Inventory().GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, stored.Stock)
}

func TestDispenseClampsStockAtZero(t *testing.T) {
	svc, st := newPharmacyFixture(t)
	ctx := context.Background()

	item := seedItem(t, st, "Azithromycin 250mg", 3, 150)
	order := seedOrder(t, st, []pharmacy.PrescriptionItem{
		{MedicineID: item.ID, Name: item.Name, Quantity: 5, UnitPrice: 150},
	})

	result, err := svc.Dispense(ctx, order.ID, uuid.New(), "pharmacist", "")
	require.NoError(t, err)

	stored, err := st.Inventory().GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Stock)
	assert.Equal(t, 2, result.Deficits[item.Name])

	// The bill charges the prescribed quantity regardless of the shortfall.
	assert.Equal(t, int64(750), result.Total)
}

func TestDispenseTwiceChangesStockOnce(t *testing.T) {
	svc, st := newPharmacyFixture(t)
	ctx := context.Background()

	item := seedItem(t, st, "Paracetamol 500mg", 500, 10)
	order := seedOrder(t, st, []pharmacy.PrescriptionItem{
		{MedicineID: item.ID, Name: item.Name, Quantity: 10, UnitPrice: 10},
	})

	_, err := svc.Dispense(ctx, order.ID, uuid.New(), "pharmacist", "")
	require.NoError(t, err)

	_, err = svc.Dispense(ctx, order.ID, uuid.New(), "pharmacist", "")
	require.ErrorIs(t, err, pharmacy.ErrOrderAlreadyDispensed)

	stored, err := st.Inventory().GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 490, stored.Stock)
}

func TestDispenseSkipsUnknownMedicine(t *testing.T) {
	svc, st := newPharmacyFixture(t)
	ctx := context.Background()

	item := seedItem(t, st, "Cetirizine 10mg", 85, 15)
	order := seedOrder(t, st, []pharmacy.PrescriptionItem{
		{MedicineID: item.ID, Name: item.Name, Quantity: 5, UnitPrice: 15},
		{MedicineID: uuid.New(), Name: "Discontinued Syrup", Quantity: 2, UnitPrice: 90},
	})

	result, err := svc.Dispense(ctx, order.ID, uuid.New(), "pharmacist", "")
	require.NoError(t, err)
	assert.Equal(t, pharmacy.StatusDispensed, result.Order.Status)
	// Unknown line contributes to the bill but touches no stock.
	assert.Equal(t, int64(255), result.Total)

	stored, err := st.Inventory().GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, stored.Stock)
}

func TestDispenseUnknownOrder(t *testing.T) {
	svc, _ := newPharmacyFixture(t)
	_, err := svc.Dispense(context.Background(), uuid.New(), uuid.New(), "pharmacist", "")
	require.ErrorIs(t, err, pharmacy.ErrOrderNotFound)
}

func TestUpdateStock(t *testing.T) {
	svc, st := newPharmacyFixture(t)
	ctx := context.Background()

	item := seedItem(t, st, "Omeprazole 20mg", 10, 40)

	updated, err := svc.UpdateStock(ctx, &pharmacy.UpdateStockCommand{
		ItemID: item.ID, Stock: 150, UpdatedBy: uuid.New(),
	}, "pharmacist", "")
	require.NoError(t, err)
	assert.Equal(t, 150, updated.Stock)
	assert.Equal(t, pharmacy.StockStatusIn, updated.StockStatus())

	_, err = svc.UpdateStock(ctx, &pharmacy.UpdateStockCommand{
		ItemID: item.ID, Stock: -1,
	}, "pharmacist", "")
	require.ErrorIs(t, err, pharmacy.ErrNegativeStock)

	_, err = svc.UpdateStock(ctx, &pharmacy.UpdateStockCommand{
		ItemID: uuid.New(), Stock: 5,
	}, "pharmacist", "")
	require.ErrorIs(t, err, pharmacy.ErrItemNotFound)
}

func TestListInventoryOnlyLow(t *testing.T) {
	svc, st := newPharmacyFixture(t)
	ctx := context.Background()

	seedItem(t, st, "Paracetamol 500mg", 500, 10)
	seedItem(t, st, "Azithromycin 250mg", 5, 150)
	seedItem(t, st, "Expired Stock", 0, 30)

	low, err := svc.ListInventory(ctx, &pharmacy.ListInventoryQuery{OnlyLow: true})
	require.NoError(t, err)
	require.Len(t, low, 2)
	for _, it := range low {
		assert.NotEqual(t, pharmacy.StockStatusIn, it.StockStatus())
	}
}
