package pharmacy

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

// State transitions possibilities:
//
//	pending → dispensed (terminal)
const (
	StatusPending   OrderStatus = "pending"
	StatusDispensed OrderStatus = "dispensed"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusDispensed:
		return true
	}
	return false
}

// PrescriptionItem is a single line on a prescription. UnitPrice is in
// minor currency units; totals are computed with integer arithmetic only.
type PrescriptionItem struct {
	MedicineID uuid.UUID `json:"medicine_id"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	Dosage     string    `json:"dosage"` // e.g. "1-0-1", "SOS"
	UnitPrice  int64     `json:"unit_price"`
}

type PrescriptionOrder struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	AppointmentID uuid.UUID `json:"appointment_id" gorm:"column:appointment_id;type:uuid;not null;index"`
	PatientID     uuid.UUID `json:"patient_id" gorm:"column:patient_id;type:uuid;not null;index"`

	// Snapshot taken at consultation finalize, never synced afterward.
	PatientName string `json:"patient_name" gorm:"column:patient_name;type:varchar(200);not null"`
	DoctorName  string `json:"doctor_name" gorm:"column:doctor_name;type:varchar(200);not null"`
	TimeSlot    string `json:"time_slot" gorm:"column:time_slot;type:varchar(20)"`

	Status OrderStatus        `json:"status" gorm:"column:status;type:varchar(20);not null;default:'pending';index"`
	Items  []PrescriptionItem `json:"items" gorm:"column:items;serializer:json"`
}

func (PrescriptionOrder) TableName() string {
	return "pharmacy.prescription_orders"
}

// MarkDispensed transitions the order to its terminal state.
// Returns ErrOrderAlreadyDispensed if already terminal.
func (o *PrescriptionOrder) MarkDispensed() error {
	if o.Status == StatusDispensed {
		return ErrOrderAlreadyDispensed
	}
	o.Status = StatusDispensed
	return nil
}

// Total is the order bill: Σ quantity × unit price, exact.
func (o *PrescriptionOrder) Total() int64 {
	return ComputeTotal(o.Items)
}

// ComputeTotal sums quantity × unit price across items using integer
// arithmetic so repeated summation never drifts.
func ComputeTotal(items []PrescriptionItem) int64 {
	var total int64
	for _, it := range items {
		total += int64(it.Quantity) * it.UnitPrice
	}
	return total
}

type StockStatus string

const (
	StockStatusOut StockStatus = "out_of_stock"
	StockStatusLow StockStatus = "low_stock"
	StockStatusIn  StockStatus = "in_stock"
)

// LowStockThreshold is the stock count below which an item is flagged low.
const LowStockThreshold = 20

type InventoryItem struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Name     string `json:"name" gorm:"column:name;type:varchar(255);not null;index"`
	Category string `json:"category" gorm:"column:category;type:varchar(100)"`
	Stock    int    `json:"stock" gorm:"column:stock;not null;default:0"`
	Unit     string `json:"unit" gorm:"column:unit;type:varchar(50)"`
	Price    int64  `json:"price" gorm:"column:price;not null"`

	Expiry  time.Time `json:"expiry" gorm:"column:expiry"`
	BatchNo string    `json:"batch_no" gorm:"column:batch_no;type:varchar(50)"`
}

func (InventoryItem) TableName() string {
	return "pharmacy.inventory_items"
}

// StockStatus is derived from the current count, never stored, so it can
// never disagree with Stock.
func (i *InventoryItem) StockStatus() StockStatus {
	switch {
	case i.Stock <= 0:
		return StockStatusOut
	case i.Stock < LowStockThreshold:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// Deduct removes qty from stock, floored at zero. The deficit, if any, is
// absorbed: the pharmacy dispenses what is available.
func (i *InventoryItem) Deduct(qty int) {
	i.Stock -= qty
	if i.Stock < 0 {
		i.Stock = 0
	}
}

func (i *InventoryItem) IsExpired(now time.Time) bool {
	return !i.Expiry.IsZero() && now.After(i.Expiry)
}

type ListOrdersQuery struct {
	Status    *OrderStatus
	PatientID *uuid.UUID
}

type ListInventoryQuery struct {
	Search  string // substring match on name or category
	OnlyLow bool   // low or out of stock
}

type UpdateStockCommand struct {
	ItemID    uuid.UUID
	Stock     int
	UpdatedBy uuid.UUID
}
