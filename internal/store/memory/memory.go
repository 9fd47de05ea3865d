// Package memory is the session-scoped store: every collection lives in
// process memory and resets on restart. A single store-level mutex
// serializes mutations so concurrent check-ins cannot share a token and
// concurrent dispenses cannot both observe pre-decrement stock.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/clinovahealth/clinicflow/internal/domain"
	"github.com/clinovahealth/clinicflow/internal/domain/appointment"
	"github.com/clinovahealth/clinicflow/internal/domain/lab"
	"github.com/clinovahealth/clinicflow/internal/domain/patient"
	"github.com/clinovahealth/clinicflow/internal/domain/pharmacy"
)

type Store struct {
	mu sync.Mutex

	// Insertion-ordered collections; queue order is defined as insertion
	// order, so slices rather than maps.
	patients     []*patient.Patient
	appointments []*appointment.Appointment
	orders       []*pharmacy.PrescriptionOrder
	inventory    []*pharmacy.InventoryItem
	labOrders    []*lab.LabOrder
	users        []*domain.User
	auditLog     []*domain.AuditLog
}

func New() *Store {
	return &Store{}
}

func (s *Store) Patients() patient.Repository { return (*patientRepo)(s) }

func (s *Store) Appointments() appointment.Repository { return (*appointmentRepo)(s) }

func (s *Store) Orders() pharmacy.OrderRepository { return (*orderRepo)(s) }

func (s *Store) Inventory() pharmacy.InventoryRepository { return (*inventoryRepo)(s) }

func (s *Store) LabOrders() lab.Repository { return (*labRepo)(s) }

func (s *Store) Users() *UserRepo { return (*UserRepo)(s) }

func (s *Store) Audit() *AuditRepo { return (*AuditRepo)(s) }

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
