// Package postgres is the durable store. It mirrors the memory store's
// repository surface on top of GORM; row-level locking (FOR UPDATE inside a
// transaction) serializes per-entity mutations where the memory store uses
// its mutex.
package postgres

import (
	"gorm.io/gorm"

	"github.com/clinovahealth/clinicflow/internal/domain/appointment"
	"github.com/clinovahealth/clinicflow/internal/domain/lab"
	"github.com/clinovahealth/clinicflow/internal/domain/patient"
	"github.com/clinovahealth/clinicflow/internal/domain/pharmacy"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Patients() patient.Repository { return &patientRepo{db: s.db} }

func (s *Store) Appointments() appointment.Repository { return &appointmentRepo{db: s.db} }

func (s *Store) Orders() pharmacy.OrderRepository { return &orderRepo{db: s.db} }

func (s *Store) Inventory() pharmacy.InventoryRepository { return &inventoryRepo{db: s.db} }

func (s *Store) LabOrders() lab.Repository { return &labRepo{db: s.db} }

func (s *Store) Users() *UserRepo { return &UserRepo{db: s.db} }

func (s *Store) Audit() *AuditRepo { return &AuditRepo{db: s.db} }
