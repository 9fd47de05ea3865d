package lab

import (
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityRoutine Priority = "routine"
	PriorityUrgent  Priority = "urgent"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityRoutine, PriorityUrgent:
		return true
	}
	return false
}

// State transitions possibilities:
//
//	pending → processing → completed
//
// Strictly forward, no skip, no reverse.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted:
		return true
	}
	return false
}

type LabOrder struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	AppointmentID uuid.UUID `json:"appointment_id" gorm:"column:appointment_id;type:uuid;not null;index"`
	PatientID     uuid.UUID `json:"patient_id" gorm:"column:patient_id;type:uuid;not null;index"`

	// Snapshot taken at order creation, never synced afterward.
	PatientName string `json:"patient_name" gorm:"column:patient_name;type:varchar(200);not null"`
	DoctorName  string `json:"doctor_name" gorm:"column:doctor_name;type:varchar(200);not null"`

	TestName string   `json:"test_name" gorm:"column:test_name;type:varchar(255);not null"`
	Priority Priority `json:"priority" gorm:"column:priority;type:varchar(10);not null;default:'routine';index"`
	Status   Status   `json:"status" gorm:"column:status;type:varchar(20);not null;default:'pending';index"`
}

func (LabOrder) TableName() string {
	return "lab.orders"
}

// Advance moves the order one step forward. Returns false when the order is
// already completed; calling Advance on a completed order is a no-op.
func (o *LabOrder) Advance() bool {
	switch o.Status {
	case StatusPending:
		o.Status = StatusProcessing
		return true
	case StatusProcessing:
		o.Status = StatusCompleted
		return true
	default:
		return false
	}
}

type ListOrdersQuery struct {
	Search   string // substring match on patient name or test name
	Status   *Status
	Priority *Priority
}

// StatusCounts backs the lab dashboard header.
type StatusCounts struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
}
