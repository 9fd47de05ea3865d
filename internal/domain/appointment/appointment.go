package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinovahealth/clinicflow/internal/domain/pharmacy"
)

// State transitions possibilities:
//
//	scheduled → scheduled   (payment collected, no status change)
//	scheduled → waiting     (check-in, requires paid, assigns token)
//	waiting   → in_progress (doctor opens the chart)
//	waiting   → completed   (doctor finalizes directly from the queue)
//	in_progress → completed
//	any non-terminal → cancelled
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusWaiting, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Appointment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	PatientID uuid.UUID `json:"patient_id" gorm:"column:patient_id;type:uuid;not null;index"`

	// Display snapshot populated at creation from the referenced patient and
	// doctor. Not kept in sync afterward.
	PatientName string `json:"patient_name" gorm:"column:patient_name;type:varchar(200);not null"`
	DoctorName  string `json:"doctor_name" gorm:"column:doctor_name;type:varchar(200);not null"`

	TimeSlot string `json:"time_slot" gorm:"column:time_slot;type:varchar(20);not null"`
	Status   Status `json:"status" gorm:"column:status;type:varchar(20);not null;default:'scheduled';index"`

	// TokenNumber is assigned exactly once, at check-in. Invariant: set if
	// and only if Status ∈ {waiting, in_progress, completed}.
	TokenNumber string `json:"token_number" gorm:"column:token_number;type:varchar(10);index"`

	Symptoms  string `json:"symptoms" gorm:"column:symptoms;type:text"`
	Diagnosis string `json:"diagnosis" gorm:"column:diagnosis;type:text"`

	Prescriptions []pharmacy.PrescriptionItem `json:"prescriptions" gorm:"column:prescriptions;serializer:json"`
	LabTests      []string                    `json:"lab_tests" gorm:"column:lab_tests;serializer:json"`

	// TotalBill is in minor currency units.
	TotalBill int64 `json:"total_bill" gorm:"column:total_bill;not null;default:0"`
	Paid      bool  `json:"paid" gorm:"column:paid;not null;default:false"`

	CreatedBy uuid.UUID `json:"created_by" gorm:"column:created_by;type:uuid"`
}

func (Appointment) TableName() string {
	return "clinical.appointments"
}

func (a *Appointment) IsActive() bool {
	return !a.Status.IsTerminal()
}

func (a *Appointment) CanTransitionTo(newStatus Status) bool {
	allowed := map[Status][]Status{
		StatusScheduled:  {StatusWaiting, StatusCancelled},
		StatusWaiting:    {StatusInProgress, StatusCompleted, StatusCancelled},
		StatusInProgress: {StatusCompleted, StatusCancelled},
		StatusCompleted:  {},
		StatusCancelled:  {},
	}

	for _, s := range allowed[a.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

// CollectPayment marks the bill as paid. Collecting twice is a no-op:
// the front desk can safely re-click.
func (a *Appointment) CollectPayment() {
	a.Paid = true
}

// CheckIn moves a paid scheduled appointment into the waiting queue and
// assigns its queue token. Payment gates check-in.
func (a *Appointment) CheckIn(token string) error {
	if !a.CanTransitionTo(StatusWaiting) {
		return ErrInvalidStatusTransition
	}
	if !a.Paid {
		return ErrPaymentRequired
	}
	a.Status = StatusWaiting
	a.TokenNumber = token
	return nil
}

// Start marks the appointment as being with the doctor.
func (a *Appointment) Start() error {
	if !a.CanTransitionTo(StatusInProgress) {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusInProgress
	return nil
}

// Finalize completes the consultation, recording the diagnosis and the
// prescription/lab fan-out that downstream services will consume.
func (a *Appointment) Finalize(diagnosis string, items []pharmacy.PrescriptionItem, labTests []string) error {
	if !a.CanTransitionTo(StatusCompleted) {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusCompleted
	a.Diagnosis = diagnosis
	a.Prescriptions = items
	a.LabTests = labTests
	return nil
}

// Cancel moves any non-terminal appointment to cancelled. A token assigned
// at check-in is released so it can never appear on two live appointments.
func (a *Appointment) Cancel() error {
	if !a.CanTransitionTo(StatusCancelled) {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusCancelled
	a.TokenNumber = ""
	return nil
}

// TokenInvariantHolds checks the token/status contract: a token is present
// iff the appointment has been checked in and not cancelled.
func (a *Appointment) TokenInvariantHolds() bool {
	hasToken := a.TokenNumber != ""
	switch a.Status {
	case StatusWaiting, StatusInProgress, StatusCompleted:
		return hasToken
	default:
		return !hasToken
	}
}

type CreateAppointmentCommand struct {
	PatientID  uuid.UUID
	DoctorName string
	TimeSlot   string
	Symptoms   string
	TotalBill  int64
	CreatedBy  uuid.UUID
}

type FinalizeConsultationCommand struct {
	Diagnosis string
	Items     []pharmacy.PrescriptionItem
	LabTests  []string
	// Priority applies to every lab order emitted; defaults to routine.
	LabPriority string
}

type ListAppointmentsQuery struct {
	Search    string // substring match on patient name or token
	Status    *Status
	PatientID *uuid.UUID
}
