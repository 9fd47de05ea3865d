package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinovahealth/clinicflow/internal/domain/appointment"
	"github.com/clinovahealth/clinicflow/internal/domain/lab"
	"github.com/clinovahealth/clinicflow/internal/domain/patient"
	"github.com/clinovahealth/clinicflow/internal/domain/pharmacy"
	"github.com/clinovahealth/clinicflow/pkg/metrics"
)

// FlowService drives the appointment lifecycle: payment, check-in with token
// issuance, consultation, and the prescription/lab fan-out at finalize.
type FlowService struct {
	appts    appointment.Repository
	patients patient.Repository
	orders   pharmacy.OrderRepository
	labs     lab.Repository
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger

	// Token issuance is serialized so two concurrent check-ins can never
	// observe the same sequence value.
	tokenMu     sync.Mutex
	tokenSeq    int
	tokenPrefix string

	consultFee int64
}

func NewFlowService(
	appts appointment.Repository,
	patients patient.Repository,
	orders pharmacy.OrderRepository,
	labs lab.Repository,
	auditSvc *AuditService,
	m *metrics.Collector,
	log *zap.Logger,
	tokenPrefix string,
	consultFee int64,
) *FlowService {
	return &FlowService{
		appts:       appts,
		patients:    patients,
		orders:      orders,
		labs:        labs,
		auditSvc:    auditSvc,
		metrics:     m,
		log:         log,
		tokenPrefix: tokenPrefix,
		consultFee:  consultFee,
	}
}

type RegisterWalkInCommand struct {
	Name       string
	Phone      string
	Age        int
	Gender     patient.Gender
	DoctorName string
	Symptoms   string
	CreatedBy  uuid.UUID
}

// RegisterWalkIn registers a new patient and books them a scheduled, unpaid
// appointment for the current time slot in one step.
func (s *FlowService) RegisterWalkIn(ctx context.Context, cmd *RegisterWalkInCommand, callerID uuid.UUID, callerRole string, ip string) (*patient.Patient, *appointment.Appointment, error) {
	reg := &patient.RegisterPatientCommand{
		Name:      cmd.Name,
		Phone:     cmd.Phone,
		Age:       cmd.Age,
		Gender:    cmd.Gender,
		CreatedBy: cmd.CreatedBy,
	}
	if err := reg.Validate(); err != nil {
		return nil, nil, err
	}

	p := &patient.Patient{
		Name:      cmd.Name,
		Phone:     cmd.Phone,
		Age:       cmd.Age,
		Gender:    cmd.Gender,
		CreatedBy: cmd.CreatedBy,
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, nil, fmt.Errorf("registering patient: %w", err)
	}
	s.metrics.PatientsRegisteredTotal.Inc()

	a := &appointment.Appointment{
		PatientID:   p.ID,
		PatientName: p.Name,
		DoctorName:  cmd.DoctorName,
		TimeSlot:    time.Now().Format("03:04 PM"),
		Status:      appointment.StatusScheduled,
		Symptoms:    cmd.Symptoms,
		TotalBill:   s.consultFee,
		CreatedBy:   cmd.CreatedBy,
	}
	if err := s.appts.Create(ctx, a); err != nil {
		return nil, nil, fmt.Errorf("creating walk-in appointment: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "create", ResourceType: "appointment", ResourceID: a.ID.String(), IPAddress: ip,
	})

	return p, a, nil
}

// ScheduleAppointment books an existing patient. The display snapshot is
// taken from the patient record at creation time and never synced afterward.
func (s *FlowService) ScheduleAppointment(ctx context.Context, cmd *appointment.CreateAppointmentCommand, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	if cmd.TotalBill < 0 {
		return nil, appointment.ErrNegativeBill
	}

	p, err := s.patients.GetByID(ctx, cmd.PatientID)
	if err != nil {
		return nil, err
	}

	a := &appointment.Appointment{
		PatientID:   p.ID,
		PatientName: p.Name,
		DoctorName:  cmd.DoctorName,
		TimeSlot:    cmd.TimeSlot,
		Status:      appointment.StatusScheduled,
		Symptoms:    cmd.Symptoms,
		TotalBill:   cmd.TotalBill,
		CreatedBy:   cmd.CreatedBy,
	}
	if err := s.appts.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "create", ResourceType: "appointment", ResourceID: a.ID.String(), IPAddress: ip,
	})

	return a, nil
}

// CollectPayment marks the bill as paid. Unknown ids and already-paid
// appointments are silent no-ops: the front desk can re-click without harm.
func (s *FlowService) CollectPayment(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		s.log.Debug("collect payment on unknown appointment", zap.String("id", id.String()))
		return nil, nil
	}
	if a.Paid {
		return a, nil
	}

	a.CollectPayment()
	if err := s.appts.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment: %w", err)
	}
	s.metrics.PaymentsCollectedTotal.Inc()

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "appointment", ResourceID: id.String(), IPAddress: ip,
		Changes: `{"paid":true}`,
	})

	return a, nil
}

// CheckIn moves a paid scheduled appointment into the waiting queue,
// assigning a token unique among all currently active appointments.
func (s *FlowService) CheckIn(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	s.tokenMu.Lock()
	defer s.tokenMu.Unlock()

	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	token, err := s.nextTokenLocked(ctx)
	if err != nil {
		return nil, err
	}

	if err := a.CheckIn(token); err != nil {
		return nil, err
	}
	if err := s.appts.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment: %w", err)
	}
	s.metrics.TokensIssuedTotal.Inc()

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "appointment", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"status":"waiting","token":"%s"}`, token),
	})

	return a, nil
}

// nextTokenLocked issues the next token from a monotonic sequence, skipping
// any value already held by an active appointment. Callers hold tokenMu.
func (s *FlowService) nextTokenLocked(ctx context.Context) (string, error) {
	active, err := s.appts.ActiveTokens(ctx)
	if err != nil {
		return "", fmt.Errorf("listing active tokens: %w", err)
	}
	taken := make(map[string]struct{}, len(active))
	for _, t := range active {
		taken[t] = struct{}{}
	}

	for {
		s.tokenSeq++
		token := fmt.Sprintf("%s%03d", s.tokenPrefix, s.tokenSeq)
		if _, ok := taken[token]; !ok {
			return token, nil
		}
	}
}

// StartConsultation marks the appointment as being with the doctor.
func (s *FlowService) StartConsultation(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == appointment.StatusInProgress {
		return a, nil
	}
	if err := a.Start(); err != nil {
		return nil, err
	}
	if err := s.appts.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment: %w", err)
	}
	return a, nil
}

// FinalizeResult carries the consultation outcome and its fan-out.
type FinalizeResult struct {
	Appointment *appointment.Appointment
	Order       *pharmacy.PrescriptionOrder
	LabOrders   []*lab.LabOrder
}

// FinalizeConsultation completes the appointment, removing it from the active
// queue, and emits one pending prescription order (when items were written)
// plus one pending lab order per requested test.
func (s *FlowService) FinalizeConsultation(ctx context.Context, id uuid.UUID, cmd *appointment.FinalizeConsultationCommand, callerID uuid.UUID, callerRole string, ip string) (*FinalizeResult, error) {
	for _, it := range cmd.Items {
		if it.Quantity <= 0 {
			return nil, &ValidationError{Fields: []string{fmt.Sprintf("quantity for %q must be positive", it.Name)}}
		}
	}

	priority := lab.PriorityRoutine
	if cmd.LabPriority != "" {
		priority = lab.Priority(cmd.LabPriority)
		if !priority.IsValid() {
			return nil, lab.ErrInvalidPriority
		}
	}

	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.Finalize(cmd.Diagnosis, cmd.Items, cmd.LabTests); err != nil {
		return nil, err
	}
	if err := s.appts.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment: %w", err)
	}
	s.metrics.ConsultationsCompleted.Inc()
	s.metrics.AppointmentsTotal.WithLabelValues(string(appointment.StatusCompleted)).Inc()

	result := &FinalizeResult{Appointment: a}

	if len(cmd.Items) > 0 {
		order := &pharmacy.PrescriptionOrder{
			AppointmentID: a.ID,
			PatientID:     a.PatientID,
			PatientName:   a.PatientName,
			DoctorName:    a.DoctorName,
			TimeSlot:      a.TimeSlot,
			Status:        pharmacy.StatusPending,
			Items:         cmd.Items,
		}
		if err := s.orders.Create(ctx, order); err != nil {
			return nil, fmt.Errorf("creating prescription order: %w", err)
		}
		result.Order = order
	}

	for _, test := range cmd.LabTests {
		lo := &lab.LabOrder{
			AppointmentID: a.ID,
			PatientID:     a.PatientID,
			PatientName:   a.PatientName,
			DoctorName:    a.DoctorName,
			TestName:      test,
			Priority:      priority,
			Status:        lab.StatusPending,
		}
		if err := s.labs.Create(ctx, lo); err != nil {
			return nil, fmt.Errorf("creating lab order: %w", err)
		}
		result.LabOrders = append(result.LabOrders, lo)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "appointment", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"status":"completed","lab_orders":%d}`, len(cmd.LabTests)),
	})

	return result, nil
}

// CancelAppointment moves any non-terminal appointment to cancelled.
func (s *FlowService) CancelAppointment(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.Cancel(); err != nil {
		return nil, err
	}
	if err := s.appts.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment: %w", err)
	}
	s.metrics.AppointmentsTotal.WithLabelValues(string(appointment.StatusCancelled)).Inc()

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "appointment", ResourceID: id.String(), IPAddress: ip,
		Changes: `{"status":"cancelled"}`,
	})

	return a, nil
}

func (s *FlowService) GetAppointment(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	return s.appts.GetByID(ctx, id)
}

func (s *FlowService) ListAppointments(ctx context.Context, q *appointment.ListAppointmentsQuery) ([]*appointment.Appointment, error) {
	return s.appts.List(ctx, q)
}

// Queue returns the doctor's active queue in stable insertion order.
func (s *FlowService) Queue(ctx context.Context) ([]*appointment.Appointment, error) {
	return s.appts.Queue(ctx)
}

// SelectFromQueue applies the default selection policy: the explicitly
// requested appointment when it is in the queue, otherwise the first
// in-progress appointment, otherwise the first waiting one. Returns nil
// when the queue is empty.
func (s *FlowService) SelectFromQueue(ctx context.Context, explicit *uuid.UUID) (*appointment.Appointment, error) {
	queue, err := s.appts.Queue(ctx)
	if err != nil {
		return nil, err
	}
	if len(queue) == 0 {
		return nil, nil
	}

	if explicit != nil {
		for _, a := range queue {
			if a.ID == *explicit {
				return a, nil
			}
		}
	}

	for _, a := range queue {
		if a.Status == appointment.StatusInProgress {
			return a, nil
		}
	}
	return queue[0], nil
}

// PatientOf resolves the registered patient behind an appointment.
func (s *FlowService) PatientOf(ctx context.Context, a *appointment.Appointment) (*patient.Patient, error) {
	return s.patients.GetByID(ctx, a.PatientID)
}

// PatientHistory returns a patient's completed appointments in visit order.
func (s *FlowService) PatientHistory(ctx context.Context, patientID uuid.UUID) ([]*appointment.Appointment, error) {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	completed := appointment.StatusCompleted
	return s.appts.List(ctx, &appointment.ListAppointmentsQuery{
		Status:    &completed,
		PatientID: &patientID,
	})
}
