package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clinovahealth/clinicflow/internal/domain/appointment"
	"github.com/clinovahealth/clinicflow/internal/domain/lab"
	"github.com/clinovahealth/clinicflow/internal/domain/patient"
	"github.com/clinovahealth/clinicflow/internal/domain/pharmacy"
	"github.com/clinovahealth/clinicflow/internal/store/memory"
	"github.com/clinovahealth/clinicflow/pkg/metrics"
)

func newFlowFixture(t *testing.T) (*FlowService, *memory.Store) {
	t.Helper()
	st := memory.New()
	m := metrics.NewCollector("test", prometheus.NewRegistry())
	log := zap.NewNop()
	auditSvc := NewAuditService(st.Audit(), m, log)
	t.Cleanup(auditSvc.Shutdown)

	svc := NewFlowService(
		st.Appointments(), st.Patients(), st.Orders(), st.LabOrders(),
		auditSvc, m, log, "A", 4000,
	)
	return svc, st
}

func walkIn(t *testing.T, svc *FlowService, name string) *appointment.Appointment {
	t.Helper()
	_, a, err := svc.RegisterWalkIn(context.Background(), &RegisterWalkInCommand{
		Name:       name,
		Age:        30,
		Gender:     patient.GenderFemale,
		DoctorName: "Dr. Sarah Wilson",
		Symptoms:   "headache",
	}, uuid.New(), "receptionist", "127.0.0.1")
	require.NoError(t, err)
	return a
}

func TestRegisterWalkIn(t *testing.T) {
	svc, st := newFlowFixture(t)

	a := walkIn(t, svc, "Asha Rao")
	assert.Equal(t, appointment.StatusScheduled, a.Status)
	assert.False(t, a.Paid)
	assert.Empty(t, a.TokenNumber)
	assert.Equal(t, int64(4000), a.TotalBill)

	p, err := st.Patients().GetByID(context.Background(), a.PatientID)
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", p.Name)
	assert.Equal(t, "Asha Rao", a.PatientName)
}

func TestCheckInGatedByPayment(t *testing.T) {
	svc, st := newFlowFixture(t)
	ctx := context.Background()
	caller := uuid.New()

	a := walkIn(t, svc, "Asha Rao")

	_, err := svc.CheckIn(ctx, a.ID, caller, "receptionist", "")
	require.ErrorIs(t, err, appointment.ErrPaymentRequired)

	// The failed check-in left no trace.
	stored, err := st.Appointments().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusScheduled, stored.Status)
	assert.Empty(t, stored.TokenNumber)

	_, err = svc.CollectPayment(ctx, a.ID, caller, "receptionist", "")
	require.NoError(t, err)

	checked, err := svc.CheckIn(ctx, a.ID, caller, "receptionist", "")
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusWaiting, checked.Status)
	assert.Equal(t, "A001", checked.TokenNumber)
}

func TestTokensAreUniqueAmongActive(t *testing.T) {
	svc, _ := newFlowFixture(t)
	ctx := context.Background()
	caller := uuid.New()

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		a := walkIn(t, svc, "Patient")
		_, err := svc.CollectPayment(ctx, a.ID, caller, "receptionist", "")
		require.NoError(t, err)
		checked, err := svc.CheckIn(ctx, a.ID, caller, "receptionist", "")
		require.NoError(t, err)
		assert.False(t, seen[checked.TokenNumber], "token %s reissued", checked.TokenNumber)
		seen[checked.TokenNumber] = true
	}
}

func TestTokenIssuanceSkipsSeededTokens(t *testing.T) {
	svc, st := newFlowFixture(t)
	ctx := context.Background()
	require.NoError(t, memory.Seed(ctx, st, "test-password"))
	caller := uuid.New()

	// Seed data holds tokens A001 and A002 on active appointments.
	a := walkIn(t, svc, "New Patient")
	_, err := svc.CollectPayment(ctx, a.ID, caller, "receptionist", "")
	require.NoError(t, err)

	checked, err := svc.CheckIn(ctx, a.ID, caller, "receptionist", "")
	require.NoError(t, err)
	assert.Equal(t, "A003", checked.TokenNumber)
}

func TestCollectPaymentSilentNoOps(t *testing.T) {
	svc, _ := newFlowFixture(t)
	ctx := context.Background()
	caller := uuid.New()

	// Unknown id is swallowed.
	a, err := svc.CollectPayment(ctx, uuid.New(), caller, "receptionist", "")
	require.NoError(t, err)
	assert.Nil(t, a)

	// Re-collecting is harmless.
	appt := walkIn(t, svc, "Asha Rao")
	_, err = svc.CollectPayment(ctx, appt.ID, caller, "receptionist", "")
	require.NoError(t, err)
	again, err := svc.CollectPayment(ctx, appt.ID, caller, "receptionist", "")
	require.NoError(t, err)
	assert.True(t, again.Paid)
}

func TestFinalizeFansOut(t *testing.T) {
	svc, st := newFlowFixture(t)
	ctx := context.Background()
	caller := uuid.New()

	a := walkIn(t, svc, "Asha Rao")
	_, err := svc.CollectPayment(ctx, a.ID, caller, "receptionist", "")
	require.NoError(t, err)
	_, err = svc.CheckIn(ctx, a.ID, caller, "receptionist", "")
	require.NoError(t, err)
	_, err = svc.StartConsultation(ctx, a.ID)
	require.NoError(t, err)

	items := []pharmacy.PrescriptionItem{
		{MedicineID: uuid.New(), Name: "Amoxicillin 500mg", Quantity: 15, Dosage: "1-0-1", UnitPrice: 50},
	}
	result, err := svc.FinalizeConsultation(ctx, a.ID, &appointment.FinalizeConsultationCommand{
		Diagnosis: "Acute sinusitis",
		Items:     items,
		LabTests:  []string{"CBC", "CRP"},
	}, caller, "doctor", "")
	require.NoError(t, err)

	assert.Equal(t, appointment.StatusCompleted, result.Appointment.Status)
	require.NotNil(t, result.Order)
	assert.Equal(t, pharmacy.StatusPending, result.Order.Status)
	assert.Equal(t, a.ID, result.Order.AppointmentID)
	assert.Equal(t, int64(750), result.Order.Total())

	require.Len(t, result.LabOrders, 2)
	for _, lo := range result.LabOrders {
		assert.Equal(t, lab.StatusPending, lo.Status)
		assert.Equal(t, lab.PriorityRoutine, lo.Priority)
		assert.Equal(t, a.ID, lo.AppointmentID)
	}

	// Completed appointments leave the queue.
	queue, err := svc.Queue(ctx)
	require.NoError(t, err)
	assert.Empty(t, queue)

	// And appear in the patient's history.
	history, err := svc.PatientHistory(ctx, a.PatientID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Acute sinusitis", history[0].Diagnosis)

	// No stray orders beyond the fan-out.
	orders, err := st.Orders().List(ctx, &pharmacy.ListOrdersQuery{})
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestFinalizeWithoutItemsEmitsNoOrder(t *testing.T) {
	svc, st := newFlowFixture(t)
	ctx := context.Background()
	caller := uuid.New()

	a := walkIn(t, svc, "Asha Rao")
	_, err := svc.CollectPayment(ctx, a.ID, caller, "receptionist", "")
	require.NoError(t, err)
	_, err = svc.CheckIn(ctx, a.ID, caller, "receptionist", "")
	require.NoError(t, err)

	result, err := svc.FinalizeConsultation(ctx, a.ID, &appointment.FinalizeConsultationCommand{
		Diagnosis: "Viral fever, rest advised",
	}, caller, "doctor", "")
	require.NoError(t, err)
	assert.Nil(t, result.Order)
	assert.Empty(t, result.LabOrders)

	orders, err := st.Orders().List(ctx, &pharmacy.ListOrdersQuery{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestFinalizeRejectsBadInput(t *testing.T) {
	svc, _ := newFlowFixture(t)
	ctx := context.Background()
	caller := uuid.New()

	a := walkIn(t, svc, "Asha Rao")

	_, err := svc.FinalizeConsultation(ctx, a.ID, &appointment.FinalizeConsultationCommand{
		Diagnosis: "x",
		Items:     []pharmacy.PrescriptionItem{{Name: "Ibuprofen", Quantity: 0}},
	}, caller, "doctor", "")
	var validErr *ValidationError
	require.ErrorAs(t, err, &validErr)

	_, err = svc.FinalizeConsultation(ctx, a.ID, &appointment.FinalizeConsultationCommand{
		Diagnosis:   "x",
		LabTests:    []string{"CBC"},
		LabPriority: "stat",
	}, caller, "doctor", "")
	require.ErrorIs(t, err, lab.ErrInvalidPriority)
}

func TestCancelReleasesTokenFromActiveSet(t *testing.T) {
	svc, st := newFlowFixture(t)
	ctx := context.Background()
	caller := uuid.New()

	a := walkIn(t, svc, "Asha Rao")
	_, err := svc.CollectPayment(ctx, a.ID, caller, "receptionist", "")
	require.NoError(t, err)
	checked, err := svc.CheckIn(ctx, a.ID, caller, "receptionist", "")
	require.NoError(t, err)

	cancelled, err := svc.CancelAppointment(ctx, a.ID, caller, "receptionist", "")
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusCancelled, cancelled.Status)
	assert.Empty(t, cancelled.TokenNumber)

	tokens, err := st.Appointments().ActiveTokens(ctx)
	require.NoError(t, err)
	assert.NotContains(t, tokens, checked.TokenNumber)

	// Terminal states refuse further transitions.
	_, err = svc.CancelAppointment(ctx, a.ID, caller, "receptionist", "")
	require.ErrorIs(t, err, appointment.ErrInvalidStatusTransition)
}

func TestQueueSelectionPolicy(t *testing.T) {
	svc, _ := newFlowFixture(t)
	ctx := context.Background()
	caller := uuid.New()

	// Empty queue selects nothing.
	selected, err := svc.SelectFromQueue(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, selected)

	first := walkIn(t, svc, "First")
	second := walkIn(t, svc, "Second")
	for _, a := range []*appointment.Appointment{first, second} {
		_, err := svc.CollectPayment(ctx, a.ID, caller, "receptionist", "")
		require.NoError(t, err)
		_, err = svc.CheckIn(ctx, a.ID, caller, "receptionist", "")
		require.NoError(t, err)
	}

	// All waiting: first in wins.
	selected, err = svc.SelectFromQueue(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, selected.ID)

	// An in-progress consultation takes precedence over queue order.
	_, err = svc.StartConsultation(ctx, second.ID)
	require.NoError(t, err)
	selected, err = svc.SelectFromQueue(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, second.ID, selected.ID)

	// Explicit selection wins when it is still in the queue.
	selected, err = svc.SelectFromQueue(ctx, &first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, selected.ID)

	// Explicit selection of something outside the queue falls back.
	ghost := uuid.New()
	selected, err = svc.SelectFromQueue(ctx, &ghost)
	require.NoError(t, err)
	assert.Equal(t, second.ID, selected.ID)
}

func TestStartConsultationIdempotent(t *testing.T) {
	svc, _ := newFlowFixture(t)
	ctx := context.Background()
	caller := uuid.New()

	a := walkIn(t, svc, "Asha Rao")
	_, err := svc.CollectPayment(ctx, a.ID, caller, "receptionist", "")
	require.NoError(t, err)
	_, err = svc.CheckIn(ctx, a.ID, caller, "receptionist", "")
	require.NoError(t, err)

	started, err := svc.StartConsultation(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusInProgress, started.Status)

	// Re-opening the chart is harmless.
	again, err := svc.StartConsultation(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusInProgress, again.Status)
}
