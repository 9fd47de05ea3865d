package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInRequiresPayment(t *testing.T) {
	a := &Appointment{Status: StatusScheduled}

	err := a.CheckIn("A001")
	require.ErrorIs(t, err, ErrPaymentRequired)
	assert.Equal(t, StatusScheduled, a.Status)
	assert.Empty(t, a.TokenNumber)

	a.CollectPayment()
	require.NoError(t, a.CheckIn("A001"))
	assert.Equal(t, StatusWaiting, a.Status)
	assert.Equal(t, "A001", a.TokenNumber)
	assert.True(t, a.TokenInvariantHolds())
}

func TestCollectPaymentIsIdempotent(t *testing.T) {
	a := &Appointment{Status: StatusScheduled}
	a.CollectPayment()
	a.CollectPayment()
	assert.True(t, a.Paid)
	assert.Equal(t, StatusScheduled, a.Status)
}

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusScheduled, StatusWaiting, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusScheduled, StatusInProgress, false},
		{StatusScheduled, StatusCompleted, false},
		{StatusWaiting, StatusInProgress, true},
		{StatusWaiting, StatusCompleted, true},
		{StatusWaiting, StatusCancelled, true},
		{StatusWaiting, StatusScheduled, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusWaiting, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusWaiting, false},
		{StatusCancelled, StatusWaiting, false},
		{StatusCancelled, StatusCompleted, false},
	}

	for _, tt := range tests {
		a := &Appointment{Status: tt.from}
		assert.Equal(t, tt.allowed, a.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestStartFromWaiting(t *testing.T) {
	a := &Appointment{Status: StatusWaiting, TokenNumber: "A003", Paid: true}
	require.NoError(t, a.Start())
	assert.Equal(t, StatusInProgress, a.Status)
	assert.True(t, a.TokenInvariantHolds())

	require.ErrorIs(t, a.Start(), ErrInvalidStatusTransition)
}

func TestFinalizeRecordsConsultation(t *testing.T) {
	a := &Appointment{Status: StatusInProgress, TokenNumber: "A001", Paid: true}

	require.NoError(t, a.Finalize("Acute bronchitis", nil, []string{"Chest X-Ray"}))
	assert.Equal(t, StatusCompleted, a.Status)
	assert.Equal(t, "Acute bronchitis", a.Diagnosis)
	assert.Equal(t, []string{"Chest X-Ray"}, a.LabTests)
	// Token stays on record after completion.
	assert.Equal(t, "A001", a.TokenNumber)
	assert.True(t, a.TokenInvariantHolds())
}

func TestFinalizeRejectedOnTerminal(t *testing.T) {
	for _, status := range []Status{StatusCompleted, StatusCancelled} {
		a := &Appointment{Status: status}
		assert.ErrorIs(t, a.Finalize("x", nil, nil), ErrInvalidStatusTransition, "from %s", status)
	}
}

func TestCancelReleasesToken(t *testing.T) {
	a := &Appointment{Status: StatusWaiting, TokenNumber: "A005", Paid: true}
	require.NoError(t, a.Cancel())
	assert.Equal(t, StatusCancelled, a.Status)
	assert.Empty(t, a.TokenNumber)
	assert.True(t, a.TokenInvariantHolds())

	require.ErrorIs(t, a.Cancel(), ErrInvalidStatusTransition)
}

func TestTokenInvariant(t *testing.T) {
	assert.True(t, (&Appointment{Status: StatusScheduled}).TokenInvariantHolds())
	assert.False(t, (&Appointment{Status: StatusScheduled, TokenNumber: "A001"}).TokenInvariantHolds())
	assert.False(t, (&Appointment{Status: StatusWaiting}).TokenInvariantHolds())
	assert.True(t, (&Appointment{Status: StatusCompleted, TokenNumber: "A001"}).TokenInvariantHolds())
	assert.False(t, (&Appointment{Status: StatusCancelled, TokenNumber: "A001"}).TokenInvariantHolds())
}
