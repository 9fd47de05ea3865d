package lab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceIsForwardOnly(t *testing.T) {
	o := &LabOrder{Status: StatusPending}

	assert.True(t, o.Advance())
	assert.Equal(t, StatusProcessing, o.Status)

	assert.True(t, o.Advance())
	assert.Equal(t, StatusCompleted, o.Status)

	// Completed is terminal: further advances are no-ops.
	assert.False(t, o.Advance())
	assert.Equal(t, StatusCompleted, o.Status)
	assert.False(t, o.Advance())
	assert.Equal(t, StatusCompleted, o.Status)
}

func TestPriorityValidation(t *testing.T) {
	assert.True(t, PriorityRoutine.IsValid())
	assert.True(t, PriorityUrgent.IsValid())
	assert.False(t, Priority("stat").IsValid())
	assert.False(t, Priority("").IsValid())
}

func TestStatusValidation(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusProcessing, StatusCompleted} {
		assert.True(t, s.IsValid())
	}
	assert.False(t, Status("cancelled").IsValid())
}
