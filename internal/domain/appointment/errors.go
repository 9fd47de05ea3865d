package appointment

import "errors"

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrPaymentRequired         = errors.New("payment must be collected before check-in")
	ErrNegativeBill            = errors.New("total bill cannot be negative")
)
