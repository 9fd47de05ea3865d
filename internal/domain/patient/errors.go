package patient

import "errors"

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrNameRequired    = errors.New("patient name is required")
	ErrInvalidAge      = errors.New("patient age must be between 0 and 130")
	ErrInvalidGender   = errors.New("invalid gender value")
)
