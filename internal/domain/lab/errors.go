package lab

import "errors"

var (
	ErrOrderNotFound   = errors.New("lab order not found")
	ErrInvalidPriority = errors.New("invalid lab priority")
)
