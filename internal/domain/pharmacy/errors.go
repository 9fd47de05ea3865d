package pharmacy

import "errors"

var (
	ErrOrderNotFound         = errors.New("prescription order not found")
	ErrOrderAlreadyDispensed = errors.New("prescription order already dispensed")
	ErrItemNotFound          = errors.New("inventory item not found")
	ErrNegativeStock         = errors.New("stock cannot be negative")
)
