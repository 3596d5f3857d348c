package internal

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuantity = errors.New("quantity must not be negative")
	ErrValidation      = errors.New("validation failed")
	ErrImmutableField  = errors.New("field cannot be changed")
	ErrInvalidPricing  = errors.New("invalid pricing table")

	ErrDuplicateReceiptNumber = errors.New("receipt number already exists")
	ErrNotFound               = errors.New("not found")
	ErrOrderNotFound          = fmt.Errorf("order %w", ErrNotFound)
	ErrStoreUnavailable       = errors.New("order store unavailable")

	ErrAlreadyCollected    = errors.New("order is already collected")
	ErrOrderCollected      = errors.New("collected orders cannot be edited")
	ErrNotCollected        = errors.New("order is not collected yet")
	ErrNotificationFailure = errors.New("notification failed")
)
