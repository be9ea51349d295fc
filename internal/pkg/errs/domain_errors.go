package errs

import "errors"

// Domain-specific sentinel errors shared by the usecase layers
var (
	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidPayload  = errors.New("invalid booking payload")
	ErrStationNotFound = errors.New("station not found")

	// Payment errors
	ErrPaymentInvalid = errors.New("payment verification failed")

	// Booking errors
	ErrSlotNoLongerAvailable  = errors.New("slot no longer available")
	ErrAlreadyCommitted       = errors.New("booking already committed for payment")
	ErrCustomerCreateConflict = errors.New("customer create conflict")

	// Operation errors
	ErrStorage = errors.New("storage operation failed")
)
