package domain

import "errors"

// Domain errors. Adapters translate these into transport codes with errors.Is,
// so callers should wrap them with %w rather than replace them.
var (
	// ErrAccountNotFound is returned when an account id does not resolve
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientFunds is returned when a withdrawal would break the kind's balance rule
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAmount is returned for non-positive amounts (or a negative opening balance)
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrAccountExists is returned when an account id is already taken
	ErrAccountExists = errors.New("account already exists")

	// ErrInvalidAccountKind is returned for kinds other than SAVINGS or CURRENT
	ErrInvalidAccountKind = errors.New("invalid account kind")

	// ErrCustomerNotFound is returned when a customer id does not resolve
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrCustomerExists is returned when a customer id is already taken
	ErrCustomerExists = errors.New("customer already exists")

	// ErrInvalidCustomer is returned when registration details fail validation
	ErrInvalidCustomer = errors.New("invalid customer")
)
