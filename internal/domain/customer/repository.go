package customer

import (
	"context"
)

// Repository defines customer persistence operations
type Repository interface {
	Create(ctx context.Context, cust *Customer) error
	GetByAccountID(ctx context.Context, accountID string) (*Customer, error)

	// ListAccountIDs returns every known account id. It is used to validate
	// user input without exposing full customer records.
	ListAccountIDs(ctx context.Context) ([]string, error)

	// UpdatePIN replaces the stored PIN hash for the account
	UpdatePIN(ctx context.Context, accountID string, newPINHash string) error
}

// ErrCustomerNotFound indicates missing customer
type ErrCustomerNotFound struct {
	AccountID string
}

func (e ErrCustomerNotFound) Error() string {
	return "customer not found: " + e.AccountID
}

// Is implements the errors.Is interface for ErrCustomerNotFound
func (e ErrCustomerNotFound) Is(target error) bool {
	t, ok := target.(ErrCustomerNotFound)
	if !ok {
		return false
	}
	// An empty target AccountID matches any ErrCustomerNotFound
	if t.AccountID == "" {
		return true
	}
	return e.AccountID == t.AccountID
}

// ErrDuplicateAccountID indicates account id uniqueness violation
type ErrDuplicateAccountID struct {
	AccountID string
}

func (e ErrDuplicateAccountID) Error() string {
	return "customer with account id already exists: " + e.AccountID
}
