package service

import (
	"context"

	"github.com/branch-teller-ledger/internal/domain/customer"
	"github.com/branch-teller-ledger/internal/domain/ledger"
)

// CustomerService defines the interface for customer administration
type CustomerService interface {
	// CreateCustomer registers a customer. The raw PIN is hashed before it
	// is stored; an optional opening balance is recorded as a CREDIT entry.
	// Returns ErrDuplicateAccountID if the account id is taken.
	CreateCustomer(ctx context.Context, accountID, displayName, bankName, rawPIN string, openingBalance int64) (*customer.Customer, error)

	// GetCustomer retrieves a customer by account id
	// Returns ErrCustomerNotFound if the customer doesn't exist
	GetCustomer(ctx context.Context, accountID string) (*customer.Customer, error)

	// GetEntries retrieves a paginated ledger history for an account
	// Returns entries, total count of all entries, and any error
	GetEntries(ctx context.Context, accountID string, page, perPage int) ([]*ledger.Entry, int64, error)
}
