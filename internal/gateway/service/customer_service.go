package service

import (
	"context"

	"github.com/branch-teller-ledger/internal/domain/customer"
	"github.com/branch-teller-ledger/internal/domain/ledger"
	"github.com/branch-teller-ledger/internal/pin"
)

// CustomerServiceImpl implements the CustomerService interface
type CustomerServiceImpl struct {
	customers customer.Repository
	entries   ledger.Repository
	hasher    pin.Hasher
}

// NewCustomerService creates a new customer service
func NewCustomerService(customers customer.Repository, entries ledger.Repository, hasher pin.Hasher) CustomerService {
	return &CustomerServiceImpl{
		customers: customers,
		entries:   entries,
		hasher:    hasher,
	}
}

// CreateCustomer registers a customer with a hashed PIN and an optional
// opening balance recorded as a CREDIT ledger entry
func (s *CustomerServiceImpl) CreateCustomer(ctx context.Context, accountID, displayName, bankName, rawPIN string, openingBalance int64) (*customer.Customer, error) {
	if rawPIN == "" {
		return nil, customer.ErrEmptyPINHash
	}

	cust, err := customer.NewCustomer(accountID, displayName, bankName, s.hasher.Hash(rawPIN))
	if err != nil {
		return nil, err
	}

	if err := s.customers.Create(ctx, cust); err != nil {
		return nil, err
	}

	if openingBalance > 0 {
		entry, err := ledger.NewEntry(accountID, openingBalance, ledger.EntryTypeCredit)
		if err != nil {
			return nil, err
		}
		if err := s.entries.Create(ctx, entry); err != nil {
			return nil, err
		}
	}

	return cust, nil
}

// GetCustomer retrieves a customer by account id
func (s *CustomerServiceImpl) GetCustomer(ctx context.Context, accountID string) (*customer.Customer, error) {
	return s.customers.GetByAccountID(ctx, accountID)
}

// GetEntries retrieves a page of ledger history plus the total entry count
func (s *CustomerServiceImpl) GetEntries(ctx context.Context, accountID string, page, perPage int) ([]*ledger.Entry, int64, error) {
	// Verify the account exists so an unknown id is a NotFound, not an empty page
	if _, err := s.customers.GetByAccountID(ctx, accountID); err != nil {
		return nil, 0, err
	}

	total, err := s.entries.CountByAccountID(ctx, accountID)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	entries, err := s.entries.GetByAccountID(ctx, accountID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
