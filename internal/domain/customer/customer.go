package customer

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrEmptyAccountID   = errors.New("account id cannot be empty")
	ErrEmptyDisplayName = errors.New("display name cannot be empty")
	ErrEmptyPINHash     = errors.New("pin hash cannot be empty")
)

// Customer represents one account holder at the branch
type Customer struct {
	AccountID   string    `json:"account_id"`
	DisplayName string    `json:"display_name"`
	BankName    string    `json:"bank_name,omitempty"`
	PINHash     string    `json:"-"` // Never serialized in API responses
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCustomer creates a new customer with the given parameters.
// The PIN hash must already be computed; raw PINs never reach this package.
func NewCustomer(accountID, displayName, bankName, pinHash string) (*Customer, error) {
	if accountID == "" {
		return nil, ErrEmptyAccountID
	}
	if displayName == "" {
		return nil, ErrEmptyDisplayName
	}
	if pinHash == "" {
		return nil, ErrEmptyPINHash
	}

	return &Customer{
		AccountID:   accountID,
		DisplayName: displayName,
		BankName:    bankName,
		PINHash:     pinHash,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}, nil
}
