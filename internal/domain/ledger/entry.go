package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// EntryType defines the direction of a ledger entry
type EntryType string

const (
	EntryTypeDebit  EntryType = "DEBIT"
	EntryTypeCredit EntryType = "CREDIT"
)

// Common errors
var (
	ErrNegativeAmount   = errors.New("amount cannot be negative")
	ErrInvalidEntryType = errors.New("entry type must be DEBIT or CREDIT")
	ErrEmptyAccountID   = errors.New("account id cannot be empty")
)

// Entry represents one recorded debit or credit transaction for an account.
// Entries are append-only: once recorded they are never mutated, and only the
// pre-report maintenance purge of zero-amount placeholder rows removes them.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	AccountID  string    `json:"account_id"`
	Amount     int64     `json:"amount"`
	Type       EntryType `json:"entry_type"`
	RecordedAt time.Time `json:"recorded_at"` // Assigned by the store at insertion
}

// NewEntry creates a ledger entry ready for insertion. RecordedAt is left
// zero; the store assigns it at insert time.
func NewEntry(accountID string, amount int64, entryType EntryType) (*Entry, error) {
	if accountID == "" {
		return nil, ErrEmptyAccountID
	}
	if amount < 0 {
		return nil, ErrNegativeAmount
	}
	if entryType != EntryTypeDebit && entryType != EntryTypeCredit {
		return nil, ErrInvalidEntryType
	}

	return &Entry{
		ID:        uuid.New(),
		AccountID: accountID,
		Amount:    amount,
		Type:      entryType,
	}, nil
}
