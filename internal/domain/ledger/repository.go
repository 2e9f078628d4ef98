package ledger

import (
	"context"

	"github.com/google/uuid"
)

// Repository manages ledger entry persistence with pagination support
type Repository interface {
	// Create appends an entry for the account. It fails if the account does
	// not exist; RecordedAt is assigned by the store.
	Create(ctx context.Context, entry *Entry) error
	GetByAccountID(ctx context.Context, accountID string, limit, offset int) ([]*Entry, error)
	CountByAccountID(ctx context.Context, accountID string) (int64, error)

	// PurgeZeroAmount removes zero-amount placeholder rows for the account
	// and returns how many were removed. Run before passbook rendering.
	PurgeZeroAmount(ctx context.Context, accountID string) (int64, error)
}

// ErrEntryNotFound indicates missing ledger entry
type ErrEntryNotFound struct {
	ID uuid.UUID
}

func (e ErrEntryNotFound) Error() string {
	return "ledger entry not found: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrEntryNotFound
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}
