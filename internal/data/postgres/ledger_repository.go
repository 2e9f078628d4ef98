package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/branch-teller-ledger/internal/domain/customer"
	"github.com/branch-teller-ledger/internal/domain/ledger"
	"github.com/branch-teller-ledger/internal/platform/persistence"
)

// LedgerRepository implements the ledger.Repository interface for PostgreSQL.
// All entries live in a single ledger_entries table keyed by account_id; the
// foreign key to customers enforces that entries belong to an existing account.
type LedgerRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewLedgerRepository creates a new PostgreSQL ledger repository
func NewLedgerRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Repository {
	return &LedgerRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Create appends a ledger entry. recorded_at is assigned by the database so
// the ordering of entries matches insertion order regardless of clock skew
// between application instances. A foreign key violation maps to
// customer.ErrCustomerNotFound.
func (r *LedgerRepository) Create(ctx context.Context, entry *ledger.Entry) error {
	query := `
		INSERT INTO ledger_entries (id, account_id, amount, entry_type, recorded_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING recorded_at
	`

	err := r.querier.QueryRow(ctx, query,
		entry.ID,
		entry.AccountID,
		entry.Amount,
		string(entry.Type),
	).Scan(&entry.RecordedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return customer.ErrCustomerNotFound{AccountID: entry.AccountID}
		}
		r.logger.Error("Failed to create ledger entry", "account_id", entry.AccountID, "error", err)
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}

	return nil
}

// GetByAccountID retrieves entries for an account ordered by recording time
func (r *LedgerRepository) GetByAccountID(ctx context.Context, accountID string, limit, offset int) ([]*ledger.Entry, error) {
	query := `
		SELECT id, account_id, amount, entry_type, recorded_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY recorded_at, id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to get ledger entries", "account_id", accountID, "error", err)
		return nil, fmt.Errorf("failed to get ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*ledger.Entry
	for rows.Next() {
		var entry ledger.Entry
		var entryType string
		if err := rows.Scan(&entry.ID, &entry.AccountID, &entry.Amount, &entryType, &entry.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entry.Type = ledger.EntryType(entryType)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, nil
}

// CountByAccountID returns the total number of entries for an account
func (r *LedgerRepository) CountByAccountID(ctx context.Context, accountID string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM ledger_entries
		WHERE account_id = $1
	`

	var count int64
	if err := r.querier.QueryRow(ctx, query, accountID).Scan(&count); err != nil {
		r.logger.Error("Failed to count ledger entries", "account_id", accountID, "error", err)
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}

	return count, nil
}

// PurgeZeroAmount removes zero-amount placeholder rows seeded at account
// creation. The reporting collaborator calls this before rendering a passbook.
func (r *LedgerRepository) PurgeZeroAmount(ctx context.Context, accountID string) (int64, error) {
	query := `
		DELETE FROM ledger_entries
		WHERE account_id = $1 AND amount = 0
	`

	result, err := r.querier.Exec(ctx, query, accountID)
	if err != nil {
		r.logger.Error("Failed to purge zero-amount entries", "account_id", accountID, "error", err)
		return 0, fmt.Errorf("failed to purge zero-amount entries: %w", err)
	}

	return result.RowsAffected(), nil
}
