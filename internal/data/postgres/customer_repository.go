// Package postgres provides PostgreSQL implementations of the domain repositories.
// It handles all database operations with parameterized queries and proper
// error handling for the teller ledger system.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/branch-teller-ledger/internal/domain/customer"
	"github.com/branch-teller-ledger/internal/platform/persistence"
)

// CustomerRepository implements the customer.Repository interface for PostgreSQL
type CustomerRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewCustomerRepository creates a new PostgreSQL customer repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewCustomerRepository(logger *slog.Logger, db *persistence.PostgresDB) customer.Repository {
	return &CustomerRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Create stores a new customer. A duplicate account id is reported as
// customer.ErrDuplicateAccountID via the primary key constraint.
func (r *CustomerRepository) Create(ctx context.Context, cust *customer.Customer) error {
	query := `
		INSERT INTO customers (account_id, display_name, bank_name, pin_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.querier.Exec(ctx, query,
		cust.AccountID,
		cust.DisplayName,
		cust.BankName,
		cust.PINHash,
		cust.CreatedAt,
		cust.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return customer.ErrDuplicateAccountID{AccountID: cust.AccountID}
		}
		r.logger.Error("Failed to create customer", "account_id", cust.AccountID, "error", err)
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// GetByAccountID retrieves a customer by account id
func (r *CustomerRepository) GetByAccountID(ctx context.Context, accountID string) (*customer.Customer, error) {
	query := `
		SELECT account_id, display_name, bank_name, pin_hash, created_at, updated_at
		FROM customers
		WHERE account_id = $1
	`

	var cust customer.Customer
	err := r.querier.QueryRow(ctx, query, accountID).Scan(
		&cust.AccountID,
		&cust.DisplayName,
		&cust.BankName,
		&cust.PINHash,
		&cust.CreatedAt,
		&cust.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrCustomerNotFound{AccountID: accountID}
		}
		r.logger.Error("Failed to get customer", "account_id", accountID, "error", err)
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return &cust, nil
}

// ListAccountIDs returns every known account id, ordered for stable output
func (r *CustomerRepository) ListAccountIDs(ctx context.Context) ([]string, error) {
	query := `
		SELECT account_id
		FROM customers
		ORDER BY account_id
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list account ids", "error", err)
		return nil, fmt.Errorf("failed to list account ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan account id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate account ids: %w", err)
	}

	return ids, nil
}

// UpdatePIN replaces the stored PIN hash for the account.
// Returns ErrCustomerNotFound if no row matched.
func (r *CustomerRepository) UpdatePIN(ctx context.Context, accountID string, newPINHash string) error {
	query := `
		UPDATE customers
		SET pin_hash = $1, updated_at = NOW()
		WHERE account_id = $2
	`

	result, err := r.querier.Exec(ctx, query, newPINHash, accountID)
	if err != nil {
		r.logger.Error("Failed to update PIN", "account_id", accountID, "error", err)
		return fmt.Errorf("failed to update pin: %w", err)
	}

	if result.RowsAffected() == 0 {
		return customer.ErrCustomerNotFound{AccountID: accountID}
	}

	return nil
}
