package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branch-teller-ledger/internal/domain/customer"
	"github.com/branch-teller-ledger/internal/domain/ledger"
)

func TestLedgerRepository_Create(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &LedgerRepository{querier: mock, logger: logger}

	entry := &ledger.Entry{
		ID:        uuid.New(),
		AccountID: "12345",
		Amount:    500,
		Type:      ledger.EntryTypeDebit,
	}

	query := `
		INSERT INTO ledger_entries \(id, account_id, amount, entry_type, recorded_at\)
		VALUES \(\$1, \$2, \$3, \$4, NOW\(\)\)
		RETURNING recorded_at
	`

	t.Run("success", func(t *testing.T) {
		recordedAt := time.Now()
		rows := pgxmock.NewRows([]string{"recorded_at"}).AddRow(recordedAt)
		mock.ExpectQuery(query).
			WithArgs(entry.ID, entry.AccountID, entry.Amount, string(entry.Type)).
			WillReturnRows(rows)

		err := repo.Create(ctx, entry)
		assert.NoError(t, err)
		assert.Equal(t, recordedAt, entry.RecordedAt, "store-assigned timestamp is written back")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown account", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(entry.ID, entry.AccountID, entry.Amount, string(entry.Type)).
			WillReturnError(&pgconn.PgError{Code: "23503"})

		err := repo.Create(ctx, entry)
		var notFoundErr customer.ErrCustomerNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, entry.AccountID, notFoundErr.AccountID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectQuery(query).
			WithArgs(entry.ID, entry.AccountID, entry.Amount, string(entry.Type)).
			WillReturnError(expectedErr)

		err := repo.Create(ctx, entry)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create ledger entry")
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerRepository_GetByAccountID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &LedgerRepository{querier: mock, logger: logger}
	now := time.Now()

	query := `
		SELECT id, account_id, amount, entry_type, recorded_at
		FROM ledger_entries
		WHERE account_id = \$1
		ORDER BY recorded_at, id
		LIMIT \$2 OFFSET \$3
	`

	t.Run("success", func(t *testing.T) {
		id1, id2 := uuid.New(), uuid.New()
		rows := pgxmock.NewRows([]string{"id", "account_id", "amount", "entry_type", "recorded_at"}).
			AddRow(id1, "12345", int64(100000), "CREDIT", now.Add(-time.Hour)).
			AddRow(id2, "12345", int64(500), "DEBIT", now)
		mock.ExpectQuery(query).WithArgs("12345", 10, 0).WillReturnRows(rows)

		entries, err := repo.GetByAccountID(ctx, "12345", 10, 0)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, ledger.EntryTypeCredit, entries[0].Type)
		assert.Equal(t, ledger.EntryTypeDebit, entries[1].Type)
		assert.Equal(t, int64(500), entries[1].Amount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no entries", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "account_id", "amount", "entry_type", "recorded_at"})
		mock.ExpectQuery(query).WithArgs("12345", 10, 0).WillReturnRows(rows)

		entries, err := repo.GetByAccountID(ctx, "12345", 10, 0)
		assert.NoError(t, err)
		assert.Empty(t, entries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerRepository_CountByAccountID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &LedgerRepository{querier: mock, logger: logger}

	query := `
		SELECT COUNT\(\*\)
		FROM ledger_entries
		WHERE account_id = \$1
	`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"count"}).AddRow(int64(7))
		mock.ExpectQuery(query).WithArgs("12345").WillReturnRows(rows)

		count, err := repo.CountByAccountID(ctx, "12345")
		assert.NoError(t, err)
		assert.Equal(t, int64(7), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("12345").WillReturnError(errors.New("db error"))

		count, err := repo.CountByAccountID(ctx, "12345")
		assert.Error(t, err)
		assert.Zero(t, count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerRepository_PurgeZeroAmount(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &LedgerRepository{querier: mock, logger: logger}

	query := `
		DELETE FROM ledger_entries
		WHERE account_id = \$1 AND amount = 0
	`

	t.Run("removes placeholder rows", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("12345").
			WillReturnResult(pgxmock.NewResult("DELETE", 2))

		removed, err := repo.PurgeZeroAmount(ctx, "12345")
		assert.NoError(t, err)
		assert.Equal(t, int64(2), removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing to purge", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("12345").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		removed, err := repo.PurgeZeroAmount(ctx, "12345")
		assert.NoError(t, err)
		assert.Zero(t, removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("12345").
			WillReturnError(errors.New("db error"))

		removed, err := repo.PurgeZeroAmount(ctx, "12345")
		assert.Error(t, err)
		assert.Zero(t, removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
