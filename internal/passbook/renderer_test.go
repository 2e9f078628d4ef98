package passbook

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/branch-teller-ledger/internal/domain/customer"
	"github.com/branch-teller-ledger/internal/domain/ledger"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, cust *customer.Customer) error {
	args := m.Called(ctx, cust)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetByAccountID(ctx context.Context, accountID string) (*customer.Customer, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ListAccountIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCustomerRepository) UpdatePIN(ctx context.Context, accountID string, newPINHash string) error {
	args := m.Called(ctx, accountID, newPINHash)
	return args.Error(0)
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Create(ctx context.Context, entry *ledger.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetByAccountID(ctx context.Context, accountID string, limit, offset int) ([]*ledger.Entry, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Entry), args.Error(1)
}

func (m *MockLedgerRepository) CountByAccountID(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) PurgeZeroAmount(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func testCustomer() *customer.Customer {
	return &customer.Customer{
		AccountID:   "12345",
		DisplayName: "XYZ",
		BankName:    "State Bank Of India",
		PINHash:     "somehash",
	}
}

func TestRenderer_Render(t *testing.T) {
	ctx := context.Background()

	t.Run("WritesPassbookFile", func(t *testing.T) {
		customers := new(MockCustomerRepository)
		entries := new(MockLedgerRepository)
		outputDir := t.TempDir()
		r := NewRenderer(newTestLogger(), customers, entries, outputDir)

		ledgerEntries := []*ledger.Entry{
			{ID: uuid.New(), AccountID: "12345", Amount: 100000, Type: ledger.EntryTypeCredit, RecordedAt: time.Now().Add(-time.Hour)},
			{ID: uuid.New(), AccountID: "12345", Amount: 500, Type: ledger.EntryTypeDebit, RecordedAt: time.Now()},
		}

		customers.On("GetByAccountID", ctx, "12345").Return(testCustomer(), nil).Once()
		entries.On("PurgeZeroAmount", ctx, "12345").Return(int64(1), nil).Once()
		entries.On("GetByAccountID", ctx, "12345", pageSize, 0).Return(ledgerEntries, nil).Once()

		path, err := r.Render(ctx, "12345")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(outputDir, "Passbook12345.html"), path)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		html := string(content)
		assert.Contains(t, html, "State Bank Of India")
		assert.Contains(t, html, "XYZ")
		assert.Contains(t, html, "100000")
		assert.Contains(t, html, "DEBIT")
		assert.NotContains(t, html, "somehash", "pin hash never appears in the report")

		customers.AssertExpectations(t)
		entries.AssertExpectations(t)
	})

	t.Run("PurgeRunsBeforeRead", func(t *testing.T) {
		customers := new(MockCustomerRepository)
		entries := new(MockLedgerRepository)
		r := NewRenderer(newTestLogger(), customers, entries, t.TempDir())

		customers.On("GetByAccountID", ctx, "12345").Return(testCustomer(), nil).Once()
		entries.On("PurgeZeroAmount", ctx, "12345").Return(int64(0), errors.New("purge failed")).Once()

		_, err := r.Render(ctx, "12345")
		require.Error(t, err)
		entries.AssertNotCalled(t, "GetByAccountID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		customers := new(MockCustomerRepository)
		entries := new(MockLedgerRepository)
		r := NewRenderer(newTestLogger(), customers, entries, t.TempDir())

		customers.On("GetByAccountID", ctx, "99999").Return(nil, customer.ErrCustomerNotFound{AccountID: "99999"}).Once()

		_, err := r.Render(ctx, "99999")
		assert.ErrorIs(t, err, customer.ErrCustomerNotFound{})
	})
}

func TestBatchRenderer_RenderAll(t *testing.T) {
	ctx := context.Background()

	t.Run("RendersEveryAccount", func(t *testing.T) {
		customers := new(MockCustomerRepository)
		entries := new(MockLedgerRepository)
		r := NewRenderer(newTestLogger(), customers, entries, t.TempDir())

		batch, err := NewBatchRenderer(newTestLogger(), r, 4)
		require.NoError(t, err)
		defer batch.Release()

		ids := []string{"12345", "67890"}
		customers.On("ListAccountIDs", ctx).Return(ids, nil).Once()
		for _, id := range ids {
			cust := testCustomer()
			cust.AccountID = id
			customers.On("GetByAccountID", ctx, id).Return(cust, nil).Once()
			entries.On("PurgeZeroAmount", ctx, id).Return(int64(0), nil).Once()
			entries.On("GetByAccountID", ctx, id, pageSize, 0).Return([]*ledger.Entry{}, nil).Once()
		}

		err = batch.RenderAll(ctx)
		assert.NoError(t, err)
		customers.AssertExpectations(t)
		entries.AssertExpectations(t)
	})

	t.Run("PartialFailureIsSummarized", func(t *testing.T) {
		customers := new(MockCustomerRepository)
		entries := new(MockLedgerRepository)
		r := NewRenderer(newTestLogger(), customers, entries, t.TempDir())

		batch, err := NewBatchRenderer(newTestLogger(), r, 2)
		require.NoError(t, err)
		defer batch.Release()

		customers.On("ListAccountIDs", ctx).Return([]string{"12345", "99999"}, nil).Once()

		cust := testCustomer()
		customers.On("GetByAccountID", ctx, "12345").Return(cust, nil).Once()
		entries.On("PurgeZeroAmount", ctx, "12345").Return(int64(0), nil).Once()
		entries.On("GetByAccountID", ctx, "12345", pageSize, 0).Return([]*ledger.Entry{}, nil).Once()

		customers.On("GetByAccountID", ctx, "99999").Return(nil, customer.ErrCustomerNotFound{AccountID: "99999"}).Once()

		err = batch.RenderAll(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 2 passbooks failed")
	})
}
