// Package workflow implements the teller transaction state machine: account
// lookup, amount entry, PIN and OTP verification, and ledger mutation. All
// session state is an explicit value passed into and returned from each
// operation; nothing is process-global.
package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/branch-teller-ledger/internal/domain/customer"
)

// State identifies where a session is in the transaction flow
type State string

const (
	StateAwaitingAccount State = "AWAITING_ACCOUNT"
	StateAccountVerified State = "ACCOUNT_VERIFIED"
	StateAwaitingAmount  State = "AWAITING_AMOUNT"
	StateAwaitingOTP     State = "AWAITING_OTP"
	StateAwaitingPIN     State = "AWAITING_PIN"
	StateCompleted       State = "COMPLETED"
)

// Mode identifies which transaction the customer selected
type Mode string

const (
	ModeIdle     Mode = "IDLE"
	ModeWithdraw Mode = "WITHDRAW"
	ModePINReset Mode = "PIN_RESET"
)

// Session is the ephemeral state of one user's interaction, from account
// entry to completion or cancellation. Optional fields hold their zero value
// until the corresponding step validates.
type Session struct {
	ID            uuid.UUID
	State         State
	Mode          Mode
	Customer      *customer.Customer // Set once the account is validated
	PendingAmount int64              // Set once the amount is validated
	OTPChallenge  string             // Set only while a PIN reset is pending
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewSession creates a fresh session awaiting account entry
func NewSession() Session {
	now := time.Now()
	return Session{
		ID:        uuid.New(),
		State:     StateAwaitingAccount,
		Mode:      ModeIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// reset clears all transaction state, keeping the session identity so the
// interactive surface can continue using the same session id.
func (s Session) reset() Session {
	return Session{
		ID:        s.ID,
		State:     StateAwaitingAccount,
		Mode:      ModeIdle,
		CreatedAt: s.CreatedAt,
		UpdatedAt: time.Now(),
	}
}

// touch stamps the session as just updated
func (s Session) touch() Session {
	s.UpdatedAt = time.Now()
	return s
}

// AccountVerified reports whether an account has been validated for this session
func (s Session) AccountVerified() bool {
	return s.Customer != nil
}
