package workflow

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/branch-teller-ledger/internal/domain/customer"
	"github.com/branch-teller-ledger/internal/domain/ledger"
	"github.com/branch-teller-ledger/internal/otp"
	"github.com/branch-teller-ledger/internal/pin"
)

// Service drives the transaction workflow. Every operation takes the current
// session value and returns the next one; on error the returned session is
// the input unchanged, so a failed step never advances the flow.
type Service struct {
	logger    *slog.Logger
	customers customer.Repository
	entries   ledger.Repository
	hasher    pin.Hasher
	otpGen    otp.Generator
	deliverer otp.Deliverer
}

// NewService creates a workflow service
func NewService(
	logger *slog.Logger,
	customers customer.Repository,
	entries ledger.Repository,
	hasher pin.Hasher,
	otpGen otp.Generator,
	deliverer otp.Deliverer,
) *Service {
	return &Service{
		logger:    logger,
		customers: customers,
		entries:   entries,
		hasher:    hasher,
		otpGen:    otpGen,
		deliverer: deliverer,
	}
}

// SubmitAccount validates the entered account number against the store.
// On match the customer is loaded for display and the account field locks;
// on mismatch the session stays put with no retry limit.
func (s *Service) SubmitAccount(ctx context.Context, sess Session, input string) (Session, error) {
	if sess.State != StateAwaitingAccount {
		return sess, ValidationError{Field: "account_id", Message: "account number already submitted"}
	}
	if input == "" {
		return sess, ValidationError{Field: "account_id", Message: MsgInvalidAccountNumber}
	}

	ids, err := s.customers.ListAccountIDs(ctx)
	if err != nil {
		return sess, StoreError{Err: err}
	}

	known := false
	for _, id := range ids {
		if id == input {
			known = true
			break
		}
	}
	if !known {
		return sess, NotFoundError{Message: MsgInvalidAccountNumber}
	}

	cust, err := s.customers.GetByAccountID(ctx, input)
	if err != nil {
		return sess, StoreError{Err: err}
	}

	sess.Customer = cust
	sess.State = StateAccountVerified
	sess.Mode = ModeIdle

	s.logger.Info("account verified", "session_id", sess.ID.String(), "account_id", cust.AccountID)
	return sess.touch(), nil
}

// SelectWithdraw starts a withdrawal for the verified account. Withdraw and
// PIN reset are mutually exclusive within one transaction.
func (s *Service) SelectWithdraw(ctx context.Context, sess Session) (Session, error) {
	if !sess.AccountVerified() {
		return sess, ValidationError{Field: "account_id", Message: MsgInvalidAccountNumber}
	}
	if sess.Mode != ModeIdle {
		return sess, ValidationError{Field: "mode", Message: "a transaction is already in progress"}
	}

	sess.Mode = ModeWithdraw
	sess.State = StateAwaitingAmount
	return sess.touch(), nil
}

// SelectPINReset starts a PIN reset for the verified account: a one-time
// code is generated and handed to the out-of-band deliverer. The code is
// never returned to the interactive surface.
func (s *Service) SelectPINReset(ctx context.Context, sess Session) (Session, error) {
	if !sess.AccountVerified() {
		return sess, ValidationError{Field: "account_id", Message: MsgInvalidAccountNumber}
	}
	if sess.Mode != ModeIdle {
		return sess, ValidationError{Field: "mode", Message: "a transaction is already in progress"}
	}

	code, err := s.otpGen.Generate()
	if err != nil {
		return sess, StoreError{Err: err}
	}
	if err := s.deliverer.Deliver(ctx, sess.Customer.AccountID, code); err != nil {
		return sess, StoreError{Err: err}
	}

	sess.OTPChallenge = code
	sess.Mode = ModePINReset
	sess.State = StateAwaitingOTP

	s.logger.Info("otp issued for pin reset", "session_id", sess.ID.String(), "account_id", sess.Customer.AccountID)
	return sess.touch(), nil
}

// SubmitAmount validates the withdrawal amount. The input must be a positive
// integer string; anything else is rejected and the field stays editable.
func (s *Service) SubmitAmount(ctx context.Context, sess Session, input string) (Session, error) {
	if sess.State != StateAwaitingAmount || sess.Mode != ModeWithdraw {
		return sess, ValidationError{Field: "amount", Message: "no withdrawal in progress"}
	}

	amount, ok := parseAmount(input)
	if !ok {
		return sess, ValidationError{Field: "amount", Message: MsgInvalidAmount}
	}

	sess.PendingAmount = amount
	sess.State = StateAwaitingPIN
	return sess.touch(), nil
}

// SubmitOTP checks the submitted code against the pending challenge. Success
// unlocks PIN entry; failure keeps the session in place with no attempt
// limit or expiry.
func (s *Service) SubmitOTP(ctx context.Context, sess Session, input string) (Session, error) {
	if sess.State != StateAwaitingOTP || sess.Mode != ModePINReset {
		return sess, ValidationError{Field: "otp", Message: "no pin reset in progress"}
	}

	if !otp.Verify(sess.OTPChallenge, input) {
		return sess, AuthError{Message: MsgInvalidOTP}
	}

	sess.OTPChallenge = ""
	sess.State = StateAwaitingPIN
	return sess.touch(), nil
}

// SubmitPIN completes the selected transaction. In withdraw mode the PIN is
// hashed and compared to the stored digest before a DEBIT entry is appended;
// in reset mode the submitted value becomes the new PIN unconditionally, the
// OTP having already authorized the change.
func (s *Service) SubmitPIN(ctx context.Context, sess Session, input string) (Session, error) {
	if sess.State != StateAwaitingPIN {
		return sess, ValidationError{Field: "pin", Message: "not ready for a PIN"}
	}
	if input == "" {
		return sess, ValidationError{Field: "pin", Message: MsgMissingPIN}
	}

	switch sess.Mode {
	case ModeWithdraw:
		return s.completeWithdraw(ctx, sess, input)
	case ModePINReset:
		return s.completePINReset(ctx, sess, input)
	default:
		return sess, ValidationError{Field: "pin", Message: "no transaction in progress"}
	}
}

func (s *Service) completeWithdraw(ctx context.Context, sess Session, rawPIN string) (Session, error) {
	if !s.hasher.Compare(rawPIN, sess.Customer.PINHash) {
		return sess, AuthError{Message: MsgInvalidPIN}
	}

	entry, err := ledger.NewEntry(sess.Customer.AccountID, sess.PendingAmount, ledger.EntryTypeDebit)
	if err != nil {
		return sess, ValidationError{Field: "amount", Message: MsgInvalidAmount}
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return sess, StoreError{Err: err}
	}

	sess.State = StateCompleted

	s.logger.Info("amount debited",
		"session_id", sess.ID.String(),
		"account_id", sess.Customer.AccountID,
		"amount", sess.PendingAmount,
	)
	return sess.touch(), nil
}

func (s *Service) completePINReset(ctx context.Context, sess Session, rawPIN string) (Session, error) {
	newHash := s.hasher.Hash(rawPIN)
	if err := s.customers.UpdatePIN(ctx, sess.Customer.AccountID, newHash); err != nil {
		return sess, StoreError{Err: err}
	}

	s.logger.Info("pin reset completed", "session_id", sess.ID.String(), "account_id", sess.Customer.AccountID)

	// A completed reset ends the transaction: all fields cleared, back to idle.
	return sess.reset(), nil
}

// Cancel discards all session state and returns to account entry with every
// field re-enabled. Confirmation is the surface's responsibility.
func (s *Service) Cancel(sess Session) Session {
	s.logger.Info("session cancelled", "session_id", sess.ID.String())
	return sess.reset()
}

// parseAmount accepts positive integer strings only: digits, no sign, no
// leading/trailing space, greater than zero, and within int64 range.
func parseAmount(input string) (int64, bool) {
	if input == "" {
		return 0, false
	}
	for _, c := range input {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	amount, err := strconv.ParseInt(input, 10, 64)
	if err != nil || amount <= 0 {
		return 0, false
	}
	return amount, true
}
