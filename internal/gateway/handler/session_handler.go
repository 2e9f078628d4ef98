package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/branch-teller-ledger/internal/workflow"
)

// SessionHandler handles HTTP requests driving the teller workflow. Each
// request loads the session value, runs one workflow operation, and stores
// the returned session back. The handler itself keeps no transaction state.
type SessionHandler struct {
	logger   *slog.Logger
	workflow *workflow.Service
	sessions *workflow.Manager
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(logger *slog.Logger, wf *workflow.Service, sessions *workflow.Manager) *SessionHandler {
	return &SessionHandler{
		logger:   logger,
		workflow: wf,
		sessions: sessions,
	}
}

// Create starts a new teller session awaiting account entry
func (h *SessionHandler) Create(c *gin.Context) {
	sess := h.sessions.Create()
	RespondCreated(c, mapSessionToResponse(sess, "Welcome to ATM"))
}

// Get returns the current session snapshot
func (h *SessionHandler) Get(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	RespondOK(c, mapSessionToResponse(sess, ""))
}

// Delete ends the session, releasing its state
func (h *SessionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid session ID")
		return
	}
	h.sessions.Delete(id)
	RespondNoContent(c)
}

// SubmitAccount validates the entered account number
func (h *SessionHandler) SubmitAccount(c *gin.Context) {
	h.step(c, "Account verified", func(sess workflow.Session, value string) (workflow.Session, error) {
		return h.workflow.SubmitAccount(c.Request.Context(), sess, value)
	})
}

// SelectWithdraw starts a withdrawal transaction
func (h *SessionHandler) SelectWithdraw(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	next, err := h.workflow.SelectWithdraw(c.Request.Context(), sess)
	if err != nil {
		h.respondWorkflowError(c, err)
		return
	}

	h.sessions.Put(next)
	RespondOK(c, mapSessionToResponse(next, "Enter withdrawal amount"))
}

// SelectPINReset starts a PIN reset, issuing a one-time code out-of-band
func (h *SessionHandler) SelectPINReset(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	next, err := h.workflow.SelectPINReset(c.Request.Context(), sess)
	if err != nil {
		h.respondWorkflowError(c, err)
		return
	}

	h.sessions.Put(next)
	RespondOK(c, mapSessionToResponse(next, "OTP sent. Enter OTP to set up new PIN"))
}

// SubmitAmount validates the withdrawal amount
func (h *SessionHandler) SubmitAmount(c *gin.Context) {
	h.step(c, "Amount accepted. Enter PIN", func(sess workflow.Session, value string) (workflow.Session, error) {
		return h.workflow.SubmitAmount(c.Request.Context(), sess, value)
	})
}

// SubmitOTP checks the one-time code for a pending PIN reset
func (h *SessionHandler) SubmitOTP(c *gin.Context) {
	h.step(c, "OTP verified. Enter new PIN", func(sess workflow.Session, value string) (workflow.Session, error) {
		return h.workflow.SubmitOTP(c.Request.Context(), sess, value)
	})
}

// SubmitPIN completes the pending withdrawal or PIN reset
func (h *SessionHandler) SubmitPIN(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	var req SubmitFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	mode := sess.Mode
	next, err := h.workflow.SubmitPIN(c.Request.Context(), sess, req.Value)
	if err != nil {
		h.respondWorkflowError(c, err)
		return
	}

	h.sessions.Put(next)

	message := "Money Debited Successfully"
	if mode == workflow.ModePINReset {
		message = "New PIN Successfully Set Up"
	}
	RespondOK(c, mapSessionToResponse(next, message))
}

// Cancel discards the transaction after an explicit confirmation
func (h *SessionHandler) Cancel(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if !req.Confirm {
		RespondBadRequest(c, "Cancellation requires confirmation")
		return
	}

	next := h.workflow.Cancel(sess)
	h.sessions.Put(next)
	RespondOK(c, mapSessionToResponse(next, "Transaction cancelled"))
}

// step runs a single submit-style workflow operation
func (h *SessionHandler) step(c *gin.Context, successMessage string, op func(workflow.Session, string) (workflow.Session, error)) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	var req SubmitFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	next, err := op(sess, req.Value)
	if err != nil {
		h.respondWorkflowError(c, err)
		return
	}

	h.sessions.Put(next)
	RespondOK(c, mapSessionToResponse(next, successMessage))
}

func (h *SessionHandler) loadSession(c *gin.Context) (workflow.Session, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid session ID")
		return workflow.Session{}, false
	}

	sess, err := h.sessions.Get(id)
	if err != nil {
		RespondNotFound(c, "Session not found")
		return workflow.Session{}, false
	}
	return sess, true
}

// respondWorkflowError converts workflow errors to user-facing responses.
// Every recoverable failure leaves the stored session untouched, so the
// user can simply retry.
func (h *SessionHandler) respondWorkflowError(c *gin.Context, err error) {
	var validationErr workflow.ValidationError
	var notFoundErr workflow.NotFoundError
	var authErr workflow.AuthError
	var storeErr workflow.StoreError

	switch {
	case errors.As(err, &validationErr):
		RespondBadRequest(c, validationErr.Message)
	case errors.As(err, &notFoundErr):
		RespondNotFound(c, notFoundErr.Message)
	case errors.As(err, &authErr):
		RespondUnauthorized(c, authErr.Message)
	case errors.As(err, &storeErr):
		h.logger.Error("store failure in workflow", "error", err)
		RespondInternalError(c)
	default:
		h.logger.Error("unexpected workflow error", "error", err)
		RespondInternalError(c)
	}
}

// mapSessionToResponse maps a session value to its API snapshot. The OTP
// challenge and PIN hash never leave the server.
func mapSessionToResponse(sess workflow.Session, message string) SessionResponse {
	resp := SessionResponse{
		ID:            sess.ID.String(),
		State:         string(sess.State),
		Mode:          string(sess.Mode),
		PendingAmount: sess.PendingAmount,
		Message:       message,
	}
	if sess.Customer != nil {
		resp.Customer = &CustomerResponse{
			AccountID:   sess.Customer.AccountID,
			DisplayName: sess.Customer.DisplayName,
			BankName:    sess.Customer.BankName,
			CreatedAt:   sess.Customer.CreatedAt.Format(time.RFC3339),
			UpdatedAt:   sess.Customer.UpdatedAt.Format(time.RFC3339),
		}
	}
	return resp
}
