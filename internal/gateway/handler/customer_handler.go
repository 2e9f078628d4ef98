package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/branch-teller-ledger/internal/domain/customer"
	"github.com/branch-teller-ledger/internal/domain/ledger"
	"github.com/branch-teller-ledger/internal/gateway/service"
	"github.com/branch-teller-ledger/internal/passbook"
)

// CustomerHandler handles HTTP requests for customer administration and
// passbook rendering
type CustomerHandler struct {
	customerService service.CustomerService
	renderer        *passbook.Renderer
	logger          *slog.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(logger *slog.Logger, customerService service.CustomerService, renderer *passbook.Renderer) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		renderer:        renderer,
		logger:          logger,
	}
}

// Create registers a new customer, hashing the PIN and seeding the opening balance
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cust, err := h.customerService.CreateCustomer(c.Request.Context(), req.AccountID, req.DisplayName, req.BankName, req.PIN, req.OpeningBalance)
	if err != nil {
		var duplicateErr customer.ErrDuplicateAccountID
		if errors.As(err, &duplicateErr) {
			h.logger.Warn("Attempt to create customer with duplicate account id", "account_id", duplicateErr.AccountID)
			RespondConflict(c, "Customer with this account number already exists")
			return
		}
		if errors.Is(err, customer.ErrEmptyAccountID) || errors.Is(err, customer.ErrEmptyDisplayName) || errors.Is(err, customer.ErrEmptyPINHash) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create customer", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapCustomerToResponse(cust))
}

// GetByAccountID retrieves a customer, returning 404 if not found
func (h *CustomerHandler) GetByAccountID(c *gin.Context) {
	accountID := c.Param("id")

	cust, err := h.customerService.GetCustomer(c.Request.Context(), accountID)
	if err != nil {
		var notFoundErr customer.ErrCustomerNotFound
		if errors.As(err, &notFoundErr) {
			RespondNotFound(c, "Customer not found")
			return
		}
		h.logger.Error("Failed to get customer", "account_id", accountID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapCustomerToResponse(cust))
}

// GetEntries retrieves a paginated transaction history for an account
func (h *CustomerHandler) GetEntries(c *gin.Context) {
	accountID := c.Param("id")

	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	entries, total, err := h.customerService.GetEntries(c.Request.Context(), accountID, params.Page, params.PerPage)
	if err != nil {
		var notFoundErr customer.ErrCustomerNotFound
		if errors.As(err, &notFoundErr) {
			RespondNotFound(c, "Customer not found")
			return
		}
		h.logger.Error("Failed to get ledger entries", "account_id", accountID, "error", err)
		RespondInternalError(c)
		return
	}

	response := EntryListResponse{Entries: make([]EntryResponse, 0, len(entries))}
	for _, entry := range entries {
		response.Entries = append(response.Entries, mapEntryToResponse(entry))
	}

	RespondWithPaginatedData(c, http.StatusOK, response, params.Page, params.PerPage, int(total))
}

// RenderPassbook renders the account's passbook HTML and reports the file path
func (h *CustomerHandler) RenderPassbook(c *gin.Context) {
	accountID := c.Param("id")

	path, err := h.renderer.Render(c.Request.Context(), accountID)
	if err != nil {
		var notFoundErr customer.ErrCustomerNotFound
		if errors.As(err, &notFoundErr) {
			RespondNotFound(c, "Customer not found")
			return
		}
		h.logger.Error("Failed to render passbook", "account_id", accountID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, PassbookResponse{AccountID: accountID, Path: path})
}

// mapCustomerToResponse maps a customer entity to a response DTO
func mapCustomerToResponse(cust *customer.Customer) CustomerResponse {
	return CustomerResponse{
		AccountID:   cust.AccountID,
		DisplayName: cust.DisplayName,
		BankName:    cust.BankName,
		CreatedAt:   cust.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   cust.UpdatedAt.Format(time.RFC3339),
	}
}

// mapEntryToResponse maps a ledger entry to a response DTO
func mapEntryToResponse(entry *ledger.Entry) EntryResponse {
	return EntryResponse{
		ID:         entry.ID.String(),
		AccountID:  entry.AccountID,
		Amount:     entry.Amount,
		EntryType:  string(entry.Type),
		RecordedAt: entry.RecordedAt.Format(time.RFC3339),
	}
}
