package handler

// CreateCustomerRequest represents a request to register a new customer
type CreateCustomerRequest struct {
	AccountID      string `json:"account_id" binding:"required,max=20"`
	DisplayName    string `json:"display_name" binding:"required"`
	BankName       string `json:"bank_name,omitempty"`
	PIN            string `json:"pin" binding:"required"`
	OpeningBalance int64  `json:"opening_balance" binding:"min=0"`
}

// CustomerResponse represents a customer in API responses.
// The PIN hash is never included.
type CustomerResponse struct {
	AccountID   string `json:"account_id"`
	DisplayName string `json:"display_name"`
	BankName    string `json:"bank_name,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// SubmitFieldRequest carries one field submission (account number, amount,
// OTP, or PIN) into the workflow
type SubmitFieldRequest struct {
	Value string `json:"value"`
}

// CancelRequest carries the cancellation confirmation
type CancelRequest struct {
	Confirm bool `json:"confirm"`
}

// SessionResponse represents a workflow session snapshot in API responses.
// The OTP challenge is deliberately absent: codes reach the customer only
// through the out-of-band delivery channel.
type SessionResponse struct {
	ID            string            `json:"id"`
	State         string            `json:"state"`
	Mode          string            `json:"mode"`
	Customer      *CustomerResponse `json:"customer,omitempty"`
	PendingAmount int64             `json:"pending_amount,omitempty"`
	Message       string            `json:"message,omitempty"`
}

// EntryResponse represents a ledger entry in API responses
type EntryResponse struct {
	ID         string `json:"id"`
	AccountID  string `json:"account_id"`
	Amount     int64  `json:"amount"`
	EntryType  string `json:"entry_type"`
	RecordedAt string `json:"recorded_at"`
}

// EntryListResponse represents a list of ledger entries in API responses
type EntryListResponse struct {
	Entries []EntryResponse `json:"entries"`
}

// PassbookResponse reports where a rendered passbook was written
type PassbookResponse struct {
	AccountID string `json:"account_id"`
	Path      string `json:"path"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}
