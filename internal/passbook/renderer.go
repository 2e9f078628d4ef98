// Package passbook renders a customer's transaction history to a static
// HTML document. It is the reporting collaborator of the teller workflow:
// before rendering it purges zero-amount placeholder rows via the store's
// maintenance operation.
package passbook

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/branch-teller-ledger/internal/domain/customer"
	"github.com/branch-teller-ledger/internal/domain/ledger"
)

const pageSize = 500

var passbookTemplate = template.Must(template.New("passbook").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Passbook {{.Customer.AccountID}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #444; padding: 4px 12px; }
th { background: #eee; }
</style>
</head>
<body>
<h1>{{.Customer.BankName}}</h1>
<p>Account Number: {{.Customer.AccountID}}<br>
Account Holder: {{.Customer.DisplayName}}</p>
<table>
<tr><th>#</th><th>Amount</th><th>Type</th><th>Time</th></tr>
{{- range $i, $e := .Entries}}
<tr><td>{{$i}}</td><td>{{$e.Amount}}</td><td>{{$e.Type}}</td><td>{{$e.RecordedAt.Format "2006-01-02 15:04:05"}}</td></tr>
{{- end}}
</table>
</body>
</html>
`))

type templateData struct {
	Customer *customer.Customer
	Entries  []*ledger.Entry
}

// Renderer writes passbook HTML files into an output directory
type Renderer struct {
	logger    *slog.Logger
	customers customer.Repository
	entries   ledger.Repository
	outputDir string
}

// NewRenderer creates a passbook renderer
func NewRenderer(logger *slog.Logger, customers customer.Repository, entries ledger.Repository, outputDir string) *Renderer {
	return &Renderer{
		logger:    logger,
		customers: customers,
		entries:   entries,
		outputDir: outputDir,
	}
}

// Render produces the passbook for one account and returns the written file
// path. Zero-amount placeholder rows are purged first so they never appear
// in the document.
func (r *Renderer) Render(ctx context.Context, accountID string) (string, error) {
	cust, err := r.customers.GetByAccountID(ctx, accountID)
	if err != nil {
		return "", err
	}

	removed, err := r.entries.PurgeZeroAmount(ctx, accountID)
	if err != nil {
		return "", fmt.Errorf("failed to purge placeholder entries: %w", err)
	}
	if removed > 0 {
		r.logger.Info("purged placeholder entries", "account_id", accountID, "removed", removed)
	}

	entries, err := r.loadAllEntries(ctx, accountID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filePath := filepath.Join(r.outputDir, fmt.Sprintf("Passbook%s.html", accountID))
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create passbook file: %w", err)
	}
	defer file.Close()

	if err := passbookTemplate.Execute(file, templateData{Customer: cust, Entries: entries}); err != nil {
		return "", fmt.Errorf("failed to render passbook: %w", err)
	}

	r.logger.Info("passbook rendered", "account_id", accountID, "path", filePath, "entries", len(entries))
	return filePath, nil
}

// loadAllEntries pages through the full ledger for the account
func (r *Renderer) loadAllEntries(ctx context.Context, accountID string) ([]*ledger.Entry, error) {
	var all []*ledger.Entry
	offset := 0
	for {
		page, err := r.entries.GetByAccountID(ctx, accountID, pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to load ledger entries: %w", err)
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
		offset += pageSize
	}
}
