package services

import (
	"context"
	"errors"

	"github.com/username/goldbooks/backend/src/models"
)

var (
	// ErrInvalidMonth marks a malformed month/year query value. No
	// computation is attempted.
	ErrInvalidMonth = errors.New("invalid month parameter")

	// ErrUnknownAccount marks an accountNumber filter that does not exist
	// in the chart of accounts.
	ErrUnknownAccount = errors.New("unknown account number")

	// ErrStoreUnavailable wraps receipt-log or chart read/parse failures.
	// Requests are stateless, so retrying is safe and left to the caller.
	ErrStoreUnavailable = errors.New("bookkeeping data unavailable")
)

// ReportService derives statutory reports from the receipt log and chart of
// accounts. Every call is a full, stateless recomputation over the entire
// history; results are memoized keyed by content hashes of the inputs.
type ReportService interface {
	LedgerReport(ctx context.Context, month, accountNumber string) (*models.LedgerReport, error)
	StockMovements(ctx context.Context, year, month int) ([]models.MovementRow, error)
	TrialBalance(ctx context.Context, month string) (*models.TrialBalanceReport, error)
	VatReport(ctx context.Context, month string, kind models.ReceiptType) (*models.VatReport, error)
	Journal(ctx context.Context, month string) (*models.JournalReport, error)
}
