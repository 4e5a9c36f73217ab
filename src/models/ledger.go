package models

import (
	"github.com/shopspring/decimal"

	"github.com/username/goldbooks/backend/src/utils"
)

// Posting is one (account, debit, credit) line derived from a receipt.
// Postings are ephemeral: regenerated from the full receipt log on every
// report request, never persisted.
type Posting struct {
	AccountNumber string          `json:"accountNumber"`
	Date          string          `json:"date"`
	Description   string          `json:"description"`
	Reference     string          `json:"reference"` // receipt_no of the originating receipt
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`

	// PendingCogsRef marks a COGS/inventory placeholder pair whose amount is
	// filled in by a second pass over the costing engine's out-movements.
	// Empty once resolved.
	PendingCogsRef string `json:"-"`

	// LogIndex carries the originating receipt's log position so ledger
	// entries keep a stable order for same-day receipts.
	LogIndex int `json:"-"`
}

// MovementType tags a stock movement row.
type MovementType string

const (
	MovementOpening MovementType = "opening"
	MovementIn      MovementType = "in"
	MovementOut     MovementType = "out"
)

// Movement is one row of a product's stock card: an opening balance, a
// purchase into stock, or a sale out of stock, with the balance snapshot
// after the movement. All values carry 3-decimal rounding applied at every
// arithmetic step of the replay.
type Movement struct {
	Date            string
	Type            MovementType
	Qty             decimal.Decimal
	UnitCost        decimal.Decimal
	Total           decimal.Decimal
	Desc            string
	BalanceQty      decimal.Decimal
	BalanceAvgCost  decimal.Decimal
	BalanceTotal    decimal.Decimal
	Product         string
	SourceReceiptNo string
}

// MovementRow is the wire form of a Movement: every numeric field a string
// fixed to 3 decimal places, which is what the stock report consumers parse.
type MovementRow struct {
	Date            string `json:"date"`
	Type            string `json:"type"`
	Qty             string `json:"qty"`
	UnitCost        string `json:"unitCost"`
	Total           string `json:"total"`
	Desc            string `json:"desc"`
	BalanceQty      string `json:"balanceQty"`
	BalanceAvgCost  string `json:"balanceAvgCost"`
	BalanceTotal    string `json:"balanceTotal"`
	Product         string `json:"product"`
	SourceReceiptNo string `json:"sourceReceiptNo,omitempty"`
}

// Row serializes the movement for the stock report payload.
func (m Movement) Row() MovementRow {
	return MovementRow{
		Date:            m.Date,
		Type:            string(m.Type),
		Qty:             utils.Fixed3(m.Qty),
		UnitCost:        utils.Fixed3(m.UnitCost),
		Total:           utils.Fixed3(m.Total),
		Desc:            m.Desc,
		BalanceQty:      utils.Fixed3(m.BalanceQty),
		BalanceAvgCost:  utils.Fixed3(m.BalanceAvgCost),
		BalanceTotal:    utils.Fixed3(m.BalanceTotal),
		Product:         m.Product,
		SourceReceiptNo: m.SourceReceiptNo,
	}
}

// InventoryState is the running balance of one product during the costing
// replay. Reset to zero at the start of every computation; there is no
// persisted carry-forward.
type InventoryState struct {
	Quantity    decimal.Decimal `json:"quantity"`
	TotalCost   decimal.Decimal `json:"totalCost"`
	AvgUnitCost decimal.Decimal `json:"weightedAverageUnitCost"`
}

// LedgerEntry is one posting rendered into an account's ledger with the
// running balance after it.
type LedgerEntry struct {
	Date           string          `json:"date"`
	Description    string          `json:"description"`
	Reference      string          `json:"reference"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// LedgerAccount is one account's ledger for the report month.
type LedgerAccount struct {
	AccountNumber  string          `json:"accountNumber"`
	AccountName    string          `json:"accountName"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Entries        []LedgerEntry   `json:"entries"`
}

// LedgerReport is the payload of the ledger report endpoint.
type LedgerReport struct {
	Month    string          `json:"month"`
	Ledger   []LedgerAccount `json:"ledger"`
	Warnings []string        `json:"warnings,omitempty"`
}

// TrialBalanceRow is one account's line in the trial balance: opening
// balance, period movement totals, and the closing balance.
type TrialBalanceRow struct {
	AccountNumber string          `json:"accountNumber"`
	AccountName   string          `json:"accountName"`
	Opening       decimal.Decimal `json:"opening"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Closing       decimal.Decimal `json:"closing"`
}

// TrialBalanceReport is the payload of the trial balance endpoint.
type TrialBalanceReport struct {
	Month       string            `json:"month"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	Warnings    []string          `json:"warnings,omitempty"`
}

// VatRow is one receipt's line in a VAT sale or purchase summary.
type VatRow struct {
	Date         string          `json:"date"`
	ReceiptNo    string          `json:"receiptNo"`
	Counterparty string          `json:"counterpartyTaxId"`
	BaseAmount   decimal.Decimal `json:"baseAmount"`
	VatAmount    decimal.Decimal `json:"vatAmount"`
	GrossAmount  decimal.Decimal `json:"grossAmount"`
}

// VatReport is the payload of the VAT sale/purchase endpoints.
type VatReport struct {
	Month     string          `json:"month"`
	Kind      string          `json:"kind"` // "sale" or "purchase"
	Rows      []VatRow        `json:"rows"`
	TotalBase decimal.Decimal `json:"totalBase"`
	TotalVat  decimal.Decimal `json:"totalVat"`
}

// JournalEntry groups one receipt's postings for the journal view.
type JournalEntry struct {
	Date        string    `json:"date"`
	Reference   string    `json:"reference"`
	Description string    `json:"description"`
	Postings    []Posting `json:"postings"`
}

// JournalReport is the payload of the journal endpoint.
type JournalReport struct {
	Month    string         `json:"month"`
	Entries  []JournalEntry `json:"entries"`
	Warnings []string       `json:"warnings,omitempty"`
}
