package models

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/goldbooks/backend/src/utils"
)

// ReceiptType is the explicit type a producer wrote on a receipt. Used as a
// fallback when tax-ID classification is inconclusive.
type ReceiptType string

const (
	ReceiptTypePurchase ReceiptType = "purchase"
	ReceiptTypeSale     ReceiptType = "sale"
)

// ProductLine is one item row on a receipt. Weight and Quantity are kept as
// raw JSON because the log has no schema enforcement: producers write
// numbers, numeric strings, or nothing at all, and a malformed quantity must
// not make the whole receipt unparsable.
type ProductLine struct {
	Name     string          `json:"name"`
	Weight   json.RawMessage `json:"weight,omitempty"`
	Quantity json.RawMessage `json:"quantity,omitempty"`
	Price    decimal.Decimal `json:"price"`
}

// StockQty resolves the quantity used by inventory costing: weight if it
// parses, else quantity. Returns false for zero or non-numeric values
// (non-stock lines such as service charges).
func (p ProductLine) StockQty() (decimal.Decimal, bool) {
	if qty, ok := utils.ParseFlexibleDecimal(p.Weight); ok && !qty.IsZero() {
		return qty, true
	}
	if qty, ok := utils.ParseFlexibleDecimal(p.Quantity); ok && !qty.IsZero() {
		return qty, true
	}
	return decimal.Zero, false
}

// Receipt is one immutable fact record from the append-only receipt log.
type Receipt struct {
	Date        string          `json:"date"`
	Type        ReceiptType     `json:"type,omitempty"`
	ReceiptNo   string          `json:"receipt_no"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	VAT         decimal.Decimal `json:"vat"`
	VendorTaxID string          `json:"vendor_tax_id,omitempty"`
	BuyerTaxID  string          `json:"buyer_tax_id,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Products    []ProductLine   `json:"products,omitempty"`

	// LogIndex is the receipt's position in the log file. It is the
	// chronological tie-break for same-day receipts and is never serialized.
	LogIndex int `json:"-"`
}

// DateTime parses the receipt's calendar day. Unparsable dates sort before
// everything, matching how the log's producers treat blank dates.
func (r Receipt) DateTime() time.Time {
	return utils.ParseReceiptDate(r.Date)
}

// SortChrono orders receipts by the shared chronological comparator:
// ascending date, ties broken by original log position. Both the costing
// replay and the ledger builder sort with this, so same-day receipts can
// never diverge between the two.
func SortChrono(receipts []Receipt) {
	sort.SliceStable(receipts, func(i, j int) bool {
		di, dj := receipts[i].DateTime(), receipts[j].DateTime()
		if di.Equal(dj) {
			return receipts[i].LogIndex < receipts[j].LogIndex
		}
		return di.Before(dj)
	})
}
