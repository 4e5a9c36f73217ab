package processors

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/username/goldbooks/backend/src/models"
	"github.com/username/goldbooks/backend/src/utils"
)

// MapResult is the full posting stream for a receipt history, plus warnings
// for every leg that could not be resolved to an account. Unresolvable legs
// are omitted from the stream, so the warnings are the only trace of them.
type MapResult struct {
	Postings []models.Posting
	Warnings []string
}

// DoubleEntryMapper turns classified receipts into balanced debit/credit
// postings against the chart of accounts.
type DoubleEntryMapper struct {
	classifier *Classifier
	resolver   *AccountResolver
}

func NewDoubleEntryMapper(classifier *Classifier, resolver *AccountResolver) *DoubleEntryMapper {
	return &DoubleEntryMapper{classifier: classifier, resolver: resolver}
}

// MapAll maps every receipt in chronological order and then resolves the
// pending COGS pairs against the costing engine's out-movements. Receipts
// that classify as neither sale nor purchase produce no postings.
func (m *DoubleEntryMapper) MapAll(receipts []models.Receipt, movements []models.Movement) MapResult {
	sorted := make([]models.Receipt, len(receipts))
	copy(sorted, receipts)
	models.SortChrono(sorted)

	var result MapResult
	for _, r := range sorted {
		postings, warnings := m.MapReceipt(r)
		result.Postings = append(result.Postings, postings...)
		result.Warnings = append(result.Warnings, warnings...)
	}

	resolvePendingCogs(result.Postings, OutMovementTotalsByReceipt(movements))
	return result
}

// MapReceipt produces the posting set for one receipt. Sale receipts get an
// additional COGS/inventory pair whose amount stays pending until MapAll's
// second pass; if the costing replay recorded nothing for the receipt the
// pair keeps amount 0 rather than being dropped.
func (m *DoubleEntryMapper) MapReceipt(r models.Receipt) ([]models.Posting, []string) {
	var postings []models.Posting
	var warnings []string

	post := func(role models.AccountRole, debit, credit decimal.Decimal, pendingRef string) {
		account, ok := m.resolver.Resolve(role)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("receipt %s: no account found for role %q, posting omitted", r.ReceiptNo, role))
			return
		}
		postings = append(postings, models.Posting{
			AccountNumber:  account.AccountNumber,
			Date:           r.Date,
			Description:    r.Notes,
			Reference:      r.ReceiptNo,
			Debit:          debit,
			Credit:         credit,
			PendingCogsRef: pendingRef,
			LogIndex:       r.LogIndex,
		})
	}

	gross := r.GrandTotal.Add(r.VAT)
	switch m.classifier.Classify(r) {
	case models.ReceiptTypePurchase:
		post(models.RoleInventory, r.GrandTotal, decimal.Zero, "")
		if r.VAT.IsPositive() {
			post(models.RoleVatInput, r.VAT, decimal.Zero, "")
			post(models.RoleBankOrCash, decimal.Zero, gross, "")
		} else {
			post(models.RoleBankOrCash, decimal.Zero, r.GrandTotal, "")
		}

	case models.ReceiptTypeSale:
		if r.VAT.IsPositive() {
			post(models.RoleBankOrCash, gross, decimal.Zero, "")
			post(models.RoleSalesRevenue, decimal.Zero, r.GrandTotal, "")
			post(models.RoleVatOutput, decimal.Zero, r.VAT, "")
		} else {
			post(models.RoleBankOrCash, r.GrandTotal, decimal.Zero, "")
			post(models.RoleSalesRevenue, decimal.Zero, r.GrandTotal, "")
		}
		// The COGS pair only exists when both sides resolve; a lone leg
		// would unbalance the journal.
		_, hasCogs := m.resolver.Resolve(models.RoleCogs)
		_, hasStock := m.resolver.Resolve(models.RoleInventory)
		if hasCogs && hasStock {
			post(models.RoleCogs, decimal.Zero, decimal.Zero, r.ReceiptNo)
			post(models.RoleInventory, decimal.Zero, decimal.Zero, r.ReceiptNo)
		}
	}

	return postings, warnings
}

// resolvePendingCogs fills pending COGS pairs in place. Pairs are emitted
// adjacently, COGS debit first then inventory credit; both legs get the
// summed out-movement total for their receipt, 0 when no movement matched.
func resolvePendingCogs(postings []models.Posting, totals map[string]decimal.Decimal) {
	for i := 0; i < len(postings); i++ {
		ref := postings[i].PendingCogsRef
		if ref == "" {
			continue
		}
		amount := utils.Round3(totals[ref])
		postings[i].Debit = amount
		postings[i].PendingCogsRef = ""
		if i+1 < len(postings) && postings[i+1].PendingCogsRef == ref {
			postings[i+1].Credit = amount
			postings[i+1].PendingCogsRef = ""
			i++
		}
	}
}
