package processors

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/goldbooks/backend/src/models"
	"github.com/username/goldbooks/backend/src/utils"
)

// BuildTrialBalance aggregates the posting stream into one row per account
// with activity: opening balance, period debit/credit totals, and the
// closing balance under the account's sign convention. Rows follow chart
// order; grand totals cover the period columns only.
func BuildTrialBalance(resolver *AccountResolver, postings []models.Posting, windowStart, windowEnd time.Time) ([]models.TrialBalanceRow, decimal.Decimal, decimal.Decimal) {
	byAccount := make(map[string][]models.Posting)
	for _, p := range postings {
		byAccount[p.AccountNumber] = append(byAccount[p.AccountNumber], p)
	}

	var rows []models.TrialBalanceRow
	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for _, account := range resolver.Chart() {
		accountPostings := byAccount[account.AccountNumber]
		if len(accountPostings) == 0 {
			continue
		}

		opening, debit, credit := decimal.Zero, decimal.Zero, decimal.Zero
		for _, p := range accountPostings {
			date := utils.ParseReceiptDate(p.Date)
			switch {
			case date.Before(windowStart):
				opening = utils.Round3(opening.Add(signedDelta(account, p)))
			case date.Before(windowEnd):
				debit = utils.Round3(debit.Add(p.Debit))
				credit = utils.Round3(credit.Add(p.Credit))
			}
		}
		if opening.IsZero() && debit.IsZero() && credit.IsZero() {
			continue
		}

		closing := opening.Add(debit).Sub(credit)
		if !account.DebitNormal() {
			closing = opening.Add(credit).Sub(debit)
		}
		rows = append(rows, models.TrialBalanceRow{
			AccountNumber: account.AccountNumber,
			AccountName:   account.AccountName,
			Opening:       opening,
			Debit:         debit,
			Credit:        credit,
			Closing:       utils.Round3(closing),
		})
		totalDebit = utils.Round3(totalDebit.Add(debit))
		totalCredit = utils.Round3(totalCredit.Add(credit))
	}
	return rows, totalDebit, totalCredit
}

// BuildVatRows lists the in-window receipts of the requested kind that carry
// VAT, one row per receipt in chronological order, with base/VAT totals.
func BuildVatRows(classifier *Classifier, receipts []models.Receipt, kind models.ReceiptType, windowStart, windowEnd time.Time) ([]models.VatRow, decimal.Decimal, decimal.Decimal) {
	sorted := make([]models.Receipt, len(receipts))
	copy(sorted, receipts)
	models.SortChrono(sorted)

	var rows []models.VatRow
	totalBase, totalVat := decimal.Zero, decimal.Zero
	for _, r := range sorted {
		if classifier.Classify(r) != kind || !r.VAT.IsPositive() {
			continue
		}
		date := r.DateTime()
		if date.Before(windowStart) || !date.Before(windowEnd) {
			continue
		}
		counterparty := r.VendorTaxID
		if kind == models.ReceiptTypeSale {
			counterparty = r.BuyerTaxID
		}
		rows = append(rows, models.VatRow{
			Date:         r.Date,
			ReceiptNo:    r.ReceiptNo,
			Counterparty: counterparty,
			BaseAmount:   r.GrandTotal,
			VatAmount:    r.VAT,
			GrossAmount:  r.GrandTotal.Add(r.VAT),
		})
		totalBase = utils.Round3(totalBase.Add(r.GrandTotal))
		totalVat = utils.Round3(totalVat.Add(r.VAT))
	}
	return rows, totalBase, totalVat
}

// BuildJournal groups the in-window posting stream per receipt, preserving
// chronological order with log-order ties.
func BuildJournal(postings []models.Posting, windowStart, windowEnd time.Time) []models.JournalEntry {
	var entries []models.JournalEntry
	index := make(map[string]int)
	for _, p := range postings {
		date := utils.ParseReceiptDate(p.Date)
		if date.Before(windowStart) || !date.Before(windowEnd) {
			continue
		}
		i, seen := index[p.Reference]
		if !seen {
			index[p.Reference] = len(entries)
			entries = append(entries, models.JournalEntry{
				Date:        p.Date,
				Reference:   p.Reference,
				Description: p.Description,
			})
			i = len(entries) - 1
		}
		entries[i].Postings = append(entries[i].Postings, p)
	}
	return entries
}
