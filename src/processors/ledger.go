package processors

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/goldbooks/backend/src/models"
	"github.com/username/goldbooks/backend/src/utils"
)

// LedgerBuilder aggregates the full posting stream into per-account ledgers
// for a month: opening balance net of everything before the window, then a
// running balance after each in-window entry, signed per the account's
// normal-balance convention.
type LedgerBuilder struct {
	resolver *AccountResolver
}

func NewLedgerBuilder(resolver *AccountResolver) *LedgerBuilder {
	return &LedgerBuilder{resolver: resolver}
}

// Build produces the ledger for [windowStart, windowEnd). Accounts with a
// zero opening balance and no in-window entries are omitted. Output follows
// chart order.
func (b *LedgerBuilder) Build(postings []models.Posting, windowStart, windowEnd time.Time) []models.LedgerAccount {
	byAccount := make(map[string][]models.Posting)
	for _, p := range postings {
		byAccount[p.AccountNumber] = append(byAccount[p.AccountNumber], p)
	}

	var ledger []models.LedgerAccount
	for _, account := range b.resolver.Chart() {
		accountPostings := byAccount[account.AccountNumber]
		if len(accountPostings) == 0 {
			continue
		}

		opening := decimal.Zero
		var inWindow []models.Posting
		for _, p := range accountPostings {
			date := utils.ParseReceiptDate(p.Date)
			switch {
			case date.Before(windowStart):
				opening = utils.Round3(opening.Add(signedDelta(account, p)))
			case date.Before(windowEnd):
				inWindow = append(inWindow, p)
			}
		}

		if opening.IsZero() && len(inWindow) == 0 {
			continue
		}

		// Postings arrive in receipt-generation order; ledger entries are
		// re-sorted by date with ties kept in original log order.
		sort.SliceStable(inWindow, func(i, j int) bool {
			di := utils.ParseReceiptDate(inWindow[i].Date)
			dj := utils.ParseReceiptDate(inWindow[j].Date)
			if di.Equal(dj) {
				return inWindow[i].LogIndex < inWindow[j].LogIndex
			}
			return di.Before(dj)
		})

		running := opening
		entries := make([]models.LedgerEntry, 0, len(inWindow))
		for _, p := range inWindow {
			running = utils.Round3(running.Add(signedDelta(account, p)))
			entries = append(entries, models.LedgerEntry{
				Date:           p.Date,
				Description:    p.Description,
				Reference:      p.Reference,
				Debit:          p.Debit,
				Credit:         p.Credit,
				RunningBalance: running,
			})
		}

		ledger = append(ledger, models.LedgerAccount{
			AccountNumber:  account.AccountNumber,
			AccountName:    account.AccountName,
			OpeningBalance: opening,
			Entries:        entries,
		})
	}
	return ledger
}

// signedDelta applies the account's normal-balance sign convention to a
// posting: debit-normal accounts grow by debit-credit, credit-normal
// accounts by credit-debit.
func signedDelta(account models.Account, p models.Posting) decimal.Decimal {
	if account.DebitNormal() {
		return p.Debit.Sub(p.Credit)
	}
	return p.Credit.Sub(p.Debit)
}
