package processors

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/goldbooks/backend/src/models"
)

func testMapper() *DoubleEntryMapper {
	return NewDoubleEntryMapper(NewClassifier(orgTaxID), testResolver())
}

func postingFor(t *testing.T, postings []models.Posting, accountNumber string) models.Posting {
	t.Helper()
	for _, p := range postings {
		if p.AccountNumber == accountNumber {
			return p
		}
	}
	t.Fatalf("no posting for account %s", accountNumber)
	return models.Posting{}
}

func TestMapper_PurchaseWithVat(t *testing.T) {
	r := purchase("P-001", "2025-06-01", "1000", "70")

	postings, warnings := testMapper().MapReceipt(r)

	assert.Empty(t, warnings)
	require.Len(t, postings, 3)

	stock := postingFor(t, postings, "1200")
	assertDec(t, "1000", stock.Debit)
	assertDec(t, "0", stock.Credit)

	vatIn := postingFor(t, postings, "1300")
	assertDec(t, "70", vatIn.Debit)

	bank := postingFor(t, postings, "1100")
	assertDec(t, "1070", bank.Credit)
}

func TestMapper_PurchaseWithoutVat(t *testing.T) {
	r := purchase("P-001", "2025-06-01", "1000", "0")

	postings, _ := testMapper().MapReceipt(r)

	require.Len(t, postings, 2)
	assertDec(t, "1000", postingFor(t, postings, "1200").Debit)
	assertDec(t, "1000", postingFor(t, postings, "1100").Credit)
}

func TestMapper_SaleWithVat(t *testing.T) {
	r := sale("S-001", "2025-06-01", "2000", "140")

	postings, warnings := testMapper().MapReceipt(r)

	assert.Empty(t, warnings)
	// Bank, revenue, VAT output, plus the pending COGS pair.
	require.Len(t, postings, 5)

	assertDec(t, "2140", postingFor(t, postings, "1100").Debit)
	assertDec(t, "2000", postingFor(t, postings, "4100").Credit)
	assertDec(t, "140", postingFor(t, postings, "2100").Credit)

	cogs := postingFor(t, postings, "5100")
	assert.Equal(t, "S-001", cogs.PendingCogsRef)
}

func TestMapper_CogsResolvedFromMovements(t *testing.T) {
	// Prior purchase establishes a 1500/unit average; selling 2 units must
	// post COGS 3000 against stock.
	receipts := withLogIndexes(
		purchase("P-001", "2025-06-01", "3000", "0", product("ทองแท่ง", "2", "3000")),
		sale("S-001", "2025-06-05", "4000", "0", product("ทองแท่ง", "2", "4000")),
	)
	costing := testEngine().ReplayAll(receipts)

	result := testMapper().MapAll(receipts, costing.Movements)

	var cogs, stockCredit models.Posting
	for _, p := range result.Postings {
		if p.Reference != "S-001" {
			continue
		}
		switch p.AccountNumber {
		case "5100":
			cogs = p
		case "1200":
			stockCredit = p
		}
	}
	assertDec(t, "3000", cogs.Debit)
	assertDec(t, "3000", stockCredit.Credit)
	assert.Empty(t, cogs.PendingCogsRef)
}

func TestMapper_UnmatchedCogsPairKeptAtZero(t *testing.T) {
	// A sale with no stock lines still gets its COGS pair, amount 0.
	receipts := withLogIndexes(sale("S-001", "2025-06-05", "4000", "0"))
	costing := testEngine().ReplayAll(receipts)

	result := testMapper().MapAll(receipts, costing.Movements)

	cogs := postingFor(t, result.Postings, "5100")
	assertDec(t, "0", cogs.Debit)
	assert.Empty(t, cogs.PendingCogsRef)
}

func TestMapper_DebitsEqualCredits(t *testing.T) {
	receipts := withLogIndexes(
		purchase("P-001", "2025-06-01", "3000", "210", product("ทองแท่ง", "2", "3000")),
		sale("S-001", "2025-06-05", "4000", "280", product("ทองแท่ง", "1", "4000")),
		purchase("P-002", "2025-06-08", "500", "0"),
		sale("S-002", "2025-06-09", "700", "0"),
	)
	costing := testEngine().ReplayAll(receipts)

	result := testMapper().MapAll(receipts, costing.Movements)

	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for _, p := range result.Postings {
		totalDebit = totalDebit.Add(p.Debit)
		totalCredit = totalCredit.Add(p.Credit)
	}
	assert.True(t, totalDebit.Equal(totalCredit), "debits %s != credits %s", totalDebit, totalCredit)
}

func TestMapper_NeitherTypeProducesNoPostings(t *testing.T) {
	voucher := models.Receipt{ReceiptNo: "JV-001", Date: "2025-06-01"}

	postings, warnings := testMapper().MapReceipt(voucher)

	assert.Empty(t, postings)
	assert.Empty(t, warnings)
}

func TestMapper_MissingRoleOmitsPostingWithWarning(t *testing.T) {
	// Chart with no VAT-input account and no role entry for it.
	chart := []models.Account{
		{AccountNumber: "1100", AccountName: "เงินฝากธนาคาร", Type: models.AccountTypeAsset},
		{AccountNumber: "1200", AccountName: "สินค้าคงเหลือ", Type: models.AccountTypeAsset},
	}
	roles := models.RoleMap{models.RoleInventory: "1200", models.RoleBankOrCash: "1100"}
	mapper := NewDoubleEntryMapper(NewClassifier(orgTaxID), NewAccountResolver(chart, roles))

	postings, warnings := mapper.MapReceipt(purchase("P-001", "2025-06-01", "1000", "70"))

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "vatInput")
	// Stock debit and bank credit survive; only the VAT leg is omitted.
	require.Len(t, postings, 2)
}

func TestMapper_KeywordFallbackWithoutRoleMap(t *testing.T) {
	mapper := NewDoubleEntryMapper(NewClassifier(orgTaxID), NewAccountResolver(testChart(), nil))

	postings, warnings := mapper.MapReceipt(purchase("P-001", "2025-06-01", "1000", "0"))

	assert.Empty(t, warnings)
	require.Len(t, postings, 2)
	assert.Equal(t, "1200", postingFor(t, postings, "1200").AccountNumber)
}
