package processors

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/username/goldbooks/backend/src/models"
)

const (
	orgTaxID   = "0105556000001"
	otherTaxID = "9999999999999"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "want %s, got %s %v", want, got, msgAndArgs)
}

func testChart() []models.Account {
	return []models.Account{
		{AccountNumber: "1100", AccountName: "เงินฝากธนาคาร", Type: models.AccountTypeAsset},
		{AccountNumber: "1200", AccountName: "สินค้าคงเหลือ", Type: models.AccountTypeAsset},
		{AccountNumber: "1300", AccountName: "ภาษีซื้อ", Type: models.AccountTypeAsset},
		{AccountNumber: "2100", AccountName: "ภาษีขาย", Type: models.AccountTypeLiability},
		{AccountNumber: "4100", AccountName: "รายได้จากการขายทอง", Type: models.AccountTypeRevenue},
		{AccountNumber: "5100", AccountName: "ต้นทุนขาย", Type: models.AccountTypeExpense},
	}
}

func testRoles() models.RoleMap {
	return models.RoleMap{
		models.RoleInventory:    "1200",
		models.RoleBankOrCash:   "1100",
		models.RoleSalesRevenue: "4100",
		models.RoleVatInput:     "1300",
		models.RoleVatOutput:    "2100",
		models.RoleCogs:         "5100",
	}
}

func testResolver() *AccountResolver {
	return NewAccountResolver(testChart(), testRoles())
}

func product(name, weight, price string) models.ProductLine {
	return models.ProductLine{
		Name:   name,
		Weight: json.RawMessage(weight),
		Price:  dec(price),
	}
}

func purchase(no, date, grandTotal, vat string, products ...models.ProductLine) models.Receipt {
	return models.Receipt{
		Date:        date,
		ReceiptNo:   no,
		GrandTotal:  dec(grandTotal),
		VAT:         dec(vat),
		VendorTaxID: otherTaxID,
		BuyerTaxID:  orgTaxID,
		Products:    products,
	}
}

func sale(no, date, grandTotal, vat string, products ...models.ProductLine) models.Receipt {
	return models.Receipt{
		Date:        date,
		ReceiptNo:   no,
		GrandTotal:  dec(grandTotal),
		VAT:         dec(vat),
		VendorTaxID: orgTaxID,
		BuyerTaxID:  otherTaxID,
		Products:    products,
	}
}

func withLogIndexes(receipts ...models.Receipt) []models.Receipt {
	for i := range receipts {
		receipts[i].LogIndex = i + 1
	}
	return receipts
}
