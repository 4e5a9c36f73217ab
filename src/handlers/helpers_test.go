package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/username/goldbooks/backend/src/logger"
	"github.com/username/goldbooks/backend/src/models"
	"github.com/username/goldbooks/backend/src/services"
	"github.com/username/goldbooks/backend/src/store"
)

const (
	testOrgTaxID   = "0105556000001"
	testOtherTaxID = "9999999999999"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

// testEnv wires real stores in a temp dir behind the handlers, routed the
// same way main registers them (minus auth).
type testEnv struct {
	mux      *http.ServeMux
	receipts *store.ReceiptLog
	chart    *store.ChartStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	receipts := store.NewReceiptLog(filepath.Join(dir, "receipts.log"))
	chartStore := store.NewChartStore(filepath.Join(dir, "chart.json"), filepath.Join(dir, "roles.json"))
	require.NoError(t, chartStore.SaveChart([]models.Account{
		{AccountNumber: "1100", AccountName: "เงินฝากธนาคาร", Type: models.AccountTypeAsset},
		{AccountNumber: "1200", AccountName: "สินค้าคงเหลือ", Type: models.AccountTypeAsset},
		{AccountNumber: "1300", AccountName: "ภาษีซื้อ", Type: models.AccountTypeAsset},
		{AccountNumber: "2100", AccountName: "ภาษีขาย", Type: models.AccountTypeLiability},
		{AccountNumber: "4100", AccountName: "รายได้จากการขายทอง", Type: models.AccountTypeRevenue},
		{AccountNumber: "5100", AccountName: "ต้นทุนขาย", Type: models.AccountTypeExpense},
	}))
	require.NoError(t, chartStore.SaveRoles(models.RoleMap{
		models.RoleInventory:    "1200",
		models.RoleBankOrCash:   "1100",
		models.RoleSalesRevenue: "4100",
		models.RoleVatInput:     "1300",
		models.RoleVatOutput:    "2100",
		models.RoleCogs:         "5100",
	}))

	reportCache := cache.New(5*time.Minute, 10*time.Minute)
	reportService := services.NewReportService(receipts, chartStore, testOrgTaxID, 5*time.Second, reportCache)

	reportHandler := NewReportHandler(reportService)
	receiptHandler := NewReceiptHandler(receipts, 5*time.Second)
	accountHandler := NewAccountHandler(chartStore)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/reports/ledger", reportHandler.HandleLedgerReport)
	mux.HandleFunc("GET /api/reports/stock-movements", reportHandler.HandleStockMovements)
	mux.HandleFunc("GET /api/reports/trial-balance", reportHandler.HandleTrialBalance)
	mux.HandleFunc("GET /api/reports/vat-sales", reportHandler.HandleVatSales)
	mux.HandleFunc("GET /api/reports/vat-purchases", reportHandler.HandleVatPurchases)
	mux.HandleFunc("GET /api/reports/journal", reportHandler.HandleJournal)
	mux.HandleFunc("GET /api/receipts", receiptHandler.HandleListReceipts)
	mux.HandleFunc("POST /api/receipts", receiptHandler.HandleCreateReceipt)
	mux.HandleFunc("PUT /api/receipts/{receiptNo}", receiptHandler.HandleUpdateReceipt)
	mux.HandleFunc("DELETE /api/receipts/{receiptNo}", receiptHandler.HandleDeleteReceipt)
	mux.HandleFunc("GET /api/accounts", accountHandler.HandleGetAccounts)
	mux.HandleFunc("PUT /api/accounts", accountHandler.HandlePutAccounts)
	mux.HandleFunc("GET /api/accounts/roles", accountHandler.HandleGetRoles)
	mux.HandleFunc("PUT /api/accounts/roles", accountHandler.HandlePutRoles)

	return &testEnv{mux: mux, receipts: receipts, chart: chartStore}
}

func (e *testEnv) seedPurchase(t *testing.T, no, date, grandTotal, vat string, products ...models.ProductLine) {
	t.Helper()
	require.NoError(t, e.receipts.Append(models.Receipt{
		Date:        date,
		ReceiptNo:   no,
		GrandTotal:  mustDec(grandTotal),
		VAT:         mustDec(vat),
		VendorTaxID: testOtherTaxID,
		BuyerTaxID:  testOrgTaxID,
		Products:    products,
	}))
}

func (e *testEnv) seedSale(t *testing.T, no, date, grandTotal, vat string, products ...models.ProductLine) {
	t.Helper()
	require.NoError(t, e.receipts.Append(models.Receipt{
		Date:        date,
		ReceiptNo:   no,
		GrandTotal:  mustDec(grandTotal),
		VAT:         mustDec(vat),
		VendorTaxID: testOrgTaxID,
		BuyerTaxID:  testOtherTaxID,
		Products:    products,
	}))
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func goldLine(weight, price string) models.ProductLine {
	return models.ProductLine{
		Name:   "ทองแท่ง",
		Weight: []byte(weight),
		Price:  mustDec(price),
	}
}
