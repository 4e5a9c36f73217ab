// backend/src/services/report_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/username/goldbooks/backend/src/logger"
	"github.com/username/goldbooks/backend/src/models"
	"github.com/username/goldbooks/backend/src/processors"
	"github.com/username/goldbooks/backend/src/store"
	"github.com/username/goldbooks/backend/src/utils"
)

type reportServiceImpl struct {
	receipts    *store.ReceiptLog
	chart       *store.ChartStore
	orgTaxID    string
	readTimeout time.Duration
	reportCache *cache.Cache
}

func NewReportService(receipts *store.ReceiptLog, chart *store.ChartStore, orgTaxID string, readTimeout time.Duration, reportCache *cache.Cache) ReportService {
	return &reportServiceImpl{
		receipts:    receipts,
		chart:       chart,
		orgTaxID:    orgTaxID,
		readTimeout: readTimeout,
		reportCache: reportCache,
	}
}

// reportInputs is everything one report computation needs, loaded fresh per
// request. InputHash keys the cache: it covers the raw receipt log, the
// chart, and the role map, so a back-dated receipt or an edited account can
// never serve a stale opening balance.
type reportInputs struct {
	Receipts   []models.Receipt
	Classifier *processors.Classifier
	Resolver   *processors.AccountResolver
	InputHash  string
}

func (s *reportServiceImpl) load(ctx context.Context) (*reportInputs, error) {
	ctx, cancel := context.WithTimeout(ctx, s.readTimeout)
	defer cancel()

	receipts, logHash, err := s.receipts.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	chart, roles, chartHash, err := s.chart.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return &reportInputs{
		Receipts:   receipts,
		Classifier: processors.NewClassifier(s.orgTaxID),
		Resolver:   processors.NewAccountResolver(chart, roles),
		InputHash:  logHash + ":" + chartHash,
	}, nil
}

func (s *reportServiceImpl) LedgerReport(ctx context.Context, month, accountNumber string) (*models.LedgerReport, error) {
	windowStart, windowEnd, err := utils.ParseMonthParam(month)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMonth, err)
	}

	in, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if accountNumber != "" {
		if _, ok := in.Resolver.ByNumber(accountNumber); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAccount, accountNumber)
		}
	}

	key := fmt.Sprintf("ledger|%s|%s|%s", month, accountNumber, in.InputHash)
	if cached, found := s.reportCache.Get(key); found {
		return cached.(*models.LedgerReport), nil
	}

	started := time.Now()

	// Full-history replay regardless of any account filter: opening-balance
	// correctness requires every posting, COGS included.
	costing := processors.NewCostingEngine(in.Classifier).ReplayAll(in.Receipts)
	mapped := processors.NewDoubleEntryMapper(in.Classifier, in.Resolver).MapAll(in.Receipts, costing.Movements)
	ledger := processors.NewLedgerBuilder(in.Resolver).Build(mapped.Postings, windowStart, windowEnd)

	if accountNumber != "" {
		filtered := make([]models.LedgerAccount, 0, 1)
		for _, la := range ledger {
			if la.AccountNumber == accountNumber {
				filtered = append(filtered, la)
			}
		}
		ledger = filtered
	}
	if ledger == nil {
		ledger = []models.LedgerAccount{}
	}

	report := &models.LedgerReport{Month: month, Ledger: ledger, Warnings: mapped.Warnings}
	s.reportCache.Set(key, report, cache.DefaultExpiration)
	logger.L.Debug("Ledger report computed", "month", month, "accounts", len(ledger), "duration", time.Since(started))
	return report, nil
}

func (s *reportServiceImpl) StockMovements(ctx context.Context, year, month int) ([]models.MovementRow, error) {
	if month < 1 || month > 12 || year < 1000 || year > 9999 {
		return nil, fmt.Errorf("%w: year=%d month=%d", ErrInvalidMonth, year, month)
	}

	in, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("stock|%04d-%02d|%s", year, month, in.InputHash)
	if cached, found := s.reportCache.Get(key); found {
		return cached.([]models.MovementRow), nil
	}

	windowStart, windowEnd := utils.MonthWindow(year, month)
	costing := processors.NewCostingEngine(in.Classifier).Replay(in.Receipts, windowStart, windowEnd)

	rows := make([]models.MovementRow, 0, len(costing.Movements))
	for _, mv := range costing.Movements {
		rows = append(rows, mv.Row())
	}
	s.reportCache.Set(key, rows, cache.DefaultExpiration)
	return rows, nil
}

func (s *reportServiceImpl) TrialBalance(ctx context.Context, month string) (*models.TrialBalanceReport, error) {
	windowStart, windowEnd, err := utils.ParseMonthParam(month)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMonth, err)
	}

	in, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("tb|%s|%s", month, in.InputHash)
	if cached, found := s.reportCache.Get(key); found {
		return cached.(*models.TrialBalanceReport), nil
	}

	costing := processors.NewCostingEngine(in.Classifier).ReplayAll(in.Receipts)
	mapped := processors.NewDoubleEntryMapper(in.Classifier, in.Resolver).MapAll(in.Receipts, costing.Movements)
	rows, totalDebit, totalCredit := processors.BuildTrialBalance(in.Resolver, mapped.Postings, windowStart, windowEnd)
	if rows == nil {
		rows = []models.TrialBalanceRow{}
	}

	report := &models.TrialBalanceReport{
		Month:       month,
		Rows:        rows,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Warnings:    mapped.Warnings,
	}
	s.reportCache.Set(key, report, cache.DefaultExpiration)
	return report, nil
}

func (s *reportServiceImpl) VatReport(ctx context.Context, month string, kind models.ReceiptType) (*models.VatReport, error) {
	windowStart, windowEnd, err := utils.ParseMonthParam(month)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMonth, err)
	}

	in, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("vat|%s|%s|%s", kind, month, in.InputHash)
	if cached, found := s.reportCache.Get(key); found {
		return cached.(*models.VatReport), nil
	}

	rows, totalBase, totalVat := processors.BuildVatRows(in.Classifier, in.Receipts, kind, windowStart, windowEnd)
	if rows == nil {
		rows = []models.VatRow{}
	}

	report := &models.VatReport{
		Month:     month,
		Kind:      string(kind),
		Rows:      rows,
		TotalBase: totalBase,
		TotalVat:  totalVat,
	}
	s.reportCache.Set(key, report, cache.DefaultExpiration)
	return report, nil
}

func (s *reportServiceImpl) Journal(ctx context.Context, month string) (*models.JournalReport, error) {
	windowStart, windowEnd, err := utils.ParseMonthParam(month)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMonth, err)
	}

	in, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("journal|%s|%s", month, in.InputHash)
	if cached, found := s.reportCache.Get(key); found {
		return cached.(*models.JournalReport), nil
	}

	costing := processors.NewCostingEngine(in.Classifier).ReplayAll(in.Receipts)
	mapped := processors.NewDoubleEntryMapper(in.Classifier, in.Resolver).MapAll(in.Receipts, costing.Movements)
	entries := processors.BuildJournal(mapped.Postings, windowStart, windowEnd)
	if entries == nil {
		entries = []models.JournalEntry{}
	}

	report := &models.JournalReport{Month: month, Entries: entries, Warnings: mapped.Warnings}
	s.reportCache.Set(key, report, cache.DefaultExpiration)
	return report, nil
}
