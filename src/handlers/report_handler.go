package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/username/goldbooks/backend/src/logger"
	"github.com/username/goldbooks/backend/src/models"
	"github.com/username/goldbooks/backend/src/services"
	"github.com/username/goldbooks/backend/src/utils"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// HandleLedgerReport serves GET /api/reports/ledger?month=YYYY-MM with an
// optional accountNumber filter.
func (h *ReportHandler) HandleLedgerReport(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	accountNumber := r.URL.Query().Get("accountNumber")

	report, err := h.reportService.LedgerReport(r.Context(), month, accountNumber)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidMonth):
			utils.SendJSONError(w, "month query parameter must match YYYY-MM", http.StatusBadRequest)
		case errors.Is(err, services.ErrUnknownAccount):
			utils.SendJSONError(w, fmt.Sprintf("account %s not found in chart", accountNumber), http.StatusBadRequest)
		default:
			logger.L.Error("Error building ledger report", "month", month, "error", err)
			utils.SendJSONError(w, "error generating ledger report", http.StatusInternalServerError)
		}
		return
	}
	utils.SendJSON(w, report, http.StatusOK)
}

// HandleStockMovements serves GET /api/reports/stock-movements?month=M&year=YYYY.
// Missing or zero month/year answers 400 with an empty array body; consumers
// of this endpoint parse the body as a row list unconditionally.
func (h *ReportHandler) HandleStockMovements(w http.ResponseWriter, r *http.Request) {
	month, _ := strconv.Atoi(r.URL.Query().Get("month"))
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))

	rows, err := h.reportService.StockMovements(r.Context(), year, month)
	if err != nil {
		if errors.Is(err, services.ErrInvalidMonth) {
			utils.SendJSON(w, []models.MovementRow{}, http.StatusBadRequest)
			return
		}
		logger.L.Error("Error building stock movement report", "year", year, "month", month, "error", err)
		utils.SendJSONError(w, "error generating stock movement report", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, rows, http.StatusOK)
}

// HandleTrialBalance serves GET /api/reports/trial-balance?month=YYYY-MM.
func (h *ReportHandler) HandleTrialBalance(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	report, err := h.reportService.TrialBalance(r.Context(), month)
	if err != nil {
		if errors.Is(err, services.ErrInvalidMonth) {
			utils.SendJSONError(w, "month query parameter must match YYYY-MM", http.StatusBadRequest)
			return
		}
		logger.L.Error("Error building trial balance", "month", month, "error", err)
		utils.SendJSONError(w, "error generating trial balance", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, report, http.StatusOK)
}

// HandleVatSales serves GET /api/reports/vat-sales?month=YYYY-MM.
func (h *ReportHandler) HandleVatSales(w http.ResponseWriter, r *http.Request) {
	h.handleVat(w, r, models.ReceiptTypeSale)
}

// HandleVatPurchases serves GET /api/reports/vat-purchases?month=YYYY-MM.
func (h *ReportHandler) HandleVatPurchases(w http.ResponseWriter, r *http.Request) {
	h.handleVat(w, r, models.ReceiptTypePurchase)
}

func (h *ReportHandler) handleVat(w http.ResponseWriter, r *http.Request, kind models.ReceiptType) {
	month := r.URL.Query().Get("month")
	report, err := h.reportService.VatReport(r.Context(), month, kind)
	if err != nil {
		if errors.Is(err, services.ErrInvalidMonth) {
			utils.SendJSONError(w, "month query parameter must match YYYY-MM", http.StatusBadRequest)
			return
		}
		logger.L.Error("Error building VAT report", "month", month, "kind", kind, "error", err)
		utils.SendJSONError(w, "error generating VAT report", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, report, http.StatusOK)
}

// HandleJournal serves GET /api/reports/journal?month=YYYY-MM.
func (h *ReportHandler) HandleJournal(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	report, err := h.reportService.Journal(r.Context(), month)
	if err != nil {
		if errors.Is(err, services.ErrInvalidMonth) {
			utils.SendJSONError(w, "month query parameter must match YYYY-MM", http.StatusBadRequest)
			return
		}
		logger.L.Error("Error building journal", "month", month, "error", err)
		utils.SendJSONError(w, "error generating journal", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, report, http.StatusOK)
}
