package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/username/goldbooks/backend/src/logger"
	"github.com/username/goldbooks/backend/src/models"
	"github.com/username/goldbooks/backend/src/store"
	"github.com/username/goldbooks/backend/src/utils"
)

// ReceiptHandler exposes CRUD over the append-only receipt log. Creates
// append; updates and deletes rewrite in place, preserving log order.
// Reports need no explicit cache invalidation here: the report cache is
// keyed by the log's content hash, so every mutation changes the key.
type ReceiptHandler struct {
	receipts    *store.ReceiptLog
	readTimeout time.Duration
}

func NewReceiptHandler(receipts *store.ReceiptLog, readTimeout time.Duration) *ReceiptHandler {
	return &ReceiptHandler{receipts: receipts, readTimeout: readTimeout}
}

func (h *ReceiptHandler) HandleListReceipts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.readTimeout)
	defer cancel()

	receipts, _, err := h.receipts.ReadAll(ctx)
	if err != nil {
		logger.L.Error("Error reading receipt log", "error", err)
		utils.SendJSONError(w, "error reading receipt log", http.StatusInternalServerError)
		return
	}
	if receipts == nil {
		receipts = []models.Receipt{}
	}
	utils.SendJSON(w, receipts, http.StatusOK)
}

func (h *ReceiptHandler) HandleCreateReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, ok := decodeReceipt(w, r)
	if !ok {
		return
	}
	if err := h.receipts.Append(receipt); err != nil {
		logger.L.Error("Error appending receipt", "receiptNo", receipt.ReceiptNo, "error", err)
		utils.SendJSONError(w, "error saving receipt", http.StatusInternalServerError)
		return
	}
	logger.L.Info("Receipt created", "receiptNo", receipt.ReceiptNo, "date", receipt.Date)
	utils.SendJSON(w, receipt, http.StatusCreated)
}

func (h *ReceiptHandler) HandleUpdateReceipt(w http.ResponseWriter, r *http.Request) {
	receiptNo := r.PathValue("receiptNo")
	receipt, ok := decodeReceipt(w, r)
	if !ok {
		return
	}
	if receipt.ReceiptNo != receiptNo {
		utils.SendJSONError(w, "receipt_no in body does not match URL", http.StatusBadRequest)
		return
	}
	if err := h.receipts.Update(receiptNo, receipt); err != nil {
		if errors.Is(err, store.ErrReceiptNotFound) {
			utils.SendJSONError(w, "receipt not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Error updating receipt", "receiptNo", receiptNo, "error", err)
		utils.SendJSONError(w, "error updating receipt", http.StatusInternalServerError)
		return
	}
	logger.L.Info("Receipt updated", "receiptNo", receiptNo)
	utils.SendJSON(w, receipt, http.StatusOK)
}

func (h *ReceiptHandler) HandleDeleteReceipt(w http.ResponseWriter, r *http.Request) {
	receiptNo := r.PathValue("receiptNo")
	if err := h.receipts.Delete(receiptNo); err != nil {
		if errors.Is(err, store.ErrReceiptNotFound) {
			utils.SendJSONError(w, "receipt not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Error deleting receipt", "receiptNo", receiptNo, "error", err)
		utils.SendJSONError(w, "error deleting receipt", http.StatusInternalServerError)
		return
	}
	logger.L.Info("Receipt deleted", "receiptNo", receiptNo)
	utils.SendJSON(w, map[string]string{"message": "receipt deleted"}, http.StatusOK)
}

func decodeReceipt(w http.ResponseWriter, r *http.Request) (models.Receipt, bool) {
	var receipt models.Receipt
	if err := json.NewDecoder(r.Body).Decode(&receipt); err != nil {
		utils.SendJSONError(w, "invalid receipt JSON", http.StatusBadRequest)
		return receipt, false
	}
	if receipt.ReceiptNo == "" {
		utils.SendJSONError(w, "receipt_no is required", http.StatusBadRequest)
		return receipt, false
	}
	if receipt.DateTime().IsZero() {
		utils.SendJSONError(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return receipt, false
	}
	return receipt, true
}
