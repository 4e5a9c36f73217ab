package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/username/goldbooks/backend/src/logger"
	"github.com/username/goldbooks/backend/src/models"
	"github.com/username/goldbooks/backend/src/store"
	"github.com/username/goldbooks/backend/src/utils"
)

var validRoles = map[models.AccountRole]bool{
	models.RoleInventory:    true,
	models.RoleBankOrCash:   true,
	models.RoleSalesRevenue: true,
	models.RoleVatInput:     true,
	models.RoleVatOutput:    true,
	models.RoleCogs:         true,
}

// AccountHandler exposes the chart of accounts and the role map for the
// chart editing UI.
type AccountHandler struct {
	chart *store.ChartStore
}

func NewAccountHandler(chart *store.ChartStore) *AccountHandler {
	return &AccountHandler{chart: chart}
}

func (h *AccountHandler) HandleGetAccounts(w http.ResponseWriter, r *http.Request) {
	chart, _, _, err := h.chart.Load()
	if err != nil {
		logger.L.Error("Error loading account chart", "error", err)
		utils.SendJSONError(w, "error loading account chart", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, chart, http.StatusOK)
}

func (h *AccountHandler) HandlePutAccounts(w http.ResponseWriter, r *http.Request) {
	var chart []models.Account
	if err := json.NewDecoder(r.Body).Decode(&chart); err != nil {
		utils.SendJSONError(w, "invalid chart JSON", http.StatusBadRequest)
		return
	}
	seen := make(map[string]bool, len(chart))
	for _, a := range chart {
		if a.AccountNumber == "" || a.AccountName == "" {
			utils.SendJSONError(w, "every account needs accountNumber and accountName", http.StatusBadRequest)
			return
		}
		if seen[a.AccountNumber] {
			utils.SendJSONError(w, fmt.Sprintf("duplicate accountNumber %s", a.AccountNumber), http.StatusBadRequest)
			return
		}
		seen[a.AccountNumber] = true
	}
	if err := h.chart.SaveChart(chart); err != nil {
		logger.L.Error("Error saving account chart", "error", err)
		utils.SendJSONError(w, "error saving account chart", http.StatusInternalServerError)
		return
	}
	logger.L.Info("Account chart replaced", "accounts", len(chart))
	utils.SendJSON(w, chart, http.StatusOK)
}

func (h *AccountHandler) HandleGetRoles(w http.ResponseWriter, r *http.Request) {
	_, roles, _, err := h.chart.Load()
	if err != nil {
		logger.L.Error("Error loading role map", "error", err)
		utils.SendJSONError(w, "error loading role map", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, roles, http.StatusOK)
}

func (h *AccountHandler) HandlePutRoles(w http.ResponseWriter, r *http.Request) {
	var roles models.RoleMap
	if err := json.NewDecoder(r.Body).Decode(&roles); err != nil {
		utils.SendJSONError(w, "invalid role map JSON", http.StatusBadRequest)
		return
	}

	chart, _, _, err := h.chart.Load()
	if err != nil {
		logger.L.Error("Error loading chart for role validation", "error", err)
		utils.SendJSONError(w, "error loading account chart", http.StatusInternalServerError)
		return
	}
	byNumber := make(map[string]bool, len(chart))
	for _, a := range chart {
		byNumber[a.AccountNumber] = true
	}
	for role, accountNumber := range roles {
		if !validRoles[role] {
			utils.SendJSONError(w, fmt.Sprintf("unknown role %q", role), http.StatusBadRequest)
			return
		}
		if !byNumber[accountNumber] {
			utils.SendJSONError(w, fmt.Sprintf("role %q points at unknown account %s", role, accountNumber), http.StatusBadRequest)
			return
		}
	}

	if err := h.chart.SaveRoles(roles); err != nil {
		logger.L.Error("Error saving role map", "error", err)
		utils.SendJSONError(w, "error saving role map", http.StatusInternalServerError)
		return
	}
	logger.L.Info("Role map replaced", "roles", len(roles))
	utils.SendJSON(w, roles, http.StatusOK)
}
