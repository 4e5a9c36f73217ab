package processors

import (
	"strings"

	"github.com/username/goldbooks/backend/src/models"
)

// roleKeywords is the legacy resolution table: the first account whose name
// contains one of the role's keywords is used. Kept only as a fallback for
// charts that predate the explicit role map.
var roleKeywords = map[models.AccountRole][]string{
	models.RoleInventory:    {"สินค้าคงเหลือ", "สินค้า"},
	models.RoleBankOrCash:   {"ธนาคาร", "เงินฝาก", "เงินสด"},
	models.RoleSalesRevenue: {"รายได้จากการขาย", "รายได้"},
	models.RoleVatInput:     {"ภาษีซื้อ"},
	models.RoleVatOutput:    {"ภาษีขาย"},
	models.RoleCogs:         {"ต้นทุนขาย", "ต้นทุน"},
}

// AccountResolver resolves bookkeeping roles and account numbers against a
// chart of accounts. Role lookup goes through the explicit role map first
// and falls back to the keyword scan.
type AccountResolver struct {
	chart    []models.Account
	roles    models.RoleMap
	byNumber map[string]models.Account
}

func NewAccountResolver(chart []models.Account, roles models.RoleMap) *AccountResolver {
	byNumber := make(map[string]models.Account, len(chart))
	for _, a := range chart {
		if _, seen := byNumber[a.AccountNumber]; !seen {
			byNumber[a.AccountNumber] = a
		}
	}
	return &AccountResolver{chart: chart, roles: roles, byNumber: byNumber}
}

// Chart returns the chart the resolver was built from, in file order.
func (r *AccountResolver) Chart() []models.Account {
	return r.chart
}

// ByNumber looks an account up by its stable account number.
func (r *AccountResolver) ByNumber(accountNumber string) (models.Account, bool) {
	a, ok := r.byNumber[accountNumber]
	return a, ok
}

// Resolve maps a bookkeeping role to an account. The explicit role map wins;
// a missing or dangling entry falls back to the keyword scan over account
// names, first match in chart order.
func (r *AccountResolver) Resolve(role models.AccountRole) (models.Account, bool) {
	if num, ok := r.roles[role]; ok {
		if a, found := r.byNumber[num]; found {
			return a, true
		}
	}
	for _, kw := range roleKeywords[role] {
		for _, a := range r.chart {
			if strings.Contains(a.AccountName, kw) {
				return a, true
			}
		}
	}
	return models.Account{}, false
}
