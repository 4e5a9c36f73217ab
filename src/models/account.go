package models

// AccountType classifies accounts in the chart of accounts and determines
// the normal balance sign.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
	AccountTypeOther     AccountType = "other"
)

// Account is one row of the chart of accounts.
type Account struct {
	AccountNumber string      `json:"accountNumber"`
	AccountName   string      `json:"accountName"`
	Note          string      `json:"note,omitempty"`
	Type          AccountType `json:"type,omitempty"`
}

// DebitNormal reports whether the account accumulates debit-positive.
// Assets and expenses do; liabilities, revenue and equity accumulate
// credit-positive. Untyped and "other" accounts default to debit-positive.
func (a Account) DebitNormal() bool {
	switch a.Type {
	case AccountTypeLiability, AccountTypeRevenue, AccountTypeEquity:
		return false
	default:
		return true
	}
}

// AccountRole names the fixed bookkeeping roles the double-entry mapper
// needs to resolve for automatic postings.
type AccountRole string

const (
	RoleInventory    AccountRole = "inventory"
	RoleBankOrCash   AccountRole = "bankOrCash"
	RoleSalesRevenue AccountRole = "salesRevenue"
	RoleVatInput     AccountRole = "vatInput"
	RoleVatOutput    AccountRole = "vatOutput"
	RoleCogs         AccountRole = "cogs"
)

// RoleMap is the explicit role → accountNumber mapping stored alongside the
// chart. Exact-key lookup replaces the legacy keyword scan over Thai account
// names, which survives only as a fallback for charts that predate the map.
type RoleMap map[AccountRole]string
