package utils

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Round3 rounds half away from zero to 3 decimal places. The costing replay
// applies it after every arithmetic step, not only at output, so reruns over
// identical input produce byte-identical rows.
func Round3(d decimal.Decimal) decimal.Decimal {
	return d.Round(3)
}

// Fixed3 renders a decimal as a string with exactly 3 decimal places, the
// serialization used for every numeric field in stock movement rows.
func Fixed3(d decimal.Decimal) string {
	return d.StringFixed(3)
}

// ParseFlexibleDecimal parses a raw JSON value that producers may have
// written as a number, a numeric string, or garbage. Returns false for
// null, absent, or non-numeric values instead of failing the caller.
func ParseFlexibleDecimal(raw json.RawMessage) (decimal.Decimal, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return decimal.Zero, false
	}
	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err != nil {
		return decimal.Zero, false
	}
	return d, true
}
