package processors

import (
	"github.com/username/goldbooks/backend/src/models"
)

// Classifier decides whether a receipt is a sale or a purchase from the
// organization's point of view by comparing tax-ID fields.
type Classifier struct {
	orgTaxID string
}

func NewClassifier(orgTaxID string) *Classifier {
	return &Classifier{orgTaxID: orgTaxID}
}

// IsSale reports whether the organization is the vendor on the receipt.
func (c *Classifier) IsSale(r models.Receipt) bool {
	return c.orgTaxID != "" && r.VendorTaxID == c.orgTaxID
}

// IsPurchase reports whether the organization is the buyer and the vendor
// is some other party.
func (c *Classifier) IsPurchase(r models.Receipt) bool {
	return c.orgTaxID != "" &&
		r.BuyerTaxID == c.orgTaxID &&
		r.VendorTaxID != "" &&
		r.VendorTaxID != c.orgTaxID
}

// Classify resolves the receipt's effective type. Tax IDs win; when they
// are inconclusive (system-generated vouchers and the like) the receipt's
// explicit type field is used instead. An empty result means the receipt
// produces no automatic postings.
func (c *Classifier) Classify(r models.Receipt) models.ReceiptType {
	if c.IsSale(r) {
		return models.ReceiptTypeSale
	}
	if c.IsPurchase(r) {
		return models.ReceiptTypePurchase
	}
	switch r.Type {
	case models.ReceiptTypeSale, models.ReceiptTypePurchase:
		return r.Type
	}
	return ""
}
