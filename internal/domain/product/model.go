package product

import (
	"github.com/billkazi/billkazi/internal/types"
	"github.com/shopspring/decimal"
)

// Product is a catalog item a user can pull onto an invoice line. The unit
// price is tax-inclusive, consistent with invoice line items.
type Product struct {
	ID          string          `firestore:"id" json:"id"`
	Name        string          `firestore:"name" json:"name"`
	Description string          `firestore:"description" json:"description"`
	UnitPrice   decimal.Decimal `firestore:"unit_price" json:"unit_price"`
	Taxable     bool            `firestore:"taxable" json:"taxable"`

	types.BaseModel
}
