package pdf

import (
	"time"

	"github.com/billkazi/billkazi/internal/domain/invoice"
	"github.com/billkazi/billkazi/internal/domain/user"
	"github.com/billkazi/billkazi/internal/types"
	"github.com/shopspring/decimal"
)

// itemView is a single rendered invoice line.
type itemView struct {
	Description string
	Quantity    string
	UnitPrice   string
	Amount      string
	Taxable     bool
}

// invoiceView carries everything the templates print, pre-formatted from the
// persisted invoice. Amounts come straight from the stored totals so the PDF
// always matches what the API returned at issue time.
type invoiceView struct {
	Number      string
	IssueDate   string
	DueDate     string
	StatusLabel string

	SellerName    string
	SellerAddress string
	SellerPhone   string
	SellerTaxID   string
	SellerEmail   string

	ClientName    string
	ClientAddress string
	ClientEmail   string
	ClientTaxID   string

	Items []itemView

	Currency        string
	Subtotal        string
	HasDiscount     bool
	DiscountLabel   string
	DiscountAmount  string
	TaxLabel        string
	Tax             string
	NetAmount       string
	Total           string

	Notes string
}

const pdfDateLayout = "Jan 02, 2006"

func newInvoiceView(inv *invoice.Invoice, owner *user.User) invoiceView {
	symbol := types.GetCurrencySymbol(inv.Currency)
	format := func(amount decimal.Decimal) string {
		return symbol + types.FormatAmountToStringWithPrecision(amount, inv.Currency)
	}

	v := invoiceView{
		Number:      inv.Number,
		IssueDate:   inv.IssueDate.Format(pdfDateLayout),
		DueDate:     inv.DueDate.Format(pdfDateLayout),
		StatusLabel: statusLabel(inv),

		SellerName:    owner.BusinessProfile.CompanyName,
		SellerAddress: owner.BusinessProfile.Address,
		SellerPhone:   owner.BusinessProfile.Phone,
		SellerTaxID:   owner.BusinessProfile.TaxID,
		SellerEmail:   owner.Email,

		ClientName:    inv.Client.Name,
		ClientAddress: inv.Client.Address,
		ClientEmail:   inv.Client.Email,
		ClientTaxID:   inv.Client.TaxID,

		Currency:       inv.Currency,
		Subtotal:       format(inv.Subtotal),
		HasDiscount:    inv.Discount.Enabled && inv.DiscountAmount.IsPositive(),
		DiscountLabel:  discountLabel(inv),
		DiscountAmount: "-" + format(inv.DiscountAmount),
		TaxLabel:       "VAT (" + inv.TaxRate.String() + "%)",
		Tax:            format(inv.Tax),
		NetAmount:      format(inv.NetAmount),
		Total:          format(inv.Total),

		Notes: inv.Notes,
	}
	if v.SellerName == "" {
		v.SellerName = owner.Name
	}

	for _, item := range inv.Items {
		v.Items = append(v.Items, itemView{
			Description: item.Description,
			Quantity:    item.Quantity.String(),
			UnitPrice:   format(item.UnitPrice),
			Amount:      format(item.Amount()),
			Taxable:     item.Taxable,
		})
	}
	return v
}

func statusLabel(inv *invoice.Invoice) string {
	if inv.PaymentStatus == types.PaymentStatusPaid {
		return "PAID"
	}
	if inv.IsOverdue(time.Now().UTC()) {
		return "OVERDUE"
	}
	return "UNPAID"
}

func discountLabel(inv *invoice.Invoice) string {
	if inv.Discount.Type == types.DiscountTypePercentage {
		return "Discount (" + inv.Discount.Value.String() + "%)"
	}
	return "Discount"
}
