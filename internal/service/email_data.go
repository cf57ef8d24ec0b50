package service

import (
	"github.com/shopspring/decimal"

	domainInvoice "github.com/billkazi/billkazi/internal/domain/invoice"
	"github.com/billkazi/billkazi/internal/domain/user"
	"github.com/billkazi/billkazi/internal/email"
	"github.com/billkazi/billkazi/internal/types"
)

const emailDateLayout = "Jan 02, 2006"

// buildInvoiceEmailData flattens the persisted invoice into the pre-formatted
// strings the email templates print. Amounts are the stored totals.
func buildInvoiceEmailData(inv *domainInvoice.Invoice, owner *user.User, shareURL string) email.InvoiceEmailData {
	symbol := types.GetCurrencySymbol(inv.Currency)
	format := func(amount decimal.Decimal) string {
		return symbol + types.FormatAmountToStringWithPrecision(amount, inv.Currency)
	}

	companyName := owner.BusinessProfile.CompanyName
	if companyName == "" {
		companyName = owner.Name
	}

	data := email.InvoiceEmailData{
		Number:      inv.Number,
		CompanyName: companyName,
		ClientName:  inv.Client.Name,
		Subtotal:    format(inv.Subtotal),
		NetAmount:   format(inv.NetAmount),
		TaxRate:     inv.TaxRate.String(),
		Tax:         format(inv.Tax),
		Total:       format(inv.Total),
		DueDate:     inv.DueDate.Format(emailDateLayout),
		ShareURL:    shareURL,
	}
	if inv.Discount.Enabled && inv.DiscountAmount.IsPositive() {
		data.Discount = "-" + format(inv.DiscountAmount)
	}

	for _, item := range inv.Items {
		data.Items = append(data.Items, email.EmailItemView{
			Description: item.Description,
			Quantity:    item.Quantity.String(),
			UnitPrice:   format(item.UnitPrice),
			Amount:      format(item.Amount()),
		})
	}
	return data
}
