package pdf

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billkazi/billkazi/internal/domain/invoice"
	"github.com/billkazi/billkazi/internal/domain/user"
	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/logger"
	"github.com/billkazi/billkazi/internal/types"
)

func TestParseTemplate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Template
		wantErr  bool
	}{
		{name: "EmptyDefaultsToClassic", input: "", expected: TemplateClassic},
		{name: "Classic", input: "classic", expected: TemplateClassic},
		{name: "Modern", input: "modern", expected: TemplateModern},
		{name: "Elegant", input: "elegant", expected: TemplateElegant},
		{name: "Unknown", input: "fancy", wantErr: true},
		{name: "WrongCase", input: "Classic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := ParseTemplate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, ierr.IsValidation(err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, tmpl)
		})
	}
}

func testInvoice() *invoice.Invoice {
	issue := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	inv := &invoice.Invoice{
		ID:     types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		Number: "INV-2609-001",
		Client: invoice.ClientSnapshot{
			Name:    "Acme Ltd",
			Email:   "billing@acme.test",
			Address: "12 Biashara St, Nairobi",
		},
		Items: []invoice.LineItem{
			{
				Description: "Consulting hour",
				Quantity:    decimal.RequireFromString("2"),
				UnitPrice:   decimal.RequireFromString("50"),
				Taxable:     true,
			},
			{
				Description: "Courier fee",
				Quantity:    decimal.RequireFromString("1"),
				UnitPrice:   decimal.RequireFromString("8.50"),
				Taxable:     false,
			},
		},
		Currency: "usd",
		TaxRate:  decimal.RequireFromString("18"),
		Discount: invoice.Discount{
			Enabled: true,
			Type:    types.DiscountTypePercentage,
			Value:   decimal.RequireFromString("10"),
		},
		PaymentStatus: types.PaymentStatusUnpaid,
		IssueDate:     issue,
		DueDate:       issue.AddDate(0, 0, 14),
	}
	inv.RecomputeTotals()
	return inv
}

func testOwner() *user.User {
	return &user.User{
		ID:    types.GenerateUUIDWithPrefix(types.UUID_PREFIX_USER),
		Email: "owner@mwangi.studio",
		Name:  "Asha Mwangi",
		BusinessProfile: user.BusinessProfile{
			CompanyName: "Mwangi Studio",
			Address:     "1 Riverside Dr, Nairobi",
			TaxID:       "P051234567X",
		},
	}
}

func TestNewInvoiceView(t *testing.T) {
	inv := testInvoice()
	v := newInvoiceView(inv, testOwner())

	assert.Equal(t, "INV-2609-001", v.Number)
	assert.Equal(t, "Sep 14, 2026", v.IssueDate)
	assert.Equal(t, "Sep 28, 2026", v.DueDate)
	assert.Equal(t, "Mwangi Studio", v.SellerName)
	assert.Equal(t, "Acme Ltd", v.ClientName)

	// Amounts carry the currency symbol and the stored values, formatted at
	// currency precision.
	assert.Equal(t, "$108.50", v.Subtotal)
	assert.True(t, v.HasDiscount)
	assert.Equal(t, "Discount (10%)", v.DiscountLabel)
	assert.Equal(t, "-$10.85", v.DiscountAmount)
	assert.Equal(t, "VAT (18%)", v.TaxLabel)
	assert.Equal(t, "$97.65", v.Total)

	require.Len(t, v.Items, 2)
	assert.Equal(t, "$100.00", v.Items[0].Amount)
	assert.True(t, v.Items[0].Taxable)
	assert.False(t, v.Items[1].Taxable)
}

func TestNewInvoiceView_StatusLabels(t *testing.T) {
	inv := testInvoice()
	owner := testOwner()

	inv.DueDate = time.Now().UTC().AddDate(0, 0, -7)
	v := newInvoiceView(inv, owner)
	assert.Equal(t, "OVERDUE", v.StatusLabel, "unpaid with a past due date")

	inv.DueDate = time.Now().UTC().AddDate(0, 0, 7)
	v = newInvoiceView(inv, owner)
	assert.Equal(t, "UNPAID", v.StatusLabel)

	inv.PaymentStatus = types.PaymentStatusPaid
	v = newInvoiceView(inv, owner)
	assert.Equal(t, "PAID", v.StatusLabel)
}

func TestNewInvoiceView_FallsBackToOwnerName(t *testing.T) {
	owner := testOwner()
	owner.BusinessProfile.CompanyName = ""

	v := newInvoiceView(testInvoice(), owner)
	assert.Equal(t, "Asha Mwangi", v.SellerName)
}

func TestRender_AllTemplates(t *testing.T) {
	r := NewRenderer(logger.GetLogger())
	inv := testInvoice()
	owner := testOwner()

	for _, tmpl := range []Template{TemplateClassic, TemplateModern, TemplateElegant} {
		t.Run(string(tmpl), func(t *testing.T) {
			doc, err := r.Render(inv, owner, tmpl)
			require.NoError(t, err)
			assert.NotEmpty(t, doc)
			assert.Equal(t, "%PDF", string(doc[:4]))
		})
	}
}
