package user

import (
	"github.com/billkazi/billkazi/internal/types"
)

// User is an account owner. Every other record in the system is scoped to a
// user id.
type User struct {
	ID           string `firestore:"id" json:"id"`
	Email        string `firestore:"email" json:"email"`
	PasswordHash string `firestore:"password_hash" json:"-"`
	Name         string `firestore:"name" json:"name"`

	BusinessProfile BusinessProfile `firestore:"business_profile" json:"business_profile"`

	// InvoiceCounters maps "YYMM" period keys to the last issued invoice
	// sequence. Mutated only inside a storage transaction.
	InvoiceCounters map[string]int `firestore:"invoice_counters" json:"-"`

	types.BaseModel
}

// BusinessProfile is the seller identity printed on invoices and emails.
type BusinessProfile struct {
	CompanyName string `firestore:"company_name" json:"company_name"`
	Address     string `firestore:"address" json:"address"`
	Phone       string `firestore:"phone" json:"phone"`
	TaxID       string `firestore:"tax_id" json:"tax_id"`
	LogoURL     string `firestore:"logo_url" json:"logo_url"`
	// DefaultCurrency and DefaultTaxRate pre-fill new invoices.
	DefaultCurrency string `firestore:"default_currency" json:"default_currency"`
	DefaultTaxRate  string `firestore:"default_tax_rate" json:"default_tax_rate"`
}
