package client

import (
	"github.com/billkazi/billkazi/internal/types"
)

// Client is a billable customer of a user.
type Client struct {
	ID      string `firestore:"id" json:"id"`
	Name    string `firestore:"name" json:"name"`
	Email   string `firestore:"email" json:"email"`
	Phone   string `firestore:"phone" json:"phone"`
	Address string `firestore:"address" json:"address"`
	TaxID   string `firestore:"tax_id" json:"tax_id"`

	types.BaseModel
}
