package firestore

import (
	"context"
	"time"

	fs "cloud.google.com/go/firestore"
	domainInvoice "github.com/billkazi/billkazi/internal/domain/invoice"
	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/logger"
	"github.com/billkazi/billkazi/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"
)

type invoiceRepository struct {
	client *Client
	log    *logger.Logger
}

func NewInvoiceRepository(client *Client, log *logger.Logger) domainInvoice.Repository {
	return &invoiceRepository{client: client, log: log}
}

type lineItemDoc struct {
	Description string `firestore:"description"`
	Quantity    string `firestore:"quantity"`
	UnitPrice   string `firestore:"unit_price"`
	Taxable     bool   `firestore:"taxable"`
	ProductID   string `firestore:"product_id"`
}

type invoiceDoc struct {
	ID     string `firestore:"id"`
	Number string `firestore:"number"`

	ClientID      string `firestore:"client_id"`
	ClientName    string `firestore:"client_name"`
	ClientEmail   string `firestore:"client_email"`
	ClientAddress string `firestore:"client_address"`
	ClientTaxID   string `firestore:"client_tax_id"`

	Items []lineItemDoc `firestore:"items"`

	Currency        string `firestore:"currency"`
	TaxRate         string `firestore:"tax_rate"`
	DiscountEnabled bool   `firestore:"discount_enabled"`
	DiscountType    string `firestore:"discount_type"`
	DiscountValue   string `firestore:"discount_value"`

	// Derived totals, decimal strings rounded to currency precision.
	Subtotal        string `firestore:"subtotal"`
	DiscountAmount  string `firestore:"discount_amount"`
	TaxableSubtotal string `firestore:"taxable_subtotal"`
	Tax             string `firestore:"tax"`
	NetAmount       string `firestore:"net_amount"`
	Total           string `firestore:"total"`

	PaymentStatus string     `firestore:"payment_status"`
	IssueDate     time.Time  `firestore:"issue_date"`
	DueDate       time.Time  `firestore:"due_date"`
	PaidAt        *time.Time `firestore:"paid_at"`

	Notes          string     `firestore:"notes"`
	ShareToken     string     `firestore:"share_token"`
	LastReminderAt *time.Time `firestore:"last_reminder_at"`

	UserID    string    `firestore:"user_id"`
	Status    string    `firestore:"status"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func toInvoiceDoc(inv *domainInvoice.Invoice) *invoiceDoc {
	return &invoiceDoc{
		ID:     inv.ID,
		Number: inv.Number,

		ClientID:      inv.Client.ClientID,
		ClientName:    inv.Client.Name,
		ClientEmail:   inv.Client.Email,
		ClientAddress: inv.Client.Address,
		ClientTaxID:   inv.Client.TaxID,

		Items: lo.Map(inv.Items, func(li domainInvoice.LineItem, _ int) lineItemDoc {
			return lineItemDoc{
				Description: li.Description,
				Quantity:    li.Quantity.String(),
				UnitPrice:   li.UnitPrice.String(),
				Taxable:     li.Taxable,
				ProductID:   li.ProductID,
			}
		}),

		Currency:        inv.Currency,
		TaxRate:         inv.TaxRate.String(),
		DiscountEnabled: inv.Discount.Enabled,
		DiscountType:    string(inv.Discount.Type),
		DiscountValue:   inv.Discount.Value.String(),

		Subtotal:        inv.Subtotal.String(),
		DiscountAmount:  inv.DiscountAmount.String(),
		TaxableSubtotal: inv.TaxableSubtotal.String(),
		Tax:             inv.Tax.String(),
		NetAmount:       inv.NetAmount.String(),
		Total:           inv.Total.String(),

		PaymentStatus: string(inv.PaymentStatus),
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		PaidAt:        inv.PaidAt,

		Notes:          inv.Notes,
		ShareToken:     inv.ShareToken,
		LastReminderAt: inv.LastReminderAt,

		UserID:    inv.UserID,
		Status:    string(inv.Status),
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
}

func fromInvoiceDoc(doc *invoiceDoc) (*domainInvoice.Invoice, error) {
	parse := func(field, value string) (decimal.Decimal, error) {
		if value == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			return decimal.Zero, ierr.WithError(err).
				WithHintf("Stored invoice field %s is corrupt", field).
				WithReportableDetails(map[string]any{"invoice_id": doc.ID, "field": field}).
				Mark(ierr.ErrDatabase)
		}
		return d, nil
	}

	items := make([]domainInvoice.LineItem, 0, len(doc.Items))
	for _, li := range doc.Items {
		quantity, err := parse("item.quantity", li.Quantity)
		if err != nil {
			return nil, err
		}
		unitPrice, err := parse("item.unit_price", li.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, domainInvoice.LineItem{
			Description: li.Description,
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			Taxable:     li.Taxable,
			ProductID:   li.ProductID,
		})
	}

	taxRate, err := parse("tax_rate", doc.TaxRate)
	if err != nil {
		return nil, err
	}
	discountValue, err := parse("discount_value", doc.DiscountValue)
	if err != nil {
		return nil, err
	}
	subtotal, err := parse("subtotal", doc.Subtotal)
	if err != nil {
		return nil, err
	}
	discountAmount, err := parse("discount_amount", doc.DiscountAmount)
	if err != nil {
		return nil, err
	}
	taxableSubtotal, err := parse("taxable_subtotal", doc.TaxableSubtotal)
	if err != nil {
		return nil, err
	}
	tax, err := parse("tax", doc.Tax)
	if err != nil {
		return nil, err
	}
	netAmount, err := parse("net_amount", doc.NetAmount)
	if err != nil {
		return nil, err
	}
	total, err := parse("total", doc.Total)
	if err != nil {
		return nil, err
	}

	return &domainInvoice.Invoice{
		ID:     doc.ID,
		Number: doc.Number,
		Client: domainInvoice.ClientSnapshot{
			ClientID: doc.ClientID,
			Name:     doc.ClientName,
			Email:    doc.ClientEmail,
			Address:  doc.ClientAddress,
			TaxID:    doc.ClientTaxID,
		},
		Items:    items,
		Currency: doc.Currency,
		TaxRate:  taxRate,
		Discount: domainInvoice.Discount{
			Enabled: doc.DiscountEnabled,
			Type:    types.DiscountType(doc.DiscountType),
			Value:   discountValue,
		},
		Subtotal:        subtotal,
		DiscountAmount:  discountAmount,
		TaxableSubtotal: taxableSubtotal,
		Tax:             tax,
		NetAmount:       netAmount,
		Total:           total,
		PaymentStatus:   types.PaymentStatus(doc.PaymentStatus),
		IssueDate:       doc.IssueDate,
		DueDate:         doc.DueDate,
		PaidAt:          doc.PaidAt,
		Notes:           doc.Notes,
		ShareToken:      doc.ShareToken,
		LastReminderAt:  doc.LastReminderAt,
		BaseModel: types.BaseModel{
			UserID:    doc.UserID,
			Status:    types.Status(doc.Status),
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
		},
	}, nil
}

func (r *invoiceRepository) Create(ctx context.Context, inv *domainInvoice.Invoice) (*domainInvoice.Invoice, error) {
	r.log.Debugw("creating invoice",
		"invoice_id", inv.ID,
		"number", inv.Number,
		"user_id", inv.UserID,
	)

	if _, err := r.client.fs.Collection(invoicesCollection).Doc(inv.ID).Create(ctx, toInvoiceDoc(inv)); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to create invoice").
			WithReportableDetails(map[string]any{"invoice_id": inv.ID}).
			Mark(ierr.ErrDatabase)
	}
	return inv, nil
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*domainInvoice.Invoice, error) {
	inv, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.UserID != types.GetUserID(ctx) {
		return nil, ierr.NewError("invoice not found").
			WithHint("Invoice not found").
			WithReportableDetails(map[string]any{"invoice_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return inv, nil
}

// get loads without the owner check; used by Get and GetByShareToken.
func (r *invoiceRepository) get(ctx context.Context, id string) (*domainInvoice.Invoice, error) {
	snap, err := r.client.fs.Collection(invoicesCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ierr.NewError("invoice not found").
				WithHint("Invoice not found").
				WithReportableDetails(map[string]any{"invoice_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoice").
			Mark(ierr.ErrDatabase)
	}

	var doc invoiceDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to decode invoice").
			Mark(ierr.ErrDatabase)
	}

	inv, err := fromInvoiceDoc(&doc)
	if err != nil {
		return nil, err
	}
	if inv.Status == types.StatusDeleted {
		return nil, ierr.NewError("invoice not found").
			WithHint("Invoice not found").
			WithReportableDetails(map[string]any{"invoice_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return inv, nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *domainInvoice.Invoice) (*domainInvoice.Invoice, error) {
	if _, err := r.Get(ctx, inv.ID); err != nil {
		return nil, err
	}

	inv.UpdatedAt = time.Now().UTC()
	if _, err := r.client.fs.Collection(invoicesCollection).Doc(inv.ID).Set(ctx, toInvoiceDoc(inv)); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to update invoice").
			WithReportableDetails(map[string]any{"invoice_id": inv.ID}).
			Mark(ierr.ErrDatabase)
	}
	return inv, nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id string) error {
	inv, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	inv.Status = types.StatusDeleted
	inv.UpdatedAt = time.Now().UTC()
	if _, err := r.client.fs.Collection(invoicesCollection).Doc(id).Set(ctx, toInvoiceDoc(inv)); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete invoice").
			WithReportableDetails(map[string]any{"invoice_id": id}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *invoiceRepository) buildListQuery(ctx context.Context, filter *domainInvoice.Filter) fs.Query {
	query := r.client.fs.Collection(invoicesCollection).
		Where("user_id", "==", types.GetUserID(ctx)).
		Where("status", "==", string(types.StatusPublished))

	if filter.PaymentStatus != "" {
		query = query.Where("payment_status", "==", string(filter.PaymentStatus))
	}
	if filter.ClientID != "" {
		query = query.Where("client_id", "==", filter.ClientID)
	}
	if filter.DueBefore != nil {
		query = query.Where("due_date", "<", *filter.DueBefore).
			OrderBy("due_date", fs.Asc)
	} else {
		query = query.OrderBy("created_at", fs.Desc)
	}
	return query
}

func (r *invoiceRepository) List(ctx context.Context, filter *domainInvoice.Filter) ([]*domainInvoice.Invoice, error) {
	iter := r.buildListQuery(ctx, filter).
		Offset(filter.GetOffset()).
		Limit(filter.GetLimit()).
		Documents(ctx)
	defer iter.Stop()

	var invoices []*domainInvoice.Invoice
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to list invoices").
				Mark(ierr.ErrDatabase)
		}

		var doc invoiceDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to decode invoice").
				Mark(ierr.ErrDatabase)
		}

		inv, err := fromInvoiceDoc(&doc)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}

func (r *invoiceRepository) Count(ctx context.Context, filter *domainInvoice.Filter) (int, error) {
	iter := r.buildListQuery(ctx, filter).Select().Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, ierr.WithError(err).
				WithHint("Failed to count invoices").
				Mark(ierr.ErrDatabase)
		}
		count++
	}
	return count, nil
}

func (r *invoiceRepository) GetByShareToken(ctx context.Context, token string) (*domainInvoice.Invoice, error) {
	iter := r.client.fs.Collection(invoicesCollection).
		Where("share_token", "==", token).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, ierr.NewError("invoice not found").
			WithHint("This invoice link is invalid or has been revoked").
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to resolve invoice link").
			Mark(ierr.ErrDatabase)
	}

	var doc invoiceDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to decode invoice").
			Mark(ierr.ErrDatabase)
	}

	inv, err := fromInvoiceDoc(&doc)
	if err != nil {
		return nil, err
	}
	if inv.Status == types.StatusDeleted {
		return nil, ierr.NewError("invoice not found").
			WithHint("This invoice link is invalid or has been revoked").
			Mark(ierr.ErrNotFound)
	}
	return inv, nil
}
