package testutil

import (
	"context"

	domainInvoice "github.com/billkazi/billkazi/internal/domain/invoice"
	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/types"
)

// InMemoryInvoiceStore implements invoice.Repository.
type InMemoryInvoiceStore struct {
	*InMemoryStore[*domainInvoice.Invoice]
}

func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*domainInvoice.Invoice](),
	}
}

func copyInvoice(inv *domainInvoice.Invoice) *domainInvoice.Invoice {
	if inv == nil {
		return nil
	}
	copied := *inv
	copied.Items = append([]domainInvoice.LineItem(nil), inv.Items...)
	if inv.PaidAt != nil {
		paidAt := *inv.PaidAt
		copied.PaidAt = &paidAt
	}
	if inv.LastReminderAt != nil {
		lastReminderAt := *inv.LastReminderAt
		copied.LastReminderAt = &lastReminderAt
	}
	return &copied
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *domainInvoice.Invoice) (*domainInvoice.Invoice, error) {
	if inv == nil {
		return nil, ierr.NewError("invoice cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Create(ctx, inv.ID, copyInvoice(inv)); err != nil {
		return nil, err
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*domainInvoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !invoiceVisible(ctx, inv) {
		return nil, invoiceNotFound(id)
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *domainInvoice.Invoice) (*domainInvoice.Invoice, error) {
	if _, err := s.Get(ctx, inv.ID); err != nil {
		return nil, err
	}
	if err := s.InMemoryStore.Update(ctx, inv.ID, copyInvoice(inv)); err != nil {
		return nil, err
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) Delete(ctx context.Context, id string) error {
	inv, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	inv.Status = types.StatusDeleted
	return s.InMemoryStore.Update(ctx, id, inv)
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *domainInvoice.Filter) ([]*domainInvoice.Invoice, error) {
	if filter == nil {
		filter = &domainInvoice.Filter{}
	}
	matched := s.InMemoryStore.List(ctx,
		invoiceFilterFn(filter),
		func(a, b *domainInvoice.Invoice) bool { return a.CreatedAt.After(b.CreatedAt) },
		filter.GetOffset(), filter.GetLimit())

	out := make([]*domainInvoice.Invoice, 0, len(matched))
	for _, inv := range matched {
		out = append(out, copyInvoice(inv))
	}
	return out, nil
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context, filter *domainInvoice.Filter) (int, error) {
	if filter == nil {
		filter = &domainInvoice.Filter{}
	}
	return s.InMemoryStore.Count(ctx, invoiceFilterFn(filter)), nil
}

func (s *InMemoryInvoiceStore) GetByShareToken(ctx context.Context, token string) (*domainInvoice.Invoice, error) {
	matches := s.InMemoryStore.List(ctx, func(_ context.Context, inv *domainInvoice.Invoice) bool {
		return inv.ShareToken == token && inv.Status != types.StatusDeleted
	}, nil, 0, -1)
	if len(matches) == 0 {
		return nil, ierr.NewError("invoice not found").
			WithHint("This share link is invalid or has been revoked").
			Mark(ierr.ErrNotFound)
	}
	return copyInvoice(matches[0]), nil
}

func invoiceFilterFn(filter *domainInvoice.Filter) func(ctx context.Context, inv *domainInvoice.Invoice) bool {
	return func(ctx context.Context, inv *domainInvoice.Invoice) bool {
		if !invoiceVisible(ctx, inv) {
			return false
		}
		if filter.PaymentStatus != "" && inv.PaymentStatus != filter.PaymentStatus {
			return false
		}
		if filter.ClientID != "" && inv.Client.ClientID != filter.ClientID {
			return false
		}
		if filter.DueBefore != nil && !inv.DueDate.Before(*filter.DueBefore) {
			return false
		}
		return true
	}
}

func invoiceVisible(ctx context.Context, inv *domainInvoice.Invoice) bool {
	return inv != nil && inv.UserID == types.GetUserID(ctx) && inv.Status != types.StatusDeleted
}

func invoiceNotFound(id string) error {
	return ierr.NewError("invoice not found").
		WithHint("Invoice not found").
		WithReportableDetails(map[string]any{"id": id}).
		Mark(ierr.ErrNotFound)
}
