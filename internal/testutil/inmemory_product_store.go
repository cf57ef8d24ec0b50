package testutil

import (
	"context"
	"strings"

	domainProduct "github.com/billkazi/billkazi/internal/domain/product"
	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/types"
)

// InMemoryProductStore implements product.Repository.
type InMemoryProductStore struct {
	*InMemoryStore[*domainProduct.Product]
}

func NewInMemoryProductStore() *InMemoryProductStore {
	return &InMemoryProductStore{
		InMemoryStore: NewInMemoryStore[*domainProduct.Product](),
	}
}

func copyProduct(p *domainProduct.Product) *domainProduct.Product {
	if p == nil {
		return nil
	}
	copied := *p
	return &copied
}

func (s *InMemoryProductStore) Create(ctx context.Context, p *domainProduct.Product) (*domainProduct.Product, error) {
	if p == nil {
		return nil, ierr.NewError("product cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Create(ctx, p.ID, copyProduct(p)); err != nil {
		return nil, err
	}
	return copyProduct(p), nil
}

func (s *InMemoryProductStore) Get(ctx context.Context, id string) (*domainProduct.Product, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !productVisible(ctx, p) {
		return nil, ierr.NewError("product not found").
			WithHint("Product not found").
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	return copyProduct(p), nil
}

func (s *InMemoryProductStore) Update(ctx context.Context, p *domainProduct.Product) (*domainProduct.Product, error) {
	if _, err := s.Get(ctx, p.ID); err != nil {
		return nil, err
	}
	if err := s.InMemoryStore.Update(ctx, p.ID, copyProduct(p)); err != nil {
		return nil, err
	}
	return copyProduct(p), nil
}

func (s *InMemoryProductStore) Delete(ctx context.Context, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	p.Status = types.StatusDeleted
	return s.InMemoryStore.Update(ctx, id, p)
}

func (s *InMemoryProductStore) List(ctx context.Context, filter *domainProduct.Filter) ([]*domainProduct.Product, error) {
	if filter == nil {
		filter = &domainProduct.Filter{}
	}
	matched := s.InMemoryStore.List(ctx,
		productFilterFn(filter),
		func(a, b *domainProduct.Product) bool { return a.CreatedAt.After(b.CreatedAt) },
		filter.GetOffset(), filter.GetLimit())

	out := make([]*domainProduct.Product, 0, len(matched))
	for _, p := range matched {
		out = append(out, copyProduct(p))
	}
	return out, nil
}

func (s *InMemoryProductStore) Count(ctx context.Context, filter *domainProduct.Filter) (int, error) {
	if filter == nil {
		filter = &domainProduct.Filter{}
	}
	return s.InMemoryStore.Count(ctx, productFilterFn(filter)), nil
}

func productFilterFn(filter *domainProduct.Filter) func(ctx context.Context, p *domainProduct.Product) bool {
	return func(ctx context.Context, p *domainProduct.Product) bool {
		if !productVisible(ctx, p) {
			return false
		}
		if filter.Search != "" && !strings.HasPrefix(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			return false
		}
		return true
	}
}

func productVisible(ctx context.Context, p *domainProduct.Product) bool {
	return p != nil && p.UserID == types.GetUserID(ctx) && p.Status != types.StatusDeleted
}
