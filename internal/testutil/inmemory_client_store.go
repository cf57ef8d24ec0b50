package testutil

import (
	"context"
	"strings"

	domainClient "github.com/billkazi/billkazi/internal/domain/client"
	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/types"
)

// InMemoryClientStore implements client.Repository.
type InMemoryClientStore struct {
	*InMemoryStore[*domainClient.Client]
}

func NewInMemoryClientStore() *InMemoryClientStore {
	return &InMemoryClientStore{
		InMemoryStore: NewInMemoryStore[*domainClient.Client](),
	}
}

func copyClient(c *domainClient.Client) *domainClient.Client {
	if c == nil {
		return nil
	}
	copied := *c
	return &copied
}

func (s *InMemoryClientStore) Create(ctx context.Context, c *domainClient.Client) (*domainClient.Client, error) {
	if c == nil {
		return nil, ierr.NewError("client cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Create(ctx, c.ID, copyClient(c)); err != nil {
		return nil, err
	}
	return copyClient(c), nil
}

func (s *InMemoryClientStore) Get(ctx context.Context, id string) (*domainClient.Client, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !clientVisible(ctx, c) {
		return nil, ierr.NewError("client not found").
			WithHint("Client not found").
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	return copyClient(c), nil
}

func (s *InMemoryClientStore) Update(ctx context.Context, c *domainClient.Client) (*domainClient.Client, error) {
	if _, err := s.Get(ctx, c.ID); err != nil {
		return nil, err
	}
	if err := s.InMemoryStore.Update(ctx, c.ID, copyClient(c)); err != nil {
		return nil, err
	}
	return copyClient(c), nil
}

func (s *InMemoryClientStore) Delete(ctx context.Context, id string) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	c.Status = types.StatusDeleted
	return s.InMemoryStore.Update(ctx, id, c)
}

func (s *InMemoryClientStore) List(ctx context.Context, filter *domainClient.Filter) ([]*domainClient.Client, error) {
	if filter == nil {
		filter = &domainClient.Filter{}
	}
	matched := s.InMemoryStore.List(ctx,
		clientFilterFn(filter),
		func(a, b *domainClient.Client) bool { return a.CreatedAt.After(b.CreatedAt) },
		filter.GetOffset(), filter.GetLimit())

	out := make([]*domainClient.Client, 0, len(matched))
	for _, c := range matched {
		out = append(out, copyClient(c))
	}
	return out, nil
}

func (s *InMemoryClientStore) Count(ctx context.Context, filter *domainClient.Filter) (int, error) {
	if filter == nil {
		filter = &domainClient.Filter{}
	}
	return s.InMemoryStore.Count(ctx, clientFilterFn(filter)), nil
}

func clientFilterFn(filter *domainClient.Filter) func(ctx context.Context, c *domainClient.Client) bool {
	return func(ctx context.Context, c *domainClient.Client) bool {
		if !clientVisible(ctx, c) {
			return false
		}
		if filter.Search != "" && !strings.HasPrefix(strings.ToLower(c.Name), strings.ToLower(filter.Search)) {
			return false
		}
		return true
	}
}

func clientVisible(ctx context.Context, c *domainClient.Client) bool {
	return c != nil && c.UserID == types.GetUserID(ctx) && c.Status != types.StatusDeleted
}
