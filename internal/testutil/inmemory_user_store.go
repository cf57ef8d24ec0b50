package testutil

import (
	"context"
	"sync"

	"github.com/billkazi/billkazi/internal/domain/user"
	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/types"
)

// InMemoryUserStore implements user.Repository.
type InMemoryUserStore struct {
	*InMemoryStore[*user.User]

	// counterMu serializes NextInvoiceNumber, standing in for the storage
	// transaction the real repository uses.
	counterMu sync.Mutex
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		InMemoryStore: NewInMemoryStore[*user.User](),
	}
}

func copyUser(u *user.User) *user.User {
	if u == nil {
		return nil
	}
	copied := *u
	copied.InvoiceCounters = map[string]int{}
	for k, v := range u.InvoiceCounters {
		copied.InvoiceCounters[k] = v
	}
	return &copied
}

func (s *InMemoryUserStore) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if u == nil {
		return nil, ierr.NewError("user cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if _, err := s.GetByEmail(ctx, u.Email); err == nil {
		return nil, ierr.NewError("email is already registered").
			WithHint("An account with this email already exists").
			WithReportableDetails(map[string]any{"email": u.Email}).
			Mark(ierr.ErrAlreadyExists)
	}
	if err := s.InMemoryStore.Create(ctx, u.ID, copyUser(u)); err != nil {
		return nil, err
	}
	return copyUser(u), nil
}

func (s *InMemoryUserStore) Get(ctx context.Context, id string) (*user.User, error) {
	u, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, userNotFound(id)
	}
	return copyUser(u), nil
}

func (s *InMemoryUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	matches := s.InMemoryStore.List(ctx, func(_ context.Context, u *user.User) bool {
		return u.Email == email && u.Status != types.StatusDeleted
	}, nil, 0, -1)
	if len(matches) == 0 {
		return nil, ierr.NewError("user not found").
			WithHint("No account with this email").
			Mark(ierr.ErrNotFound)
	}
	return copyUser(matches[0]), nil
}

func (s *InMemoryUserStore) Update(ctx context.Context, u *user.User) (*user.User, error) {
	if err := s.InMemoryStore.Update(ctx, u.ID, copyUser(u)); err != nil {
		return nil, userNotFound(u.ID)
	}
	return copyUser(u), nil
}

func (s *InMemoryUserStore) NextInvoiceNumber(ctx context.Context, userID, periodKey string) (int, error) {
	s.counterMu.Lock()
	defer s.counterMu.Unlock()

	u, err := s.InMemoryStore.Get(ctx, userID)
	if err != nil {
		return 0, userNotFound(userID)
	}
	if u.InvoiceCounters == nil {
		u.InvoiceCounters = map[string]int{}
	}
	u.InvoiceCounters[periodKey]++
	return u.InvoiceCounters[periodKey], nil
}

func (s *InMemoryUserStore) ListIDs(ctx context.Context) ([]string, error) {
	users := s.InMemoryStore.List(ctx, func(_ context.Context, u *user.User) bool {
		return u.Status == types.StatusPublished
	}, func(a, b *user.User) bool {
		return a.CreatedAt.Before(b.CreatedAt)
	}, 0, -1)

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func userNotFound(id string) error {
	return ierr.NewError("user not found").
		WithReportableDetails(map[string]any{"id": id}).
		Mark(ierr.ErrNotFound)
}
