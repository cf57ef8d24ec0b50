package invoice

import (
	"context"
	"time"

	"github.com/billkazi/billkazi/internal/types"
)

// Filter narrows invoice list queries. All queries are additionally scoped
// to the authenticated user.
type Filter struct {
	types.PaginationParams
	PaymentStatus types.PaymentStatus `form:"payment_status"`
	ClientID      string              `form:"client_id"`
	// DueBefore selects invoices whose due date is before the given
	// instant; used with PaymentStatus=unpaid by the reminder sweep.
	DueBefore *time.Time `form:"due_before" time_format:"2006-01-02"`
}

type Repository interface {
	Create(ctx context.Context, inv *Invoice) (*Invoice, error)
	Get(ctx context.Context, id string) (*Invoice, error)
	Update(ctx context.Context, inv *Invoice) (*Invoice, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter *Filter) ([]*Invoice, error)
	Count(ctx context.Context, filter *Filter) (int, error)

	// GetByShareToken resolves a public share token to its invoice across
	// all users. Returns ErrNotFound for unknown or revoked tokens.
	GetByShareToken(ctx context.Context, token string) (*Invoice, error)
}
