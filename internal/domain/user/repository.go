package user

import "context"

// Repository persists users. GetByEmail is used by the auth flows; the rest
// of the application resolves users by id from the bearer token.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	Get(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)

	// NextInvoiceNumber atomically increments and returns the invoice
	// sequence for the given period key, creating the counter at 1 when
	// absent. The increment and read happen in a single storage
	// transaction so concurrent invoice creation cannot observe the same
	// sequence.
	NextInvoiceNumber(ctx context.Context, userID, periodKey string) (int, error)

	// ListIDs returns the ids of all active users; used by the reminder
	// cron sweep.
	ListIDs(ctx context.Context) ([]string, error)
}
