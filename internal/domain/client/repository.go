package client

import (
	"context"

	"github.com/billkazi/billkazi/internal/types"
)

// Filter narrows client list queries.
type Filter struct {
	types.PaginationParams
	// Search matches against the client name prefix.
	Search string `form:"search"`
}

type Repository interface {
	Create(ctx context.Context, client *Client) (*Client, error)
	Get(ctx context.Context, id string) (*Client, error)
	Update(ctx context.Context, client *Client) (*Client, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter *Filter) ([]*Client, error)
	Count(ctx context.Context, filter *Filter) (int, error)
}
