package product

import (
	"context"

	"github.com/billkazi/billkazi/internal/types"
)

type Filter struct {
	types.PaginationParams
	Search string `form:"search"`
}

type Repository interface {
	Create(ctx context.Context, product *Product) (*Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Update(ctx context.Context, product *Product) (*Product, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter *Filter) ([]*Product, error)
	Count(ctx context.Context, filter *Filter) (int, error)
}
