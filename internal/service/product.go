package service

import (
	"context"

	"github.com/samber/lo"

	"github.com/billkazi/billkazi/internal/api/dto"
	domainProduct "github.com/billkazi/billkazi/internal/domain/product"
	"github.com/billkazi/billkazi/internal/types"
)

// ProductService manages the user's product catalog.
type ProductService interface {
	Create(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id string) (*dto.ProductResponse, error)
	List(ctx context.Context, filter *domainProduct.Filter) (*dto.ListProductsResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id string) error
}

type productService struct {
	ServiceParams
}

func NewProductService(params ServiceParams) ProductService {
	return &productService{ServiceParams: params}
}

func (s *productService) Create(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.ProductRepo.Create(ctx, req.ToProduct(ctx))
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("product created", "product_id", p.ID, "user_id", p.UserID)
	resp := dto.NewProductResponse(p)
	return &resp, nil
}

func (s *productService) Get(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := s.ProductRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewProductResponse(p)
	return &resp, nil
}

func (s *productService) List(ctx context.Context, filter *domainProduct.Filter) (*dto.ListProductsResponse, error) {
	if filter == nil {
		filter = &domainProduct.Filter{}
	}

	products, err := s.ProductRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.ProductRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListProductsResponse{
		Items: lo.Map(products, func(p *domainProduct.Product, _ int) dto.ProductResponse {
			return dto.NewProductResponse(p)
		}),
		Pagination: types.NewPaginationInfo(filter.GetLimit(), filter.GetOffset(), total),
	}, nil
}

func (s *productService) Update(ctx context.Context, id string, req *dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.ProductRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(p)
	if _, err := s.ProductRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	resp := dto.NewProductResponse(p)
	return &resp, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	if _, err := s.ProductRepo.Get(ctx, id); err != nil {
		return err
	}
	return s.ProductRepo.Delete(ctx, id)
}
