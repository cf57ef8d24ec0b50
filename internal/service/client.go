package service

import (
	"context"

	"github.com/samber/lo"

	"github.com/billkazi/billkazi/internal/api/dto"
	domainClient "github.com/billkazi/billkazi/internal/domain/client"
	"github.com/billkazi/billkazi/internal/types"
)

// ClientService manages the user's client book.
type ClientService interface {
	Create(ctx context.Context, req *dto.CreateClientRequest) (*dto.ClientResponse, error)
	Get(ctx context.Context, id string) (*dto.ClientResponse, error)
	List(ctx context.Context, filter *domainClient.Filter) (*dto.ListClientsResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateClientRequest) (*dto.ClientResponse, error)
	Delete(ctx context.Context, id string) error
}

type clientService struct {
	ServiceParams
}

func NewClientService(params ServiceParams) ClientService {
	return &clientService{ServiceParams: params}
}

func (s *clientService) Create(ctx context.Context, req *dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.ClientRepo.Create(ctx, req.ToClient(ctx))
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("client created", "client_id", c.ID, "user_id", c.UserID)
	resp := dto.NewClientResponse(c)
	return &resp, nil
}

func (s *clientService) Get(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := s.ClientRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewClientResponse(c)
	return &resp, nil
}

func (s *clientService) List(ctx context.Context, filter *domainClient.Filter) (*dto.ListClientsResponse, error) {
	if filter == nil {
		filter = &domainClient.Filter{}
	}

	clients, err := s.ClientRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.ClientRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListClientsResponse{
		Items: lo.Map(clients, func(c *domainClient.Client, _ int) dto.ClientResponse {
			return dto.NewClientResponse(c)
		}),
		Pagination: types.NewPaginationInfo(filter.GetLimit(), filter.GetOffset(), total),
	}, nil
}

func (s *clientService) Update(ctx context.Context, id string, req *dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.ClientRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(c)
	if _, err := s.ClientRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	resp := dto.NewClientResponse(c)
	return &resp, nil
}

func (s *clientService) Delete(ctx context.Context, id string) error {
	if _, err := s.ClientRepo.Get(ctx, id); err != nil {
		return err
	}
	return s.ClientRepo.Delete(ctx, id)
}
