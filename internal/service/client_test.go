package service

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"

	"github.com/billkazi/billkazi/internal/api/dto"
	"github.com/billkazi/billkazi/internal/cache"
	domainClient "github.com/billkazi/billkazi/internal/domain/client"
	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/testutil"
	"github.com/billkazi/billkazi/internal/types"
)

type ClientServiceTestSuite struct {
	testutil.BaseServiceTestSuite
	clientService ClientService
}

func TestClientService(t *testing.T) {
	suite.Run(t, new(ClientServiceTestSuite))
}

func (s *ClientServiceTestSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	stores := s.GetStores()
	s.clientService = NewClientService(ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		UserRepo:    stores.UserRepo,
		ClientRepo:  stores.ClientRepo,
		ProductRepo: stores.ProductRepo,
		InvoiceRepo: stores.InvoiceRepo,
		Email:       newDisabledEmailService(s.GetLogger()),
		PDF:         newTestPDFRenderer(s.GetLogger()),
		Cache:       cache.NewInMemoryCache(),
	})
}

func (s *ClientServiceTestSuite) createClient(name string) *dto.ClientResponse {
	resp, err := s.clientService.Create(s.GetContext(), &dto.CreateClientRequest{
		Name:  name,
		Email: "billing@example.test",
	})
	s.Require().NoError(err)
	return resp
}

func (s *ClientServiceTestSuite) TestCreateAndGet() {
	created := s.createClient("Acme Ltd")
	s.NotEmpty(created.ID)

	got, err := s.clientService.Get(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal("Acme Ltd", got.Name)
	s.Equal("billing@example.test", got.Email)
}

func (s *ClientServiceTestSuite) TestListWithSearch() {
	s.createClient("Acme Ltd")
	s.createClient("Acme Studio")
	s.createClient("Globex")

	resp, err := s.clientService.List(s.GetContext(), &domainClient.Filter{Search: "acme"})
	s.NoError(err)

	names := lo.Map(resp.Items, func(c dto.ClientResponse, _ int) string { return c.Name })
	s.ElementsMatch([]string{"Acme Ltd", "Acme Studio"}, names)
	// Total tracks the filtered set, not the whole book, so pagination
	// agrees with the rows it describes.
	s.Equal(2, resp.Pagination.Total)

	resp, err = s.clientService.List(s.GetContext(), &domainClient.Filter{Search: "zzz"})
	s.NoError(err)
	s.Empty(resp.Items)
	s.Equal(0, resp.Pagination.Total)
}

func (s *ClientServiceTestSuite) TestSearchPagination() {
	s.createClient("Acme Ltd")
	s.createClient("Acme Studio")
	s.createClient("Globex")

	resp, err := s.clientService.List(s.GetContext(), &domainClient.Filter{
		Search:           "Acme",
		PaginationParams: types.PaginationParams{Limit: 1},
	})
	s.NoError(err)
	s.Len(resp.Items, 1)
	s.Equal(2, resp.Pagination.Total)
}

func (s *ClientServiceTestSuite) TestDeleteHidesFromList() {
	created := s.createClient("Acme Ltd")

	s.NoError(s.clientService.Delete(s.GetContext(), created.ID))

	_, err := s.clientService.Get(s.GetContext(), created.ID)
	s.True(ierr.IsNotFound(err))

	resp, err := s.clientService.List(s.GetContext(), nil)
	s.NoError(err)
	s.Empty(resp.Items)
	s.Equal(0, resp.Pagination.Total)
}
