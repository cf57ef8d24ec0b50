package testutil

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/billkazi/billkazi/internal/config"
	"github.com/billkazi/billkazi/internal/logger"
	"github.com/billkazi/billkazi/internal/types"
)

// Stores groups the in-memory repositories a service test wires up.
type Stores struct {
	UserRepo    *InMemoryUserStore
	ClientRepo  *InMemoryClientStore
	ProductRepo *InMemoryProductStore
	InvoiceRepo *InMemoryInvoiceStore
}

// BaseServiceTestSuite seeds fresh in-memory stores and an authenticated
// context before every test.
type BaseServiceTestSuite struct {
	suite.Suite

	ctx    context.Context
	cfg    *config.Configuration
	log    *logger.Logger
	stores Stores
	userID string
}

func (s *BaseServiceTestSuite) SetupTest() {
	s.userID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_USER)
	s.ctx = context.WithValue(context.Background(), types.CtxUserID, s.userID)
	s.cfg = config.GetDefaultConfig()
	s.log = logger.GetLogger()
	s.stores = Stores{
		UserRepo:    NewInMemoryUserStore(),
		ClientRepo:  NewInMemoryClientStore(),
		ProductRepo: NewInMemoryProductStore(),
		InvoiceRepo: NewInMemoryInvoiceStore(),
	}
}

func (s *BaseServiceTestSuite) TearDownTest() {}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.cfg
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.log
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetUserID returns the id the suite context is authenticated as.
func (s *BaseServiceTestSuite) GetUserID() string {
	return s.userID
}
