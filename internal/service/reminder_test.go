package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/billkazi/billkazi/internal/api/dto"
	"github.com/billkazi/billkazi/internal/cache"
	domainClient "github.com/billkazi/billkazi/internal/domain/client"
	"github.com/billkazi/billkazi/internal/domain/user"
	"github.com/billkazi/billkazi/internal/testutil"
	"github.com/billkazi/billkazi/internal/types"
)

type ReminderServiceTestSuite struct {
	testutil.BaseServiceTestSuite
	reminderService ReminderService
	invoiceService  InvoiceService
	clientID        string
}

func TestReminderService(t *testing.T) {
	suite.Run(t, new(ReminderServiceTestSuite))
}

func (s *ReminderServiceTestSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	params := ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		UserRepo:    stores.UserRepo,
		ClientRepo:  stores.ClientRepo,
		ProductRepo: stores.ProductRepo,
		InvoiceRepo: stores.InvoiceRepo,
		Email:       newDisabledEmailService(s.GetLogger()),
		PDF:         newTestPDFRenderer(s.GetLogger()),
		Cache:       cache.NewInMemoryCache(),
	}
	s.reminderService = NewReminderService(params)
	s.invoiceService = NewInvoiceService(params)

	ctx := s.GetContext()
	_, err := stores.UserRepo.Create(ctx, &user.User{
		ID:              s.GetUserID(),
		Email:           "owner@example.com",
		Name:            "Owner",
		InvoiceCounters: map[string]int{},
		BaseModel:       types.GetDefaultBaseModel(ctx),
	})
	s.Require().NoError(err)

	c, err := stores.ClientRepo.Create(ctx, &domainClient.Client{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CLIENT),
		Name:      "Acme Ltd",
		Email:     "billing@acme.test",
		BaseModel: types.GetDefaultBaseModel(ctx),
	})
	s.Require().NoError(err)
	s.clientID = c.ID
}

func (s *ReminderServiceTestSuite) createOverdueInvoice() *dto.InvoiceResponse {
	issue := time.Now().UTC().AddDate(0, 0, -30)
	due := issue.AddDate(0, 0, 7)
	resp, err := s.invoiceService.Create(s.GetContext(), &dto.CreateInvoiceRequest{
		ClientID:  s.clientID,
		IssueDate: &issue,
		DueDate:   &due,
		Items: []dto.InvoiceLineItemRequest{
			{Description: "Overdue job", Quantity: "1", UnitPrice: "100"},
		},
	})
	s.Require().NoError(err)
	return resp
}

func (s *ReminderServiceTestSuite) TestSendDueReminders() {
	created := s.createOverdueInvoice()

	result, err := s.reminderService.SendDueReminders(s.GetContext())
	s.Require().NoError(err)

	s.Equal(1, result.UsersScanned)
	s.Equal(1, result.OverdueInvoices)
	s.Equal(1, result.RemindersSent)
	s.Equal(0, result.Failed)

	after, err := s.invoiceService.Get(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.NotNil(after)

	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.Require().NotNil(inv.LastReminderAt)
}

func (s *ReminderServiceTestSuite) TestSendDueReminders_CooldownSkips() {
	s.createOverdueInvoice()

	first, err := s.reminderService.SendDueReminders(s.GetContext())
	s.Require().NoError(err)
	s.Equal(1, first.RemindersSent)

	// A second sweep inside the cooldown window must not re-send.
	second, err := s.reminderService.SendDueReminders(s.GetContext())
	s.Require().NoError(err)
	s.Equal(0, second.RemindersSent)
	s.Equal(1, second.Skipped)
}

func (s *ReminderServiceTestSuite) TestSendDueReminders_PaidInvoicesIgnored() {
	created := s.createOverdueInvoice()

	_, err := s.invoiceService.UpdatePaymentStatus(s.GetContext(), created.ID, &dto.UpdatePaymentStatusRequest{
		PaymentStatus: types.PaymentStatusPaid,
	})
	s.Require().NoError(err)

	result, err := s.reminderService.SendDueReminders(s.GetContext())
	s.Require().NoError(err)
	s.Equal(0, result.OverdueInvoices)
	s.Equal(0, result.RemindersSent)
}

func (s *ReminderServiceTestSuite) TestSendDueReminders_FutureDueDateIgnored() {
	_, err := s.invoiceService.Create(s.GetContext(), &dto.CreateInvoiceRequest{
		ClientID: s.clientID,
		Items: []dto.InvoiceLineItemRequest{
			{Description: "Fresh job", Quantity: "1", UnitPrice: "100"},
		},
	})
	s.Require().NoError(err)

	result, err := s.reminderService.SendDueReminders(s.GetContext())
	s.Require().NoError(err)
	s.Equal(0, result.OverdueInvoices)
	s.Equal(0, result.RemindersSent)
}
