package service

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/billkazi/billkazi/internal/api/dto"
	"github.com/billkazi/billkazi/internal/cache"
	domainClient "github.com/billkazi/billkazi/internal/domain/client"
	domainInvoice "github.com/billkazi/billkazi/internal/domain/invoice"
	domainProduct "github.com/billkazi/billkazi/internal/domain/product"
	"github.com/billkazi/billkazi/internal/domain/user"
	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/testutil"
	"github.com/billkazi/billkazi/internal/types"
)

type InvoiceServiceTestSuite struct {
	testutil.BaseServiceTestSuite
	invoiceService InvoiceService
	testData       struct {
		owner   *user.User
		client  *domainClient.Client
		product *domainProduct.Product
	}
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}

func (s *InvoiceServiceTestSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.invoiceService = NewInvoiceService(s.serviceParams())
	s.setupTestData()
}

func (s *InvoiceServiceTestSuite) serviceParams() ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
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
}

func (s *InvoiceServiceTestSuite) setupTestData() {
	ctx := s.GetContext()
	stores := s.GetStores()

	owner := &user.User{
		ID:    s.GetUserID(),
		Email: "owner@example.com",
		Name:  "Asha Mwangi",
		BusinessProfile: user.BusinessProfile{
			CompanyName:     "Mwangi Studio",
			Address:         "12 Riverside Dr, Nairobi",
			DefaultCurrency: "usd",
			DefaultTaxRate:  "18",
		},
		InvoiceCounters: map[string]int{},
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}
	var err error
	s.testData.owner, err = stores.UserRepo.Create(ctx, owner)
	s.NoError(err)

	s.testData.client, err = stores.ClientRepo.Create(ctx, &domainClient.Client{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CLIENT),
		Name:      "Acme Ltd",
		Email:     "billing@acme.test",
		Address:   "1 Acme Way",
		TaxID:     "TAX-001",
		BaseModel: types.GetDefaultBaseModel(ctx),
	})
	s.NoError(err)

	s.testData.product, err = stores.ProductRepo.Create(ctx, &domainProduct.Product{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PRODUCT),
		Name:      "Consulting hour",
		UnitPrice: decimal.RequireFromString("50"),
		Taxable:   true,
		BaseModel: types.GetDefaultBaseModel(ctx),
	})
	s.NoError(err)
}

func (s *InvoiceServiceTestSuite) createInvoice(req *dto.CreateInvoiceRequest) *dto.InvoiceResponse {
	resp, err := s.invoiceService.Create(s.GetContext(), req)
	s.Require().NoError(err)
	return resp
}

func (s *InvoiceServiceTestSuite) basicCreateRequest() *dto.CreateInvoiceRequest {
	return &dto.CreateInvoiceRequest{
		ClientID: s.testData.client.ID,
		Items: []dto.InvoiceLineItemRequest{
			{Description: "Design work", Quantity: "2", UnitPrice: "50"},
		},
	}
}

func (s *InvoiceServiceTestSuite) TestCreateInvoice() {
	resp := s.createInvoice(s.basicCreateRequest())

	// Profile defaults: usd, 18% VAT backed out of the tax-inclusive total.
	s.Equal("usd", resp.Currency)
	s.True(resp.TaxRate.Equal(decimal.RequireFromString("18")))
	s.True(resp.Subtotal.Equal(decimal.RequireFromString("100")), "subtotal %s", resp.Subtotal)
	s.True(resp.Total.Equal(decimal.RequireFromString("100")))
	s.True(resp.Tax.Equal(decimal.RequireFromString("15.25")), "tax %s", resp.Tax)
	s.True(resp.NetAmount.Equal(decimal.RequireFromString("84.75")))
	s.True(resp.NetAmount.Add(resp.Tax).Equal(resp.Total))

	s.Equal(types.PaymentStatusUnpaid, resp.PaymentStatus)
	s.Equal("Acme Ltd", resp.Client.Name)
	s.Equal(resp.IssueDate.AddDate(0, 0, 14), resp.DueDate)

	periodKey := types.InvoiceNumberPeriodKey(resp.IssueDate)
	s.Equal("INV-"+periodKey+"-001", resp.Number)
}

func (s *InvoiceServiceTestSuite) TestCreateInvoice_SequentialNumbers() {
	first := s.createInvoice(s.basicCreateRequest())
	second := s.createInvoice(s.basicCreateRequest())

	periodKey := types.InvoiceNumberPeriodKey(first.IssueDate)
	s.Equal("INV-"+periodKey+"-001", first.Number)
	s.Equal("INV-"+periodKey+"-002", second.Number)
}

func (s *InvoiceServiceTestSuite) TestCreateInvoice_ProductLine() {
	resp := s.createInvoice(&dto.CreateInvoiceRequest{
		ClientID: s.testData.client.ID,
		Items: []dto.InvoiceLineItemRequest{
			{ProductID: s.testData.product.ID, Quantity: "3"},
		},
	})

	s.Require().Len(resp.Items, 1)
	s.Equal("Consulting hour", resp.Items[0].Description)
	s.True(resp.Items[0].UnitPrice.Equal(decimal.RequireFromString("50")))
	s.True(resp.Subtotal.Equal(decimal.RequireFromString("150")))
}

func (s *InvoiceServiceTestSuite) TestCreateInvoice_PercentageDiscount() {
	rate := "16"
	resp := s.createInvoice(&dto.CreateInvoiceRequest{
		ClientID: s.testData.client.ID,
		TaxRate:  &rate,
		Items: []dto.InvoiceLineItemRequest{
			{Description: "Retainer", Quantity: "1", UnitPrice: "200"},
		},
		Discount: &dto.DiscountRequest{Type: types.DiscountTypePercentage, Value: "10"},
	})

	s.True(resp.DiscountAmount.Equal(decimal.RequireFromString("20")))
	s.True(resp.Total.Equal(decimal.RequireFromString("180")))
	s.True(resp.Tax.Equal(decimal.RequireFromString("24.83")), "tax %s", resp.Tax)
	s.True(resp.NetAmount.Add(resp.Tax).Equal(resp.Total))
}

func (s *InvoiceServiceTestSuite) TestCreateInvoice_UnknownClient() {
	req := s.basicCreateRequest()
	req.ClientID = "cust_missing"
	_, err := s.invoiceService.Create(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceTestSuite) TestCreateInvoice_EmptyItems() {
	_, err := s.invoiceService.Create(s.GetContext(), &dto.CreateInvoiceRequest{
		ClientID: s.testData.client.ID,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *InvoiceServiceTestSuite) TestUpdateInvoice_RecomputesTotals() {
	created := s.createInvoice(s.basicCreateRequest())

	resp, err := s.invoiceService.Update(s.GetContext(), created.ID, &dto.UpdateInvoiceRequest{
		Items: []dto.InvoiceLineItemRequest{
			{Description: "Design work", Quantity: "4", UnitPrice: "50"},
		},
	})
	s.Require().NoError(err)

	s.True(resp.Subtotal.Equal(decimal.RequireFromString("200")))
	s.True(resp.Total.Equal(decimal.RequireFromString("200")))
	s.Equal(created.Number, resp.Number, "number must not change on edit")
}

func (s *InvoiceServiceTestSuite) TestUpdateInvoice_NotesOnlyKeepsTotals() {
	created := s.createInvoice(s.basicCreateRequest())

	notes := "Payable within 14 days"
	resp, err := s.invoiceService.Update(s.GetContext(), created.ID, &dto.UpdateInvoiceRequest{
		Notes: &notes,
	})
	s.Require().NoError(err)

	s.Equal(notes, resp.Notes)
	s.True(resp.Tax.Equal(created.Tax))
	s.True(resp.Total.Equal(created.Total))
}

func (s *InvoiceServiceTestSuite) TestUpdatePaymentStatus() {
	created := s.createInvoice(s.basicCreateRequest())

	paid, err := s.invoiceService.UpdatePaymentStatus(s.GetContext(), created.ID, &dto.UpdatePaymentStatusRequest{
		PaymentStatus: types.PaymentStatusPaid,
	})
	s.Require().NoError(err)
	s.Equal(types.PaymentStatusPaid, paid.PaymentStatus)
	s.Require().NotNil(paid.PaidAt)

	unpaid, err := s.invoiceService.UpdatePaymentStatus(s.GetContext(), created.ID, &dto.UpdatePaymentStatusRequest{
		PaymentStatus: types.PaymentStatusUnpaid,
	})
	s.Require().NoError(err)
	s.Equal(types.PaymentStatusUnpaid, unpaid.PaymentStatus)
	s.Nil(unpaid.PaidAt)
}

func (s *InvoiceServiceTestSuite) TestShareAndGetShared() {
	created := s.createInvoice(s.basicCreateRequest())

	share, err := s.invoiceService.Share(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.NotEmpty(share.ShareToken)
	s.Contains(share.ShareURL, "/p/invoices/"+share.ShareToken)

	// Sharing again returns the same token.
	again, err := s.invoiceService.Share(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.Equal(share.ShareToken, again.ShareToken)

	public, err := s.invoiceService.GetShared(s.GetContext(), share.ShareToken)
	s.Require().NoError(err)
	s.Equal(created.Number, public.Invoice.Number)
	s.Equal("Mwangi Studio", public.Seller.CompanyName)
}

func (s *InvoiceServiceTestSuite) TestGetShared_ReflectsUpdates() {
	created := s.createInvoice(s.basicCreateRequest())

	share, err := s.invoiceService.Share(s.GetContext(), created.ID)
	s.Require().NoError(err)

	// Prime the share-lookup cache.
	public, err := s.invoiceService.GetShared(s.GetContext(), share.ShareToken)
	s.Require().NoError(err)
	s.True(public.Invoice.Total.Equal(decimal.RequireFromString("100")))

	_, err = s.invoiceService.Update(s.GetContext(), created.ID, &dto.UpdateInvoiceRequest{
		Items: []dto.InvoiceLineItemRequest{
			{Description: "Design work", Quantity: "4", UnitPrice: "50"},
		},
	})
	s.Require().NoError(err)

	// The public view picks up the new totals right away, not after the
	// cache entry expires.
	public, err = s.invoiceService.GetShared(s.GetContext(), share.ShareToken)
	s.Require().NoError(err)
	s.True(public.Invoice.Total.Equal(decimal.RequireFromString("200")),
		"shared total %s", public.Invoice.Total)

	_, err = s.invoiceService.UpdatePaymentStatus(s.GetContext(), created.ID, &dto.UpdatePaymentStatusRequest{
		PaymentStatus: types.PaymentStatusPaid,
	})
	s.Require().NoError(err)

	public, err = s.invoiceService.GetShared(s.GetContext(), share.ShareToken)
	s.Require().NoError(err)
	s.Equal(types.PaymentStatusPaid, public.Invoice.PaymentStatus)
}

func (s *InvoiceServiceTestSuite) TestGetShared_UnknownToken() {
	_, err := s.invoiceService.GetShared(s.GetContext(), "nope")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceTestSuite) TestDelete() {
	created := s.createInvoice(s.basicCreateRequest())

	s.NoError(s.invoiceService.Delete(s.GetContext(), created.ID))

	_, err := s.invoiceService.Get(s.GetContext(), created.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceTestSuite) TestList_FilterByPaymentStatus() {
	first := s.createInvoice(s.basicCreateRequest())
	s.createInvoice(s.basicCreateRequest())

	_, err := s.invoiceService.UpdatePaymentStatus(s.GetContext(), first.ID, &dto.UpdatePaymentStatusRequest{
		PaymentStatus: types.PaymentStatusPaid,
	})
	s.Require().NoError(err)

	paid, err := s.invoiceService.List(s.GetContext(), &domainInvoice.Filter{
		PaymentStatus: types.PaymentStatusPaid,
	})
	s.Require().NoError(err)
	s.Equal(1, paid.Pagination.Total)
	s.Require().Len(paid.Items, 1)
	s.Equal(first.ID, paid.Items[0].ID)

	ids := lo.Map(paid.Items, func(i dto.InvoiceResponse, _ int) string { return i.ID })
	s.NotContains(ids, "")
}

func (s *InvoiceServiceTestSuite) TestSend_NoRecipient() {
	ctx := s.GetContext()
	stores := s.GetStores()

	noEmail, err := stores.ClientRepo.Create(ctx, &domainClient.Client{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CLIENT),
		Name:      "Walk-in",
		BaseModel: types.GetDefaultBaseModel(ctx),
	})
	s.Require().NoError(err)

	created := s.createInvoice(&dto.CreateInvoiceRequest{
		ClientID: noEmail.ID,
		Items: []dto.InvoiceLineItemRequest{
			{Description: "One-off", Quantity: "1", UnitPrice: "10"},
		},
	})

	err = s.invoiceService.Send(ctx, created.ID, &dto.SendInvoiceRequest{})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *InvoiceServiceTestSuite) TestSend_CreatesShareToken() {
	created := s.createInvoice(s.basicCreateRequest())
	s.Empty(created.ShareToken)

	err := s.invoiceService.Send(s.GetContext(), created.ID, &dto.SendInvoiceRequest{})
	s.Require().NoError(err)

	after, err := s.invoiceService.Get(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.NotEmpty(after.ShareToken)
}

func (s *InvoiceServiceTestSuite) TestOverdueFlag() {
	past := time.Now().UTC().AddDate(0, 0, -30)
	due := past.AddDate(0, 0, 7)
	resp := s.createInvoice(&dto.CreateInvoiceRequest{
		ClientID:  s.testData.client.ID,
		IssueDate: &past,
		DueDate:   &due,
		Items: []dto.InvoiceLineItemRequest{
			{Description: "Old job", Quantity: "1", UnitPrice: "10"},
		},
	})
	s.True(resp.Overdue)
}
