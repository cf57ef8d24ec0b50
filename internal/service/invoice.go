package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/teris-io/shortid"

	"github.com/billkazi/billkazi/internal/api/dto"
	"github.com/billkazi/billkazi/internal/cache"
	domainInvoice "github.com/billkazi/billkazi/internal/domain/invoice"
	domainProduct "github.com/billkazi/billkazi/internal/domain/product"
	"github.com/billkazi/billkazi/internal/domain/user"
	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/pdf"
	"github.com/billkazi/billkazi/internal/types"
)

// InvoiceService issues invoices and drives everything derived from them:
// totals, numbering, share links, PDF export and sending.
type InvoiceService interface {
	Create(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	Get(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	List(ctx context.Context, filter *domainInvoice.Filter) (*dto.ListInvoicesResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error)
	Delete(ctx context.Context, id string) error

	UpdatePaymentStatus(ctx context.Context, id string, req *dto.UpdatePaymentStatusRequest) (*dto.InvoiceResponse, error)

	// Share ensures the invoice has a public token and returns the link.
	Share(ctx context.Context, id string) (*dto.ShareInvoiceResponse, error)
	// GetShared resolves a public share token without authentication.
	GetShared(ctx context.Context, token string) (*dto.PublicInvoiceResponse, error)

	RenderPDF(ctx context.Context, id string, template pdf.Template) ([]byte, string, error)
	RenderSharedPDF(ctx context.Context, token string, template pdf.Template) ([]byte, string, error)

	// Send emails the invoice to the billed client.
	Send(ctx context.Context, id string, req *dto.SendInvoiceRequest) error
}

type invoiceService struct {
	ServiceParams
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{ServiceParams: params}
}

func (s *invoiceService) Create(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	owner, err := s.UserRepo.Get(ctx, types.GetUserID(ctx))
	if err != nil {
		return nil, err
	}

	billed, err := s.ClientRepo.Get(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	items, err := s.resolveLineItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = owner.BusinessProfile.DefaultCurrency
	}
	if currency == "" {
		currency = "usd"
	}

	taxRate, err := s.resolveTaxRate(req.TaxRate, owner)
	if err != nil {
		return nil, err
	}

	issueDate := time.Now().UTC()
	if req.IssueDate != nil {
		issueDate = req.IssueDate.UTC()
	}
	dueDate := issueDate.AddDate(0, 0, s.Config.Invoice.DueDateDays)
	if req.DueDate != nil {
		dueDate = req.DueDate.UTC()
	}

	number, err := s.allocateNumber(ctx, owner.ID, issueDate)
	if err != nil {
		return nil, err
	}

	inv := &domainInvoice.Invoice{
		ID:     types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		Number: number,
		Client: domainInvoice.ClientSnapshot{
			ClientID: billed.ID,
			Name:     billed.Name,
			Email:    billed.Email,
			Address:  billed.Address,
			TaxID:    billed.TaxID,
		},
		Items:         items,
		Currency:      currency,
		TaxRate:       taxRate,
		PaymentStatus: types.PaymentStatusUnpaid,
		IssueDate:     issueDate,
		DueDate:       dueDate,
		Notes:         req.Notes,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
	if req.Discount != nil {
		inv.Discount = req.Discount.ToDiscount()
	}

	if err := inv.Validate(); err != nil {
		return nil, err
	}
	inv.RecomputeTotals()

	created, err := s.InvoiceRepo.Create(ctx, inv)
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("invoice created",
		"invoice_id", created.ID,
		"number", created.Number,
		"user_id", created.UserID,
		"total", created.Total)

	resp := dto.NewInvoiceResponse(created)
	return &resp, nil
}

func (s *invoiceService) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewInvoiceResponse(inv)
	return &resp, nil
}

func (s *invoiceService) List(ctx context.Context, filter *domainInvoice.Filter) (*dto.ListInvoicesResponse, error) {
	if filter == nil {
		filter = &domainInvoice.Filter{}
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListInvoicesResponse{
		Items: lo.Map(invoices, func(inv *domainInvoice.Invoice, _ int) dto.InvoiceResponse {
			return dto.NewInvoiceResponse(inv)
		}),
		Pagination: types.NewPaginationInfo(filter.GetLimit(), filter.GetOffset(), total),
	}, nil
}

func (s *invoiceService) Update(ctx context.Context, id string, req *dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	recompute := false
	if len(req.Items) > 0 {
		items, err := s.resolveLineItems(ctx, req.Items)
		if err != nil {
			return nil, err
		}
		inv.Items = items
		recompute = true
	}
	if req.TaxRate != nil {
		inv.TaxRate, _ = decimal.NewFromString(*req.TaxRate)
		recompute = true
	}
	if req.Discount != nil {
		inv.Discount = req.Discount.ToDiscount()
		recompute = true
	} else if req.ClearDiscount {
		inv.Discount = domainInvoice.Discount{}
		recompute = true
	}
	if req.IssueDate != nil {
		inv.IssueDate = req.IssueDate.UTC()
	}
	if req.DueDate != nil {
		inv.DueDate = req.DueDate.UTC()
	}
	if req.Notes != nil {
		inv.Notes = *req.Notes
	}
	if inv.DueDate.Before(inv.IssueDate) {
		return nil, ierr.NewError("due date cannot be before issue date").
			WithHint("Due date must be on or after the issue date").
			Mark(ierr.ErrValidation)
	}

	if err := inv.Validate(); err != nil {
		return nil, err
	}
	if recompute {
		inv.RecomputeTotals()
	}

	updated, err := s.InvoiceRepo.Update(ctx, inv)
	if err != nil {
		return nil, err
	}
	s.dropSharedCache(ctx, updated)

	resp := dto.NewInvoiceResponse(updated)
	return &resp, nil
}

func (s *invoiceService) Delete(ctx context.Context, id string) error {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	s.dropSharedCache(ctx, inv)
	return s.InvoiceRepo.Delete(ctx, id)
}

// dropSharedCache evicts the public-view cache entry so share links never
// serve a stale copy after a write. Called on every mutation of a shared
// invoice.
func (s *invoiceService) dropSharedCache(ctx context.Context, inv *domainInvoice.Invoice) {
	if inv.ShareToken != "" {
		s.Cache.Delete(ctx, shareCacheKey(inv.ShareToken))
	}
}

func (s *invoiceService) UpdatePaymentStatus(ctx context.Context, id string, req *dto.UpdatePaymentStatusRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	inv.PaymentStatus = req.PaymentStatus
	switch req.PaymentStatus {
	case types.PaymentStatusPaid:
		now := time.Now().UTC()
		inv.PaidAt = &now
	case types.PaymentStatusUnpaid:
		inv.PaidAt = nil
	}

	updated, err := s.InvoiceRepo.Update(ctx, inv)
	if err != nil {
		return nil, err
	}
	s.dropSharedCache(ctx, updated)

	s.Logger.Infow("invoice payment status updated",
		"invoice_id", updated.ID,
		"payment_status", updated.PaymentStatus)

	resp := dto.NewInvoiceResponse(updated)
	return &resp, nil
}

func (s *invoiceService) Share(ctx context.Context, id string) (*dto.ShareInvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.ShareToken == "" {
		token, err := shortid.Generate()
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to generate share token").
				Mark(ierr.ErrSystem)
		}
		inv.ShareToken = token
		if inv, err = s.InvoiceRepo.Update(ctx, inv); err != nil {
			return nil, err
		}
	}

	return &dto.ShareInvoiceResponse{
		ShareToken: inv.ShareToken,
		ShareURL:   s.shareURL(inv.ShareToken),
	}, nil
}

func (s *invoiceService) GetShared(ctx context.Context, token string) (*dto.PublicInvoiceResponse, error) {
	inv, owner, err := s.resolveShared(ctx, token)
	if err != nil {
		return nil, err
	}

	return &dto.PublicInvoiceResponse{
		Invoice: dto.NewInvoiceResponse(inv),
		Seller: dto.BusinessProfileResponse{
			CompanyName:     owner.BusinessProfile.CompanyName,
			Address:         owner.BusinessProfile.Address,
			Phone:           owner.BusinessProfile.Phone,
			TaxID:           owner.BusinessProfile.TaxID,
			LogoURL:         owner.BusinessProfile.LogoURL,
			DefaultCurrency: owner.BusinessProfile.DefaultCurrency,
			DefaultTaxRate:  owner.BusinessProfile.DefaultTaxRate,
		},
	}, nil
}

func (s *invoiceService) RenderPDF(ctx context.Context, id string, template pdf.Template) ([]byte, string, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	owner, err := s.UserRepo.Get(ctx, inv.UserID)
	if err != nil {
		return nil, "", err
	}
	return s.renderPDF(inv, owner, template)
}

func (s *invoiceService) RenderSharedPDF(ctx context.Context, token string, template pdf.Template) ([]byte, string, error) {
	inv, owner, err := s.resolveShared(ctx, token)
	if err != nil {
		return nil, "", err
	}
	return s.renderPDF(inv, owner, template)
}

func (s *invoiceService) Send(ctx context.Context, id string, req *dto.SendInvoiceRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	owner, err := s.UserRepo.Get(ctx, inv.UserID)
	if err != nil {
		return err
	}

	toAddress := req.To
	if toAddress == "" {
		toAddress = inv.Client.Email
	}
	if toAddress == "" {
		return ierr.NewError("no recipient email for invoice").
			WithHint("The client has no email on file; pass one explicitly").
			WithReportableDetails(map[string]any{"invoice_id": inv.ID}).
			Mark(ierr.ErrValidation)
	}

	// Sent invoices always carry a share link so the recipient can view
	// them without an account.
	if inv.ShareToken == "" {
		if _, err := s.Share(ctx, id); err != nil {
			return err
		}
		if inv, err = s.InvoiceRepo.Get(ctx, id); err != nil {
			return err
		}
	}

	var attachment []byte
	if req.AttachPDF {
		template, err := pdf.ParseTemplate(req.Template)
		if err != nil {
			return err
		}
		if attachment, _, err = s.renderPDF(inv, owner, template); err != nil {
			return err
		}
	}

	data := buildInvoiceEmailData(inv, owner, s.shareURL(inv.ShareToken))
	if err := s.Email.SendInvoice(ctx, toAddress, data, attachment); err != nil {
		return err
	}

	s.Logger.Infow("invoice sent",
		"invoice_id", inv.ID,
		"number", inv.Number,
		"to", toAddress,
		"attached_pdf", req.AttachPDF)
	return nil
}

// resolveLineItems turns request lines into domain lines, pulling defaults
// from the referenced catalog items.
func (s *invoiceService) resolveLineItems(ctx context.Context, reqItems []dto.InvoiceLineItemRequest) ([]domainInvoice.LineItem, error) {
	items := make([]domainInvoice.LineItem, 0, len(reqItems))
	for idx, ri := range reqItems {
		var prod *domainProduct.Product
		if ri.ProductID != "" {
			var err error
			if prod, err = s.ProductRepo.Get(ctx, ri.ProductID); err != nil {
				return nil, ierr.WithError(err).
					WithHintf("Line item %d references an unknown product", idx+1).
					Mark(ierr.ErrValidation)
			}
		}

		item := domainInvoice.LineItem{
			Description: ri.Description,
			Taxable:     true,
			ProductID:   ri.ProductID,
		}
		item.Quantity, _ = decimal.NewFromString(ri.Quantity)
		if ri.UnitPrice != "" {
			item.UnitPrice, _ = decimal.NewFromString(ri.UnitPrice)
		}

		if prod != nil {
			if item.Description == "" {
				item.Description = prod.Name
			}
			if ri.UnitPrice == "" {
				item.UnitPrice = prod.UnitPrice
			}
			item.Taxable = prod.Taxable
		}
		if ri.Taxable != nil {
			item.Taxable = *ri.Taxable
		}

		items = append(items, item)
	}
	return items, nil
}

func (s *invoiceService) resolveTaxRate(raw *string, owner *user.User) (decimal.Decimal, error) {
	if raw != nil {
		rate, err := decimal.NewFromString(*raw)
		if err != nil {
			return decimal.Zero, ierr.WithError(err).
				WithHint("Tax rate must be a decimal number").
				Mark(ierr.ErrValidation)
		}
		return rate, nil
	}
	if owner.BusinessProfile.DefaultTaxRate != "" {
		rate, err := decimal.NewFromString(owner.BusinessProfile.DefaultTaxRate)
		if err == nil && !rate.IsNegative() {
			return rate, nil
		}
		s.Logger.Warnw("ignoring invalid default tax rate on profile",
			"user_id", owner.ID,
			"default_tax_rate", owner.BusinessProfile.DefaultTaxRate)
	}
	return decimal.Zero, nil
}

// allocateNumber reserves the next sequence for the issue month and formats
// the invoice number. The sequence increment is transactional in storage, so
// two concurrent creates never share a number.
func (s *invoiceService) allocateNumber(ctx context.Context, userID string, issueDate time.Time) (string, error) {
	periodKey := types.InvoiceNumberPeriodKey(issueDate)
	seq, err := s.UserRepo.NextInvoiceNumber(ctx, userID, periodKey)
	if err != nil {
		return "", err
	}
	cfg := s.Config.Invoice
	return types.FormatInvoiceNumber(cfg.NumberPrefix, cfg.NumberSeparator, periodKey, seq, cfg.SuffixLength), nil
}

// resolveShared looks up a share token, caching hits briefly since public
// links get hammered by link previews and reloads.
func (s *invoiceService) resolveShared(ctx context.Context, token string) (*domainInvoice.Invoice, *user.User, error) {
	if token == "" {
		return nil, nil, ierr.NewError("share token is required").
			WithHint("The share link is malformed").
			Mark(ierr.ErrValidation)
	}

	var inv *domainInvoice.Invoice
	if cached, found := s.Cache.Get(ctx, shareCacheKey(token)); found {
		if v, ok := cache.UnmarshalCacheValue[domainInvoice.Invoice](cached); ok {
			inv = v
		}
	}
	if inv == nil {
		var err error
		if inv, err = s.InvoiceRepo.GetByShareToken(ctx, token); err != nil {
			return nil, nil, err
		}
		s.Cache.Set(ctx, shareCacheKey(token), *inv, cache.ExpiryShareLookup)
	}

	owner, err := s.UserRepo.Get(ctx, inv.UserID)
	if err != nil {
		return nil, nil, err
	}
	return inv, owner, nil
}

func (s *invoiceService) renderPDF(inv *domainInvoice.Invoice, owner *user.User, template pdf.Template) ([]byte, string, error) {
	doc, err := s.PDF.Render(inv, owner, template)
	if err != nil {
		return nil, "", err
	}
	return doc, fmt.Sprintf("%s.pdf", inv.Number), nil
}

func (s *invoiceService) shareURL(token string) string {
	return buildShareURL(s.Config.Server.PublicBaseURL, token)
}

// buildShareURL forms the public link for a share token.
func buildShareURL(publicBaseURL, token string) string {
	if token == "" {
		return ""
	}
	return fmt.Sprintf("%s/p/invoices/%s", strings.TrimSuffix(publicBaseURL, "/"), token)
}

func shareCacheKey(token string) string {
	return "invoice:share:" + token
}
