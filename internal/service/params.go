// Package service provides the business logic for the BillKazi API.
package service

import (
	"github.com/billkazi/billkazi/internal/auth"
	"github.com/billkazi/billkazi/internal/cache"
	"github.com/billkazi/billkazi/internal/config"
	"github.com/billkazi/billkazi/internal/domain/client"
	"github.com/billkazi/billkazi/internal/domain/invoice"
	"github.com/billkazi/billkazi/internal/domain/product"
	"github.com/billkazi/billkazi/internal/domain/user"
	"github.com/billkazi/billkazi/internal/email"
	"github.com/billkazi/billkazi/internal/logger"
	"github.com/billkazi/billkazi/internal/pdf"
	"github.com/billkazi/billkazi/internal/storage"
)

// ServiceParams bundles the dependencies shared by all services so
// constructors stay short and wiring stays in one place.
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	UserRepo    user.Repository
	ClientRepo  client.Repository
	ProductRepo product.Repository
	InvoiceRepo invoice.Repository

	Auth  *auth.Service
	Email *email.Service
	PDF   *pdf.Renderer
	Cache cache.Cache

	// Storage is nil when no object store is configured; logo upload is
	// rejected in that case.
	Storage *storage.Client
}
