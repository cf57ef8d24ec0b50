// Package api wires the HTTP surface: middleware, route groups and handler
// registration.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/billkazi/billkazi/internal/api/cron"
	v1 "github.com/billkazi/billkazi/internal/api/v1"
	"github.com/billkazi/billkazi/internal/auth"
	"github.com/billkazi/billkazi/internal/config"
	"github.com/billkazi/billkazi/internal/logger"
	"github.com/billkazi/billkazi/internal/rest/middleware"
	"github.com/billkazi/billkazi/internal/service"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth     *v1.AuthHandler
	Client   *v1.ClientHandler
	Product  *v1.ProductHandler
	Invoice  *v1.InvoiceHandler
	Public   *v1.PublicHandler
	Settings *v1.SettingsHandler

	ReminderCron *cron.ReminderCronHandler
}

// NewHandlers builds the handler set from the service layer.
func NewHandlers(params service.ServiceParams) Handlers {
	log := params.Logger
	return Handlers{
		Auth:         v1.NewAuthHandler(service.NewAuthService(params), log),
		Client:       v1.NewClientHandler(service.NewClientService(params), log),
		Product:      v1.NewProductHandler(service.NewProductService(params), log),
		Invoice:      v1.NewInvoiceHandler(service.NewInvoiceService(params), log),
		Public:       v1.NewPublicHandler(service.NewInvoiceService(params), log),
		Settings:     v1.NewSettingsHandler(service.NewUserService(params), log),
		ReminderCron: cron.NewReminderCronHandler(service.NewReminderService(params), log),
	}
}

// NewRouter assembles the gin engine with the full middleware chain and all
// route groups.
func NewRouter(handlers Handlers, cfg *config.Configuration, authService *auth.Service, log *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode == config.ModeProd {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.LoggingMiddleware(log),
		middleware.ErrorHandlerMiddleware(log),
	)

	router.GET("/health", v1.Health)

	// Public share-link routes, no auth.
	public := router.Group("/p")
	{
		public.GET("/invoices/:token", handlers.Public.GetInvoice)
		public.GET("/invoices/:token/pdf", handlers.Public.GetInvoicePDF)
	}

	api := router.Group("/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", handlers.Auth.Signup)
		authGroup.POST("/login", handlers.Auth.Login)
	}

	private := api.Group("")
	private.Use(
		middleware.AuthenticateMiddleware(authService),
		middleware.SentryUserContextMiddleware,
	)
	{
		clients := private.Group("/clients")
		{
			clients.POST("", handlers.Client.Create)
			clients.GET("", handlers.Client.List)
			clients.GET("/:id", handlers.Client.Get)
			clients.PUT("/:id", handlers.Client.Update)
			clients.DELETE("/:id", handlers.Client.Delete)
		}

		products := private.Group("/products")
		{
			products.POST("", handlers.Product.Create)
			products.GET("", handlers.Product.List)
			products.GET("/:id", handlers.Product.Get)
			products.PUT("/:id", handlers.Product.Update)
			products.DELETE("/:id", handlers.Product.Delete)
		}

		invoices := private.Group("/invoices")
		{
			invoices.POST("", handlers.Invoice.Create)
			invoices.GET("", handlers.Invoice.List)
			invoices.GET("/:id", handlers.Invoice.Get)
			invoices.PUT("/:id", handlers.Invoice.Update)
			invoices.DELETE("/:id", handlers.Invoice.Delete)
			invoices.PUT("/:id/payment-status", handlers.Invoice.UpdatePaymentStatus)
			invoices.POST("/:id/share", handlers.Invoice.Share)
			invoices.POST("/:id/send", handlers.Invoice.Send)
			invoices.GET("/:id/pdf", handlers.Invoice.PDF)
		}

		settings := private.Group("/settings")
		{
			settings.GET("/profile", handlers.Settings.GetProfile)
			settings.PUT("/profile", handlers.Settings.UpdateProfile)
			settings.POST("/logo", handlers.Settings.UploadLogo)
		}
	}

	cronGroup := api.Group("/cron")
	cronGroup.Use(middleware.CronAuthMiddleware(cfg.Auth.CronAPIKey))
	{
		cronGroup.POST("/invoices/reminders", handlers.ReminderCron.SendReminders)
	}

	return router
}
