package service

import (
	"github.com/billkazi/billkazi/internal/config"
	"github.com/billkazi/billkazi/internal/email"
	"github.com/billkazi/billkazi/internal/logger"
	"github.com/billkazi/billkazi/internal/pdf"
)

// newDisabledEmailService builds an email service whose client is disabled,
// so sends are logged and dropped instead of hitting the provider.
func newDisabledEmailService(log *logger.Logger) *email.Service {
	cfg := config.GetDefaultConfig()
	cfg.Email.Enabled = false
	return email.NewService(email.NewEmailClient(cfg, log), log)
}

func newTestPDFRenderer(log *logger.Logger) *pdf.Renderer {
	return pdf.NewRenderer(log)
}
