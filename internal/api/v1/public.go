package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/logger"
	"github.com/billkazi/billkazi/internal/pdf"
	"github.com/billkazi/billkazi/internal/service"
)

// PublicHandler serves the unauthenticated share-link views. Routes here are
// reachable by anyone holding a valid token.
type PublicHandler struct {
	service service.InvoiceService
	log     *logger.Logger
}

func NewPublicHandler(service service.InvoiceService, log *logger.Logger) *PublicHandler {
	return &PublicHandler{service: service, log: log}
}

// @Summary View a shared invoice
// @Description Resolve a share token to the invoice and seller details
// @Tags Public
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} dto.PublicInvoiceResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /p/invoices/{token} [get]
func (h *PublicHandler) GetInvoice(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.Error(shareTokenRequired())
		return
	}

	resp, err := h.service.GetShared(c.Request.Context(), token)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Download a shared invoice PDF
// @Tags Public
// @Produce application/pdf
// @Param token path string true "Share token"
// @Param template query string false "PDF template (classic|modern|elegant)"
// @Success 200 {file} binary
// @Failure 404 {object} ierr.ErrorResponse
// @Router /p/invoices/{token}/pdf [get]
func (h *PublicHandler) GetInvoicePDF(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.Error(shareTokenRequired())
		return
	}

	template, err := pdf.ParseTemplate(c.Query("template"))
	if err != nil {
		c.Error(err)
		return
	}

	doc, filename, err := h.service.RenderSharedPDF(c.Request.Context(), token, template)
	if err != nil {
		h.log.Errorw("failed to render shared invoice pdf", "error", err)
		c.Error(err)
		return
	}

	writePDF(c, doc, filename)
}

func shareTokenRequired() error {
	return ierr.NewError("share token is required").
		WithHint("The share link is malformed").
		Mark(ierr.ErrValidation)
}
