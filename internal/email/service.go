package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/logger"
)

// emailTemplates stores email templates as string constants
var emailTemplates = map[string]string{
	"invoice.html": `<!DOCTYPE html>
<html>
<head>
    <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
    <title>Invoice {{.Number}}</title>
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; font-size: 14px; line-height: 1.6; color: #333;">
    <p>Hi {{.ClientName}},</p>
    <p>{{.CompanyName}} has sent you invoice <strong>{{.Number}}</strong>.</p>

    <table style="border-collapse: collapse; width: 100%; max-width: 560px;">
        <thead>
            <tr style="border-bottom: 2px solid #333;">
                <th style="text-align: left; padding: 6px 8px;">Description</th>
                <th style="text-align: right; padding: 6px 8px;">Qty</th>
                <th style="text-align: right; padding: 6px 8px;">Unit Price</th>
                <th style="text-align: right; padding: 6px 8px;">Amount</th>
            </tr>
        </thead>
        <tbody>
            {{range .Items}}
            <tr style="border-bottom: 1px solid #ddd;">
                <td style="padding: 6px 8px;">{{.Description}}</td>
                <td style="text-align: right; padding: 6px 8px;">{{.Quantity}}</td>
                <td style="text-align: right; padding: 6px 8px;">{{.UnitPrice}}</td>
                <td style="text-align: right; padding: 6px 8px;">{{.Amount}}</td>
            </tr>
            {{end}}
        </tbody>
        <tfoot>
            <tr><td colspan="3" style="text-align: right; padding: 4px 8px;">Subtotal</td><td style="text-align: right; padding: 4px 8px;">{{.Subtotal}}</td></tr>
            {{if .Discount}}<tr><td colspan="3" style="text-align: right; padding: 4px 8px;">Discount</td><td style="text-align: right; padding: 4px 8px;">−{{.Discount}}</td></tr>{{end}}
            <tr><td colspan="3" style="text-align: right; padding: 4px 8px;">Net</td><td style="text-align: right; padding: 4px 8px;">{{.NetAmount}}</td></tr>
            <tr><td colspan="3" style="text-align: right; padding: 4px 8px;">Tax ({{.TaxRate}}%)</td><td style="text-align: right; padding: 4px 8px;">{{.Tax}}</td></tr>
            <tr style="border-top: 2px solid #333;"><td colspan="3" style="text-align: right; padding: 6px 8px;"><strong>Total</strong></td><td style="text-align: right; padding: 6px 8px;"><strong>{{.Total}}</strong></td></tr>
        </tfoot>
    </table>

    <p>Due date: <strong>{{.DueDate}}</strong></p>
    {{if .ShareURL}}<p>You can view this invoice online: <a href="{{.ShareURL}}">{{.ShareURL}}</a></p>{{end}}

    <p>Best regards,<br/>{{.CompanyName}}</p>
</body>
</html>`,

	"payment-reminder.html": `<!DOCTYPE html>
<html>
<head>
    <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
    <title>Payment reminder for invoice {{.Number}}</title>
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; font-size: 14px; line-height: 1.6; color: #333;">
    <p>Hi {{.ClientName}},</p>
    <p>This is a friendly reminder that invoice <strong>{{.Number}}</strong> from {{.CompanyName}}
    for <strong>{{.Total}}</strong> was due on <strong>{{.DueDate}}</strong> and is still unpaid.</p>

    {{if .ShareURL}}<p>You can view the invoice online: <a href="{{.ShareURL}}">{{.ShareURL}}</a></p>{{end}}

    <p>If you have already paid, please disregard this message.</p>

    <p>Best regards,<br/>{{.CompanyName}}</p>
</body>
</html>`,
}

// EmailItemView is one pre-formatted invoice line in an email body.
type EmailItemView struct {
	Description string
	Quantity    string
	UnitPrice   string
	Amount      string
}

// InvoiceEmailData carries the persisted, pre-formatted invoice values into
// the templates. All amounts come from the stored invoice; nothing is
// recomputed here.
type InvoiceEmailData struct {
	Number      string
	CompanyName string
	ClientName  string
	Items       []EmailItemView
	Subtotal    string
	Discount    string
	NetAmount   string
	TaxRate     string
	Tax         string
	Total       string
	DueDate     string
	ShareURL    string
}

// Service renders and sends the transactional emails.
type Service struct {
	client *EmailClient
	log    *logger.Logger
}

func NewService(client *EmailClient, log *logger.Logger) *Service {
	return &Service{client: client, log: log}
}

func (s *Service) render(templateName string, data InvoiceEmailData) (string, error) {
	source, ok := emailTemplates[templateName]
	if !ok {
		return "", ierr.NewErrorf("unknown email template %s", templateName).
			Mark(ierr.ErrInternal)
	}

	tmpl, err := template.New(templateName).Parse(source)
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to parse email template").
			Mark(ierr.ErrInternal)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to render email template").
			Mark(ierr.ErrInternal)
	}
	return buf.String(), nil
}

// SendInvoice emails the invoice to the client, optionally attaching the
// rendered PDF.
func (s *Service) SendInvoice(ctx context.Context, toAddress string, data InvoiceEmailData, pdf []byte) error {
	html, err := s.render("invoice.html", data)
	if err != nil {
		return err
	}

	req := SendRequest{
		ToAddress: toAddress,
		Subject:   fmt.Sprintf("Invoice %s from %s", data.Number, data.CompanyName),
		HTML:      html,
	}
	if len(pdf) > 0 {
		req.Attachment = &Attachment{
			Filename: fmt.Sprintf("%s.pdf", data.Number),
			Content:  pdf,
		}
	}
	return s.client.Send(ctx, req)
}

// SendPaymentReminder emails a reminder for an overdue invoice.
func (s *Service) SendPaymentReminder(ctx context.Context, toAddress string, data InvoiceEmailData) error {
	html, err := s.render("payment-reminder.html", data)
	if err != nil {
		return err
	}

	return s.client.Send(ctx, SendRequest{
		ToAddress: toAddress,
		Subject:   fmt.Sprintf("Payment reminder: invoice %s is overdue", data.Number),
		HTML:      html,
	})
}
