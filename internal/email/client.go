package email

import (
	"context"
	"fmt"

	"github.com/billkazi/billkazi/internal/config"
	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/logger"
	"github.com/cenkalti/backoff/v4"
	"github.com/resend/resend-go/v2"
)

// EmailClient wraps the Resend SDK. When disabled by config every send is a
// logged no-op, which keeps local development from needing an API key.
type EmailClient struct {
	client *resend.Client
	cfg    config.EmailConfig
	log    *logger.Logger
}

func NewEmailClient(cfg *config.Configuration, log *logger.Logger) *EmailClient {
	var client *resend.Client
	if cfg.Email.Enabled && cfg.Email.APIKey != "" {
		client = resend.NewClient(cfg.Email.APIKey)
	}
	return &EmailClient{client: client, cfg: cfg.Email, log: log}
}

func (c *EmailClient) IsEnabled() bool {
	return c.client != nil
}

type SendRequest struct {
	ToAddress  string
	Subject    string
	HTML       string
	Attachment *Attachment
}

type Attachment struct {
	Filename string
	Content  []byte
}

// Send delivers one email, retrying transient provider failures with capped
// exponential backoff.
func (c *EmailClient) Send(ctx context.Context, req SendRequest) error {
	if !c.IsEnabled() {
		c.log.Warnw("email client is disabled, skipping send",
			"to", req.ToAddress,
			"subject", req.Subject,
		)
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.cfg.FromName, c.cfg.FromAddress),
		To:      []string{req.ToAddress},
		Subject: req.Subject,
		Html:    req.HTML,
	}
	if req.Attachment != nil {
		params.Attachments = []*resend.Attachment{
			{
				Filename: req.Attachment.Filename,
				Content:  req.Attachment.Content,
			},
		}
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	operation := func() error {
		_, err := c.client.Emails.SendWithContext(ctx, params)
		return err
	}

	if err := backoff.Retry(operation, policy); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to send email").
			WithReportableDetails(map[string]any{"to": req.ToAddress}).
			Mark(ierr.ErrHTTPClient)
	}

	c.log.Infow("email sent", "to", req.ToAddress, "subject", req.Subject)
	return nil
}
