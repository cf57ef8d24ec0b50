// Package firestore implements the domain repositories over Google Cloud
// Firestore. Monetary fields are stored as decimal strings and mapped back to
// shopspring decimals at the repository boundary so no floating point ever
// touches an amount.
package firestore

import (
	"context"

	fs "cloud.google.com/go/firestore"
	"github.com/billkazi/billkazi/internal/config"
	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/logger"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	usersCollection    = "users"
	clientsCollection  = "clients"
	productsCollection = "products"
	invoicesCollection = "invoices"
)

// Client wraps the Firestore SDK client shared by all repositories.
type Client struct {
	fs  *fs.Client
	log *logger.Logger
}

func NewClient(ctx context.Context, cfg *config.Configuration, log *logger.Logger) (*Client, error) {
	var opts []option.ClientOption
	if cfg.Firestore.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firestore.CredentialsFile))
	}

	client, err := fs.NewClient(ctx, cfg.Firestore.ProjectID, opts...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to connect to the document store").
			Mark(ierr.ErrDatabase)
	}

	return &Client{fs: client, log: log}, nil
}

func (c *Client) Close() error {
	return c.fs.Close()
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
