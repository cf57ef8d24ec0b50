package firestore

import (
	"context"
	"time"

	fs "cloud.google.com/go/firestore"
	domainClient "github.com/billkazi/billkazi/internal/domain/client"
	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/logger"
	"github.com/billkazi/billkazi/internal/types"
	"google.golang.org/api/iterator"
)

type clientRepository struct {
	client *Client
	log    *logger.Logger
}

func NewClientRepository(client *Client, log *logger.Logger) domainClient.Repository {
	return &clientRepository{client: client, log: log}
}

type clientDoc struct {
	ID      string `firestore:"id"`
	Name    string `firestore:"name"`
	Email   string `firestore:"email"`
	Phone   string `firestore:"phone"`
	Address string `firestore:"address"`
	TaxID   string `firestore:"tax_id"`

	UserID    string    `firestore:"user_id"`
	Status    string    `firestore:"status"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func toClientDoc(c *domainClient.Client) *clientDoc {
	return &clientDoc{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		TaxID:     c.TaxID,
		UserID:    c.UserID,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func fromClientDoc(doc *clientDoc) *domainClient.Client {
	return &domainClient.Client{
		ID:      doc.ID,
		Name:    doc.Name,
		Email:   doc.Email,
		Phone:   doc.Phone,
		Address: doc.Address,
		TaxID:   doc.TaxID,
		BaseModel: types.BaseModel{
			UserID:    doc.UserID,
			Status:    types.Status(doc.Status),
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
		},
	}
}

func (r *clientRepository) Create(ctx context.Context, c *domainClient.Client) (*domainClient.Client, error) {
	r.log.Debugw("creating client", "client_id", c.ID, "user_id", c.UserID)

	if _, err := r.client.fs.Collection(clientsCollection).Doc(c.ID).Create(ctx, toClientDoc(c)); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to create client").
			WithReportableDetails(map[string]any{"client_id": c.ID}).
			Mark(ierr.ErrDatabase)
	}
	return c, nil
}

func (r *clientRepository) Get(ctx context.Context, id string) (*domainClient.Client, error) {
	snap, err := r.client.fs.Collection(clientsCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ierr.NewError("client not found").
				WithHint("Client not found").
				WithReportableDetails(map[string]any{"client_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get client").
			Mark(ierr.ErrDatabase)
	}

	var doc clientDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to decode client").
			Mark(ierr.ErrDatabase)
	}

	c := fromClientDoc(&doc)
	if c.UserID != types.GetUserID(ctx) || c.Status == types.StatusDeleted {
		return nil, ierr.NewError("client not found").
			WithHint("Client not found").
			WithReportableDetails(map[string]any{"client_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return c, nil
}

func (r *clientRepository) Update(ctx context.Context, c *domainClient.Client) (*domainClient.Client, error) {
	if _, err := r.Get(ctx, c.ID); err != nil {
		return nil, err
	}

	c.UpdatedAt = time.Now().UTC()
	if _, err := r.client.fs.Collection(clientsCollection).Doc(c.ID).Set(ctx, toClientDoc(c)); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to update client").
			WithReportableDetails(map[string]any{"client_id": c.ID}).
			Mark(ierr.ErrDatabase)
	}
	return c, nil
}

// Delete soft-deletes so invoices that snapshot this client keep resolving.
func (r *clientRepository) Delete(ctx context.Context, id string) error {
	c, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	c.Status = types.StatusDeleted
	c.UpdatedAt = time.Now().UTC()
	if _, err := r.client.fs.Collection(clientsCollection).Doc(id).Set(ctx, toClientDoc(c)); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete client").
			WithReportableDetails(map[string]any{"client_id": id}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// buildListQuery applies the owner scope and the optional name prefix
// filter. List and Count share it so pagination totals match the rows.
func (r *clientRepository) buildListQuery(ctx context.Context, filter *domainClient.Filter) fs.Query {
	query := r.client.fs.Collection(clientsCollection).
		Where("user_id", "==", types.GetUserID(ctx)).
		Where("status", "==", string(types.StatusPublished))

	if filter.Search != "" {
		// Prefix match on name; Firestore has no contains operator, so
		// bound the range just past the last possible prefix expansion.
		query = query.Where("name", ">=", filter.Search).
			Where("name", "<", filter.Search+"\uf8ff")
	}
	return query
}

func (r *clientRepository) List(ctx context.Context, filter *domainClient.Filter) ([]*domainClient.Client, error) {
	query := r.buildListQuery(ctx, filter)
	if filter.Search != "" {
		query = query.OrderBy("name", fs.Asc)
	} else {
		query = query.OrderBy("created_at", fs.Desc)
	}

	iter := query.
		Offset(filter.GetOffset()).
		Limit(filter.GetLimit()).
		Documents(ctx)
	defer iter.Stop()

	var clients []*domainClient.Client
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to list clients").
				Mark(ierr.ErrDatabase)
		}

		var doc clientDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to decode client").
				Mark(ierr.ErrDatabase)
		}
		clients = append(clients, fromClientDoc(&doc))
	}
	return clients, nil
}

func (r *clientRepository) Count(ctx context.Context, filter *domainClient.Filter) (int, error) {
	iter := r.buildListQuery(ctx, filter).
		Select().
		Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, ierr.WithError(err).
				WithHint("Failed to count clients").
				Mark(ierr.ErrDatabase)
		}
		count++
	}
	return count, nil
}
