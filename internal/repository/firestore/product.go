package firestore

import (
	"context"
	"time"

	fs "cloud.google.com/go/firestore"
	domainProduct "github.com/billkazi/billkazi/internal/domain/product"
	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/logger"
	"github.com/billkazi/billkazi/internal/types"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"
)

type productRepository struct {
	client *Client
	log    *logger.Logger
}

func NewProductRepository(client *Client, log *logger.Logger) domainProduct.Repository {
	return &productRepository{client: client, log: log}
}

type productDoc struct {
	ID          string `firestore:"id"`
	Name        string `firestore:"name"`
	Description string `firestore:"description"`
	// UnitPrice is stored as a decimal string to avoid float drift.
	UnitPrice string `firestore:"unit_price"`
	Taxable   bool   `firestore:"taxable"`

	UserID    string    `firestore:"user_id"`
	Status    string    `firestore:"status"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func toProductDoc(p *domainProduct.Product) *productDoc {
	return &productDoc{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		UnitPrice:   p.UnitPrice.String(),
		Taxable:     p.Taxable,
		UserID:      p.UserID,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func fromProductDoc(doc *productDoc) (*domainProduct.Product, error) {
	unitPrice, err := decimal.NewFromString(doc.UnitPrice)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Stored unit price is corrupt").
			WithReportableDetails(map[string]any{"product_id": doc.ID}).
			Mark(ierr.ErrDatabase)
	}

	return &domainProduct.Product{
		ID:          doc.ID,
		Name:        doc.Name,
		Description: doc.Description,
		UnitPrice:   unitPrice,
		Taxable:     doc.Taxable,
		BaseModel: types.BaseModel{
			UserID:    doc.UserID,
			Status:    types.Status(doc.Status),
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
		},
	}, nil
}

func (r *productRepository) Create(ctx context.Context, p *domainProduct.Product) (*domainProduct.Product, error) {
	r.log.Debugw("creating product", "product_id", p.ID, "user_id", p.UserID)

	if _, err := r.client.fs.Collection(productsCollection).Doc(p.ID).Create(ctx, toProductDoc(p)); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to create product").
			WithReportableDetails(map[string]any{"product_id": p.ID}).
			Mark(ierr.ErrDatabase)
	}
	return p, nil
}

func (r *productRepository) Get(ctx context.Context, id string) (*domainProduct.Product, error) {
	snap, err := r.client.fs.Collection(productsCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ierr.NewError("product not found").
				WithHint("Product not found").
				WithReportableDetails(map[string]any{"product_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get product").
			Mark(ierr.ErrDatabase)
	}

	var doc productDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to decode product").
			Mark(ierr.ErrDatabase)
	}

	p, err := fromProductDoc(&doc)
	if err != nil {
		return nil, err
	}
	if p.UserID != types.GetUserID(ctx) || p.Status == types.StatusDeleted {
		return nil, ierr.NewError("product not found").
			WithHint("Product not found").
			WithReportableDetails(map[string]any{"product_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

func (r *productRepository) Update(ctx context.Context, p *domainProduct.Product) (*domainProduct.Product, error) {
	if _, err := r.Get(ctx, p.ID); err != nil {
		return nil, err
	}

	p.UpdatedAt = time.Now().UTC()
	if _, err := r.client.fs.Collection(productsCollection).Doc(p.ID).Set(ctx, toProductDoc(p)); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to update product").
			WithReportableDetails(map[string]any{"product_id": p.ID}).
			Mark(ierr.ErrDatabase)
	}
	return p, nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	p, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	p.Status = types.StatusDeleted
	p.UpdatedAt = time.Now().UTC()
	if _, err := r.client.fs.Collection(productsCollection).Doc(id).Set(ctx, toProductDoc(p)); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete product").
			WithReportableDetails(map[string]any{"product_id": id}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// buildListQuery scopes to the owner and applies the optional name
// prefix filter, shared with Count.
func (r *productRepository) buildListQuery(ctx context.Context, filter *domainProduct.Filter) fs.Query {
	query := r.client.fs.Collection(productsCollection).
		Where("user_id", "==", types.GetUserID(ctx)).
		Where("status", "==", string(types.StatusPublished))

	if filter.Search != "" {
		query = query.Where("name", ">=", filter.Search).
			Where("name", "<", filter.Search+"\uf8ff")
	}
	return query
}

func (r *productRepository) List(ctx context.Context, filter *domainProduct.Filter) ([]*domainProduct.Product, error) {
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

	var products []*domainProduct.Product
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to list products").
				Mark(ierr.ErrDatabase)
		}

		var doc productDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to decode product").
				Mark(ierr.ErrDatabase)
		}

		p, err := fromProductDoc(&doc)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *productRepository) Count(ctx context.Context, filter *domainProduct.Filter) (int, error) {
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
				WithHint("Failed to count products").
				Mark(ierr.ErrDatabase)
		}
		count++
	}
	return count, nil
}
