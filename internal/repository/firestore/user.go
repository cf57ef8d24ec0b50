package firestore

import (
	"context"
	"time"

	fs "cloud.google.com/go/firestore"
	domainUser "github.com/billkazi/billkazi/internal/domain/user"
	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/logger"
	"github.com/billkazi/billkazi/internal/types"
	"google.golang.org/api/iterator"
)

type userRepository struct {
	client *Client
	log    *logger.Logger
}

func NewUserRepository(client *Client, log *logger.Logger) domainUser.Repository {
	return &userRepository{client: client, log: log}
}

// userDoc is the Firestore shape of a user record.
type userDoc struct {
	ID              string                     `firestore:"id"`
	Email           string                     `firestore:"email"`
	PasswordHash    string                     `firestore:"password_hash"`
	Name            string                     `firestore:"name"`
	BusinessProfile domainUser.BusinessProfile `firestore:"business_profile"`
	InvoiceCounters map[string]int             `firestore:"invoice_counters"`
	Status          string                     `firestore:"status"`
	CreatedAt       time.Time                  `firestore:"created_at"`
	UpdatedAt       time.Time                  `firestore:"updated_at"`
}

func toUserDoc(u *domainUser.User) *userDoc {
	return &userDoc{
		ID:              u.ID,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		Name:            u.Name,
		BusinessProfile: u.BusinessProfile,
		InvoiceCounters: u.InvoiceCounters,
		Status:          string(u.Status),
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func fromUserDoc(doc *userDoc) *domainUser.User {
	return &domainUser.User{
		ID:              doc.ID,
		Email:           doc.Email,
		PasswordHash:    doc.PasswordHash,
		Name:            doc.Name,
		BusinessProfile: doc.BusinessProfile,
		InvoiceCounters: doc.InvoiceCounters,
		BaseModel: types.BaseModel{
			UserID:    doc.ID,
			Status:    types.Status(doc.Status),
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
		},
	}
}

func (r *userRepository) Create(ctx context.Context, u *domainUser.User) (*domainUser.User, error) {
	r.log.Debugw("creating user", "user_id", u.ID, "email", u.Email)

	existing, err := r.GetByEmail(ctx, u.Email)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, ierr.NewError("email already registered").
			WithHint("An account with this email already exists").
			WithReportableDetails(map[string]any{"email": u.Email}).
			Mark(ierr.ErrAlreadyExists)
	}

	if _, err := r.client.fs.Collection(usersCollection).Doc(u.ID).Create(ctx, toUserDoc(u)); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to create user").
			Mark(ierr.ErrDatabase)
	}
	return u, nil
}

func (r *userRepository) Get(ctx context.Context, id string) (*domainUser.User, error) {
	snap, err := r.client.fs.Collection(usersCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ierr.NewError("user not found").
				WithHint("User not found").
				WithReportableDetails(map[string]any{"user_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get user").
			Mark(ierr.ErrDatabase)
	}

	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to decode user").
			Mark(ierr.ErrDatabase)
	}
	return fromUserDoc(&doc), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domainUser.User, error) {
	iter := r.client.fs.Collection(usersCollection).
		Where("email", "==", email).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, ierr.NewError("user not found").
			WithHint("No account with this email").
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to look up user by email").
			Mark(ierr.ErrDatabase)
	}

	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to decode user").
			Mark(ierr.ErrDatabase)
	}
	return fromUserDoc(&doc), nil
}

func (r *userRepository) Update(ctx context.Context, u *domainUser.User) (*domainUser.User, error) {
	u.UpdatedAt = time.Now().UTC()
	if _, err := r.client.fs.Collection(usersCollection).Doc(u.ID).Set(ctx, toUserDoc(u)); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to update user").
			Mark(ierr.ErrDatabase)
	}
	return u, nil
}

// NextInvoiceNumber increments the per-period counter inside a transaction.
// Firestore transactions retry on contention, so two concurrent invoice
// creations for the same user serialize and get distinct sequences.
func (r *userRepository) NextInvoiceNumber(ctx context.Context, userID, periodKey string) (int, error) {
	ref := r.client.fs.Collection(usersCollection).Doc(userID)

	var next int
	err := r.client.fs.RunTransaction(ctx, func(ctx context.Context, tx *fs.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}

		var doc userDoc
		if err := snap.DataTo(&doc); err != nil {
			return err
		}

		next = doc.InvoiceCounters[periodKey] + 1
		return tx.Update(ref, []fs.Update{
			{Path: "invoice_counters." + periodKey, Value: next},
			{Path: "updated_at", Value: time.Now().UTC()},
		})
	})
	if err != nil {
		if isNotFound(err) {
			return 0, ierr.NewError("user not found").
				WithHint("User not found").
				WithReportableDetails(map[string]any{"user_id": userID}).
				Mark(ierr.ErrNotFound)
		}
		return 0, ierr.WithError(err).
			WithHint("Failed to allocate invoice number").
			Mark(ierr.ErrDatabase)
	}

	r.log.Debugw("allocated invoice number",
		"user_id", userID,
		"period_key", periodKey,
		"sequence", next,
	)
	return next, nil
}

func (r *userRepository) ListIDs(ctx context.Context) ([]string, error) {
	iter := r.client.fs.Collection(usersCollection).
		Where("status", "==", string(types.StatusPublished)).
		Select("id").
		Documents(ctx)
	defer iter.Stop()

	var ids []string
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to list users").
				Mark(ierr.ErrDatabase)
		}
		ids = append(ids, snap.Ref.ID)
	}
	return ids, nil
}
