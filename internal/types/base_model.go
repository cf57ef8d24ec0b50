package types

import (
	"context"
	"time"
)

// BaseModel carries the fields shared by every persisted record. UserID is
// the owning tenant: every query is scoped by it.
type BaseModel struct {
	UserID    string    `firestore:"user_id" json:"user_id"`
	Status    Status    `firestore:"status" json:"status"`
	CreatedAt time.Time `firestore:"created_at" json:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at" json:"updated_at"`
}

// GetDefaultBaseModel seeds a BaseModel for a new record owned by the
// authenticated user on the context.
func GetDefaultBaseModel(ctx context.Context) BaseModel {
	now := time.Now().UTC()
	return BaseModel{
		UserID:    GetUserID(ctx),
		Status:    StatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
