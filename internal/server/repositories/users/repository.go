// Package users persists user records keyed by email.
package users

import (
	"context"

	"github.com/dmitrijs2005/guestwifi/internal/server/models"
)

// Repository stores users. Get returns the record as persisted, with
// absent fields left nil, or common.ErrorNotFound.
type Repository interface {
	Get(ctx context.Context, email string) (*models.StoredUser, error)
	Put(ctx context.Context, user *models.User) error
}
