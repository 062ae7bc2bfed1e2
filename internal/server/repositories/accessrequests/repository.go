// Package accessrequests persists guest access requests keyed by id.
package accessrequests

import (
	"context"

	"github.com/dmitrijs2005/guestwifi/internal/server/models"
)

// Repository stores access requests. Get returns common.ErrorNotFound when
// the id is unknown.
type Repository interface {
	Get(ctx context.Context, id string) (*models.AccessRequest, error)
	Put(ctx context.Context, r *models.AccessRequest) error
}
