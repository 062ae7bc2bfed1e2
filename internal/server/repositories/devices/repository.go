// Package devices persists device enrollments keyed by serial.
package devices

import (
	"context"

	"github.com/dmitrijs2005/guestwifi/internal/server/models"
)

// Repository stores devices. Get returns common.ErrorNotFound when the
// serial is unknown.
type Repository interface {
	Get(ctx context.Context, serial string) (*models.Device, error)
	Put(ctx context.Context, device *models.Device) error
	Delete(ctx context.Context, serial string) error
}
