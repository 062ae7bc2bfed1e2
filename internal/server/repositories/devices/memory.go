package devices

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/guestwifi/internal/common"
	"github.com/dmitrijs2005/guestwifi/internal/server/models"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]models.Device
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: map[string]models.Device{}}
}

func (r *MemoryRepository) Get(_ context.Context, serial string) (*models.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.items[serial]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &d, nil
}

func (r *MemoryRepository) Put(_ context.Context, device *models.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[device.Serial] = *device
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, serial string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, serial)
	return nil
}
