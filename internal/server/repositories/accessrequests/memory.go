package accessrequests

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/guestwifi/internal/common"
	"github.com/dmitrijs2005/guestwifi/internal/server/models"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]models.AccessRequest
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: map[string]models.AccessRequest{}}
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*models.AccessRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ar, ok := r.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &ar, nil
}

func (r *MemoryRepository) Put(_ context.Context, ar *models.AccessRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[ar.ID] = *ar
	return nil
}
