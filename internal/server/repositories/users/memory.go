package users

import (
	"context"
	"maps"
	"sync"

	"github.com/dmitrijs2005/guestwifi/internal/common"
	"github.com/dmitrijs2005/guestwifi/internal/server/models"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]*models.StoredUser
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: map[string]*models.StoredUser{}}
}

func (r *MemoryRepository) Get(_ context.Context, email string) (*models.StoredUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.items[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(u), nil
}

func (r *MemoryRepository) Put(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[user.Email] = user.Stored()
	return nil
}

// Seed stores a raw record, which may have absent fields.
func (r *MemoryRepository) Seed(u *models.StoredUser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[u.Email] = clone(u)
}

func clone(u *models.StoredUser) *models.StoredUser {
	cp := *u
	if u.Devices != nil {
		cp.Devices = append([]string{}, u.Devices...)
	}
	cp.MerakiAuthUserIDs = maps.Clone(u.MerakiAuthUserIDs)
	return &cp
}
