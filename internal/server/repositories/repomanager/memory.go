package repomanager

import (
	"github.com/dmitrijs2005/guestwifi/internal/server/repositories/accessrequests"
	"github.com/dmitrijs2005/guestwifi/internal/server/repositories/devices"
	"github.com/dmitrijs2005/guestwifi/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps every record in process memory. Used for
// development and tests.
type MemoryRepositoryManager struct {
	devices        *devices.MemoryRepository
	users          *users.MemoryRepository
	accessRequests *accessrequests.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		devices:        devices.NewMemoryRepository(),
		users:          users.NewMemoryRepository(),
		accessRequests: accessrequests.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Devices() devices.Repository { return m.devices }

func (m *MemoryRepositoryManager) Users() users.Repository { return m.users }

func (m *MemoryRepositoryManager) AccessRequests() accessrequests.Repository {
	return m.accessRequests
}

func (m *MemoryRepositoryManager) Close() error { return nil }
