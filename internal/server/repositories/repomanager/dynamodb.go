package repomanager

import (
	"github.com/dmitrijs2005/guestwifi/internal/server/repositories/accessrequests"
	"github.com/dmitrijs2005/guestwifi/internal/server/repositories/devices"
	"github.com/dmitrijs2005/guestwifi/internal/server/repositories/dynamo"
	"github.com/dmitrijs2005/guestwifi/internal/server/repositories/users"
)

// Tables names the DynamoDB table behind each record kind.
type Tables struct {
	Devices        string
	Users          string
	AccessRequests string
}

type DynamoRepositoryManager struct {
	devices        devices.Repository
	users          users.Repository
	accessRequests accessrequests.Repository
}

func NewDynamoRepositoryManager(api dynamo.API, t Tables) *DynamoRepositoryManager {
	return &DynamoRepositoryManager{
		devices:        devices.NewDynamoRepository(api, t.Devices),
		users:          users.NewDynamoRepository(api, t.Users),
		accessRequests: accessrequests.NewDynamoRepository(api, t.AccessRequests),
	}
}

func (m *DynamoRepositoryManager) Devices() devices.Repository { return m.devices }

func (m *DynamoRepositoryManager) Users() users.Repository { return m.users }

func (m *DynamoRepositoryManager) AccessRequests() accessrequests.Repository {
	return m.accessRequests
}

func (m *DynamoRepositoryManager) Close() error { return nil }
