// Package repomanager vends the record store repositories for the configured
// backend.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/guestwifi/internal/server/awsx"
	"github.com/dmitrijs2005/guestwifi/internal/server/config"
	"github.com/dmitrijs2005/guestwifi/internal/server/repositories/accessrequests"
	"github.com/dmitrijs2005/guestwifi/internal/server/repositories/devices"
	"github.com/dmitrijs2005/guestwifi/internal/server/repositories/users"
)

type RepositoryManager interface {
	Devices() devices.Repository
	Users() users.Repository
	AccessRequests() accessrequests.Repository
	Close() error
}

// New selects the manager for cfg.StoreBackend. The Postgres backend runs
// migrations before returning.
func New(ctx context.Context, cfg *config.Config) (RepositoryManager, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return NewMemoryRepositoryManager(), nil
	case config.StoreDynamoDB:
		awsCfg, err := awsx.LoadConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("aws config: %w", err)
		}
		client := awsx.NewDynamoDBClient(awsCfg, cfg.AWSEndpoint)
		return NewDynamoRepositoryManager(client, Tables{
			Devices:        cfg.DevicesTable,
			Users:          cfg.UsersTable,
			AccessRequests: cfg.AccessRequestsTable,
		}), nil
	case config.StorePostgres:
		return NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
