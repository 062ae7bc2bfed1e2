package devices

import (
	"context"

	"github.com/dmitrijs2005/guestwifi/internal/common"
	"github.com/dmitrijs2005/guestwifi/internal/server/models"
	"github.com/dmitrijs2005/guestwifi/internal/server/repositories/dynamo"
)

const keyAttr = "serial"

type DynamoRepository struct {
	api   dynamo.API
	table string
}

func NewDynamoRepository(api dynamo.API, table string) *DynamoRepository {
	return &DynamoRepository{api: api, table: table}
}

func (r *DynamoRepository) Get(ctx context.Context, serial string) (*models.Device, error) {
	var d models.Device
	found, err := dynamo.Get(ctx, r.api, r.table, dynamo.Key(keyAttr, serial), &d)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, common.ErrorNotFound
	}
	return &d, nil
}

func (r *DynamoRepository) Put(ctx context.Context, device *models.Device) error {
	return dynamo.Put(ctx, r.api, r.table, device)
}

func (r *DynamoRepository) Delete(ctx context.Context, serial string) error {
	return dynamo.Delete(ctx, r.api, r.table, dynamo.Key(keyAttr, serial))
}
