package accessrequests

import (
	"context"

	"github.com/dmitrijs2005/guestwifi/internal/common"
	"github.com/dmitrijs2005/guestwifi/internal/server/models"
	"github.com/dmitrijs2005/guestwifi/internal/server/repositories/dynamo"
)

const keyAttr = "id"

type DynamoRepository struct {
	api   dynamo.API
	table string
}

func NewDynamoRepository(api dynamo.API, table string) *DynamoRepository {
	return &DynamoRepository{api: api, table: table}
}

func (r *DynamoRepository) Get(ctx context.Context, id string) (*models.AccessRequest, error) {
	var ar models.AccessRequest
	found, err := dynamo.Get(ctx, r.api, r.table, dynamo.Key(keyAttr, id), &ar)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, common.ErrorNotFound
	}
	return &ar, nil
}

func (r *DynamoRepository) Put(ctx context.Context, ar *models.AccessRequest) error {
	return dynamo.Put(ctx, r.api, r.table, ar)
}
