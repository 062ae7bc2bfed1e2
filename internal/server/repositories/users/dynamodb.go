package users

import (
	"context"

	"github.com/dmitrijs2005/guestwifi/internal/common"
	"github.com/dmitrijs2005/guestwifi/internal/server/models"
	"github.com/dmitrijs2005/guestwifi/internal/server/repositories/dynamo"
)

const keyAttr = "email"

type DynamoRepository struct {
	api   dynamo.API
	table string
}

func NewDynamoRepository(api dynamo.API, table string) *DynamoRepository {
	return &DynamoRepository{api: api, table: table}
}

func (r *DynamoRepository) Get(ctx context.Context, email string) (*models.StoredUser, error) {
	var u models.StoredUser
	found, err := dynamo.Get(ctx, r.api, r.table, dynamo.Key(keyAttr, email), &u)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *DynamoRepository) Put(ctx context.Context, user *models.User) error {
	return dynamo.Put(ctx, r.api, r.table, user.Stored())
}
