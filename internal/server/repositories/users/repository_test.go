package users

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/guestwifi/internal/common"
	"github.com/dmitrijs2005/guestwifi/internal/server/models"
	"github.com/dmitrijs2005/guestwifi/internal/server/repositories/dynamo/dynamotest"
)

func sampleUser() *models.User {
	return &models.User{
		Email:             "guest@example.com",
		FirstName:         "Ada",
		LastName:          "Lovelace",
		Company:           "Analytical Engines",
		Devices:           models.NewSerialSet("Q2AB-CDEF-GHIJ"),
		WebexRoomID:       "room-1",
		MerakiAuthUserIDs: map[string]string{"0": "auth-1", "1": "auth-2"},
		AccessRequestID:   "req-1",
		Secret:            "sec",
		Password:          "pw",
	}
}

func TestRepositories_RoundTrip(t *testing.T) {
	impls := map[string]func() Repository{
		"memory": func() Repository { return NewMemoryRepository() },
		"dynamodb": func() Repository {
			return NewDynamoRepository(dynamotest.New(map[string]string{"users": "email"}), "users")
		},
	}

	for name, newRepo := range impls {
		t.Run(name, func(t *testing.T) {
			repo := newRepo()
			ctx := context.Background()

			_, err := repo.Get(ctx, "guest@example.com")
			assert.True(t, errors.Is(err, common.ErrorNotFound))

			want := sampleUser()
			require.NoError(t, repo.Put(ctx, want))

			stored, err := repo.Get(ctx, "guest@example.com")
			require.NoError(t, err)

			got := &models.User{Email: stored.Email, Devices: models.NewSerialSet(), MerakiAuthUserIDs: map[string]string{}}
			got.Overlay(stored)
			assert.Equal(t, want, got)
			assert.Nil(t, stored.WebexWebhookID, "empty fields are stored as absent")
		})
	}
}

func TestDynamoRepository_LegacyItem(t *testing.T) {
	api := dynamotest.New(map[string]string{"users": "email"})
	api.SetItem("users", map[string]types.AttributeValue{
		"email":   &types.AttributeValueMemberS{Value: "host@example.com"},
		"devices": &types.AttributeValueMemberL{Value: []types.AttributeValue{&types.AttributeValueMemberS{Value: "S1"}}},
	})

	stored, err := NewDynamoRepository(api, "users").Get(context.Background(), "host@example.com")
	require.NoError(t, err)

	assert.Equal(t, []string{"S1"}, stored.Devices)
	assert.Nil(t, stored.AccessRequestID)
	assert.Nil(t, stored.Secret)
	assert.Nil(t, stored.MerakiAuthUserIDs)
}

func TestMemoryRepository_IsolatesCopies(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	u := sampleUser()
	require.NoError(t, repo.Put(ctx, u))
	u.MerakiAuthUserIDs["9"] = "later"

	stored, err := repo.Get(ctx, u.Email)
	require.NoError(t, err)
	stored.MerakiAuthUserIDs["8"] = "mutated"

	again, err := repo.Get(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"0": "auth-1", "1": "auth-2"}, again.MerakiAuthUserIDs)
}
