package dynamo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/guestwifi/internal/server/models"
	"github.com/dmitrijs2005/guestwifi/internal/server/repositories/dynamo"
	"github.com/dmitrijs2005/guestwifi/internal/server/repositories/dynamo/dynamotest"
)

func TestPutGetDelete(t *testing.T) {
	api := dynamotest.New(map[string]string{"devices": "serial"})
	ctx := context.Background()

	require.NoError(t, dynamo.Put(ctx, api, "devices", &models.Device{Serial: "S1", Email: "a@example.com"}))

	var got models.Device
	found, err := dynamo.Get(ctx, api, "devices", dynamo.Key("serial", "S1"), &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, models.Device{Serial: "S1", Email: "a@example.com"}, got)

	require.NoError(t, dynamo.Delete(ctx, api, "devices", dynamo.Key("serial", "S1")))
	found, err = dynamo.Get(ctx, api, "devices", dynamo.Key("serial", "S1"), &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, dynamo.Delete(ctx, api, "devices", dynamo.Key("serial", "S1")), "deleting a missing item is fine")
}

func TestGet_PartialItemLeavesFieldsAbsent(t *testing.T) {
	api := dynamotest.New(map[string]string{"users": "email"})
	api.SetItem("users", map[string]types.AttributeValue{
		"email":       &types.AttributeValueMemberS{Value: "guest@example.com"},
		"webexRoomId": &types.AttributeValueMemberS{Value: "room-1"},
	})

	var got models.StoredUser
	found, err := dynamo.Get(context.Background(), api, "users", dynamo.Key("email", "guest@example.com"), &got)

	require.NoError(t, err)
	require.True(t, found)
	require.NotNil(t, got.WebexRoomID)
	assert.Equal(t, "room-1", *got.WebexRoomID)
	assert.Nil(t, got.AccessRequestID)
	assert.Nil(t, got.Secret)
	assert.Nil(t, got.Devices)
	assert.Nil(t, got.MerakiAuthUserIDs)
}

func TestErrorsAreWrapped(t *testing.T) {
	boom := errors.New("throttled")
	api := dynamotest.New(map[string]string{"devices": "serial"})
	api.Err = boom
	ctx := context.Background()

	var got models.Device
	_, err := dynamo.Get(ctx, api, "devices", dynamo.Key("serial", "S1"), &got)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, dynamo.Put(ctx, api, "devices", &models.Device{Serial: "S1"}), boom)
	assert.ErrorIs(t, dynamo.Delete(ctx, api, "devices", dynamo.Key("serial", "S1")), boom)
}
