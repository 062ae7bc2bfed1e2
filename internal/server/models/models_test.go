package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialSet(t *testing.T) {
	s := NewSerialSet("B", "A", "A")

	assert.Equal(t, []string{"A", "B"}, s.Sorted())
	assert.False(t, s.Add("A"), "duplicate add is a no-op")
	assert.True(t, s.Add("C"))
	assert.True(t, s.Remove("B"))
	assert.False(t, s.Remove("B"))
	assert.True(t, s.Has("C"))
	assert.Equal(t, []string{}, NewSerialSet().Sorted())

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["A","C"]`, string(b))

	var back SerialSet
	require.NoError(t, json.Unmarshal([]byte(`["X","X","Y"]`), &back))
	assert.Equal(t, NewSerialSet("X", "Y"), back)
}

func TestUser_OverlayKeepsDefaultsForAbsentFields(t *testing.T) {
	u := &User{
		Email:             "guest@example.com",
		Devices:           NewSerialSet(),
		MerakiAuthUserIDs: map[string]string{},
		AccessRequestID:   "fresh-id",
		Secret:            "fresh-secret",
		Password:          "fresh-pass",
	}

	room := "room-1"
	empty := ""
	u.Overlay(&StoredUser{
		Email:           "guest@example.com",
		WebexRoomID:     &room,
		AccessRequestID: &empty,
		Devices:         []string{"S1"},
	})

	assert.Equal(t, "room-1", u.WebexRoomID)
	assert.Equal(t, "fresh-id", u.AccessRequestID, "empty stored value must not clobber default")
	assert.Equal(t, "fresh-secret", u.Secret)
	assert.Equal(t, "fresh-pass", u.Password)
	assert.True(t, u.Devices.Has("S1"))
	assert.Equal(t, map[string]string{}, u.MerakiAuthUserIDs)
}

func TestUser_StoredRoundTrip(t *testing.T) {
	u := &User{
		Email:             "guest@example.com",
		FirstName:         "Ada",
		LastName:          "Lovelace",
		Devices:           NewSerialSet("S2", "S1"),
		MerakiAuthUserIDs: map[string]string{"0": "auth-1"},
		AccessRequestID:   "req-1",
		Secret:            "sec",
	}

	s := u.Stored()
	assert.Equal(t, []string{"S1", "S2"}, s.Devices)
	assert.Nil(t, s.Company)
	assert.Nil(t, s.Password)

	back := &User{Email: u.Email, Devices: NewSerialSet(), MerakiAuthUserIDs: map[string]string{}}
	back.Overlay(s)
	assert.Equal(t, u, back)

	// the stored copy does not alias the working copy
	s.MerakiAuthUserIDs["1"] = "auth-2"
	assert.NotContains(t, u.MerakiAuthUserIDs, "1")
}

func TestUser_FullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&User{FirstName: "Ada", LastName: "Lovelace"}).FullName())
	assert.Equal(t, "Ada", (&User{FirstName: "Ada"}).FullName())
	assert.Equal(t, "Lovelace", (&User{LastName: "Lovelace"}).FullName())
}
