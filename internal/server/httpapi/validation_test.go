package httpapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/guestwifi/internal/common"
)

func TestValidateRequest_Device(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name string
		req  deviceRequest
		want []common.InvalidParam
	}{
		{"valid", deviceRequest{Serial: "Q2AB-1234-zz9Z", Email: "a@b.com"}, nil},
		{"short serial", deviceRequest{Serial: "Q2AB-1234", Email: "a@b.com"},
			[]common.InvalidParam{{Param: "serial", Msg: "Invalid serial number"}}},
		{"empty fields", deviceRequest{},
			[]common.InvalidParam{{Param: "serial", Msg: "Must not be empty"}, {Param: "email", Msg: "Must not be empty"}}},
		{"bad email", deviceRequest{Serial: "Q2AB-1234-ZZ9Z", Email: "a@"},
			[]common.InvalidParam{{Param: "email", Msg: "Invalid email address"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRequest(v, tt.req)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			e := common.AsError(err)
			require.NotNil(t, e)
			assert.Equal(t, common.KindValidation, e.Kind)
			assert.Equal(t, tt.want, e.InvalidParams)
		})
	}
}

func TestValidateRequest_CheckIn(t *testing.T) {
	v := newValidator()

	ok := checkInRequest{
		FirstName:    "Zoë",
		LastName:     "Brontë",
		GuestEmail:   "zoe@example.com",
		Organization: "Analytical Engines",
		HostEmail:    "host@example.com",
	}
	assert.NoError(t, validateRequest(v, ok))

	bad := ok
	bad.FirstName = "Zoe 2"
	bad.Organization = "  "
	bad.HostEmail = "host"

	e := common.AsError(validateRequest(v, bad))
	require.NotNil(t, e)
	assert.Equal(t, []common.InvalidParam{
		{Param: "firstName", Msg: "Must contain letters only"},
		{Param: "organization", Msg: "Must not be empty"},
		{Param: "hostEmail", Msg: "Invalid email address"},
	}, e.InvalidParams)
}
