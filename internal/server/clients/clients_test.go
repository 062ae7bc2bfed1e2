package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/guestwifi/internal/common"
	"github.com/dmitrijs2005/guestwifi/internal/server/clients/webex"
	"github.com/dmitrijs2005/guestwifi/internal/server/secrets"
)

func TestSecretFactory_PassesCredentials(t *testing.T) {
	var merakiKey, webexAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if k := r.Header.Get("X-Cisco-Meraki-API-Key"); k != "" {
			merakiKey = k
		}
		if a := r.Header.Get("Authorization"); a != "" {
			webexAuth = a
		}
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	f := NewSecretFactory(secrets.Static{"mk": "meraki-key", "wx": "webex-token"}, FactoryOptions{
		MerakiKeyName: "mk", WebexTokenName: "wx", MerakiBaseURL: srv.URL, WebexBaseURL: srv.URL, Doer: srv.Client(),
	})
	ctx := context.Background()

	set, err := f.Clients(ctx)
	require.NoError(t, err)
	require.NoError(t, set.Controller.ClaimIntoOrganization(ctx, "org", []string{"S"}))
	_, err = set.Messenger.CreateMessage(ctx, webex.MessageRequest{ToPersonEmail: "a@example.com", Text: "x"})
	require.NoError(t, err)

	assert.Equal(t, "meraki-key", merakiKey)
	assert.Equal(t, "Bearer webex-token", webexAuth)

	_, err = f.Controller(ctx)
	require.NoError(t, err)
	_, err = f.Messenger(ctx)
	require.NoError(t, err)
}

func TestSecretFactory_MissingSecretIsInternal(t *testing.T) {
	f := NewSecretFactory(secrets.Static{}, FactoryOptions{MerakiKeyName: "mk", WebexTokenName: "wx"})

	_, err := f.Clients(context.Background())
	assert.True(t, common.IsKind(err, common.KindInternal))

	_, err = f.Controller(context.Background())
	assert.True(t, common.IsKind(err, common.KindInternal))
}
