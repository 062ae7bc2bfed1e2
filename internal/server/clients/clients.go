// Package clients defines the upstream capabilities the reconcilers depend
// on and builds them per request from freshly resolved credentials.
package clients

import (
	"context"

	"github.com/dmitrijs2005/guestwifi/internal/common"
	"github.com/dmitrijs2005/guestwifi/internal/httpx"
	"github.com/dmitrijs2005/guestwifi/internal/server/clients/meraki"
	"github.com/dmitrijs2005/guestwifi/internal/server/clients/webex"
	"github.com/dmitrijs2005/guestwifi/internal/server/secrets"
)

// Controller is the network controller: device inventory and guest
// credentials. *meraki.Client implements it.
type Controller interface {
	GetOrganizationInventoryDevice(ctx context.Context, organizationID, serial string) (*meraki.InventoryDevice, error)
	ClaimIntoOrganization(ctx context.Context, organizationID string, serials []string) error
	ClaimNetworkDevices(ctx context.Context, networkID string, serials []string) error
	RemoveNetworkDevice(ctx context.Context, networkID, serial string) error
	CreateNetworkMerakiAuthUser(ctx context.Context, networkID string, req meraki.CreateAuthUserRequest) (*meraki.AuthUser, error)
	UpdateNetworkMerakiAuthUser(ctx context.Context, networkID, authUserID string, req meraki.UpdateAuthUserRequest) (*meraki.AuthUser, error)
}

// Messenger is the messaging platform. *webex.Client implements it.
type Messenger interface {
	CreateMessage(ctx context.Context, req webex.MessageRequest) (*webex.Message, error)
	CreateWebhook(ctx context.Context, req webex.WebhookRequest) (*webex.Webhook, error)
	DeleteWebhook(ctx context.Context, id string) error
	GetAttachmentAction(ctx context.Context, id string) (*webex.AttachmentAction, error)
}

type Set struct {
	Controller Controller
	Messenger  Messenger
}

// Factory hands out upstream clients scoped to one request.
type Factory interface {
	Controller(ctx context.Context) (Controller, error)
	Messenger(ctx context.Context) (Messenger, error)
	Clients(ctx context.Context) (*Set, error)
}

type FactoryOptions struct {
	MerakiKeyName  string
	WebexTokenName string
	MerakiBaseURL  string
	WebexBaseURL   string
	Doer           httpx.Doer
}

// SecretFactory resolves credentials through a secrets.Provider on every
// call and passes them to the client constructors.
type SecretFactory struct {
	secrets secrets.Provider
	opts    FactoryOptions
}

func NewSecretFactory(p secrets.Provider, opts FactoryOptions) *SecretFactory {
	return &SecretFactory{secrets: p, opts: opts}
}

func (f *SecretFactory) Controller(ctx context.Context) (Controller, error) {
	values, err := f.secrets.Get(ctx, f.opts.MerakiKeyName)
	if err != nil {
		return nil, common.Internal(err)
	}
	return meraki.NewClient(values[f.opts.MerakiKeyName], f.opts.MerakiBaseURL, f.opts.Doer), nil
}

func (f *SecretFactory) Messenger(ctx context.Context) (Messenger, error) {
	values, err := f.secrets.Get(ctx, f.opts.WebexTokenName)
	if err != nil {
		return nil, common.Internal(err)
	}
	return webex.NewClient(values[f.opts.WebexTokenName], f.opts.WebexBaseURL, f.opts.Doer), nil
}

func (f *SecretFactory) Clients(ctx context.Context) (*Set, error) {
	values, err := f.secrets.Get(ctx, f.opts.MerakiKeyName, f.opts.WebexTokenName)
	if err != nil {
		return nil, common.Internal(err)
	}
	return &Set{
		Controller: meraki.NewClient(values[f.opts.MerakiKeyName], f.opts.MerakiBaseURL, f.opts.Doer),
		Messenger:  webex.NewClient(values[f.opts.WebexTokenName], f.opts.WebexBaseURL, f.opts.Doer),
	}, nil
}
