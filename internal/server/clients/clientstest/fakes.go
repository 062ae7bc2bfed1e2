// Package clientstest provides in-memory Controller and Messenger fakes.
package clientstest

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/guestwifi/internal/httpx"
	"github.com/dmitrijs2005/guestwifi/internal/server/clients"
	"github.com/dmitrijs2005/guestwifi/internal/server/clients/meraki"
	"github.com/dmitrijs2005/guestwifi/internal/server/clients/webex"
)

// APIError builds the error an upstream returns with the given status.
func APIError(status int, msg string) error {
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &httpx.APIError{StatusCode: status, Message: msg}
}

type AuthUserUpdate struct {
	ID  string
	Req meraki.UpdateAuthUserRequest
}

// FakeController keeps an organization inventory in memory. Error fields,
// when set, are returned by the matching call.
type FakeController struct {
	mu sync.Mutex

	Inventory map[string]*meraki.InventoryDevice

	InventoryErr      error
	ClaimOrgErr       error
	ClaimNetworkErr   error
	RemoveErr         error
	CreateAuthUserErr error
	UpdateAuthUserErr error

	// CreateAuthUserErrFor fails credential creation for one account type.
	CreateAuthUserErrFor map[string]error

	Calls   []string
	Created []meraki.CreateAuthUserRequest
	Updated []AuthUserUpdate
}

func NewFakeController() *FakeController {
	return &FakeController{Inventory: map[string]*meraki.InventoryDevice{}}
}

func (f *FakeController) record(call string) {
	f.Calls = append(f.Calls, call)
}

// CallLog returns a copy of the calls made so far.
func (f *FakeController) CallLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Calls...)
}

func (f *FakeController) GetOrganizationInventoryDevice(_ context.Context, _, serial string) (*meraki.InventoryDevice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("inventory:" + serial)
	if f.InventoryErr != nil {
		return nil, f.InventoryErr
	}
	d, ok := f.Inventory[serial]
	if !ok {
		return nil, APIError(http.StatusNotFound, "Invalid URL")
	}
	cp := *d
	return &cp, nil
}

func (f *FakeController) ClaimIntoOrganization(_ context.Context, _ string, serials []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range serials {
		f.record("claimOrg:" + s)
	}
	if f.ClaimOrgErr != nil {
		return f.ClaimOrgErr
	}
	for _, s := range serials {
		if _, ok := f.Inventory[s]; !ok {
			f.Inventory[s] = &meraki.InventoryDevice{Serial: s}
		}
	}
	return nil
}

func (f *FakeController) ClaimNetworkDevices(_ context.Context, networkID string, serials []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range serials {
		f.record("claimNetwork:" + s)
	}
	if f.ClaimNetworkErr != nil {
		return f.ClaimNetworkErr
	}
	for _, s := range serials {
		d, ok := f.Inventory[s]
		if !ok {
			d = &meraki.InventoryDevice{Serial: s}
			f.Inventory[s] = d
		}
		d.NetworkID = networkID
	}
	return nil
}

func (f *FakeController) RemoveNetworkDevice(_ context.Context, _, serial string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("remove:" + serial)
	if f.RemoveErr != nil {
		return f.RemoveErr
	}
	if d, ok := f.Inventory[serial]; ok {
		d.NetworkID = ""
	}
	return nil
}

func (f *FakeController) CreateNetworkMerakiAuthUser(_ context.Context, _ string, req meraki.CreateAuthUserRequest) (*meraki.AuthUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("createAuthUser:" + req.AccountType)
	if f.CreateAuthUserErr != nil {
		return nil, f.CreateAuthUserErr
	}
	if err := f.CreateAuthUserErrFor[req.AccountType]; err != nil {
		return nil, err
	}
	f.Created = append(f.Created, req)
	return &meraki.AuthUser{
		ID:             fmt.Sprintf("auth-%d", len(f.Created)),
		Email:          req.Email,
		Name:           req.Name,
		AccountType:    req.AccountType,
		Authorizations: req.Authorizations,
	}, nil
}

func (f *FakeController) UpdateNetworkMerakiAuthUser(_ context.Context, _, id string, req meraki.UpdateAuthUserRequest) (*meraki.AuthUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("updateAuthUser:" + id)
	if f.UpdateAuthUserErr != nil {
		return nil, f.UpdateAuthUserErr
	}
	f.Updated = append(f.Updated, AuthUserUpdate{ID: id, Req: req})
	return &meraki.AuthUser{ID: id, Authorizations: req.Authorizations}, nil
}

// FakeMessenger records messages and webhooks. Direct messages to an email
// listed in Unknown fail with 404, as for an address without an account.
type FakeMessenger struct {
	mu sync.Mutex

	Unknown map[string]bool
	Actions map[string]*webex.AttachmentAction

	MessageErr       error
	WebhookErr       error
	DeleteWebhookErr error

	Messages []webex.MessageRequest
	Webhooks []webex.WebhookRequest
	Deleted  []string

	// Events is the ordered log of side effects: "text:<email>",
	// "room:<roomId>", "webhook:<roomId>", "delete:<id>".
	Events []string
}

func NewFakeMessenger() *FakeMessenger {
	return &FakeMessenger{Unknown: map[string]bool{}, Actions: map[string]*webex.AttachmentAction{}}
}

// RoomFor is the room id the fake assigns to direct messages to email.
func RoomFor(email string) string { return "room-" + email }

func (f *FakeMessenger) EventLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Events...)
}

func (f *FakeMessenger) SentMessages() []webex.MessageRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]webex.MessageRequest(nil), f.Messages...)
}

func (f *FakeMessenger) CreateMessage(_ context.Context, req webex.MessageRequest) (*webex.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.MessageErr != nil {
		return nil, f.MessageErr
	}
	roomID := req.RoomID
	if req.ToPersonEmail != "" {
		if f.Unknown[req.ToPersonEmail] {
			return nil, APIError(http.StatusNotFound, "Failed to get person")
		}
		roomID = RoomFor(req.ToPersonEmail)
		f.Events = append(f.Events, "text:"+req.ToPersonEmail)
	} else {
		f.Events = append(f.Events, "room:"+req.RoomID)
	}
	f.Messages = append(f.Messages, req)
	return &webex.Message{ID: fmt.Sprintf("msg-%d", len(f.Messages)), RoomID: roomID}, nil
}

func (f *FakeMessenger) CreateWebhook(_ context.Context, req webex.WebhookRequest) (*webex.Webhook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.WebhookErr != nil {
		return nil, f.WebhookErr
	}
	f.Webhooks = append(f.Webhooks, req)
	f.Events = append(f.Events, "webhook:"+req.Filter)
	return &webex.Webhook{
		ID:        fmt.Sprintf("wh-%d", len(f.Webhooks)),
		Name:      req.Name,
		TargetURL: req.TargetURL,
		Resource:  req.Resource,
		Event:     req.Event,
		Filter:    req.Filter,
	}, nil
}

func (f *FakeMessenger) DeleteWebhook(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteWebhookErr != nil {
		return f.DeleteWebhookErr
	}
	f.Deleted = append(f.Deleted, id)
	f.Events = append(f.Events, "delete:"+id)
	return nil
}

func (f *FakeMessenger) GetAttachmentAction(_ context.Context, id string) (*webex.AttachmentAction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.Actions[id]
	if !ok {
		return nil, APIError(http.StatusNotFound, "")
	}
	cp := *a
	return &cp, nil
}

// Factory always hands out the same fakes.
type Factory struct {
	Meraki *FakeController
	Webex  *FakeMessenger
	Err    error
}

func NewFactory() *Factory {
	return &Factory{Meraki: NewFakeController(), Webex: NewFakeMessenger()}
}

func (f *Factory) Controller(context.Context) (clients.Controller, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Meraki, nil
}

func (f *Factory) Messenger(context.Context) (clients.Messenger, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Webex, nil
}

func (f *Factory) Clients(context.Context) (*clients.Set, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return &clients.Set{Controller: f.Meraki, Messenger: f.Webex}, nil
}
