// Package meraki is a minimal client for the Meraki Dashboard API calls the
// server needs: inventory and network device management, and per-network
// auth users.
package meraki

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/guestwifi/internal/httpx"
)

const DefaultBaseURL = "https://api.meraki.com/api/v1"

const apiKeyHeader = "X-Cisco-Meraki-API-Key"

// InventoryDevice is an organization inventory entry. NetworkID is empty
// when the device is not assigned to a network.
type InventoryDevice struct {
	Serial    string `json:"serial"`
	Mac       string `json:"mac,omitempty"`
	Model     string `json:"model,omitempty"`
	Name      string `json:"name,omitempty"`
	NetworkID string `json:"networkId,omitempty"`
}

type Authorization struct {
	SSIDNumber int    `json:"ssidNumber"`
	ExpiresAt  string `json:"expiresAt"`
}

// AuthUser is a network-scoped Meraki auth user, i.e. a guest credential.
type AuthUser struct {
	ID             string          `json:"id"`
	Email          string          `json:"email"`
	Name           string          `json:"name"`
	AccountType    string          `json:"accountType"`
	Authorizations []Authorization `json:"authorizations"`
}

type CreateAuthUserRequest struct {
	Email               string          `json:"email"`
	Name                string          `json:"name"`
	Password            string          `json:"password"`
	AccountType         string          `json:"accountType"`
	EmailPasswordToUser bool            `json:"emailPasswordToUser"`
	Authorizations      []Authorization `json:"authorizations"`
}

type UpdateAuthUserRequest struct {
	Password            string          `json:"password"`
	EmailPasswordToUser bool            `json:"emailPasswordToUser"`
	Authorizations      []Authorization `json:"authorizations"`
}

type Client struct {
	api *httpx.Client
}

// NewClient builds a client authenticated with apiKey. doer is typically
// an httpx.RetryDoer.
func NewClient(apiKey, baseURL string, doer httpx.Doer) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{api: httpx.NewClient(httpx.Options{
		BaseURL:      baseURL,
		Doer:         doer,
		Headers:      map[string]string{apiKeyHeader: apiKey},
		ErrorMessage: errorMessage,
	})}
}

// errorMessage returns the first entry of the "errors" array. A bare 404
// means the URL (organization, network or serial) does not exist.
func errorMessage(status int, body []byte) string {
	var v struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(body, &v); err == nil && len(v.Errors) > 0 {
		return v.Errors[0]
	}
	if status == http.StatusNotFound {
		return "Invalid URL"
	}
	return ""
}

func (c *Client) GetOrganizationInventoryDevice(ctx context.Context, organizationID, serial string) (*InventoryDevice, error) {
	var out InventoryDevice
	path := "/organizations/" + url.PathEscape(organizationID) + "/inventoryDevices/" + url.PathEscape(serial)
	if err := c.api.Call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ClaimIntoOrganization(ctx context.Context, organizationID string, serials []string) error {
	path := "/organizations/" + url.PathEscape(organizationID) + "/claim"
	return c.api.Call(ctx, http.MethodPost, path, map[string][]string{"serials": serials}, nil)
}

func (c *Client) ClaimNetworkDevices(ctx context.Context, networkID string, serials []string) error {
	path := "/networks/" + url.PathEscape(networkID) + "/devices/claim"
	return c.api.Call(ctx, http.MethodPost, path, map[string][]string{"serials": serials}, nil)
}

func (c *Client) RemoveNetworkDevice(ctx context.Context, networkID, serial string) error {
	path := "/networks/" + url.PathEscape(networkID) + "/devices/remove"
	return c.api.Call(ctx, http.MethodPost, path, map[string]string{"serial": serial}, nil)
}

func (c *Client) CreateNetworkMerakiAuthUser(ctx context.Context, networkID string, req CreateAuthUserRequest) (*AuthUser, error) {
	var out AuthUser
	path := "/networks/" + url.PathEscape(networkID) + "/merakiAuthUsers"
	if err := c.api.Call(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateNetworkMerakiAuthUser(ctx context.Context, networkID, authUserID string, req UpdateAuthUserRequest) (*AuthUser, error) {
	var out AuthUser
	path := "/networks/" + url.PathEscape(networkID) + "/merakiAuthUsers/" + url.PathEscape(authUserID)
	if err := c.api.Call(ctx, http.MethodPut, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
