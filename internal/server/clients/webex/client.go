// Package webex is a minimal client for the Webex messaging API: direct and
// room messages, attachment-action webhooks and their payloads.
package webex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/guestwifi/internal/httpx"
)

const DefaultBaseURL = "https://webexapis.com/v1"

type Attachment struct {
	ContentType string `json:"contentType"`
	Content     any    `json:"content"`
}

// MessageRequest addresses either a person by email or an existing room.
type MessageRequest struct {
	RoomID        string       `json:"roomId,omitempty"`
	ToPersonEmail string       `json:"toPersonEmail,omitempty"`
	Text          string       `json:"text,omitempty"`
	Markdown      string       `json:"markdown,omitempty"`
	Attachments   []Attachment `json:"attachments,omitempty"`
}

type Message struct {
	ID       string `json:"id"`
	RoomID   string `json:"roomId"`
	RoomType string `json:"roomType,omitempty"`
	PersonID string `json:"personId,omitempty"`
}

type WebhookRequest struct {
	Name      string `json:"name"`
	TargetURL string `json:"targetUrl"`
	Resource  string `json:"resource"`
	Event     string `json:"event"`
	Filter    string `json:"filter,omitempty"`
	Secret    string `json:"secret,omitempty"`
}

type Webhook struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TargetURL string `json:"targetUrl"`
	Resource  string `json:"resource"`
	Event     string `json:"event"`
	Filter    string `json:"filter,omitempty"`
}

// AttachmentAction is a submitted card. Inputs carries the submit data.
type AttachmentAction struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	MessageID string         `json:"messageId"`
	PersonID  string         `json:"personId"`
	RoomID    string         `json:"roomId"`
	Inputs    map[string]any `json:"inputs"`
}

type Client struct {
	api *httpx.Client
}

// NewClient builds a client authenticated with a bearer token.
func NewClient(token, baseURL string, doer httpx.Doer) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{api: httpx.NewClient(httpx.Options{
		BaseURL:      baseURL,
		Doer:         doer,
		Headers:      map[string]string{"Authorization": "Bearer " + token},
		ErrorMessage: errorMessage,
	})}
}

func errorMessage(_ int, body []byte) string {
	var v struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return ""
	}
	return v.Message
}

func (c *Client) CreateMessage(ctx context.Context, req MessageRequest) (*Message, error) {
	var out Message
	if err := c.api.Call(ctx, http.MethodPost, "/messages", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateWebhook(ctx context.Context, req WebhookRequest) (*Webhook, error) {
	var out Webhook
	if err := c.api.Call(ctx, http.MethodPost, "/webhooks", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteWebhook(ctx context.Context, id string) error {
	return c.api.Call(ctx, http.MethodDelete, "/webhooks/"+url.PathEscape(id), nil, nil)
}

func (c *Client) GetAttachmentAction(ctx context.Context, id string) (*AttachmentAction, error) {
	var out AttachmentAction
	if err := c.api.Call(ctx, http.MethodGet, "/attachment/actions/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
