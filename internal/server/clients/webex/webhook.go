package webex

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

const (
	ResourceAttachmentActions = "attachmentActions"
	EventCreated              = "created"

	// SignatureHeader carries the hex HMAC-SHA1 of the raw body keyed with
	// the webhook secret.
	SignatureHeader = "X-Spark-Signature"
)

// WebhookEvent is the notification Webex posts to a webhook target.
type WebhookEvent struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Resource string           `json:"resource"`
	Event    string           `json:"event"`
	Filter   string           `json:"filter,omitempty"`
	Data     WebhookEventData `json:"data"`
}

type WebhookEventData struct {
	ID       string `json:"id"`
	RoomID   string `json:"roomId"`
	PersonID string `json:"personId"`
}

// Sign returns the signature Webex would send for body.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature matches body under secret.
func VerifySignature(body []byte, secret, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	want := Sign(body, secret)
	return hmac.Equal([]byte(want), []byte(strings.ToLower(signature)))
}

// RoomFilter is the webhook filter restricting events to one room.
func RoomFilter(roomID string) string {
	return "roomId=" + roomID
}
