// Package events publishes domain events (enrolments, access decisions) to
// NATS so other systems can follow the onboarding flow.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const (
	DeviceEnrolled        = "device.enrolled"
	DeviceUnenrolled      = "device.unenrolled"
	AccessRequestCreated  = "accessrequest.created"
	AccessRequestAccepted = "accessrequest.accepted"
	AccessRequestDeclined = "accessrequest.declined"
)

const source = "guestwifi/server"

// Event is the envelope every message is published in.
type Event struct {
	ID      string    `json:"id"`
	Source  string    `json:"source"`
	Type    string    `json:"type"`
	Subject string    `json:"subject"`
	Time    time.Time `json:"time"`
	Data    any       `json:"data"`
}

type Publisher interface {
	Publish(ctx context.Context, eventType string, data any) error
	Close()
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close()                                     {}

type conn interface {
	Publish(subject string, data []byte) error
	Close()
}

// NATSPublisher publishes events on <prefix>.<type>.
type NATSPublisher struct {
	nc     conn
	prefix string
	now    func() time.Time
}

// Connect dials url and returns a publisher for subjects under prefix.
func Connect(url, prefix string, opts ...nats.Option) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return newNATSPublisher(nc, prefix), nil
}

func newNATSPublisher(nc conn, prefix string) *NATSPublisher {
	return &NATSPublisher{nc: nc, prefix: prefix, now: time.Now}
}

func (p *NATSPublisher) Publish(ctx context.Context, eventType string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject := eventType
	if p.prefix != "" {
		subject = p.prefix + "." + eventType
	}
	event := Event{
		ID:      uuid.NewString(),
		Source:  source,
		Type:    eventType,
		Subject: subject,
		Time:    p.now().UTC(),
		Data:    data,
	}

	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}
	if err := p.nc.Publish(subject, b); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}

func (p *NATSPublisher) Close() { p.nc.Close() }

// DeviceData is the payload of device events.
type DeviceData struct {
	Serial string `json:"serial"`
	Email  string `json:"email"`
}

// AccessRequestData is the payload of access request events.
type AccessRequestData struct {
	ID         string `json:"id"`
	HostEmail  string `json:"hostEmail"`
	GuestEmail string `json:"guestEmail"`
	Duration   string `json:"duration,omitempty"`
}
