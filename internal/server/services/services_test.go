package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/guestwifi/internal/server/clients/clientstest"
	"github.com/dmitrijs2005/guestwifi/internal/server/config"
	"github.com/dmitrijs2005/guestwifi/internal/server/models"
	"github.com/dmitrijs2005/guestwifi/internal/server/repositories/repomanager"
)

const (
	serial     = "AAAA-BBBB-CCCC"
	ownerEmail = "guest@x.com"
	hostEmail  = "host@example.com"
	guestEmail = "visitor@example.com"
	networkID  = "N_1"
	targetURL  = "https://guestwifi.example.com/webhooks/webex"
)

var fixedNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu    sync.Mutex
	types []string
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, eventType)
	return nil
}

func (p *recordingPublisher) Close() {}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.types...)
}

type env struct {
	repos   *repomanager.MemoryRepositoryManager
	clients *clientstest.Factory
	events  *recordingPublisher
	cfg     *config.Config
}

func newEnv() *env {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.MerakiOrganizationID = "O_1"
	cfg.MerakiNetworkID = networkID
	cfg.WebhookTargetURL = targetURL
	return &env{
		repos:   repomanager.NewMemoryRepositoryManager(),
		clients: clientstest.NewFactory(),
		events:  &recordingPublisher{},
		cfg:     cfg,
	}
}

func (e *env) deps() Deps {
	return Deps{
		Repos:   e.repos,
		Clients: e.clients,
		Config:  e.cfg,
		Events:  e.events,
		Now:     func() time.Time { return fixedNow },
	}
}

func (e *env) seedDevice(t *testing.T, serial, email string) {
	t.Helper()
	require.NoError(t, e.repos.Devices().Put(context.Background(), &models.Device{Serial: serial, Email: email}))
}

func (e *env) seedUser(t *testing.T, u *models.User) {
	t.Helper()
	require.NoError(t, e.repos.Users().Put(context.Background(), u))
}

func (e *env) user(t *testing.T, email string) *models.User {
	t.Helper()
	stored, err := e.repos.Users().Get(context.Background(), email)
	require.NoError(t, err)
	u := &models.User{Email: email, Devices: models.NewSerialSet()}
	u.Overlay(stored)
	return u
}
