// Package services holds the request-level orchestration: each entry point
// loads the reconcilers it needs in parallel, sequences the upstream calls
// and persists the outcome.
package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/guestwifi/internal/common"
	"github.com/dmitrijs2005/guestwifi/internal/logging"
	"github.com/dmitrijs2005/guestwifi/internal/server/clients"
	"github.com/dmitrijs2005/guestwifi/internal/server/config"
	"github.com/dmitrijs2005/guestwifi/internal/server/events"
	"github.com/dmitrijs2005/guestwifi/internal/server/metrics"
	"github.com/dmitrijs2005/guestwifi/internal/server/reconcile"
	"github.com/dmitrijs2005/guestwifi/internal/server/repositories/repomanager"
)

// Deps are shared by all services.
type Deps struct {
	Repos   repomanager.RepositoryManager
	Clients clients.Factory
	Config  *config.Config
	Events  events.Publisher
	Metrics metrics.Emitter
	Logger  logging.Logger
	Now     func() time.Time
}

type base struct {
	Deps
	log logging.Logger
}

func newBase(d Deps, module string) base {
	if d.Logger == nil {
		d.Logger = logging.Nop{}
	}
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	if d.Metrics == nil {
		d.Metrics = metrics.Nop{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return base{Deps: d, log: d.Logger.With("module", module)}
}

func (b *base) deviceDeps(ctrl clients.Controller) reconcile.DeviceDeps {
	return reconcile.DeviceDeps{
		Repo:           b.Repos.Devices(),
		Controller:     ctrl,
		OrganizationID: b.Config.MerakiOrganizationID,
		NetworkID:      b.Config.MerakiNetworkID,
		Logger:         b.Logger,
	}
}

func (b *base) userDeps(set *clients.Set) reconcile.UserDeps {
	return reconcile.UserDeps{
		Repo:       b.Repos.Users(),
		Messenger:  set.Messenger,
		Controller: set.Controller,
		NetworkID:  b.Config.MerakiNetworkID,
		Logger:     b.Logger,
	}
}

// publish reports a domain event. Delivery failures are logged only.
func (b *base) publish(ctx context.Context, eventType string, data any) {
	if err := b.Events.Publish(ctx, eventType, data); err != nil {
		b.log.Warn(ctx, "event publish failed", "type", eventType, "error", err)
	}
}

// renameParam rewrites the invalid-param name on a classified error, so a
// reconciler's generic "email" reads as the form field it came from.
func renameParam(err error, from, to string) error {
	e := common.AsError(err)
	if e == nil || len(e.InvalidParams) == 0 {
		return err
	}
	params := make([]common.InvalidParam, len(e.InvalidParams))
	for i, p := range e.InvalidParams {
		if p.Param == from {
			p.Param = to
		}
		params[i] = p
	}
	return common.NewError(e.Kind, e.Message, e.Err, params...)
}
