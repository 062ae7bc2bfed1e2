package services

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/guestwifi/internal/common"
	"github.com/dmitrijs2005/guestwifi/internal/server/accessrequest"
	"github.com/dmitrijs2005/guestwifi/internal/server/clients/webex"
	"github.com/dmitrijs2005/guestwifi/internal/server/events"
	"github.com/dmitrijs2005/guestwifi/internal/server/metrics"
	"github.com/dmitrijs2005/guestwifi/internal/server/reconcile"
)

// WebhookService turns a submitted approval card into an access decision.
type WebhookService struct {
	base
	protocol *accessrequest.Protocol
}

func NewWebhookService(d Deps) *WebhookService {
	s := &WebhookService{base: newBase(d, "webhook")}
	s.protocol = &accessrequest.Protocol{
		Segments: s.Config.Segments,
		Now:      s.Now,
		Logger:   s.Logger,
	}
	return s
}

// Handle processes one webhook delivery. body is the raw request body and
// signature the value of the signature header.
func (s *WebhookService) Handle(ctx context.Context, body []byte, signature string) error {
	var event webex.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return common.BadRequest("")
	}
	if event.Data.ID == "" {
		return common.BadRequest("", common.InvalidParam{Param: "data.id", Msg: "Missing action id"})
	}
	log := s.log.With("action_id", event.Data.ID)

	set, err := s.Clients.Clients(ctx)
	if err != nil {
		return err
	}
	raw, err := set.Messenger.GetAttachmentAction(ctx, event.Data.ID)
	if err != nil {
		log.Warn(ctx, "attachment action lookup failed", "error", err)
		return common.Internal(err)
	}
	action, err := accessrequest.ParseAction(raw, s.Config.GrantDuration)
	if err != nil {
		return err
	}

	req := accessrequest.New(action.RequestID, s.Repos.AccessRequests(), s.Now)
	if err := req.Load(ctx); err != nil {
		return err
	}
	if !req.ExistsInStore() {
		return common.NotFound("", common.InvalidParam{Param: "id", Msg: "Unknown access request"})
	}

	guest, err := reconcile.NewUser(req.GuestEmail, s.userDeps(set))
	if err != nil {
		return err
	}
	host, err := reconcile.NewUser(req.HostEmail, s.userDeps(set))
	if err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return guest.Load(gctx) })
	g.Go(func() error { return host.Load(gctx) })
	if err := g.Wait(); err != nil {
		return err
	}

	if s.Config.VerifyWebhookSignature && !webex.VerifySignature(body, host.Secret, signature) {
		log.Warn(ctx, "webhook signature mismatch", "host", host.Email)
		return common.NewError(common.KindBadRequest, "Invalid webhook signature", common.ErrInvalidSignature)
	}

	outcome, err := s.protocol.Apply(ctx, req, guest, host, action)
	if err != nil {
		return err
	}
	s.Metrics.AddCounter(metrics.AccessDecisionsTotal, 1, map[string]string{"outcome": string(outcome)})

	data := events.AccessRequestData{ID: req.ID, HostEmail: req.HostEmail, GuestEmail: req.GuestEmail}
	switch outcome {
	case accessrequest.OutcomeAccepted:
		data.Duration = action.Duration.String()
		s.publish(ctx, events.AccessRequestAccepted, data)
	case accessrequest.OutcomeDeclined:
		s.publish(ctx, events.AccessRequestDeclined, data)
	}
	log.Info(ctx, "webhook handled", "access_request_id", req.ID, "outcome", string(outcome))
	return nil
}
