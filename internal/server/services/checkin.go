package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/guestwifi/internal/server/accessrequest"
	"github.com/dmitrijs2005/guestwifi/internal/server/clients/webex"
	"github.com/dmitrijs2005/guestwifi/internal/server/events"
	"github.com/dmitrijs2005/guestwifi/internal/server/reconcile"
)

// CheckIn is a submitted guest arrival form.
type CheckIn struct {
	FirstName    string
	LastName     string
	GuestEmail   string
	Organization string
	HostEmail    string
}

// CheckInService opens an access request for an arriving guest and asks
// the host to decide on it.
type CheckInService struct {
	base
}

func NewCheckInService(d Deps) *CheckInService {
	return &CheckInService{base: newBase(d, "checkin")}
}

// CheckIn overwrites the guest's display fields with the form, makes sure
// the host can be reached and answer, sends the approval card and stores
// guest, host and request.
func (s *CheckInService) CheckIn(ctx context.Context, in CheckIn) error {
	log := s.log.With("guest", in.GuestEmail, "host", in.HostEmail)

	set, err := s.Clients.Clients(ctx)
	if err != nil {
		return err
	}
	guest, err := reconcile.NewUser(in.GuestEmail, s.userDeps(set))
	if err != nil {
		return err
	}
	host, err := reconcile.NewUser(in.HostEmail, s.userDeps(set))
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return guest.Load(gctx) })
	g.Go(func() error { return host.Load(gctx) })
	if err := g.Wait(); err != nil {
		return err
	}

	guest.FirstName = in.FirstName
	guest.LastName = in.LastName
	guest.Company = in.Organization

	if err := host.EnsureMessagingRoom(ctx); err != nil {
		return renameParam(err, "email", "hostEmail")
	}
	if err := host.EnsureWebhook(ctx, s.Config.WebhookTargetURL); err != nil {
		return err
	}

	req := accessrequest.New(guest.AccessRequestID, s.Repos.AccessRequests(), s.Now)
	if err := req.Load(ctx); err != nil {
		return err
	}
	req.Reset(host.Email, guest.Email)

	card := webex.ArrivalCard{
		FullName:        guest.FullName(),
		Organization:    guest.Company,
		Email:           guest.Email,
		RequestID:       req.ID,
		DurationMinutes: int(s.Config.GrantDuration.Minutes()),
	}
	if err := host.SendCard(ctx, card); err != nil {
		return err
	}

	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error { return guest.Persist(gctx) })
	g.Go(func() error { return host.Persist(gctx) })
	g.Go(func() error { return req.Persist(gctx) })
	if err := g.Wait(); err != nil {
		return err
	}

	log.Info(ctx, "guest checked in", "access_request_id", req.ID)
	s.publish(ctx, events.AccessRequestCreated, events.AccessRequestData{
		ID:         req.ID,
		HostEmail:  host.Email,
		GuestEmail: guest.Email,
	})
	return nil
}
