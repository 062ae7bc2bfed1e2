package accessrequest

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/guestwifi/internal/common"
	"github.com/dmitrijs2005/guestwifi/internal/logging"
	"github.com/dmitrijs2005/guestwifi/internal/server/config"
	"github.com/dmitrijs2005/guestwifi/internal/server/models"
	"github.com/dmitrijs2005/guestwifi/internal/server/reconcile"
	"github.com/dmitrijs2005/guestwifi/internal/timex"
)

// Outcome is what Apply did with an action.
type Outcome string

const (
	OutcomeReplayed Outcome = "replayed"
	OutcomeAccepted Outcome = "accepted"
	OutcomeDeclined Outcome = "declined"
)

type Protocol struct {
	Segments []config.Segment
	Now      func() time.Time
	Logger   logging.Logger
}

func (p *Protocol) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Protocol) logger() logging.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return logging.Nop{}
}

// Apply drives req with the host's action. A request that has already been
// answered only earns the host a notice. Credentials are issued before the
// status changes, so a failed issuance leaves the request open for a retry
// of the same action. Credentials issued before the failure are saved with
// the guest and renewed, not duplicated, on that retry.
func (p *Protocol) Apply(ctx context.Context, req *Request, guest, host *reconcile.User, action Action) (Outcome, error) {
	log := p.logger().With("module", "accessrequest", "access_request_id", req.ID)

	if req.Status != models.StatusCreated {
		log.Info(ctx, "access request already answered", "status", string(req.Status))
		return OutcomeReplayed, host.SendText(ctx, reconcile.AlreadyResponse)
	}

	if action.RequestID != guest.AccessRequestID {
		log.Warn(ctx, "action does not belong to guest", "guest", guest.Email)
		return "", common.BadRequest("", common.InvalidParam{Param: "id", Msg: "Access request does not match guest"})
	}
	if action.RoomID != host.WebexRoomID {
		log.Warn(ctx, "action from unexpected room", "room_id", action.RoomID)
		return "", common.BadRequest("", common.InvalidParam{Param: "roomId", Msg: "Action room does not match host"})
	}

	if !action.Approved {
		req.Status = models.StatusDeclined
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return req.Persist(gctx) })
		g.Go(func() error { return host.SendText(gctx, declineText(guest)) })
		if err := g.Wait(); err != nil {
			return "", err
		}
		log.Info(ctx, "access declined", "guest", guest.Email)
		return OutcomeDeclined, nil
	}

	expiresAt := p.now().Add(action.Duration)
	for _, seg := range p.Segments {
		if err := guest.IssueOrRenewCredential(ctx, seg, expiresAt); err != nil {
			// Keep the credentials issued so far so a retry renews them.
			if perr := guest.Persist(ctx); perr != nil {
				log.Warn(ctx, "saving partially issued credentials failed", "guest", guest.Email, "error", perr)
			}
			return "", err
		}
	}

	req.Status = models.StatusAccepted
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return guest.Persist(gctx) })
	g.Go(func() error { return req.Persist(gctx) })
	g.Go(func() error { return host.SendText(gctx, grantText(guest, action.Duration)) })
	if err := g.Wait(); err != nil {
		return "", err
	}
	log.Info(ctx, "access granted", "guest", guest.Email, "duration", action.Duration.String())
	return OutcomeAccepted, nil
}

func grantText(guest *reconcile.User, d time.Duration) string {
	return fmt.Sprintf("You have granted guest Wi-Fi access for %s (%s) for %s", guest.FullName(), guest.Email, timex.Humanize(d))
}

func declineText(guest *reconcile.User) string {
	return fmt.Sprintf("You have declined guest Wi-Fi access for %s (%s)", guest.FullName(), guest.Email)
}
