// Package accessrequest implements the approval state machine for guest
// access: a request is created at check-in and moves once to accepted or
// declined when the host answers the card.
package accessrequest

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/guestwifi/internal/common"
	"github.com/dmitrijs2005/guestwifi/internal/server/models"
	"github.com/dmitrijs2005/guestwifi/internal/server/repositories/accessrequests"
)

// Request is the working copy of one access request.
type Request struct {
	models.AccessRequest

	repo          accessrequests.Repository
	now           func() time.Time
	existsInStore bool
}

// New returns an unsaved request with id in the created state.
func New(id string, repo accessrequests.Repository, now func() time.Time) *Request {
	if now == nil {
		now = time.Now
	}
	return &Request{
		AccessRequest: models.AccessRequest{ID: id, Status: models.StatusCreated},
		repo:          repo,
		now:           now,
	}
}

func (r *Request) ExistsInStore() bool { return r.existsInStore }

// Load replaces the working copy with the stored request, if one exists.
func (r *Request) Load(ctx context.Context) error {
	stored, err := r.repo.Get(ctx, r.ID)
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	if err != nil {
		return common.Internal(err)
	}
	r.AccessRequest = *stored
	r.existsInStore = true
	return nil
}

// Reset starts a fresh submission between host and guest. A reused id keeps
// its first creation time.
func (r *Request) Reset(hostEmail, guestEmail string) {
	r.HostEmail = hostEmail
	r.GuestEmail = guestEmail
	r.Status = models.StatusCreated
}

// Persist stamps modifiedAt, and createdAt on first write, then stores the
// request.
func (r *Request) Persist(ctx context.Context) error {
	ts := r.now().UnixMilli()
	if r.CreatedAt == 0 {
		r.CreatedAt = ts
	}
	r.ModifiedAt = ts
	if err := r.repo.Put(ctx, &r.AccessRequest); err != nil {
		return common.Internal(err)
	}
	r.existsInStore = true
	return nil
}
