package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/guestwifi/internal/common"
	"github.com/dmitrijs2005/guestwifi/internal/logging"
	"github.com/dmitrijs2005/guestwifi/internal/server/clients"
	"github.com/dmitrijs2005/guestwifi/internal/server/clients/meraki"
	"github.com/dmitrijs2005/guestwifi/internal/server/clients/webex"
	"github.com/dmitrijs2005/guestwifi/internal/server/config"
	"github.com/dmitrijs2005/guestwifi/internal/server/models"
	"github.com/dmitrijs2005/guestwifi/internal/server/repositories/users"
)

const passwordLength = 12

const webhookNamePrefix = "guestwifi-"

// UserDeps are the collaborators a User reconciler calls. Controller may be
// nil for flows that never issue credentials.
type UserDeps struct {
	Repo       users.Repository
	Messenger  clients.Messenger
	Controller clients.Controller
	NetworkID  string
	Logger     logging.Logger
}

// User is the working copy of one person's record together with the
// operations that keep it in step with the messaging platform and the
// controller.
type User struct {
	models.User

	deps          UserDeps
	log           logging.Logger
	existsInStore bool
}

// NewUser returns a fresh record for email. Identifiers and the password
// are generated here and survive a later Load only when the store has none.
func NewUser(email string, deps UserDeps) (*User, error) {
	password, err := common.GeneratePassword(passwordLength)
	if err != nil {
		return nil, common.Internal(err)
	}
	log := deps.Logger
	if log == nil {
		log = logging.Nop{}
	}
	return &User{
		User: models.User{
			Email:             email,
			Devices:           models.NewSerialSet(),
			MerakiAuthUserIDs: map[string]string{},
			AccessRequestID:   uuid.NewString(),
			Secret:            uuid.NewString(),
			Password:          password,
		},
		deps: deps,
		log:  log.With("module", "user", "email", email),
	}, nil
}

func (u *User) ExistsInStore() bool { return u.existsInStore }

// Load overlays the stored record, if any. A missing record is not an
// error.
func (u *User) Load(ctx context.Context) error {
	stored, err := u.deps.Repo.Get(ctx, u.Email)
	if errors.Is(err, common.ErrorNotFound) {
		u.log.Debug(ctx, "user not in store")
		return nil
	}
	if err != nil {
		u.log.Warn(ctx, "user load failed", "error", err)
		return common.Internal(err)
	}
	u.Overlay(stored)
	u.existsInStore = true
	return nil
}

// Persist writes every field.
func (u *User) Persist(ctx context.Context) error {
	if err := u.deps.Repo.Put(ctx, &u.User); err != nil {
		u.log.Warn(ctx, "user persist failed", "error", err)
		return common.Internal(err)
	}
	u.existsInStore = true
	return nil
}

// EnsureMessagingRoom sends the welcome message when the user has no room
// yet and records the room it lands in.
func (u *User) EnsureMessagingRoom(ctx context.Context) error {
	if u.WebexRoomID != "" {
		return nil
	}
	msg, err := u.deps.Messenger.CreateMessage(ctx, webex.MessageRequest{
		ToPersonEmail: u.Email,
		Text:          WelcomeMessage,
	})
	if err != nil {
		u.log.Warn(ctx, "welcome message failed", "error", err)
		return u.messagingError(err)
	}
	u.WebexRoomID = msg.RoomID
	u.log.Info(ctx, "messaging room bound", "room_id", msg.RoomID)
	return nil
}

func (u *User) messagingError(err error) error {
	if isUpstreamNotFound(err) {
		return common.AccountRequired(common.InvalidParam{Param: "email", Msg: "Invalid email address"})
	}
	return upstream(err)
}

// SendText messages the user in their room, or directly by email when no
// room is bound. It does not modify the record, so it may run alongside
// Persist.
func (u *User) SendText(ctx context.Context, text string) error {
	req := webex.MessageRequest{RoomID: u.WebexRoomID, Text: text}
	if req.RoomID == "" {
		req.ToPersonEmail = u.Email
	}
	if _, err := u.deps.Messenger.CreateMessage(ctx, req); err != nil {
		u.log.Warn(ctx, "send text failed", "error", err)
		return u.messagingError(err)
	}
	return nil
}

// SendCard posts card to the user's room. The room must already exist.
func (u *User) SendCard(ctx context.Context, card webex.ArrivalCard) error {
	if u.WebexRoomID == "" {
		return common.Internal(errors.New("user has no messaging room"))
	}
	_, err := u.deps.Messenger.CreateMessage(ctx, webex.MessageRequest{
		RoomID:      u.WebexRoomID,
		Markdown:    card.Markdown(),
		Attachments: []webex.Attachment{card.Attachment()},
	})
	if err != nil {
		u.log.Warn(ctx, "send card failed", "error", err)
		return upstream(err)
	}
	u.log.Info(ctx, "approval card sent", "access_request_id", card.RequestID)
	return nil
}

// EnsureWebhook registers an attachment-action webhook for the user's room,
// signed with the user's secret. A webhook registered for another target is
// replaced.
func (u *User) EnsureWebhook(ctx context.Context, targetURL string) error {
	if u.WebexWebhookID != "" {
		if u.WebexWebhookTarget == "" || u.WebexWebhookTarget == targetURL {
			return nil
		}
		if err := u.ResetWebhook(ctx); err != nil {
			return err
		}
	}
	if u.WebexRoomID == "" {
		return common.Internal(errors.New("user has no messaging room"))
	}

	hook, err := u.deps.Messenger.CreateWebhook(ctx, webex.WebhookRequest{
		Name:      webhookNamePrefix + uuid.NewString(),
		TargetURL: targetURL,
		Resource:  webex.ResourceAttachmentActions,
		Event:     webex.EventCreated,
		Filter:    webex.RoomFilter(u.WebexRoomID),
		Secret:    u.Secret,
	})
	if err != nil {
		u.log.Warn(ctx, "webhook registration failed", "error", err)
		return upstream(err)
	}
	u.WebexWebhookID = hook.ID
	u.WebexWebhookTarget = targetURL
	u.log.Info(ctx, "webhook registered", "webhook_id", hook.ID)
	return nil
}

// ResetWebhook deletes the registered webhook. A webhook already gone
// upstream is treated as deleted.
func (u *User) ResetWebhook(ctx context.Context) error {
	if u.WebexWebhookID == "" {
		return nil
	}
	if err := u.deps.Messenger.DeleteWebhook(ctx, u.WebexWebhookID); err != nil && !isUpstreamNotFound(err) {
		u.log.Warn(ctx, "webhook delete failed", "error", err)
		return upstream(err)
	}
	u.WebexWebhookID = ""
	u.WebexWebhookTarget = ""
	return nil
}

// IssueOrRenewCredential grants the user access on segment until
// expiresAt. An existing credential is updated; one that no longer exists
// upstream is created again.
func (u *User) IssueOrRenewCredential(ctx context.Context, segment config.Segment, expiresAt time.Time) error {
	if u.Password == "" {
		password, err := common.GeneratePassword(passwordLength)
		if err != nil {
			return common.Internal(err)
		}
		u.Password = password
	}
	if u.MerakiAuthUserIDs == nil {
		u.MerakiAuthUserIDs = map[string]string{}
	}

	auths := []meraki.Authorization{{
		SSIDNumber: segment.SSID,
		ExpiresAt:  expiresAt.UTC().Format(time.RFC3339),
	}}
	key := segment.Key()
	log := u.log.With("segment", segment.String())

	if id, ok := u.MerakiAuthUserIDs[key]; ok {
		_, err := u.deps.Controller.UpdateNetworkMerakiAuthUser(ctx, u.deps.NetworkID, id, meraki.UpdateAuthUserRequest{
			Password:            u.Password,
			EmailPasswordToUser: true,
			Authorizations:      auths,
		})
		if err == nil {
			log.Info(ctx, "credential renewed", "auth_user_id", id)
			return nil
		}
		if !isUpstreamNotFound(err) {
			log.Warn(ctx, "credential renewal failed", "error", err)
			return upstream(err)
		}
		log.Warn(ctx, "credential gone upstream, creating again", "auth_user_id", id)
		delete(u.MerakiAuthUserIDs, key)
	}

	created, err := u.deps.Controller.CreateNetworkMerakiAuthUser(ctx, u.deps.NetworkID, meraki.CreateAuthUserRequest{
		Email:               u.Email,
		Name:                u.FullName(),
		Password:            u.Password,
		AccountType:         segment.AccountType,
		EmailPasswordToUser: true,
		Authorizations:      auths,
	})
	if err != nil {
		log.Warn(ctx, "credential creation failed", "error", err)
		return upstream(err)
	}
	u.MerakiAuthUserIDs[key] = created.ID
	log.Info(ctx, "credential issued", "auth_user_id", created.ID)
	return nil
}

// AddDevice reports whether serial was newly added.
func (u *User) AddDevice(serial string) bool {
	if u.Devices == nil {
		u.Devices = models.NewSerialSet()
	}
	return u.Devices.Add(serial)
}

// RemoveDevice drops serial from the user's devices. A serial the user does
// not hold is logged and ignored.
func (u *User) RemoveDevice(ctx context.Context, serial string) {
	if u.Devices == nil || !u.Devices.Remove(serial) {
		u.log.Info(ctx, "device not listed for user", "serial", serial)
	}
}
