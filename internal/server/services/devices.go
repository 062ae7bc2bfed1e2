package services

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/guestwifi/internal/common"
	"github.com/dmitrijs2005/guestwifi/internal/server/events"
	"github.com/dmitrijs2005/guestwifi/internal/server/metrics"
	"github.com/dmitrijs2005/guestwifi/internal/server/reconcile"
)

var errDeviceConflict = errors.New("device state differs between store and network")

// DeviceService enrolls and unenrolls a person's own devices.
type DeviceService struct {
	base
}

func NewDeviceService(d Deps) *DeviceService {
	return &DeviceService{base: newBase(d, "devices")}
}

func (s *DeviceService) count(op string, err error) {
	result := "ok"
	if err != nil {
		result = common.KindOf(err).String()
	}
	s.Metrics.AddCounter(metrics.DeviceOpsTotal, 1, map[string]string{"operation": op, "result": result})
}

// Get reports the reconciled state of serial. A device whose store and
// network views disagree is an internal error.
func (s *DeviceService) Get(ctx context.Context, serial string) (state reconcile.DeviceState, err error) {
	defer func() { s.count("get", err) }()

	ctrl, err := s.Clients.Controller(ctx)
	if err != nil {
		return reconcile.DeviceState{}, err
	}
	device := reconcile.NewDevice(serial, s.deviceDeps(ctrl))
	if err := device.Load(ctx, ""); err != nil {
		return reconcile.DeviceState{}, err
	}
	if device.HasConflict() {
		s.log.Warn(ctx, "device conflict", "serial", serial)
		return device.State(), common.Internal(errDeviceConflict)
	}
	return device.State(), nil
}

// Enroll binds serial to email and claims it into the network. A conflict
// found on load is logged and tolerated.
func (s *DeviceService) Enroll(ctx context.Context, serial, email string) (err error) {
	defer func() { s.count("enroll", err) }()
	log := s.log.With("serial", serial, "email", email)

	set, err := s.Clients.Clients(ctx)
	if err != nil {
		return err
	}
	device := reconcile.NewDevice(serial, s.deviceDeps(set.Controller))
	user, err := reconcile.NewUser(email, s.userDeps(set))
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return device.Load(gctx, email) })
	g.Go(func() error { return user.Load(gctx) })
	if err := g.Wait(); err != nil {
		return err
	}

	if device.HasConflict() {
		log.Warn(ctx, "enrolling device with conflicting state", "in_store", device.ExistsInStore(), "in_network", device.ExistsInNetwork())
	}

	if err := user.EnsureMessagingRoom(ctx); err != nil {
		return err
	}
	user.AddDevice(serial)

	g, gctx = errgroup.WithContext(ctx)
	if !device.ExistsInNetwork() {
		if err := device.Claim(ctx); err != nil {
			return err
		}
		g.Go(func() error { return user.SendText(gctx, reconcile.DeviceAddedMessage(serial)) })
		g.Go(func() error { return device.Persist(gctx, email) })
	} else {
		log.Info(ctx, "device already bound in network, store record left untouched", "in_store", device.ExistsInStore())
	}
	g.Go(func() error { return user.Persist(gctx) })
	if err := g.Wait(); err != nil {
		return err
	}

	log.Info(ctx, "device enrolled")
	s.publish(ctx, events.DeviceEnrolled, events.DeviceData{Serial: serial, Email: email})
	return nil
}

// Unenroll releases serial from email. It refuses when the device is in
// conflict or either record is missing from the store.
func (s *DeviceService) Unenroll(ctx context.Context, serial, email string) (err error) {
	defer func() { s.count("unenroll", err) }()
	log := s.log.With("serial", serial, "email", email)

	set, err := s.Clients.Clients(ctx)
	if err != nil {
		return err
	}
	device := reconcile.NewDevice(serial, s.deviceDeps(set.Controller))
	user, err := reconcile.NewUser(email, s.userDeps(set))
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return device.Load(gctx, email) })
	g.Go(func() error { return user.Load(gctx) })
	if err := g.Wait(); err != nil {
		return err
	}

	if device.HasConflict() {
		log.Warn(ctx, "refusing to unenroll device with conflicting state", "in_store", device.ExistsInStore(), "in_network", device.ExistsInNetwork())
		return common.Internal(errDeviceConflict)
	}
	if !device.ExistsInStore() || !user.ExistsInStore() {
		return common.NotFound("")
	}

	user.RemoveDevice(ctx, serial)

	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error { return device.Delete(gctx) })
	g.Go(func() error { return device.Unclaim(gctx) })
	g.Go(func() error { return user.Persist(gctx) })
	g.Go(func() error { return user.SendText(gctx, reconcile.DeviceRemovedMessage(serial)) })
	if err := g.Wait(); err != nil {
		return err
	}

	log.Info(ctx, "device unenrolled")
	s.publish(ctx, events.DeviceUnenrolled, events.DeviceData{Serial: serial, Email: email})
	return nil
}
