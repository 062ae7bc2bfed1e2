package reconcile

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/guestwifi/internal/common"
	"github.com/dmitrijs2005/guestwifi/internal/httpx"
	"github.com/dmitrijs2005/guestwifi/internal/logging"
	"github.com/dmitrijs2005/guestwifi/internal/server/clients"
	"github.com/dmitrijs2005/guestwifi/internal/server/models"
	"github.com/dmitrijs2005/guestwifi/internal/server/repositories/devices"
)

// DeviceDeps are the collaborators a Device reconciler calls.
type DeviceDeps struct {
	Repo           devices.Repository
	Controller     clients.Controller
	OrganizationID string
	NetworkID      string
	Logger         logging.Logger
}

// DeviceState is the externally visible snapshot of a device.
type DeviceState struct {
	Serial                      string `json:"serial"`
	Email                       string `json:"email"`
	ExistsInStore               bool   `json:"existsInStore"`
	ExistsInControllerInventory bool   `json:"existsInControllerInventory"`
	ExistsInControllerNetwork   bool   `json:"existsInControllerNetwork"`
	HasConflict                 bool   `json:"hasConflict"`
}

// Device reconciles one serial between the record store and the
// controller. hasConflict is recomputed after every operation, whatever its
// outcome.
type Device struct {
	deps DeviceDeps
	log  logging.Logger

	mu          sync.Mutex
	serial      string
	email       string
	inStore     bool
	inInventory bool
	inNetwork   bool
	hasConflict bool
}

func NewDevice(serial string, deps DeviceDeps) *Device {
	log := deps.Logger
	if log == nil {
		log = logging.Nop{}
	}
	return &Device{
		deps:   deps,
		log:    log.With("module", "device", "serial", serial),
		serial: serial,
	}
}

func (d *Device) recompute() {
	d.mu.Lock()
	d.hasConflict = d.inStore != d.inNetwork
	d.mu.Unlock()
}

func (d *Device) Serial() string { return d.serial }

func (d *Device) Email() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.email
}

func (d *Device) ExistsInStore() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inStore
}

func (d *Device) ExistsInInventory() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inInventory
}

func (d *Device) ExistsInNetwork() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inNetwork
}

func (d *Device) HasConflict() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hasConflict
}

func (d *Device) State() DeviceState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DeviceState{
		Serial:                      d.serial,
		Email:                       d.email,
		ExistsInStore:               d.inStore,
		ExistsInControllerInventory: d.inInventory,
		ExistsInControllerNetwork:   d.inNetwork,
		HasConflict:                 d.hasConflict,
	}
}

// Load probes the record store and the controller inventory concurrently.
// When expectedEmail is set and the stored owner differs, Load fails with
// NotFound so that ownership is not disclosed.
func (d *Device) Load(ctx context.Context, expectedEmail string) error {
	defer d.recompute()

	d.mu.Lock()
	d.email = expectedEmail
	d.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return d.loadStore(gctx, expectedEmail) })
	g.Go(func() error { return d.loadController(gctx) })

	if err := g.Wait(); err != nil {
		d.log.Warn(ctx, "device load failed", "error", err)
		return err
	}
	d.log.Debug(ctx, "device loaded", "in_store", d.ExistsInStore(), "in_network", d.ExistsInNetwork())
	return nil
}

func (d *Device) loadStore(ctx context.Context, expectedEmail string) error {
	stored, err := d.deps.Repo.Get(ctx, d.serial)
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	if err != nil {
		return common.Internal(err)
	}
	if expectedEmail != "" && stored.Email != expectedEmail {
		return common.NotFound("")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.inStore = true
	d.email = stored.Email
	return nil
}

func (d *Device) loadController(ctx context.Context) error {
	inv, err := d.deps.Controller.GetOrganizationInventoryDevice(ctx, d.deps.OrganizationID, d.serial)
	if isUpstreamNotFound(err) {
		return nil
	}
	if err != nil {
		return upstream(err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.inInventory = true
	d.inNetwork = inv.NetworkID != ""
	return nil
}

// Claim adds the serial to the organization inventory when absent and then
// claims it into the network.
func (d *Device) Claim(ctx context.Context) error {
	if err := d.AddToInventory(ctx); err != nil {
		return err
	}
	return d.AddToNetwork(ctx)
}

func (d *Device) AddToInventory(ctx context.Context) error {
	defer d.recompute()
	if d.ExistsInInventory() {
		return nil
	}

	err := d.deps.Controller.ClaimIntoOrganization(ctx, d.deps.OrganizationID, []string{d.serial})
	if err != nil {
		d.log.Warn(ctx, "claim into organization failed", "error", err)
		return d.claimError(err, true)
	}

	d.mu.Lock()
	d.inInventory = true
	d.mu.Unlock()
	d.log.Info(ctx, "device added to inventory")
	return nil
}

func (d *Device) AddToNetwork(ctx context.Context) error {
	defer d.recompute()

	err := d.deps.Controller.ClaimNetworkDevices(ctx, d.deps.NetworkID, []string{d.serial})
	if err != nil {
		d.log.Warn(ctx, "claim into network failed", "error", err)
		return d.claimError(err, false)
	}

	d.mu.Lock()
	d.inInventory = true
	d.inNetwork = true
	d.mu.Unlock()
	d.log.Info(ctx, "device added to network")
	return nil
}

// claimError classifies a refused claim. A serial owned elsewhere is
// reported as AlreadyClaimed; other 400s keep the upstream message.
func (d *Device) claimError(err error, organization bool) error {
	msg := httpx.MessageOf(err)
	switch httpx.StatusOf(err) {
	case http.StatusBadRequest:
		param := common.InvalidParam{Param: "serial", Msg: "Invalid serial number"}
		if isAlreadyClaimed(msg) {
			return common.AlreadyClaimed(param)
		}
		if organization {
			return common.BadRequest(msg, param)
		}
		return common.BadRequest(msg)
	case http.StatusNotFound:
		return common.NotFound(msg)
	default:
		return upstream(err)
	}
}

// Unclaim releases the network binding. The controller offers no
// organization-level removal, so both inventory and network flags clear on
// success.
func (d *Device) Unclaim(ctx context.Context) error {
	defer d.recompute()

	err := d.deps.Controller.RemoveNetworkDevice(ctx, d.deps.NetworkID, d.serial)
	if err != nil {
		d.log.Warn(ctx, "remove from network failed", "error", err)
		if isUpstreamNotFound(err) {
			return common.NotFound(httpx.MessageOf(err))
		}
		return upstream(err)
	}

	d.mu.Lock()
	d.inInventory = false
	d.inNetwork = false
	d.mu.Unlock()
	d.log.Info(ctx, "device removed from network")
	return nil
}

// Persist stores the serial bound to email.
func (d *Device) Persist(ctx context.Context, email string) error {
	defer d.recompute()

	if err := d.deps.Repo.Put(ctx, &models.Device{Serial: d.serial, Email: email}); err != nil {
		d.log.Warn(ctx, "device persist failed", "error", err)
		return common.Internal(err)
	}

	d.mu.Lock()
	d.inStore = true
	d.email = email
	d.mu.Unlock()
	return nil
}

func (d *Device) Delete(ctx context.Context) error {
	defer d.recompute()

	if err := d.deps.Repo.Delete(ctx, d.serial); err != nil {
		d.log.Warn(ctx, "device delete failed", "error", err)
		return common.Internal(err)
	}

	d.mu.Lock()
	d.inStore = false
	d.mu.Unlock()
	return nil
}
