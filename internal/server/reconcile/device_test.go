package reconcile

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/guestwifi/internal/common"
	"github.com/dmitrijs2005/guestwifi/internal/server/clients/clientstest"
	"github.com/dmitrijs2005/guestwifi/internal/server/clients/meraki"
	"github.com/dmitrijs2005/guestwifi/internal/server/models"
	"github.com/dmitrijs2005/guestwifi/internal/server/repositories/devices"
)

const (
	testSerial  = "Q2AB-CDEF-GHIJ"
	testOwner   = "guest@example.com"
	testNetwork = "N_1"
)

type failingDevices struct{ devices.Repository }

func (failingDevices) Get(context.Context, string) (*models.Device, error) {
	return nil, errors.New("store down")
}

func newDeviceFixture(t *testing.T) (*devices.MemoryRepository, *clientstest.FakeController) {
	t.Helper()
	return devices.NewMemoryRepository(), clientstest.NewFakeController()
}

func deviceDeps(repo devices.Repository, ctrl *clientstest.FakeController) DeviceDeps {
	return DeviceDeps{Repo: repo, Controller: ctrl, OrganizationID: "O_1", NetworkID: testNetwork}
}

func TestDeviceLoad_ConflictMatrix(t *testing.T) {
	tests := []struct {
		name         string
		inStore      bool
		inventory    *meraki.InventoryDevice
		wantNetwork  bool
		wantConflict bool
	}{
		{name: "nowhere", wantConflict: false},
		{name: "store only", inStore: true, wantConflict: true},
		{name: "inventory only", inventory: &meraki.InventoryDevice{Serial: testSerial}, wantConflict: false},
		{name: "network only", inventory: &meraki.InventoryDevice{Serial: testSerial, NetworkID: testNetwork}, wantNetwork: true, wantConflict: true},
		{name: "store and network", inStore: true, inventory: &meraki.InventoryDevice{Serial: testSerial, NetworkID: testNetwork}, wantNetwork: true, wantConflict: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, ctrl := newDeviceFixture(t)
			ctx := context.Background()
			if tt.inStore {
				require.NoError(t, repo.Put(ctx, &models.Device{Serial: testSerial, Email: testOwner}))
			}
			if tt.inventory != nil {
				ctrl.Inventory[testSerial] = tt.inventory
			}

			d := NewDevice(testSerial, deviceDeps(repo, ctrl))
			require.NoError(t, d.Load(ctx, ""))

			st := d.State()
			assert.Equal(t, tt.inStore, st.ExistsInStore)
			assert.Equal(t, tt.inventory != nil, st.ExistsInControllerInventory)
			assert.Equal(t, tt.wantNetwork, st.ExistsInControllerNetwork)
			assert.Equal(t, tt.wantConflict, st.HasConflict)
			assert.Equal(t, st.ExistsInStore != st.ExistsInControllerNetwork, st.HasConflict)
		})
	}
}

func TestDeviceLoad_EmailMismatchIsNotFound(t *testing.T) {
	repo, ctrl := newDeviceFixture(t)
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, &models.Device{Serial: testSerial, Email: testOwner}))

	d := NewDevice(testSerial, deviceDeps(repo, ctrl))
	err := d.Load(ctx, "someone@example.com")
	assert.True(t, common.IsKind(err, common.KindNotFound))
}

func TestDeviceLoad_ControllerFailureStillRecomputesConflict(t *testing.T) {
	repo, ctrl := newDeviceFixture(t)
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, &models.Device{Serial: testSerial, Email: testOwner}))
	ctrl.InventoryErr = clientstest.APIError(http.StatusInternalServerError, "")

	d := NewDevice(testSerial, deviceDeps(repo, ctrl))
	err := d.Load(ctx, testOwner)
	require.Error(t, err)
	assert.Equal(t, common.KindInternal, common.KindOf(err))
	assert.Equal(t, d.ExistsInStore() != d.ExistsInNetwork(), d.HasConflict())
}

func TestDeviceLoad_StoreFailureIsInternal(t *testing.T) {
	_, ctrl := newDeviceFixture(t)
	d := NewDevice(testSerial, deviceDeps(failingDevices{}, ctrl))

	err := d.Load(context.Background(), "")
	assert.Equal(t, common.KindInternal, common.KindOf(err))
}

func TestDeviceClaim_AddsToInventoryThenNetwork(t *testing.T) {
	repo, ctrl := newDeviceFixture(t)
	ctx := context.Background()

	d := NewDevice(testSerial, deviceDeps(repo, ctrl))
	require.NoError(t, d.Load(ctx, testOwner))
	require.NoError(t, d.Claim(ctx))

	assert.True(t, d.ExistsInInventory())
	assert.True(t, d.ExistsInNetwork())
	assert.True(t, d.HasConflict(), "not persisted yet")
	assert.Equal(t, []string{"inventory:" + testSerial, "claimOrg:" + testSerial, "claimNetwork:" + testSerial}, ctrl.CallLog())

	require.NoError(t, d.Persist(ctx, testOwner))
	assert.False(t, d.HasConflict())
}

func TestDeviceClaim_SkipsInventoryWhenPresent(t *testing.T) {
	repo, ctrl := newDeviceFixture(t)
	ctrl.Inventory[testSerial] = &meraki.InventoryDevice{Serial: testSerial}
	ctx := context.Background()

	d := NewDevice(testSerial, deviceDeps(repo, ctrl))
	require.NoError(t, d.Load(ctx, ""))
	require.NoError(t, d.Claim(ctx))

	assert.NotContains(t, ctrl.CallLog(), "claimOrg:"+testSerial)
}

func TestDeviceClaim_AlreadyClaimed(t *testing.T) {
	repo, ctrl := newDeviceFixture(t)
	ctrl.ClaimOrgErr = clientstest.APIError(http.StatusBadRequest, "Device with serial "+testSerial+" is already claimed and in L_9")

	d := NewDevice(testSerial, deviceDeps(repo, ctrl))
	err := d.Claim(context.Background())

	require.Error(t, err)
	assert.True(t, common.IsKind(err, common.KindAlreadyClaimed))
	assert.False(t, common.IsKind(err, common.KindBadRequest))
	assert.Equal(t, http.StatusBadRequest, common.KindOf(err).HTTPStatus())
	assert.False(t, d.ExistsInInventory())
}

func TestDeviceClaim_InvalidSerial(t *testing.T) {
	repo, ctrl := newDeviceFixture(t)
	ctrl.ClaimOrgErr = clientstest.APIError(http.StatusBadRequest, "Invalid serial")

	d := NewDevice(testSerial, deviceDeps(repo, ctrl))
	err := d.Claim(context.Background())

	e := common.AsError(err)
	require.NotNil(t, e)
	assert.Equal(t, common.KindBadRequest, e.Kind)
	assert.Equal(t, "Invalid serial", e.Message)
	assert.Equal(t, []common.InvalidParam{{Param: "serial", Msg: "Invalid serial number"}}, e.InvalidParams)
}

func TestDeviceClaim_UnclassifiedIsInternal(t *testing.T) {
	repo, ctrl := newDeviceFixture(t)
	ctrl.ClaimNetworkErr = errors.New("connection reset")
	ctrl.Inventory[testSerial] = &meraki.InventoryDevice{Serial: testSerial}

	d := NewDevice(testSerial, deviceDeps(repo, ctrl))
	require.NoError(t, d.Load(context.Background(), ""))
	err := d.AddToNetwork(context.Background())
	assert.Equal(t, common.KindInternal, common.KindOf(err))
	assert.False(t, d.ExistsInNetwork())
}

func TestDeviceUnclaim(t *testing.T) {
	repo, ctrl := newDeviceFixture(t)
	ctrl.Inventory[testSerial] = &meraki.InventoryDevice{Serial: testSerial, NetworkID: testNetwork}
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, &models.Device{Serial: testSerial, Email: testOwner}))

	d := NewDevice(testSerial, deviceDeps(repo, ctrl))
	require.NoError(t, d.Load(ctx, testOwner))
	assert.False(t, d.HasConflict())

	require.NoError(t, d.Unclaim(ctx))
	assert.False(t, d.ExistsInInventory())
	assert.False(t, d.ExistsInNetwork())
	assert.True(t, d.HasConflict())

	require.NoError(t, d.Delete(ctx))
	assert.False(t, d.HasConflict())
	_, err := repo.Get(ctx, testSerial)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeviceUnclaim_NotFound(t *testing.T) {
	repo, ctrl := newDeviceFixture(t)
	ctrl.RemoveErr = clientstest.APIError(http.StatusNotFound, "")

	d := NewDevice(testSerial, deviceDeps(repo, ctrl))
	err := d.Unclaim(context.Background())
	assert.True(t, common.IsKind(err, common.KindNotFound))
}

func TestIsAlreadyClaimed(t *testing.T) {
	assert.True(t, isAlreadyClaimed("Device with serial Q2AB-CDEF-GHIJ is already claimed"))
	assert.True(t, isAlreadyClaimed("Device with serial Q2AB-CDEF-GHIJ is already claimed and in L_1"))
	assert.False(t, isAlreadyClaimed("Invalid serial"))
}
