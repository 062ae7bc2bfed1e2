package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	subjects []string
	payloads [][]byte
	err      error
	closed   bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return nil
}

func (f *fakeConn) Close() { f.closed = true }

func TestNATSPublisher_Publish(t *testing.T) {
	nc := &fakeConn{}
	p := newNATSPublisher(nc, "guestwifi")
	p.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	err := p.Publish(context.Background(), DeviceEnrolled, DeviceData{Serial: "Q2AB-CDEF-GHIJ", Email: "a@example.com"})
	require.NoError(t, err)

	require.Equal(t, []string{"guestwifi.device.enrolled"}, nc.subjects)
	var got struct {
		ID      string     `json:"id"`
		Type    string     `json:"type"`
		Subject string     `json:"subject"`
		Time    time.Time  `json:"time"`
		Data    DeviceData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(nc.payloads[0], &got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, DeviceEnrolled, got.Type)
	assert.Equal(t, "guestwifi.device.enrolled", got.Subject)
	assert.Equal(t, "Q2AB-CDEF-GHIJ", got.Data.Serial)
	assert.True(t, got.Time.Equal(p.now()))

	p.Close()
	assert.True(t, nc.closed)
}

func TestNATSPublisher_Errors(t *testing.T) {
	nc := &fakeConn{err: errors.New("no responders")}
	p := newNATSPublisher(nc, "")

	err := p.Publish(context.Background(), AccessRequestAccepted, AccessRequestData{ID: "r"})
	assert.ErrorContains(t, err, "no responders")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, AccessRequestAccepted, nil), context.Canceled)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), DeviceUnenrolled, nil))
	p.Close()
}
