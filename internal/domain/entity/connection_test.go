package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestoreStatus_DropsForeignFields(t *testing.T) {
	qr := &QRArtifact{Code: "c"}

	connected := RestoreStatus(StateConnected, qr, "+1", "stale", true)
	assert.Equal(t, StateConnected, connected.State())
	assert.Nil(t, connected.QR())
	assert.Equal(t, "+1", connected.Phone())
	assert.Empty(t, connected.Reason())

	failed := RestoreStatus(StateError, qr, "+1", "refused", true)
	assert.Nil(t, failed.QR())
	assert.Empty(t, failed.Phone())
	assert.True(t, failed.Retriable())

	assert.Equal(t, StateDisconnected, RestoreStatus("bogus", nil, "", "", false).State())
	assert.Equal(t, StateDisconnected, ConnectionStatus{}.State())
}

func TestConnectionStatus_IsLive(t *testing.T) {
	assert.True(t, StatusConnecting().IsLive())
	assert.True(t, StatusQRRequired(nil).IsLive())
	assert.True(t, StatusAuthenticating().IsLive())
	assert.True(t, StatusConnected("+1").IsLive())
	assert.False(t, StatusError("x", true).IsLive())
	assert.False(t, StatusDisconnected().IsLive())
}

func TestDeviceConnection_CloneDoesNotShareArtifact(t *testing.T) {
	now := time.Now()
	conn := &DeviceConnection{
		Status:         StatusQRRequired(&QRArtifact{Code: "a", ExpiresAt: now}),
		LastActivityAt: &now,
	}

	cp := conn.Clone()
	cp.Status.QR().Code = "b"
	*cp.LastActivityAt = now.Add(time.Hour)

	require.NotNil(t, conn.Status.QR())
	assert.Equal(t, "a", conn.Status.QR().Code)
	assert.Equal(t, now, *conn.LastActivityAt)
}

func TestQRArtifact_IsExpired(t *testing.T) {
	now := time.Now()
	q := &QRArtifact{ExpiresAt: now}

	assert.True(t, q.IsExpired(now))
	assert.False(t, q.IsExpired(now.Add(-time.Nanosecond)))
}
