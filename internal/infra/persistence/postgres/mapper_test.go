package postgres

import (
	"testing"
	"time"

	"courier/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionMapper_KeepsStatusVariant(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	qr := &entity.QRArtifact{Code: "2@abc", Image: "data:image/png;base64,AA==", GeneratedAt: now, ExpiresAt: now.Add(time.Minute)}

	tests := []struct {
		name   string
		status entity.ConnectionStatus
	}{
		{name: "qr required", status: entity.StatusQRRequired(qr)},
		{name: "connected", status: entity.StatusConnected("15550001111")},
		{name: "error", status: entity.StatusError("device logged out", true)},
		{name: "disconnected", status: entity.StatusDisconnected()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &entity.DeviceConnection{
				ID:              uuid.New(),
				AccountRef:      "acct",
				ServerID:        "a",
				DisplayName:     "sales",
				Status:          tt.status,
				MessageInterval: 1500 * time.Millisecond,
				SlotHeld:        tt.status.IsLive(),
			}

			got := toConnectionDomain(fromConnectionDomain(conn))
			require.NotNil(t, got)
			assert.Equal(t, tt.status.State(), got.Status.State())
			assert.Equal(t, tt.status.Phone(), got.Status.Phone())
			assert.Equal(t, tt.status.Reason(), got.Status.Reason())
			assert.Equal(t, tt.status.Retriable(), got.Status.Retriable())
			assert.Equal(t, tt.status.QR(), got.Status.QR())
			assert.Equal(t, conn.MessageInterval, got.MessageInterval)
			assert.Equal(t, conn.SlotHeld, got.SlotHeld)
			assert.Nil(t, got.DeletedAt)
		})
	}
}

func TestJobMapper_DelayPolicy(t *testing.T) {
	random := &entity.BulkJob{ID: uuid.New(), Delay: entity.RandomDelay(2*time.Second, 5*time.Second)}
	got := toJobDomain(fromJobDomain(random))
	assert.Equal(t, random.Delay, got.Delay)

	fixed := &entity.BulkJob{ID: uuid.New(), Delay: entity.FixedDelay(3 * time.Second)}
	got = toJobDomain(fromJobDomain(fixed))
	assert.Equal(t, fixed.Delay, got.Delay)
}

func TestServerMapper_Latency(t *testing.T) {
	server := &entity.Server{ID: "a", Status: entity.ServerStatusMaintenance, Capacity: 5, Latency: 42 * time.Millisecond}

	got := toServerDomain(fromServerDomain(server))
	assert.Equal(t, server.Latency, got.Latency)
	assert.Equal(t, entity.ServerStatusMaintenance, got.Status)
}
