package entity

import (
	"time"

	"github.com/google/uuid"
)

// ConnectionState names the variant held by a ConnectionStatus
type ConnectionState string

const (
	StateDisconnected   ConnectionState = "disconnected"
	StateConnecting     ConnectionState = "connecting"
	StateQRRequired     ConnectionState = "qr_required"
	StateAuthenticating ConnectionState = "authenticating"
	StateConnected      ConnectionState = "connected"
	StateError          ConnectionState = "error"
)

// IsValid reports whether the state is one of the known values
func (s ConnectionState) IsValid() bool {
	switch s {
	case StateDisconnected, StateConnecting, StateQRRequired, StateAuthenticating, StateConnected, StateError:
		return true
	default:
		return false
	}
}

// QRArtifact is a short-lived pairing credential a user scans to authenticate a session
type QRArtifact struct {
	// Code is the raw payload returned by the transport server
	Code string
	// Image is a PNG data URI rendering of Code
	Image       string
	GeneratedAt time.Time
	ExpiresAt   time.Time
}

// IsExpired reports whether the artifact can no longer be scanned at now
func (q *QRArtifact) IsExpired(now time.Time) bool {
	return !now.Before(q.ExpiresAt)
}

// ConnectionStatus is a tagged variant over the connection lifecycle.
// Only the fields of the current variant are populated: a QR artifact exists only
// in QRRequired, a phone only in Connected, a reason only in Error.
type ConnectionStatus struct {
	state     ConnectionState
	qr        *QRArtifact
	phone     string
	reason    string
	retriable bool
}

func StatusDisconnected() ConnectionStatus {
	return ConnectionStatus{state: StateDisconnected}
}

func StatusConnecting() ConnectionStatus {
	return ConnectionStatus{state: StateConnecting}
}

// StatusQRRequired holds the current artifact. A nil artifact means the server has
// not produced one yet.
func StatusQRRequired(qr *QRArtifact) ConnectionStatus {
	return ConnectionStatus{state: StateQRRequired, qr: qr}
}

func StatusAuthenticating() ConnectionStatus {
	return ConnectionStatus{state: StateAuthenticating}
}

func StatusConnected(phone string) ConnectionStatus {
	return ConnectionStatus{state: StateConnected, phone: phone}
}

func StatusError(reason string, retriable bool) ConnectionStatus {
	return ConnectionStatus{state: StateError, reason: reason, retriable: retriable}
}

// RestoreStatus rebuilds a status from stored fields, dropping the ones that do
// not belong to the state.
func RestoreStatus(state ConnectionState, qr *QRArtifact, phone, reason string, retriable bool) ConnectionStatus {
	switch state {
	case StateQRRequired:
		return StatusQRRequired(qr)
	case StateConnected:
		return StatusConnected(phone)
	case StateError:
		return StatusError(reason, retriable)
	case StateConnecting:
		return StatusConnecting()
	case StateAuthenticating:
		return StatusAuthenticating()
	default:
		return StatusDisconnected()
	}
}

func (s ConnectionStatus) State() ConnectionState {
	if s.state == "" {
		return StateDisconnected
	}

	return s.state
}

// QR returns the artifact when the status is QRRequired and one is available
func (s ConnectionStatus) QR() *QRArtifact {
	return s.qr
}

func (s ConnectionStatus) Phone() string {
	return s.phone
}

func (s ConnectionStatus) Reason() string {
	return s.reason
}

func (s ConnectionStatus) Retriable() bool {
	return s.retriable
}

// IsLive reports whether the status represents a session that occupies a server slot
// on the transport side.
func (s ConnectionStatus) IsLive() bool {
	switch s.State() {
	case StateConnecting, StateQRRequired, StateAuthenticating, StateConnected:
		return true
	default:
		return false
	}
}

// DeviceConnection is one messaging-account session bound to a transport server
type DeviceConnection struct {
	ID          uuid.UUID
	AccountRef  string
	ServerID    string
	DisplayName string
	// PhoneNumber is kept after the session ends
	PhoneNumber      string
	Status           ConnectionStatus
	MessageCount     int64
	MessageInterval  time.Duration
	MaxDailyMessages int
	// SlotHeld tracks whether this connection currently counts against its server capacity
	SlotHeld       bool
	LastActivityAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// Clone returns a copy safe to hand out of a lock
func (c *DeviceConnection) Clone() *DeviceConnection {
	cp := *c
	if c.LastActivityAt != nil {
		t := *c.LastActivityAt
		cp.LastActivityAt = &t
	}
	if c.DeletedAt != nil {
		t := *c.DeletedAt
		cp.DeletedAt = &t
	}
	if qr := c.Status.QR(); qr != nil {
		q := *qr
		cp.Status = StatusQRRequired(&q)
	}

	return &cp
}
