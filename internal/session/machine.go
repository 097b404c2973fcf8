// Package session drives the authentication lifecycle of one device connection.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"courier/internal/domain/entity"
	domainerrors "courier/internal/domain/errors"
	"courier/internal/domain/service"
	"courier/internal/errors"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	flightStart   = "start"
	flightRefresh = "refresh"
	flightQR      = "qr"
)

// Config holds the artifact timing rules
type Config struct {
	// QRTTL applies when the transport server does not report an expiry
	QRTTL time.Duration
	// QRMinInterval is the floor between two QR requests sent to the transport server
	QRMinInterval time.Duration
}

// ChangeFunc observes committed transitions. It runs outside the state lock and
// receives changes for one machine in commit order; stale changes are dropped.
type ChangeFunc func(ctx context.Context, snapshot *entity.DeviceConnection, from entity.ConnectionState)

// Machine owns the status of one DeviceConnection. Every transition is a
// compare-and-set against the state observed before the remote call.
type Machine struct {
	mu            sync.Mutex
	conn          *entity.DeviceConnection
	version       uint64
	lastQRRequest time.Time
	starting      bool

	address   string
	transport service.TransportClient
	qr        service.QRCodeService
	cfg       Config
	logger    *slog.Logger
	now       func() time.Time
	onChange  ChangeFunc

	flight singleflight.Group

	notifyMu        sync.Mutex
	notifiedVersion uint64
}

// Deps are the collaborators of a Machine
type Deps struct {
	Transport service.TransportClient
	QRCode    service.QRCodeService
	Logger    *slog.Logger
	OnChange  ChangeFunc
	Now       func() time.Time
}

// New wraps an existing connection. The connection is copied.
func New(conn *entity.DeviceConnection, address string, cfg Config, deps Deps) *Machine {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Machine{
		conn:      conn.Clone(),
		address:   address,
		transport: deps.Transport,
		qr:        deps.QRCode,
		cfg:       cfg,
		logger:    logger.With(slog.String("connection_id", conn.ID.String())),
		now:       now,
		onChange:  deps.OnChange,
	}
}

// Snapshot returns a copy of the current connection
func (m *Machine) Snapshot() *entity.DeviceConnection {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.conn.Clone()
}

// State returns the current state
func (m *Machine) State() entity.ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.conn.Status.State()
}

// ID returns the connection ID
func (m *Machine) ID() uuid.UUID {
	return m.conn.ID
}

func (m *Machine) sessionID() string {
	return m.conn.ID.String()
}

// Start asks the transport server to open a session. Concurrent callers share a single
// create call. Only Connecting, Disconnected and Error connections can be started.
// On a transport failure the connection moves to Error and the failure is returned.
func (m *Machine) Start(ctx context.Context) (*entity.DeviceConnection, error) {
	_, err, _ := m.flight.Do(flightStart, func() (any, error) {
		from, ok := m.beginStart(ctx)
		if !ok {
			return nil, domainerrors.ErrInvalidState.WithDetails("session already started")
		}
		defer m.endStart()

		status, err := m.transport.StartSession(ctx, m.address, m.sessionID())
		if err != nil {
			m.fail(ctx, entity.StateConnecting, err)

			return nil, err
		}

		if !m.applySessionStatus(ctx, entity.StateConnecting, status) {
			// Disconnected while the create call was in flight; drop the new session
			m.endSessionQuietly(ctx)

			return nil, domainerrors.ErrCancelled.WithDetails("connection closed during start")
		}

		m.logger.Debug("Session started", slog.String("from", string(from)))

		return nil, nil
	})

	return m.Snapshot(), err
}

func (m *Machine) beginStart(ctx context.Context) (entity.ConnectionState, bool) {
	m.mu.Lock()
	from := m.conn.Status.State()
	switch from {
	case entity.StateConnecting, entity.StateDisconnected, entity.StateError:
	default:
		m.mu.Unlock()

		return from, false
	}
	m.starting = true
	v := m.setLocked(entity.StatusConnecting())
	snapshot := m.conn.Clone()
	m.mu.Unlock()

	if from != entity.StateConnecting {
		m.notify(ctx, v, snapshot, from)
	}

	return from, true
}

func (m *Machine) endStart() {
	m.mu.Lock()
	m.starting = false
	m.mu.Unlock()
}

// Refresh reconciles with the transport server. It never creates a session:
// a disconnected connection is returned unchanged, and so is one whose start call
// is still in flight. When the session still waits for a scan and no valid artifact
// exists, a new artifact is requested.
func (m *Machine) Refresh(ctx context.Context) (*entity.DeviceConnection, error) {
	_, err, _ := m.flight.Do(flightRefresh, func() (any, error) {
		m.mu.Lock()
		expected := m.conn.Status.State()
		starting := m.starting
		m.mu.Unlock()

		if expected == entity.StateDisconnected || starting {
			return nil, nil
		}

		status, err := m.transport.GetSessionStatus(ctx, m.address, m.sessionID())
		if err != nil {
			var terr *service.TransportError
			if errors.As(err, &terr) && !terr.Unavailable && terr.StatusCode == 404 {
				// The server no longer knows the session
				m.CompareAndSet(ctx, expected, entity.StatusDisconnected())

				return nil, nil
			}
			if expected != entity.StateError {
				m.fail(ctx, expected, err)
			}

			return nil, err
		}

		if status.Phase == service.SessionQR || status.Phase == service.SessionStarting {
			if _, err := m.ensureQR(ctx, expected, status, false); err != nil {
				return nil, err
			}

			return nil, nil
		}

		m.applySessionStatus(ctx, expected, status)

		return nil, nil
	})

	return m.Snapshot(), err
}

// RequestFreshQR discards the current artifact and asks for a new one. Within the
// minimum interval since the last request the current unexpired artifact is returned
// without a transport call. A nil artifact means the server has none ready yet.
func (m *Machine) RequestFreshQR(ctx context.Context) (*entity.QRArtifact, error) {
	m.mu.Lock()
	state := m.conn.Status.State()
	m.mu.Unlock()

	switch state {
	case entity.StateQRRequired:
	case entity.StateConnecting:
		// the session is still being created, nothing to scan yet
		return nil, nil
	default:
		return nil, domainerrors.ErrInvalidState.WithDetails("no pairing in progress, state " + string(state))
	}

	return m.ensureQR(ctx, state, nil, true)
}

// ensureQR returns a valid artifact, requesting one from the server when needed.
// A status already fetched from the server may be passed in to avoid a second call.
func (m *Machine) ensureQR(ctx context.Context, expected entity.ConnectionState, known *service.SessionStatus, force bool) (*entity.QRArtifact, error) {
	now := m.now()

	m.mu.Lock()
	current := m.conn.Status.QR()
	valid := current != nil && !current.IsExpired(now)
	withinFloor := !m.lastQRRequest.IsZero() && now.Sub(m.lastQRRequest) < m.cfg.QRMinInterval
	m.mu.Unlock()

	switch {
	case usableCode(known, now) && (current == nil || known.QRCode != current.Code):
		// The status call already carried a new code
		return m.commitQR(ctx, expected, known, now)
	case valid && (withinFloor || !force):
		return cloneQR(current), nil
	case !valid && current == nil && withinFloor:
		return nil, nil
	case known != nil && known.Phase == service.SessionStarting && withinFloor:
		return nil, nil
	}

	v, err, _ := m.flight.Do(flightQR, func() (any, error) {
		m.mu.Lock()
		m.lastQRRequest = m.now()
		m.mu.Unlock()

		status, err := m.transport.RequestQR(ctx, m.address, m.sessionID())
		if err != nil {
			return nil, err
		}

		if status.Phase != service.SessionQR && status.Phase != service.SessionStarting {
			m.applySessionStatus(ctx, expected, status)

			return (*entity.QRArtifact)(nil), nil
		}
		if !usableCode(status, m.now()) {
			m.CompareAndSet(ctx, expected, entity.StatusQRRequired(nil))

			return (*entity.QRArtifact)(nil), nil
		}

		return m.commitQR(ctx, expected, status, m.now())
	})
	if err != nil {
		return nil, err
	}

	return cloneQR(v.(*entity.QRArtifact)), nil
}

func (m *Machine) commitQR(ctx context.Context, expected entity.ConnectionState, status *service.SessionStatus, now time.Time) (*entity.QRArtifact, error) {
	artifact := m.newArtifact(status, now)

	m.mu.Lock()
	from := m.conn.Status.State()
	if from != expected && from != entity.StateQRRequired {
		m.mu.Unlock()

		return nil, domainerrors.ErrInvalidState.WithDetails("state changed to " + string(from))
	}
	if prev := m.conn.Status.QR(); prev != nil && !artifact.GeneratedAt.After(prev.GeneratedAt) {
		artifact.GeneratedAt = prev.GeneratedAt.Add(time.Nanosecond)
		if !artifact.ExpiresAt.After(artifact.GeneratedAt) {
			artifact.ExpiresAt = artifact.GeneratedAt.Add(m.cfg.QRTTL)
		}
	}
	v := m.setLocked(entity.StatusQRRequired(artifact))
	snapshot := m.conn.Clone()
	m.mu.Unlock()

	m.notify(ctx, v, snapshot, from)

	return cloneQR(artifact), nil
}

// usableCode reports whether a transport view carries a code that has not expired
// on the server side.
func usableCode(status *service.SessionStatus, now time.Time) bool {
	if status == nil || status.QRCode == "" {
		return false
	}

	return status.QRExpiresAt == nil || status.QRExpiresAt.After(now)
}

// newArtifact expects a code accepted by usableCode
func (m *Machine) newArtifact(status *service.SessionStatus, now time.Time) *entity.QRArtifact {
	expires := now.Add(m.cfg.QRTTL)
	if status.QRExpiresAt != nil {
		expires = *status.QRExpiresAt
	}

	artifact := &entity.QRArtifact{
		Code:        status.QRCode,
		GeneratedAt: now,
		ExpiresAt:   expires,
	}

	if m.qr != nil {
		image, err := m.qr.RenderDataURI(status.QRCode)
		if err != nil {
			m.logger.Warn("Failed to render QR image", slog.Any("error", err))
		} else {
			artifact.Image = image
		}
	}

	return artifact
}

// Disconnect tears the session down and always ends in Disconnected. A failed
// teardown call is logged and does not block the transition.
func (m *Machine) Disconnect(ctx context.Context) *entity.DeviceConnection {
	m.mu.Lock()
	from := m.conn.Status.State()
	m.mu.Unlock()

	if from != entity.StateDisconnected {
		m.endSessionQuietly(ctx)
	}

	m.mu.Lock()
	from = m.conn.Status.State()
	if from == entity.StateDisconnected {
		snapshot := m.conn.Clone()
		m.mu.Unlock()

		return snapshot
	}
	v := m.setLocked(entity.StatusDisconnected())
	snapshot := m.conn.Clone()
	m.mu.Unlock()

	m.notify(ctx, v, snapshot, from)

	return snapshot
}

func (m *Machine) endSessionQuietly(ctx context.Context) {
	if err := m.transport.EndSession(ctx, m.address, m.sessionID()); err != nil {
		m.logger.Warn("Session teardown failed, continuing", slog.Any("error", err))
	}
}

// CompareAndSet commits next only if the current state is still expected
func (m *Machine) CompareAndSet(ctx context.Context, expected entity.ConnectionState, next entity.ConnectionStatus) bool {
	m.mu.Lock()
	if m.conn.Status.State() != expected {
		m.mu.Unlock()

		return false
	}
	v := m.setLocked(next)
	snapshot := m.conn.Clone()
	m.mu.Unlock()

	m.notify(ctx, v, snapshot, expected)

	return true
}

// Send submits one message through a Connected session and counts it
func (m *Machine) Send(ctx context.Context, msg service.OutboundMessage) (*service.SendResult, error) {
	m.mu.Lock()
	state := m.conn.Status.State()
	address := m.address
	m.mu.Unlock()

	if state != entity.StateConnected {
		return nil, domainerrors.ErrConnectionNotReady.WithDetails("state " + string(state))
	}

	result, err := m.transport.SendMessage(ctx, address, m.sessionID(), msg)
	if err != nil {
		return nil, err
	}
	m.RecordSent(ctx)

	return result, nil
}

// RecordSent counts one delivered message
func (m *Machine) RecordSent(ctx context.Context) {
	m.mu.Lock()
	now := m.now()
	m.conn.MessageCount++
	m.conn.LastActivityAt = &now
	m.conn.UpdatedAt = now
	m.version++
	v := m.version
	snapshot := m.conn.Clone()
	m.mu.Unlock()

	m.notify(ctx, v, snapshot, snapshot.Status.State())
}

// SetSlotHeld records whether the connection counts against its server and
// returns the previous value
func (m *Machine) SetSlotHeld(held bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.conn.SlotHeld
	m.conn.SlotHeld = held

	return prev
}

// Reassign binds the machine to another server. Only allowed while not live.
func (m *Machine) Reassign(serverID, address string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn.Status.IsLive() {
		return domainerrors.ErrInvalidState.WithDetails("cannot move a live session")
	}
	m.conn.ServerID = serverID
	m.address = address

	return nil
}

// applySessionStatus maps a transport view onto the connection with a CAS from expected
func (m *Machine) applySessionStatus(ctx context.Context, expected entity.ConnectionState, status *service.SessionStatus) bool {
	switch status.Phase {
	case service.SessionConnected:
		return m.connect(ctx, expected, status.Phone)
	case service.SessionAuthenticating:
		return m.CompareAndSet(ctx, expected, entity.StatusAuthenticating())
	case service.SessionClosed:
		return m.CompareAndSet(ctx, expected, entity.StatusDisconnected())
	case service.SessionQR, service.SessionStarting:
		now := m.now()
		if !usableCode(status, now) {
			return m.CompareAndSet(ctx, expected, entity.StatusQRRequired(nil))
		}
		_, err := m.commitQR(ctx, expected, status, now)

		return err == nil
	default:
		return m.CompareAndSet(ctx, expected, entity.StatusError("unknown session status "+string(status.Phase), false))
	}
}

func (m *Machine) connect(ctx context.Context, expected entity.ConnectionState, phone string) bool {
	m.mu.Lock()
	if m.conn.Status.State() != expected {
		m.mu.Unlock()

		return false
	}
	if phone == "" {
		phone = m.conn.PhoneNumber
	}
	if expected == entity.StateConnected && m.conn.Status.Phone() == phone {
		m.mu.Unlock()

		return true
	}
	m.conn.PhoneNumber = phone
	v := m.setLocked(entity.StatusConnected(phone))
	snapshot := m.conn.Clone()
	m.mu.Unlock()

	m.notify(ctx, v, snapshot, expected)

	return true
}

func (m *Machine) fail(ctx context.Context, expected entity.ConnectionState, err error) {
	reason := err.Error()
	retriable := false

	var terr *service.TransportError
	if errors.As(err, &terr) {
		reason = terr.Reason
		retriable = terr.Retriable()
	}

	m.CompareAndSet(ctx, expected, entity.StatusError(reason, retriable))
}

func (m *Machine) setLocked(next entity.ConnectionStatus) uint64 {
	m.conn.Status = next
	m.conn.UpdatedAt = m.now()
	m.version++

	return m.version
}

func (m *Machine) notify(ctx context.Context, version uint64, snapshot *entity.DeviceConnection, from entity.ConnectionState) {
	if m.onChange == nil {
		return
	}

	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	if version <= m.notifiedVersion {
		return
	}
	m.notifiedVersion = version
	m.onChange(ctx, snapshot, from)
}

func cloneQR(q *entity.QRArtifact) *entity.QRArtifact {
	if q == nil {
		return nil
	}
	cp := *q

	return &cp
}
