package service

import (
	"context"
	"fmt"
	"time"
)

// SessionPhase is the session progress as reported by a transport server
type SessionPhase string

const (
	SessionStarting       SessionPhase = "starting"
	SessionQR             SessionPhase = "qr"
	SessionAuthenticating SessionPhase = "authenticating"
	SessionConnected      SessionPhase = "connected"
	SessionClosed         SessionPhase = "closed"
)

// SessionStatus is the transport server view of one session
type SessionStatus struct {
	Phase       SessionPhase `json:"status"`
	QRCode      string       `json:"qr,omitempty"`
	QRExpiresAt *time.Time   `json:"qrExpiresAt,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	Reason      string       `json:"reason,omitempty"`
}

// OutboundMessage is one rendered message addressed to a single destination
type OutboundMessage struct {
	To       string `json:"to"`
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	MediaURL string `json:"mediaUrl,omitempty"`
	FileName string `json:"fileName,omitempty"`
}

// SendResult is the transport acknowledgement of a sent message
type SendResult struct {
	MessageID string `json:"messageId"`
}

// TransportError describes a failed transport call.
// Unavailable marks network errors and timeouts; otherwise StatusCode holds the HTTP status the
// server answered with and Reason its explanation.
type TransportError struct {
	Op          string
	Unavailable bool
	StatusCode  int
	Reason      string
}

func (e *TransportError) Error() string {
	if e.Unavailable {
		return fmt.Sprintf("transport %s: unavailable: %s", e.Op, e.Reason)
	}

	return fmt.Sprintf("transport %s: status %d: %s", e.Op, e.StatusCode, e.Reason)
}

// Retriable reports whether repeating the call may succeed
func (e *TransportError) Retriable() bool {
	return e.Unavailable || e.StatusCode >= 500
}

// TransportClient calls the HTTP surface of a transport server.
// Every call is bounded by the client request timeout.
type TransportClient interface {
	// StartSession asks the server to open a session for the connection.
	StartSession(ctx context.Context, address, sessionID string) (*SessionStatus, error)

	// GetSessionStatus queries the current state of a session.
	GetSessionStatus(ctx context.Context, address, sessionID string) (*SessionStatus, error)

	// RequestQR asks the server for a fresh pairing artifact.
	RequestQR(ctx context.Context, address, sessionID string) (*SessionStatus, error)

	// SendMessage submits one message through the session.
	SendMessage(ctx context.Context, address, sessionID string, msg OutboundMessage) (*SendResult, error)

	// EndSession tears the session down on the server.
	EndSession(ctx context.Context, address, sessionID string) error

	// Ping is the liveness probe of a server.
	Ping(ctx context.Context, address string) error
}
