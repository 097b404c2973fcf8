package service

import (
	"context"
	"time"
)

// Event types emitted to the audit sink
const (
	EventConnectionCreated      = "connection.created"
	EventConnectionQRUpdated    = "connection.qr_updated"
	EventConnectionConnected    = "connection.connected"
	EventConnectionError        = "connection.error"
	EventConnectionDisconnected = "connection.disconnected"
	EventConnectionRemoved      = "connection.removed"
	EventJobSubmitted           = "job.submitted"
	EventJobCancelled           = "job.cancelled"
	EventJobCompleted           = "job.completed"
	EventServerStatusChanged    = "server.status_changed"
)

// DomainEvent is a structured audit record
type DomainEvent struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	RequestID  string            `json:"request_id,omitempty"` // For distributed tracing
	AccountRef string            `json:"account_ref,omitempty"`
	SubjectID  string            `json:"subject_id"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to the audit sink
type EventPublisher interface {
	// Publish delivers one event
	Publish(ctx context.Context, event *DomainEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
