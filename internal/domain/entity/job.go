package entity

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MessageType is the kind of content a template sends
type MessageType string

const (
	MessageTypeText     MessageType = "text"
	MessageTypeImage    MessageType = "image"
	MessageTypeDocument MessageType = "document"
)

// IsValid reports whether the type is one of the known values
func (t MessageType) IsValid() bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeDocument:
		return true
	default:
		return false
	}
}

// MessageTemplate is the content of a bulk job. Text supports the {name} and
// {phone} placeholders.
type MessageTemplate struct {
	Type     MessageType
	Text     string
	MediaURL string
	FileName string
}

// Render substitutes the recipient placeholders
func (t MessageTemplate) Render(r *Recipient) MessageTemplate {
	out := t
	out.Text = strings.NewReplacer(
		"{name}", r.Name,
		"{phone}", r.Destination,
	).Replace(t.Text)

	return out
}

// DelayPolicy is the pause between two sends on the same connection
type DelayPolicy struct {
	Fixed  time.Duration
	Random bool
	Min    time.Duration
	Max    time.Duration
}

// FixedDelay waits d between sends
func FixedDelay(d time.Duration) DelayPolicy {
	return DelayPolicy{Fixed: d}
}

// RandomDelay waits a uniformly sampled duration in [minDelay, maxDelay]
func RandomDelay(minDelay, maxDelay time.Duration) DelayPolicy {
	return DelayPolicy{Random: true, Min: minDelay, Max: maxDelay}
}

// Expected is the mean delay used for completion estimates
func (p DelayPolicy) Expected() time.Duration {
	if p.Random {
		return (p.Min + p.Max) / 2
	}

	return p.Fixed
}

// Sample draws the delay to apply after one send
func (p DelayPolicy) Sample() time.Duration {
	if !p.Random {
		return p.Fixed
	}
	if p.Max <= p.Min {
		return p.Min
	}

	return p.Min + rand.N(p.Max-p.Min+1)
}

// IsZero reports whether no policy was given
func (p DelayPolicy) IsZero() bool {
	return !p.Random && p.Fixed == 0
}

// BulkJob is one bulk send request expanded into per-recipient queue entries
type BulkJob struct {
	ID           uuid.UUID
	ConnectionID uuid.UUID
	Template     MessageTemplate
	Delay        DelayPolicy
	Priority     int
	ScheduledAt  *time.Time
	CreatedAt    time.Time
	CancelledAt  *time.Time
	CompletedAt  *time.Time
}

// RecipientStatus is the delivery progress of one recipient
type RecipientStatus string

const (
	RecipientPending RecipientStatus = "pending"
	RecipientSending RecipientStatus = "sending"
	RecipientSent    RecipientStatus = "sent"
	RecipientFailed  RecipientStatus = "failed"
)

// ReasonCancelled is the failure reason recorded for recipients dropped by a cancellation
const ReasonCancelled = "cancelled"

// Recipient is one destination of a bulk job
type Recipient struct {
	ID          uuid.UUID
	JobID       uuid.UUID
	Seq         int
	Destination string
	Name        string
	Status      RecipientStatus
	LastError   string
	SentAt      *time.Time
	UpdatedAt   time.Time
}

// JobCounts aggregates recipients by status
type JobCounts struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
	Sending int `json:"sending"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
}

// Add counts one recipient status
func (c *JobCounts) Add(status RecipientStatus) {
	c.Total++
	switch status {
	case RecipientPending:
		c.Pending++
	case RecipientSending:
		c.Sending++
	case RecipientSent:
		c.Sent++
	case RecipientFailed:
		c.Failed++
	}
}

// Done reports whether every recipient reached a terminal status
func (c JobCounts) Done() bool {
	return c.Pending == 0 && c.Sending == 0
}

// JobStatus is the aggregated progress of a job
type JobStatus struct {
	Job                *BulkJob
	Counts             JobCounts
	EstimatedRemaining time.Duration
}

// Finished reports whether every recipient reached sent or failed
func (s *JobStatus) Finished() bool {
	return s.Counts.Done()
}
