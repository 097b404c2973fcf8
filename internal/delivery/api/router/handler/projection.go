package handler

import (
	"time"

	"courier/internal/domain/entity"
	"courier/internal/util"

	"github.com/google/uuid"
)

// QRResponse is the pairing artifact as returned to callers
type QRResponse struct {
	Code        string    `json:"code"`
	Image       string    `json:"image,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// ConnectionResponse is the projection of a DeviceConnection
type ConnectionResponse struct {
	ID                     uuid.UUID   `json:"id"`
	AccountRef             string      `json:"accountRef"`
	ServerID               string      `json:"serverId"`
	DisplayName            string      `json:"accountName"`
	PhoneNumber            string      `json:"phoneNumber,omitempty"`
	Status                 string      `json:"status"`
	QR                     *QRResponse `json:"qr,omitempty"`
	Reason                 string      `json:"reason,omitempty"`
	Retriable              bool        `json:"retriable,omitempty"`
	MessageCount           int64       `json:"messageCount"`
	MessageIntervalSeconds float64     `json:"messageInterval"`
	MaxDailyMessages       int         `json:"maxDailyMessages"`
	LastActivityAt         *time.Time  `json:"lastActivityAt,omitempty"`
	CreatedAt              time.Time   `json:"createdAt"`
	UpdatedAt              time.Time   `json:"updatedAt"`
}

func toQRResponse(qr *entity.QRArtifact) *QRResponse {
	if qr == nil {
		return nil
	}

	return &QRResponse{
		Code:        qr.Code,
		Image:       qr.Image,
		GeneratedAt: qr.GeneratedAt,
		ExpiresAt:   qr.ExpiresAt,
	}
}

func toConnectionResponse(conn *entity.DeviceConnection) *ConnectionResponse {
	return &ConnectionResponse{
		ID:                     conn.ID,
		AccountRef:             conn.AccountRef,
		ServerID:               conn.ServerID,
		DisplayName:            conn.DisplayName,
		PhoneNumber:            conn.PhoneNumber,
		Status:                 string(conn.Status.State()),
		QR:                     toQRResponse(conn.Status.QR()),
		Reason:                 conn.Status.Reason(),
		Retriable:              conn.Status.Retriable(),
		MessageCount:           conn.MessageCount,
		MessageIntervalSeconds: conn.MessageInterval.Seconds(),
		MaxDailyMessages:       conn.MaxDailyMessages,
		LastActivityAt:         conn.LastActivityAt,
		CreatedAt:              conn.CreatedAt,
		UpdatedAt:              conn.UpdatedAt,
	}
}

func toConnectionResponses(conns []*entity.DeviceConnection) []*ConnectionResponse {
	out := make([]*ConnectionResponse, 0, len(conns))
	for _, conn := range conns {
		out = append(out, toConnectionResponse(conn))
	}

	return out
}

// JobStatusResponse is the aggregated progress of a bulk job
type JobStatusResponse struct {
	JobID                     uuid.UUID        `json:"jobId"`
	ConnectionID              uuid.UUID        `json:"connectionId"`
	Priority                  int              `json:"priority"`
	Counts                    entity.JobCounts `json:"counts"`
	Finished                  bool             `json:"finished"`
	EstimatedRemainingSeconds int64            `json:"estimatedRemainingSeconds"`
	EstimatedRemaining        string           `json:"estimatedRemaining"`
	ScheduledAt               *time.Time       `json:"scheduledAt,omitempty"`
	CreatedAt                 time.Time        `json:"createdAt"`
	CancelledAt               *time.Time       `json:"cancelledAt,omitempty"`
	CompletedAt               *time.Time       `json:"completedAt,omitempty"`
}

func toJobStatusResponse(status *entity.JobStatus) *JobStatusResponse {
	job := status.Job

	return &JobStatusResponse{
		JobID:                     job.ID,
		ConnectionID:              job.ConnectionID,
		Priority:                  job.Priority,
		Counts:                    status.Counts,
		Finished:                  status.Finished(),
		EstimatedRemainingSeconds: int64(status.EstimatedRemaining.Round(time.Second).Seconds()),
		EstimatedRemaining:        util.FormatDuration(status.EstimatedRemaining),
		ScheduledAt:               job.ScheduledAt,
		CreatedAt:                 job.CreatedAt,
		CancelledAt:               job.CancelledAt,
		CompletedAt:               job.CompletedAt,
	}
}

// RecipientResponse is one destination of a job and its delivery progress
type RecipientResponse struct {
	ID          uuid.UUID  `json:"id"`
	Seq         int        `json:"seq"`
	Destination string     `json:"destination"`
	Name        string     `json:"name,omitempty"`
	Status      string     `json:"status"`
	LastError   string     `json:"lastError,omitempty"`
	SentAt      *time.Time `json:"sentAt,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func toRecipientResponses(recipients []*entity.Recipient) []*RecipientResponse {
	out := make([]*RecipientResponse, 0, len(recipients))
	for _, r := range recipients {
		out = append(out, &RecipientResponse{
			ID:          r.ID,
			Seq:         r.Seq,
			Destination: r.Destination,
			Name:        r.Name,
			Status:      string(r.Status),
			LastError:   r.LastError,
			SentAt:      r.SentAt,
			UpdatedAt:   r.UpdatedAt,
		})
	}

	return out
}

// ServerResponse is the projection of a transport server
type ServerResponse struct {
	ID                  string     `json:"id"`
	Address             string     `json:"address"`
	Status              string     `json:"status"`
	Capacity            int        `json:"capacity"`
	CurrentConnections  int        `json:"currentConnections"`
	LatencyMs           int64      `json:"latencyMs"`
	ConsecutiveFailures int        `json:"consecutiveFailures"`
	LastProbedAt        *time.Time `json:"lastProbedAt,omitempty"`
	LastError           string     `json:"lastError,omitempty"`
}

func toServerResponse(s *entity.Server) *ServerResponse {
	return &ServerResponse{
		ID:                  s.ID,
		Address:             s.Address,
		Status:              string(s.Status),
		Capacity:            s.Capacity,
		CurrentConnections:  s.CurrentConnections,
		LatencyMs:           s.Latency.Milliseconds(),
		ConsecutiveFailures: s.ConsecutiveFailures,
		LastProbedAt:        s.LastProbedAt,
		LastError:           s.LastError,
	}
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
