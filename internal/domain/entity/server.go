package entity

import (
	"time"
)

// ServerStatus is the availability of a transport server
type ServerStatus string

const (
	ServerStatusActive      ServerStatus = "active"
	ServerStatusInactive    ServerStatus = "inactive"
	ServerStatusMaintenance ServerStatus = "maintenance"
)

// IsValid reports whether the status is one of the known values
func (s ServerStatus) IsValid() bool {
	switch s {
	case ServerStatusActive, ServerStatusInactive, ServerStatusMaintenance:
		return true
	default:
		return false
	}
}

// Server is a backend transport server that hosts device sessions
type Server struct {
	ID                  string
	Address             string
	Status              ServerStatus
	Capacity            int
	CurrentConnections  int
	Latency             time.Duration
	ConsecutiveFailures int
	LastProbedAt        *time.Time
	LastError           string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasCapacity reports whether one more connection fits on the server
func (s *Server) HasCapacity() bool {
	return s.CurrentConnections < s.Capacity
}

// LoadRatio is current connections over capacity, 1 when capacity is unset
func (s *Server) LoadRatio() float64 {
	if s.Capacity <= 0 {
		return 1
	}

	return float64(s.CurrentConnections) / float64(s.Capacity)
}
