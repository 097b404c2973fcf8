package model

import (
	"time"
)

// ServerModel is the GORM-specific struct for the 'transport_servers' table.
type ServerModel struct {
	ID                  string `gorm:"type:varchar(64);primary_key"`
	Address             string `gorm:"type:varchar(255);not null"`
	Status              string `gorm:"type:varchar(20);not null;default:active"`
	Capacity            int    `gorm:"not null"`
	CurrentConnections  int    `gorm:"not null;default:0"`
	LatencyMs           int64  `gorm:"not null;default:0"`
	ConsecutiveFailures int    `gorm:"not null;default:0"`
	LastProbedAt        *time.Time
	LastError           string `gorm:"type:text"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName explicitly sets the table name for GORM.
func (ServerModel) TableName() string {
	return "transport_servers"
}
