package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConnectionModel is the GORM-specific struct for the 'device_connections' table.
// The QR columns are only populated while the status is qr_required.
type ConnectionModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key"`
	AccountRef        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_connections_account_name,priority:1,where:deleted_at IS NULL"`
	ServerID          string    `gorm:"type:varchar(64);not null;index"`
	DisplayName       string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_connections_account_name,priority:2,where:deleted_at IS NULL"`
	PhoneNumber       string    `gorm:"type:varchar(32)"`
	State             string    `gorm:"type:varchar(20);not null"`
	QRCode            string    `gorm:"type:text"`
	QRImage           string    `gorm:"type:text"`
	QRGeneratedAt     *time.Time
	QRExpiresAt       *time.Time
	StatusReason      string `gorm:"type:text"`
	StatusRetriable   bool   `gorm:"not null;default:false"`
	MessageCount      int64  `gorm:"not null;default:0"`
	MessageIntervalMs int64  `gorm:"not null;default:0"`
	MaxDailyMessages  int    `gorm:"not null;default:0"`
	SlotHeld          bool   `gorm:"not null;default:false"`
	LastActivityAt    *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (ConnectionModel) TableName() string {
	return "device_connections"
}
