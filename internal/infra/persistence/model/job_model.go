package model

import (
	"time"

	"github.com/google/uuid"
)

// JobModel is the GORM-specific struct for the 'bulk_jobs' table.
type JobModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	ConnectionID uuid.UUID `gorm:"type:uuid;not null;index"`
	MessageType  string    `gorm:"type:varchar(20);not null"`
	Text         string    `gorm:"type:text"`
	MediaURL     string    `gorm:"type:text"`
	FileName     string    `gorm:"type:varchar(255)"`
	DelayFixedMs int64     `gorm:"not null;default:0"`
	DelayRandom  bool      `gorm:"not null;default:false"`
	DelayMinMs   int64     `gorm:"not null;default:0"`
	DelayMaxMs   int64     `gorm:"not null;default:0"`
	Priority     int       `gorm:"not null;default:0"`
	ScheduledAt  *time.Time
	CreatedAt    time.Time
	CancelledAt  *time.Time
	CompletedAt  *time.Time
}

// TableName explicitly sets the table name for GORM.
func (JobModel) TableName() string {
	return "bulk_jobs"
}

// RecipientModel is the GORM-specific struct for the 'job_recipients' table.
type RecipientModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	JobID       uuid.UUID `gorm:"type:uuid;not null;index:idx_recipients_job_seq,priority:1"`
	Seq         int       `gorm:"not null;index:idx_recipients_job_seq,priority:2"`
	Destination string    `gorm:"type:varchar(32);not null"`
	Name        string    `gorm:"type:varchar(255)"`
	Status      string    `gorm:"type:varchar(20);not null;index"`
	LastError   string    `gorm:"type:text"`
	SentAt      *time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (RecipientModel) TableName() string {
	return "job_recipients"
}
