package upload

import (
	"time"

	"github.com/google/uuid"
)

// Upload statuses
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// Session represents the upload_sessions table. A row is created when a
// presigned URL is issued and completed once the client confirms the PUT.
type Session struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UploaderID  uuid.UUID `gorm:"type:uuid;index;not null"`
	ObjectKey   string    `gorm:"uniqueIndex;not null"`
	FileName    string
	ContentType string
	SizeBytes   int64
	PublicURL   string
	Status      string `gorm:"not null;default:PENDING"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Session) TableName() string {
	return "upload_sessions"
}
