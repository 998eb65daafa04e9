package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/palletline/wms-backend/pkg/enums"
)

// FieldChange captures an old/new pair for one field in an audit row.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// ActivityLog is one append-only audit row. Rows are never updated or
// deleted by the application.
type ActivityLog struct {
	ID           uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID              `gorm:"column:user_id;type:uuid;not null"`
	UserName     string                 `gorm:"column:user_name;not null"`
	UserEmail    string                 `gorm:"column:user_email;not null"`
	Action       enums.ActivityAction   `gorm:"column:action;type:text;not null"`
	Collection   string                 `gorm:"column:collection;not null"`
	DocumentID   string                 `gorm:"column:document_id;not null"`
	DocumentName string                 `gorm:"column:document_name;not null"`
	Details      string                 `gorm:"column:details;not null"`
	Changes      map[string]FieldChange `gorm:"column:changes;type:jsonb;serializer:json"`
	Timestamp    time.Time              `gorm:"column:timestamp;autoCreateTime;index"`
}
