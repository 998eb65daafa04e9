package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a warehouse customer whose stock we hold.
type Client struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string    `gorm:"column:name;not null"`
	Contact         string    `gorm:"column:contact;not null"`
	Phone           string    `gorm:"column:phone;not null"`
	Email           string    `gorm:"column:email;not null"`
	Notes           *string   `gorm:"column:notes"`
	CustomPackaging *string   `gorm:"column:custom_packaging"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
