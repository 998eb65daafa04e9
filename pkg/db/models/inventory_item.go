package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem is one SKU held on behalf of a client. clientName and
// createdByName are denormalized copies captured at write time; there is no
// live join back to clients or users.
type InventoryItem struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SKU           string    `gorm:"column:sku;not null;index"`
	Name          string    `gorm:"column:name;not null"`
	ClientID      uuid.UUID `gorm:"column:client_id;type:uuid;not null;index"`
	ClientName    string    `gorm:"column:client_name;not null"`
	Quantity      int       `gorm:"column:quantity;not null;default:0"`
	MinStock      int       `gorm:"column:min_stock;not null;default:0"`
	Location      *string   `gorm:"column:location"`
	Notes         *string   `gorm:"column:notes"`
	CreatedBy     uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
	CreatedByName string    `gorm:"column:created_by_name;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// IsLowStock is the read-time low-stock predicate; it is never stored.
func (i InventoryItem) IsLowStock() bool {
	return i.Quantity <= i.MinStock
}

// IsOutOfStock reports whether the item has no units on hand.
func (i InventoryItem) IsOutOfStock() bool {
	return i.Quantity == 0
}
