package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/palletline/wms-backend/pkg/enums"
)

// GoodsReceivedItem is one inbound line on a receipt. Stored inside the
// parent's items JSONB column, not as its own row.
type GoodsReceivedItem struct {
	SKU            string `json:"sku"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	PalletQuantity int    `json:"palletQuantity"`
	Notes          string `json:"notes,omitempty"`
}

// GoodsReceived records one inbound delivery. numberOfSkus and totalUnits are
// derived from items on every write that touches items.
type GoodsReceived struct {
	ID              uuid.UUID                 `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	DateReceived    time.Time                 `gorm:"column:date_received;not null;index"`
	ClientID        uuid.UUID                 `gorm:"column:client_id;type:uuid;not null;index"`
	ClientName      string                    `gorm:"column:client_name;not null"`
	ReferenceID     string                    `gorm:"column:reference_id;not null"`
	NumberOfPallets int                       `gorm:"column:number_of_pallets;not null;default:0"`
	NumberOfSkus    int                       `gorm:"column:number_of_skus;not null;default:0"`
	TotalUnits      int                       `gorm:"column:total_units;not null;default:0"`
	Status          enums.GoodsReceivedStatus `gorm:"column:status;type:text;not null"`
	Items           []GoodsReceivedItem       `gorm:"column:items;type:jsonb;serializer:json"`
	Notes           *string                   `gorm:"column:notes"`
	CreatedBy       uuid.UUID                 `gorm:"column:created_by;type:uuid;not null"`
	CreatedByName   string                    `gorm:"column:created_by_name;not null"`
	CreatedAt       time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}

func (GoodsReceived) TableName() string {
	return "goods_received"
}
