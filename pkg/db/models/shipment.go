package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/palletline/wms-backend/pkg/enums"
)

// ShipmentItem is one outbound line on a pallet shipment.
type ShipmentItem struct {
	SKU            string `json:"sku"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	CartonQuantity int    `json:"cartonQuantity"`
	PalletInfo     string `json:"palletInfo,omitempty"`
}

// SkuQuantity is one SKU count on a daily bulk entry.
type SkuQuantity struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// PackSizes breaks a daily bulk entry down by multipack size.
type PackSizes struct {
	SinglePacks int `json:"singlePacks"`
	TwoPacks    int `json:"twoPacks"`
	ThreePacks  int `json:"threePacks"`
	FourPacks   int `json:"fourPacks"`
}

// Attachment is a file descriptor owned by exactly one shipment. The blob
// lives in object storage; this is metadata only.
type Attachment struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	URL        string               `json:"url"`
	Type       enums.AttachmentType `json:"type"`
	Size       int64                `json:"size"`
	UploadedAt time.Time            `json:"uploadedAt"`
}

// Shipment records one outbound movement. numberOfUnits is derived from
// items on every write that touches items.
type Shipment struct {
	ID              uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Date            time.Time            `gorm:"column:date;not null;index"`
	ClientID        uuid.UUID            `gorm:"column:client_id;type:uuid;not null;index"`
	ClientName      string               `gorm:"column:client_name;not null"`
	ShipmentType    enums.ShipmentType   `gorm:"column:shipment_type;type:text;not null"`
	ShipmentMode    enums.ShipmentMode   `gorm:"column:shipment_mode;type:text;not null;default:'pallet'"`
	NumberOfUnits   int                  `gorm:"column:number_of_units;not null;default:0"`
	NumberOfPallets int                  `gorm:"column:number_of_pallets;not null;default:0"`
	Status          enums.ShipmentStatus `gorm:"column:status;type:text;not null"`
	Destination     *string              `gorm:"column:destination"`
	Carrier         *string              `gorm:"column:carrier"`
	TrackingNumber  *string              `gorm:"column:tracking_number"`
	Items           []ShipmentItem       `gorm:"column:items;type:jsonb;serializer:json"`
	Attachments     []Attachment         `gorm:"column:attachments;type:jsonb;serializer:json"`
	PackSizes       *PackSizes           `gorm:"column:pack_sizes;type:jsonb;serializer:json"`
	SkuQuantities   []SkuQuantity        `gorm:"column:sku_quantities;type:jsonb;serializer:json"`
	TotalPackages   *int                 `gorm:"column:total_packages"`
	Notes           *string              `gorm:"column:notes"`
	CreatedBy       uuid.UUID            `gorm:"column:created_by;type:uuid;not null"`
	CreatedByName   string               `gorm:"column:created_by_name;not null"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
