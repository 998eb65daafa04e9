package shipments

import (
	"time"

	"github.com/google/uuid"

	"github.com/palletline/wms-backend/pkg/db/models"
	"github.com/palletline/wms-backend/pkg/enums"
)

// DTO is the transport shape for an outbound shipment.
type DTO struct {
	ID              uuid.UUID             `json:"id"`
	Date            time.Time             `json:"date"`
	ClientID        uuid.UUID             `json:"clientId"`
	ClientName      string                `json:"clientName"`
	ShipmentType    enums.ShipmentType    `json:"shipmentType"`
	ShipmentMode    enums.ShipmentMode    `json:"shipmentMode"`
	NumberOfUnits   int                   `json:"numberOfUnits"`
	NumberOfPallets int                   `json:"numberOfPallets"`
	Status          enums.ShipmentStatus  `json:"status"`
	Destination     *string               `json:"destination,omitempty"`
	Carrier         *string               `json:"carrier,omitempty"`
	TrackingNumber  *string               `json:"trackingNumber,omitempty"`
	Items           []models.ShipmentItem `json:"items"`
	Attachments     []models.Attachment   `json:"attachments"`
	PackSizes       *models.PackSizes     `json:"packSizes,omitempty"`
	SkuQuantities   []models.SkuQuantity  `json:"skuQuantities,omitempty"`
	TotalPackages   *int                  `json:"totalPackages,omitempty"`
	Notes           *string               `json:"notes,omitempty"`
	CreatedBy       uuid.UUID             `json:"createdBy"`
	CreatedByName   string                `json:"createdByName"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

func FromModel(s *models.Shipment) *DTO {
	if s == nil {
		return nil
	}
	items := s.Items
	if items == nil {
		items = []models.ShipmentItem{}
	}
	attachments := s.Attachments
	if attachments == nil {
		attachments = []models.Attachment{}
	}
	return &DTO{
		ID:              s.ID,
		Date:            s.Date,
		ClientID:        s.ClientID,
		ClientName:      s.ClientName,
		ShipmentType:    s.ShipmentType,
		ShipmentMode:    s.ShipmentMode,
		NumberOfUnits:   s.NumberOfUnits,
		NumberOfPallets: s.NumberOfPallets,
		Status:          s.Status,
		Destination:     s.Destination,
		Carrier:         s.Carrier,
		TrackingNumber:  s.TrackingNumber,
		Items:           items,
		Attachments:     attachments,
		PackSizes:       s.PackSizes,
		SkuQuantities:   s.SkuQuantities,
		TotalPackages:   s.TotalPackages,
		Notes:           s.Notes,
		CreatedBy:       s.CreatedBy,
		CreatedByName:   s.CreatedByName,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func FromModels(list []models.Shipment) []DTO {
	out := make([]DTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
