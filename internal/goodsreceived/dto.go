package goodsreceived

import (
	"time"

	"github.com/google/uuid"

	"github.com/palletline/wms-backend/pkg/db/models"
	"github.com/palletline/wms-backend/pkg/enums"
)

// DTO is the transport shape for an inbound receipt.
type DTO struct {
	ID              uuid.UUID                  `json:"id"`
	DateReceived    time.Time                  `json:"dateReceived"`
	ClientID        uuid.UUID                  `json:"clientId"`
	ClientName      string                     `json:"clientName"`
	ReferenceID     string                     `json:"referenceId"`
	NumberOfPallets int                        `json:"numberOfPallets"`
	NumberOfSkus    int                        `json:"numberOfSkus"`
	TotalUnits      int                        `json:"totalUnits"`
	Status          enums.GoodsReceivedStatus  `json:"status"`
	Items           []models.GoodsReceivedItem `json:"items"`
	Notes           *string                    `json:"notes,omitempty"`
	CreatedBy       uuid.UUID                  `json:"createdBy"`
	CreatedByName   string                     `json:"createdByName"`
	CreatedAt       time.Time                  `json:"createdAt"`
	UpdatedAt       time.Time                  `json:"updatedAt"`
}

func FromModel(r *models.GoodsReceived) *DTO {
	if r == nil {
		return nil
	}
	items := r.Items
	if items == nil {
		items = []models.GoodsReceivedItem{}
	}
	return &DTO{
		ID:              r.ID,
		DateReceived:    r.DateReceived,
		ClientID:        r.ClientID,
		ClientName:      r.ClientName,
		ReferenceID:     r.ReferenceID,
		NumberOfPallets: r.NumberOfPallets,
		NumberOfSkus:    r.NumberOfSkus,
		TotalUnits:      r.TotalUnits,
		Status:          r.Status,
		Items:           items,
		Notes:           r.Notes,
		CreatedBy:       r.CreatedBy,
		CreatedByName:   r.CreatedByName,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func FromModels(list []models.GoodsReceived) []DTO {
	out := make([]DTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
