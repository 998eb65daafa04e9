package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/palletline/wms-backend/pkg/db/models"
)

// ItemDTO is the transport shape for an inventory item. lowStock and
// outOfStock are derived at read time.
type ItemDTO struct {
	ID            uuid.UUID `json:"id"`
	SKU           string    `json:"sku"`
	Name          string    `json:"name"`
	ClientID      uuid.UUID `json:"clientId"`
	ClientName    string    `json:"clientName"`
	Quantity      int       `json:"quantity"`
	MinStock      int       `json:"minStock"`
	LowStock      bool      `json:"lowStock"`
	OutOfStock    bool      `json:"outOfStock"`
	Location      *string   `json:"location,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedBy     uuid.UUID `json:"createdBy"`
	CreatedByName string    `json:"createdByName"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func FromModel(item *models.InventoryItem) *ItemDTO {
	if item == nil {
		return nil
	}
	return &ItemDTO{
		ID:            item.ID,
		SKU:           item.SKU,
		Name:          item.Name,
		ClientID:      item.ClientID,
		ClientName:    item.ClientName,
		Quantity:      item.Quantity,
		MinStock:      item.MinStock,
		LowStock:      item.IsLowStock(),
		OutOfStock:    item.IsOutOfStock(),
		Location:      item.Location,
		Notes:         item.Notes,
		CreatedBy:     item.CreatedBy,
		CreatedByName: item.CreatedByName,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

func FromModels(list []models.InventoryItem) []ItemDTO {
	out := make([]ItemDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
