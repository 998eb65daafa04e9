package clients

import (
	"time"

	"github.com/google/uuid"

	"github.com/palletline/wms-backend/pkg/db/models"
)

// ClientDTO is the transport shape for a warehouse client.
type ClientDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Contact         string    `json:"contact"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email"`
	Notes           *string   `json:"notes,omitempty"`
	CustomPackaging *string   `json:"customPackaging,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func FromModel(c *models.Client) *ClientDTO {
	if c == nil {
		return nil
	}
	return &ClientDTO{
		ID:              c.ID,
		Name:            c.Name,
		Contact:         c.Contact,
		Phone:           c.Phone,
		Email:           c.Email,
		Notes:           c.Notes,
		CustomPackaging: c.CustomPackaging,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func FromModels(list []models.Client) []ClientDTO {
	out := make([]ClientDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
