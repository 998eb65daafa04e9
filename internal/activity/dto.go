package activity

import (
	"time"

	"github.com/google/uuid"

	"github.com/palletline/wms-backend/pkg/db/models"
	"github.com/palletline/wms-backend/pkg/enums"
)

// EntryDTO is the transport shape for one audit row.
type EntryDTO struct {
	ID           uuid.UUID                     `json:"id"`
	UserID       uuid.UUID                     `json:"userId"`
	UserName     string                        `json:"userName"`
	UserEmail    string                        `json:"userEmail"`
	Action       enums.ActivityAction          `json:"action"`
	Collection   string                        `json:"collection"`
	DocumentID   string                        `json:"documentId"`
	DocumentName string                        `json:"documentName"`
	Details      string                        `json:"details"`
	Changes      map[string]models.FieldChange `json:"changes,omitempty"`
	Timestamp    time.Time                     `json:"timestamp"`
}

func FromModel(row *models.ActivityLog) *EntryDTO {
	if row == nil {
		return nil
	}
	return &EntryDTO{
		ID:           row.ID,
		UserID:       row.UserID,
		UserName:     row.UserName,
		UserEmail:    row.UserEmail,
		Action:       row.Action,
		Collection:   row.Collection,
		DocumentID:   row.DocumentID,
		DocumentName: row.DocumentName,
		Details:      row.Details,
		Changes:      row.Changes,
		Timestamp:    row.Timestamp,
	}
}

func FromModels(list []models.ActivityLog) []EntryDTO {
	out := make([]EntryDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
