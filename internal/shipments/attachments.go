package shipments

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/palletline/wms-backend/internal/activity"
	"github.com/palletline/wms-backend/pkg/db/models"
	"github.com/palletline/wms-backend/pkg/enums"
	apperrors "github.com/palletline/wms-backend/pkg/errors"
)

var unsafeObjectChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// AddAttachmentInput carries one uploaded file.
type AddAttachmentInput struct {
	Name        string
	Type        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// AddAttachment uploads the blob and appends its descriptor to the shipment.
// The blob is written first so a failed metadata save leaves at worst an
// orphaned object, never a dangling reference.
func (s *service) AddAttachment(ctx context.Context, actor activity.Actor, shipmentID uuid.UUID, input AddAttachmentInput) (*models.Attachment, error) {
	if s.store == nil {
		return nil, apperrors.New(apperrors.CodeDependency, "attachment storage is not configured")
	}
	attachmentType, err := enums.ParseAttachmentType(input.Type)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "invalid attachment type")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "attachment name is required")
	}
	if input.Body == nil {
		return nil, apperrors.New(apperrors.CodeValidation, "attachment body is required")
	}

	shipment, err := s.get(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	attachmentID := uuid.NewString()
	object := objectName(shipment.ID, attachmentID, input.Name)

	url, err := s.store.Upload(ctx, object, input.ContentType, input.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "uploading attachment")
	}

	attachment := models.Attachment{
		ID:         attachmentID,
		Name:       input.Name,
		URL:        url,
		Type:       attachmentType,
		Size:       input.Size,
		UploadedAt: time.Now().UTC(),
	}
	shipment.Attachments = append(shipment.Attachments, attachment)

	if err := s.repo.Update(ctx, shipment); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "saving attachment metadata")
	}

	s.recorder.Record(ctx, activity.Entry{
		Actor:        actor,
		Action:       enums.ActivityActionUpdate,
		Collection:   auditCollection,
		DocumentID:   shipment.ID.String(),
		DocumentName: shipment.ClientName,
		Details:      fmt.Sprintf("Added attachment %s (%s)", attachment.Name, attachment.Type),
	})

	return &attachment, nil
}

// RemoveAttachment deletes the blob and drops the descriptor. A blob the
// store no longer has is treated as already deleted.
func (s *service) RemoveAttachment(ctx context.Context, actor activity.Actor, shipmentID uuid.UUID, attachmentID string) error {
	if s.store == nil {
		return apperrors.New(apperrors.CodeDependency, "attachment storage is not configured")
	}

	shipment, err := s.get(ctx, shipmentID)
	if err != nil {
		return err
	}

	index := -1
	for i, att := range shipment.Attachments {
		if att.ID == attachmentID {
			index = i
			break
		}
	}
	if index < 0 {
		return apperrors.New(apperrors.CodeNotFound, "attachment not found")
	}
	removed := shipment.Attachments[index]

	object := objectName(shipment.ID, removed.ID, removed.Name)
	if err := s.store.Delete(ctx, object); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "deleting attachment blob")
	}

	shipment.Attachments = append(shipment.Attachments[:index], shipment.Attachments[index+1:]...)
	if err := s.repo.Update(ctx, shipment); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "saving attachment metadata")
	}

	s.recorder.Record(ctx, activity.Entry{
		Actor:        actor,
		Action:       enums.ActivityActionUpdate,
		Collection:   auditCollection,
		DocumentID:   shipment.ID.String(),
		DocumentName: shipment.ClientName,
		Details:      fmt.Sprintf("Removed attachment %s", removed.Name),
	})

	return nil
}

// cleanupBlobs removes attachment objects after a shipment delete. Failures
// are logged and otherwise ignored; the shipment row is already gone.
func (s *service) cleanupBlobs(ctx context.Context, shipment *models.Shipment) {
	if s.store == nil {
		return
	}
	for _, att := range shipment.Attachments {
		object := objectName(shipment.ID, att.ID, att.Name)
		if err := s.store.Delete(ctx, object); err != nil && s.logg != nil {
			ctx := s.logg.WithField(ctx, "object", object)
			s.logg.Warn(ctx, "failed to delete attachment blob")
		}
	}
}

func objectName(shipmentID uuid.UUID, attachmentID, name string) string {
	return fmt.Sprintf("shipments/%s/%s-%s", shipmentID, attachmentID, sanitizeFileName(name))
}

func sanitizeFileName(name string) string {
	trimmed := strings.TrimSpace(name)
	safe := unsafeObjectChars.ReplaceAllString(trimmed, "_")
	safe = strings.Trim(safe, "._")
	if safe == "" {
		return "file"
	}
	return safe
}
