package clients

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/palletline/wms-backend/internal/activity"
	"github.com/palletline/wms-backend/pkg/db/models"
	"github.com/palletline/wms-backend/pkg/enums"
	apperrors "github.com/palletline/wms-backend/pkg/errors"
)

const auditCollection = "clients"

// CreateClientInput carries the fields accepted when creating a client.
type CreateClientInput struct {
	Name            string  `json:"name" validate:"required"`
	Contact         string  `json:"contact" validate:"required"`
	Phone           string  `json:"phone" validate:"required"`
	Email           string  `json:"email" validate:"required,email"`
	Notes           *string `json:"notes"`
	CustomPackaging *string `json:"customPackaging"`
}

// UpdateClientInput carries the fields accepted when patching a client. Nil
// fields are left untouched.
type UpdateClientInput struct {
	Name            *string `json:"name" validate:"omitempty,min=1"`
	Contact         *string `json:"contact"`
	Phone           *string `json:"phone"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Notes           *string `json:"notes"`
	CustomPackaging *string `json:"customPackaging"`
}

// Service defines CRUD over warehouse clients.
type Service interface {
	Create(ctx context.Context, actor activity.Actor, input CreateClientInput) (*models.Client, error)
	Update(ctx context.Context, actor activity.Actor, id uuid.UUID, input UpdateClientInput) (*models.Client, error)
	Delete(ctx context.Context, actor activity.Actor, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
}

type service struct {
	repo     Repository
	recorder *activity.Recorder
}

// NewService wires a client service with the provided repository.
func NewService(repo Repository, recorder *activity.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("clients repository required")
	}
	return &service{repo: repo, recorder: recorder}, nil
}

func (s *service) Create(ctx context.Context, actor activity.Actor, input CreateClientInput) (*models.Client, error) {
	client := &models.Client{
		Name:            strings.TrimSpace(input.Name),
		Contact:         strings.TrimSpace(input.Contact),
		Phone:           strings.TrimSpace(input.Phone),
		Email:           strings.TrimSpace(input.Email),
		Notes:           input.Notes,
		CustomPackaging: input.CustomPackaging,
	}

	if err := s.repo.Create(ctx, client); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "creating client")
	}

	s.recorder.Record(ctx, activity.Entry{
		Actor:        actor,
		Action:       enums.ActivityActionCreate,
		Collection:   auditCollection,
		DocumentID:   client.ID.String(),
		DocumentName: client.Name,
		Details:      fmt.Sprintf("Created client %s", client.Name),
	})

	return client, nil
}

func (s *service) Update(ctx context.Context, actor activity.Actor, id uuid.UUID, input UpdateClientInput) (*models.Client, error) {
	client, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]models.FieldChange{}
	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != client.Name {
			changes["name"] = models.FieldChange{Old: client.Name, New: name}
			client.Name = name
		}
	}
	if input.Contact != nil {
		if contact := strings.TrimSpace(*input.Contact); contact != client.Contact {
			changes["contact"] = models.FieldChange{Old: client.Contact, New: contact}
			client.Contact = contact
		}
	}
	if input.Phone != nil {
		if phone := strings.TrimSpace(*input.Phone); phone != client.Phone {
			changes["phone"] = models.FieldChange{Old: client.Phone, New: phone}
			client.Phone = phone
		}
	}
	if input.Email != nil {
		if email := strings.TrimSpace(*input.Email); email != client.Email {
			changes["email"] = models.FieldChange{Old: client.Email, New: email}
			client.Email = email
		}
	}
	if input.Notes != nil {
		client.Notes = input.Notes
	}
	if input.CustomPackaging != nil {
		client.CustomPackaging = input.CustomPackaging
	}

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "updating client")
	}

	s.recorder.Record(ctx, activity.Entry{
		Actor:        actor,
		Action:       enums.ActivityActionUpdate,
		Collection:   auditCollection,
		DocumentID:   client.ID.String(),
		DocumentName: client.Name,
		Details:      fmt.Sprintf("Updated client %s", client.Name),
		Changes:      changes,
	})

	return client, nil
}

func (s *service) Delete(ctx context.Context, actor activity.Actor, id uuid.UUID) error {
	client, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, client.ID); err != nil {
		if err == ErrNotFound {
			return apperrors.New(apperrors.CodeNotFound, "client not found")
		}
		return apperrors.Wrap(apperrors.CodeDependency, err, "deleting client")
	}

	s.recorder.Record(ctx, activity.Entry{
		Actor:        actor,
		Action:       enums.ActivityActionDelete,
		Collection:   auditCollection,
		DocumentID:   client.ID.String(),
		DocumentName: client.Name,
		Details:      fmt.Sprintf("Deleted client %s", client.Name),
	})

	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	return s.get(ctx, id)
}

func (s *service) List(ctx context.Context) ([]models.Client, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "listing clients")
	}
	return list, nil
}

func (s *service) get(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == ErrNotFound {
			return nil, apperrors.New(apperrors.CodeNotFound, "client not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "loading client")
	}
	return client, nil
}
