package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/palletline/wms-backend/internal/activity"
	"github.com/palletline/wms-backend/pkg/config"
	"github.com/palletline/wms-backend/pkg/db"
	"github.com/palletline/wms-backend/pkg/db/models"
	"github.com/palletline/wms-backend/pkg/enums"
	apperrors "github.com/palletline/wms-backend/pkg/errors"
	"github.com/palletline/wms-backend/pkg/security"
)

const auditCollection = "users"

// Caller is the authenticated account performing an admin operation.
type Caller struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  enums.UserRole
}

func (c Caller) auditActor() activity.Actor {
	return activity.Actor{ID: c.ID, Name: c.Name, Email: c.Email}
}

// CreateUserInput carries the fields accepted when creating an account. An
// omitted role defaults to staff.
type CreateUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"`
}

// UpdateUserInput carries the fields accepted when patching an account. Nil
// fields are left untouched.
type UpdateUserInput struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Role     *string `json:"role"`
}

// Service defines account administration operations. Every mutation runs the
// privilege checks in a fixed order so the most dangerous violation is the
// one reported, and nothing is written when any check fails.
type Service interface {
	Create(ctx context.Context, caller Caller, input CreateUserInput) (*models.User, error)
	Update(ctx context.Context, caller Caller, targetID uuid.UUID, input UpdateUserInput) (*models.User, error)
	Delete(ctx context.Context, caller Caller, targetID uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type service struct {
	repo     Repository
	recorder *activity.Recorder
	password config.PasswordConfig
}

// NewService wires a user admin service.
func NewService(repo Repository, recorder *activity.Recorder, password config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, recorder: recorder, password: password}, nil
}

func (s *service) Create(ctx context.Context, caller Caller, input CreateUserInput) (*models.User, error) {
	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = enums.UserRoleStaff.String()
	}

	if role == enums.UserRoleSuperAdmin.String() && caller.Role != enums.UserRoleSuperAdmin {
		return nil, apperrors.New(apperrors.CodeForbidden, "only a super admin can assign the superAdmin role")
	}
	if role == enums.UserRoleAdmin.String() && caller.Role != enums.UserRoleSuperAdmin {
		return nil, apperrors.New(apperrors.CodeForbidden, "only a super admin can assign the admin role")
	}
	parsedRole, err := enums.ParseUserRole(role)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "invalid role")
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Name:         strings.TrimSpace(input.Name),
		Role:         parsedRole,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "idx_users_email") {
			return nil, apperrors.New(apperrors.CodeConflict, "email already in use")
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "creating user")
	}

	s.recorder.Record(ctx, activity.Entry{
		Actor:        caller.auditActor(),
		Action:       enums.ActivityActionCreate,
		Collection:   auditCollection,
		DocumentID:   user.ID.String(),
		DocumentName: user.Name,
		Details:      fmt.Sprintf("Created user %s with role %s", user.Email, user.Role),
	})

	return user, nil
}

func (s *service) Update(ctx context.Context, caller Caller, targetID uuid.UUID, input UpdateUserInput) (*models.User, error) {
	target, err := s.getTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if target.Role == enums.UserRoleSuperAdmin && caller.Role != enums.UserRoleSuperAdmin {
		return nil, apperrors.New(apperrors.CodeForbidden, "super admin accounts can only be modified by a super admin")
	}
	oldRole := target.Role
	if input.Role != nil {
		role := strings.TrimSpace(*input.Role)
		if role == enums.UserRoleSuperAdmin.String() && caller.Role != enums.UserRoleSuperAdmin {
			return nil, apperrors.New(apperrors.CodeForbidden, "only a super admin can assign the superAdmin role")
		}
		if target.Role == enums.UserRoleAdmin && caller.Role != enums.UserRoleSuperAdmin && target.ID != caller.ID {
			return nil, apperrors.New(apperrors.CodeForbidden, "only a super admin can modify another admin account")
		}
		if role == enums.UserRoleAdmin.String() && target.Role != enums.UserRoleAdmin && caller.Role != enums.UserRoleSuperAdmin {
			return nil, apperrors.New(apperrors.CodeForbidden, "only a super admin can assign the admin role")
		}
		parsedRole, parseErr := enums.ParseUserRole(role)
		if parseErr != nil {
			return nil, apperrors.New(apperrors.CodeValidation, "invalid role")
		}
		target.Role = parsedRole
	} else if target.Role == enums.UserRoleAdmin && caller.Role != enums.UserRoleSuperAdmin && target.ID != caller.ID {
		return nil, apperrors.New(apperrors.CodeForbidden, "only a super admin can modify another admin account")
	}

	changes := map[string]models.FieldChange{}
	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != target.Name {
			changes["name"] = models.FieldChange{Old: target.Name, New: name}
			target.Name = name
		}
	}
	if input.Role != nil && target.Role != oldRole {
		changes["role"] = models.FieldChange{Old: oldRole.String(), New: target.Role.String()}
	}
	if input.Password != nil {
		hash, hashErr := security.HashPassword(*input.Password, s.password)
		if hashErr != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, hashErr, "hashing password")
		}
		target.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, target); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "updating user")
	}

	s.recorder.Record(ctx, activity.Entry{
		Actor:        caller.auditActor(),
		Action:       enums.ActivityActionUpdate,
		Collection:   auditCollection,
		DocumentID:   target.ID.String(),
		DocumentName: target.Name,
		Details:      fmt.Sprintf("Updated user %s", target.Email),
		Changes:      changes,
	})

	return target, nil
}

func (s *service) Delete(ctx context.Context, caller Caller, targetID uuid.UUID) error {
	target, err := s.getTarget(ctx, targetID)
	if err != nil {
		return err
	}

	if target.Role == enums.UserRoleSuperAdmin {
		return apperrors.New(apperrors.CodeForbidden, "super admin accounts cannot be deleted")
	}
	if target.Role == enums.UserRoleAdmin && caller.Role != enums.UserRoleSuperAdmin {
		return apperrors.New(apperrors.CodeForbidden, "only a super admin can delete an admin account")
	}
	if target.ID == caller.ID {
		return apperrors.New(apperrors.CodeForbidden, "you cannot delete your own account")
	}

	if err := s.repo.Delete(ctx, target.ID); err != nil {
		if err == ErrNotFound {
			return apperrors.New(apperrors.CodeNotFound, "user not found")
		}
		return apperrors.Wrap(apperrors.CodeDependency, err, "deleting user")
	}

	s.recorder.Record(ctx, activity.Entry{
		Actor:        caller.auditActor(),
		Action:       enums.ActivityActionDelete,
		Collection:   auditCollection,
		DocumentID:   target.ID.String(),
		DocumentName: target.Name,
		Details:      fmt.Sprintf("Deleted user %s", target.Email),
	})

	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.getTarget(ctx, id)
}

func (s *service) List(ctx context.Context) ([]models.User, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "listing users")
	}
	return list, nil
}

func (s *service) getTarget(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == ErrNotFound {
			return nil, apperrors.New(apperrors.CodeNotFound, "user not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "loading user")
	}
	return user, nil
}
