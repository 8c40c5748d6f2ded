package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/internal/domain/repository"
	"github.com/sangkips/salonpro-api/pkg/apperror"
	"github.com/sangkips/salonpro-api/pkg/pagination"
	"go.uber.org/zap"
)

// UserService handles staff account administration
type UserService struct {
	userRepo       repository.UserRepository
	roleRepo       repository.RoleRepository
	permissionRepo repository.PermissionRepository
	log            *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	permissionRepo repository.PermissionRepository,
	log *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		permissionRepo: permissionRepo,
		log:            log,
	}
}

// ListUsers returns a page of users with their roles
func (s *UserService) ListUsers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.User], error) {
	params.Validate()
	users, total, err := s.userRepo.List(ctx, params, search)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to list users")
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(users, pag), nil
}

// GetUser returns a user by ID with roles and permissions
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load user")
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// UpdateUserRoles replaces the user's roles with roleIDs. Unknown role IDs
// are rejected.
func (s *UserService) UpdateUserRoles(ctx context.Context, userID uuid.UUID, roleIDs []uint) (*entity.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	desired := make(map[uint]bool, len(roleIDs))
	for _, id := range roleIDs {
		role, err := s.roleRepo.GetByID(ctx, id)
		if err != nil {
			return nil, apperror.Wrap(err, "Failed to load role")
		}
		if role == nil {
			return nil, apperror.NewFieldError("role_ids", "Unknown role")
		}
		desired[id] = true
	}

	current := make(map[uint]bool, len(user.Roles))
	for _, role := range user.Roles {
		current[role.ID] = true
		if !desired[role.ID] {
			if err := s.userRepo.RemoveRole(ctx, userID, role.ID); err != nil {
				return nil, apperror.Wrap(err, "Failed to update roles")
			}
		}
	}
	for id := range desired {
		if !current[id] {
			if err := s.userRepo.AssignRole(ctx, userID, id); err != nil {
				return nil, apperror.Wrap(err, "Failed to update roles")
			}
		}
	}

	s.log.Info("User roles updated", zap.String("user_id", userID.String()), zap.Uints("role_ids", roleIDs))
	return s.GetUser(ctx, userID)
}

// SetActive enables or disables sign-in for a user. Nobody can disable
// their own account.
func (s *UserService) SetActive(ctx context.Context, actorID, userID uuid.UUID, active bool) (*entity.User, error) {
	if !active && actorID == userID {
		return nil, apperror.NewBadRequestError("You cannot disable your own account")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load user")
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	user.IsActive = active
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperror.Wrap(err, "Failed to update user")
	}
	return user, nil
}

// DeleteUser soft deletes a user other than the caller
func (s *UserService) DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return apperror.NewBadRequestError("You cannot delete your own account")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return apperror.Wrap(err, "Failed to load user")
	}
	if user == nil {
		return apperror.NewNotFoundError("User")
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return apperror.Wrap(err, "Failed to delete user")
	}
	return nil
}

// ListRoles returns all available roles
func (s *UserService) ListRoles(ctx context.Context) ([]entity.Role, error) {
	roles, err := s.roleRepo.List(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to list roles")
	}
	return roles, nil
}

// ListPermissions returns all available permissions
func (s *UserService) ListPermissions(ctx context.Context) ([]entity.Permission, error) {
	permissions, err := s.permissionRepo.List(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to list permissions")
	}
	return permissions, nil
}
