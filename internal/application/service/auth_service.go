package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/internal/domain/repository"
	"github.com/sangkips/salonpro-api/pkg/apperror"
	"github.com/sangkips/salonpro-api/pkg/oauth"
	"github.com/sangkips/salonpro-api/pkg/utils"
	"go.uber.org/zap"
)

const providerGoogle = "google"

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo   repository.UserRepository
	roleRepo   repository.RoleRepository
	jwtManager *utils.JWTManager
	google     *oauth.GoogleProvider
	log        *zap.Logger
}

// NewAuthService creates a new auth service. google may be nil when
// Google sign-in is not offered.
func NewAuthService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	jwtManager *utils.JWTManager,
	google *oauth.GoogleProvider,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		jwtManager: jwtManager,
		google:     google,
		log:        log,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load user")
	}
	if user == nil || user.Password == "" {
		return nil, apperror.ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.signIn(ctx, user.ID)
}

// signIn loads roles, rejects disabled accounts and issues a token pair
func (s *AuthService) signIn(ctx context.Context, userID uuid.UUID) (*LoginOutput, error) {
	out, err := s.issueTokens(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.TouchLastLogin(ctx, userID); err != nil {
		s.log.Warn("Failed to record last login", zap.String("user_id", userID.String()), zap.Error(err))
	}
	return out, nil
}

func (s *AuthService) issueTokens(ctx context.Context, userID uuid.UUID) (*LoginOutput, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load user")
	}
	if user == nil {
		return nil, apperror.ErrInvalidToken
	}
	if !user.IsActive {
		return nil, apperror.ErrAccountDisabled
	}

	roles := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		roles = append(roles, role.Name)
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, roles, user.GetPermissions())
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to issue token")
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to issue token")
	}

	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RegisterInput represents the registration input
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register creates a staff account with the default "user" role
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	existingUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to check email")
	}
	if existingUser != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to hash password")
	}

	username := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		username = email[:at]
	}

	user := &entity.User{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		Provider:  "local",
		IsActive:  true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperror.Wrap(err, "Failed to create account")
	}

	defaultRole, err := s.roleRepo.GetByName(ctx, "user")
	if err != nil {
		s.log.Warn("Failed to load default role", zap.Error(err))
		return user, nil
	}
	if defaultRole != nil {
		if err := s.userRepo.AssignRole(ctx, user.ID, defaultRole.ID); err != nil {
			s.log.Warn("Failed to assign default role", zap.String("user_id", user.ID.String()), zap.Error(err))
		}
	}

	return user, nil
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}
	return s.issueTokens(ctx, userID)
}

// GetCurrentUser returns the current user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load user")
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ChangePassword changes the user's password. Accounts created through
// Google have no password and may set one without the current value.
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return apperror.Wrap(err, "Failed to load user")
	}
	if user == nil {
		return apperror.NewNotFoundError("User")
	}

	if user.Password != "" && !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return apperror.NewFieldError("current_password", "Current password is incorrect")
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return apperror.Wrap(err, "Failed to hash password")
	}

	user.Password = hashedPassword
	if err := s.userRepo.Update(ctx, user); err != nil {
		return apperror.Wrap(err, "Failed to update password")
	}
	return nil
}

// UpdateProfileInput represents the update profile input
type UpdateProfileInput struct {
	UserID    uuid.UUID
	FirstName string
	LastName  string
	Username  string
	Phone     *string
	Photo     *string
}

// UpdateProfile updates the user's profile
func (s *AuthService) UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load user")
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	if input.Username != "" && input.Username != user.Username {
		existingUser, err := s.userRepo.GetByUsername(ctx, input.Username)
		if err != nil {
			return nil, apperror.Wrap(err, "Failed to check username")
		}
		if existingUser != nil && existingUser.ID != user.ID {
			return nil, apperror.NewConflictError("Username already taken")
		}
		user.Username = input.Username
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Phone != nil {
		user.Phone = trimmedOrNil(input.Phone)
	}
	if input.Photo != nil {
		user.Photo = input.Photo
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperror.Wrap(err, "Failed to update profile")
	}
	return user, nil
}

// GoogleEnabled reports whether Google sign-in is configured
func (s *AuthService) GoogleEnabled() bool {
	return s.google != nil && s.google.IsConfigured()
}

// GoogleAuthURL returns the consent page URL for state
func (s *AuthService) GoogleAuthURL(state string) (string, error) {
	if !s.GoogleEnabled() {
		return "", apperror.NewBadRequestError("Google sign-in is not configured")
	}
	return s.google.AuthURL(state), nil
}

// GoogleSignIn exchanges an authorization code and signs in the staff
// account that owns the Google address. Accounts are never created here;
// the first sign-in links the Google identity to the existing account.
func (s *AuthService) GoogleSignIn(ctx context.Context, code string) (*LoginOutput, error) {
	if !s.GoogleEnabled() {
		return nil, apperror.NewBadRequestError("Google sign-in is not configured")
	}

	profile, err := s.google.Profile(ctx, code)
	if err != nil {
		if errors.Is(err, oauth.ErrInvalidCode) {
			return nil, apperror.ErrInvalidCredentials
		}
		s.log.Error("Google profile lookup failed", zap.Error(err))
		return nil, apperror.Wrap(err, "Google sign-in failed")
	}
	if !profile.VerifiedEmail {
		return nil, apperror.NewBadRequestError("Google account email is not verified")
	}

	user, err := s.userRepo.GetByProviderID(ctx, providerGoogle, profile.ID)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load user")
	}
	if user == nil {
		user, err = s.userRepo.GetByEmail(ctx, strings.ToLower(profile.Email))
		if err != nil {
			return nil, apperror.Wrap(err, "Failed to load user")
		}
		if user == nil {
			return nil, apperror.New(http.StatusForbidden, "No staff account uses this Google address")
		}
		id := profile.ID
		user.Provider = providerGoogle
		user.ProviderID = &id
		if user.Photo == nil && profile.Picture != "" {
			pic := profile.Picture
			user.Photo = &pic
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, apperror.Wrap(err, "Failed to link Google account")
		}
		s.log.Info("Linked Google account", zap.String("user_id", user.ID.String()))
	}

	return s.signIn(ctx, user.ID)
}

// GoogleRedirects returns the frontend success and error URLs
func (s *AuthService) GoogleRedirects() (success, failure string) {
	if s.google == nil {
		return "", ""
	}
	return s.google.SuccessURL(), s.google.ErrorURL()
}
