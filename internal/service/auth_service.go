package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"truckrecruit/internal/analytics"
	"truckrecruit/internal/auth"
	apperrors "truckrecruit/internal/errors"
	"truckrecruit/internal/events"
	"truckrecruit/internal/logger"
	"truckrecruit/internal/model"
	"truckrecruit/internal/repository"
)

const bcryptCost = 10

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserAlreadyExists is returned when trying to register an existing email.
	ErrUserAlreadyExists = fmt.Errorf("%w: email already registered", apperrors.ErrConflict)
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// RegisterInput is the sign-up payload.
type RegisterInput struct {
	Email       string
	Password    string
	Name        string
	Role        model.Role
	CompanyName string
	Phone       string
	Location    string
}

// TokenPair is returned by a successful login.
type TokenPair struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token,omitempty"`
	Profile      *model.Profile `json:"user,omitempty"`
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.Profile, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string, access *auth.Claims) error
	HashPassword(password string) (string, error)
}

type authService struct {
	repos      *repository.Repositories
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	publisher  events.Publisher
	tracker    EventTracker
	validator  *InputValidator
	now        func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	repos *repository.Repositories,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	publisher events.Publisher,
	tracker EventTracker,
) AuthService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &authService{
		repos:      repos,
		jwtService: jwtService,
		tokenStore: tokenStore,
		publisher:  publisher,
		tracker:    tracker,
		validator:  NewInputValidator(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a profile and its role row in one transaction. Recruiters also get a
// starter trial subscription.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.Profile, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validateRegistration(in); err != nil {
		return nil, err
	}

	// Check if profile already exists
	existing, err := s.repos.Profiles.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return nil, ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check profile existence: %w", err)
	}

	hashed, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	profile := &model.Profile{
		ID:           uuid.New(),
		Email:        in.Email,
		Name:         strings.TrimSpace(in.Name),
		Role:         in.Role,
		PasswordHash: hashed,
		Phone:        in.Phone,
		Location:     in.Location,
	}

	err = s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		if err := tx.Profiles.Create(ctx, profile); err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		switch in.Role {
		case model.RoleDriver:
			driver := &model.Driver{ID: profile.ID, Availability: model.AvailabilityAvailable}
			if err := tx.Drivers.Create(ctx, driver); err != nil {
				return fmt.Errorf("create driver: %w", err)
			}
		case model.RoleRecruiter:
			recruiter := &model.Recruiter{ID: profile.ID, CompanyName: strings.TrimSpace(in.CompanyName)}
			if err := tx.Recruiters.Create(ctx, recruiter); err != nil {
				return fmt.Errorf("create recruiter: %w", err)
			}
			if err := tx.Subscriptions.Create(ctx, model.NewTrialSubscription(profile.ID, s.now())); err != nil {
				return fmt.Errorf("create subscription: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("profile registered", "profile_id", profile.ID, "role", profile.Role)
	if err := s.publisher.Publish(ctx, events.ProfileRegistered, map[string]interface{}{
		"profile_id": profile.ID,
		"role":       profile.Role,
	}); err != nil {
		logger.FromContext(ctx).Warn("publish profile.registered failed", "error", err)
	}
	s.track(ctx, profile.ID, analytics.EventSignUp, map[string]interface{}{"role": string(profile.Role)})
	return profile, nil
}

func (s *authService) validateRegistration(in RegisterInput) error {
	if in.Role != model.RoleDriver && in.Role != model.RoleRecruiter {
		return fmt.Errorf("%w: role must be driver or recruiter", apperrors.ErrInvalidInput)
	}
	if err := s.validator.ValidateName(in.Name); err != nil {
		return err
	}
	if err := s.validator.ValidatePassword(in.Password); err != nil {
		return err
	}
	if err := s.validator.ValidatePhone(in.Phone); err != nil {
		return err
	}
	if in.Role == model.RoleRecruiter {
		n := len(strings.TrimSpace(in.CompanyName))
		if n < 2 || n > 100 {
			return fmt.Errorf("%w: company name must be between 2 and 100 characters", apperrors.ErrInvalidInput)
		}
	}
	return nil
}

// Login authenticates a profile and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	profile, err := s.repos.Profiles.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.GenerateAccessToken(profile)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(profile)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	// Store refresh token in Redis
	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, profile.ID, auth.RefreshTokenExpiry); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	s.track(ctx, profile.ID, analytics.EventLogin, nil)
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken, Profile: profile}, nil
}

// RefreshToken validates a refresh token and returns a new access token. The role is re-read
// so that a changed role takes effect on the next refresh.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil || claims.ID == "" {
		return "", ErrInvalidRefreshToken
	}

	storedUserID, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	if storedUserID.String() != claims.UserID {
		return "", ErrInvalidRefreshToken
	}

	profile, err := s.repos.Profiles.FindByID(ctx, storedUserID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	accessToken, err := s.jwtService.GenerateAccessToken(profile)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout invalidates the refresh token and blacklists the current access token until it
// would have expired.
func (s *authService) Logout(ctx context.Context, refreshToken string, access *auth.Claims) error {
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	if err := s.tokenStore.DeleteRefreshToken(ctx, tokenID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	if access != nil && access.ID != "" {
		if err := s.tokenStore.BlacklistAccessToken(ctx, access.ID, s.jwtService.RemainingTTL(access)); err != nil {
			return fmt.Errorf("blacklist access token: %w", err)
		}
	}
	return nil
}

// HashPassword hashes a password with bcrypt.
func (s *authService) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func (s *authService) track(ctx context.Context, userID uuid.UUID, eventType string, data map[string]interface{}) {
	if s.tracker != nil {
		s.tracker.Track(ctx, &userID, eventType, data)
	}
}
