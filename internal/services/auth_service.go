package services

import (
	"context"
	"fmt"

	"learnhub/internal/models"
	"learnhub/internal/repositories/interfaces"
	"learnhub/internal/utils"
	"learnhub/pkg/logger"
	"learnhub/pkg/oauth"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
	UserType string `json:"user_type"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
}

type AuthResponse struct {
	User   *models.User     `json:"user"`
	Tokens *utils.TokenPair `json:"tokens"`
}

type AuthService interface {
	Register(ctx context.Context, request *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error)
	GoogleLogin(ctx context.Context, request *GoogleLoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*utils.TokenPair, error)
	RegisterDevice(ctx context.Context, userID primitive.ObjectID, token, platform string) error
}

type authService struct {
	userRepo  interfaces.UserRepository
	google    oauth.Provider
	jwtSecret string
	logger    *logger.Logger
}

func NewAuthService(userRepo interfaces.UserRepository, google oauth.Provider, jwtSecret string, logger *logger.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		google:    google,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

func (s *authService) Register(ctx context.Context, request *RegisterRequest) (*AuthResponse, error) {
	if !utils.IsValidEmail(request.Email) {
		return nil, fmt.Errorf("invalid email address")
	}
	if err := utils.ValidatePasswordStrength(request.Password); err != nil {
		return nil, err
	}
	if request.Phone != "" && !utils.IsValidPhone(request.Phone) {
		return nil, fmt.Errorf("invalid phone number")
	}

	userType := models.UserTypeStudent
	if request.UserType == string(models.UserTypeInstructor) {
		userType = models.UserTypeInstructor
	}

	hash, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         request.Name,
		Email:        request.Email,
		Phone:        request.Phone,
		UserType:     userType,
		PasswordHash: hash,
		AuthProvider: models.AuthProviderLocal,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.WithUserID(user.ID).Info("User registered")

	return s.respond(user)
}

func (s *authService) Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, request.Email)
	if err != nil {
		if err == ErrUserNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPassword(user.PasswordHash, request.Password) {
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.WithError(err).WithUserID(user.ID).Warn("Failed to update last login")
	}

	return s.respond(user)
}

// GoogleLogin verifies the access token against Google and upserts the
// account it belongs to.
func (s *authService) GoogleLogin(ctx context.Context, request *GoogleLoginRequest) (*AuthResponse, error) {
	info, err := s.google.GetUserInfo(ctx, request.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("google token verification failed: %w", err)
	}
	if !info.EmailVerified {
		return nil, fmt.Errorf("google account email not verified")
	}

	user, err := s.userRepo.GetByProviderID(ctx, models.AuthProviderGoogle, info.ID)
	if err == ErrUserNotFound {
		// Fall back to email so an existing local account gets linked.
		user, err = s.userRepo.GetByEmail(ctx, info.Email)
		if err == ErrUserNotFound {
			user = &models.User{
				Name:         info.Name,
				Email:        info.Email,
				UserType:     models.UserTypeStudent,
				AuthProvider: models.AuthProviderGoogle,
				ProviderID:   info.ID,
				AvatarURL:    info.Picture,
				IsActive:     true,
			}
			if err := s.userRepo.Create(ctx, user); err != nil {
				return nil, err
			}
			s.logger.WithUserID(user.ID).Info("User registered via Google")
		} else if err != nil {
			return nil, err
		} else {
			updates := map[string]interface{}{
				"auth_provider": models.AuthProviderGoogle,
				"provider_id":   info.ID,
			}
			if user.AvatarURL == "" && info.Picture != "" {
				updates["avatar_url"] = info.Picture
			}
			if err := s.userRepo.Update(ctx, user.ID, updates); err != nil {
				return nil, err
			}
		}
	} else if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.WithError(err).WithUserID(user.ID).Warn("Failed to update last login")
	}

	return s.respond(user)
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*utils.TokenPair, error) {
	claims, err := utils.ValidateToken(refreshToken, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	return utils.GenerateTokenPair(user.ID, string(user.UserType), user.Email, s.jwtSecret)
}

func (s *authService) RegisterDevice(ctx context.Context, userID primitive.ObjectID, token, platform string) error {
	return s.userRepo.AddDeviceToken(ctx, userID, models.DeviceToken{
		Token:    token,
		Platform: platform,
	})
}

func (s *authService) respond(user *models.User) (*AuthResponse, error) {
	tokens, err := utils.GenerateTokenPair(user.ID, string(user.UserType), user.Email, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &AuthResponse{
		User:   user,
		Tokens: tokens,
	}, nil
}
