package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crewdesk/crewdesk/internal/apperr"
	"github.com/crewdesk/crewdesk/internal/database/models"
)

type Service struct {
	db  *gorm.DB
	jwt *JWTService
}

func NewService(db *gorm.DB, jwt *JWTService) *Service {
	return &Service{db: db, jwt: jwt}
}

type LoginInput struct {
	Username string
	Password string
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Authenticate verifies a username/password pair. All failure modes
// (unknown user, wrong password, deactivated account) surface as invalid
// credentials so the response does not reveal which check failed.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Preload("Company").
		Where("username = ?", username).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.InvalidCredentials("invalid credentials")
		}
		return nil, err
	}

	if !CheckPassword(password, user.PasswordHash) {
		return nil, apperr.InvalidCredentials("invalid credentials")
	}

	if !user.IsActive {
		return nil, apperr.InvalidCredentials("account is disabled")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login_at", now).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// Login authenticates and mints a bearer token for the HTTP layer.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	user, err := s.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		return nil, err
	}

	token, err := s.TokenFor(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: user}, nil
}

// TokenFor mints a token carrying the user's identity claims.
func (s *Service) TokenFor(user *models.User) (string, error) {
	var companyID uuid.UUID
	if user.CompanyID != nil {
		companyID = *user.CompanyID
	}
	return s.jwt.GenerateToken(user.ID, companyID, user.Username, user.Role)
}

type ChangePasswordInput struct {
	OldPassword        string
	NewPassword        string
	NewPasswordConfirm string
}

func (s *Service) ChangePassword(ctx context.Context, actor *models.User, input ChangePasswordInput) error {
	if input.NewPassword != input.NewPasswordConfirm {
		return apperr.Validation("new passwords don't match")
	}
	if !CheckPassword(input.OldPassword, actor.PasswordHash) {
		return apperr.Validation("old password is incorrect")
	}

	hash, err := HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", actor.ID).
		Update("password_hash", hash).Error
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Preload("Company").
		First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}
