package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk/internal/database/models"
)

// Authenticator defines the interface for credential verification.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*AuthResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// TokenService defines the interface for JWT token operations.
type TokenService interface {
	GenerateToken(userID, companyID uuid.UUID, username, role string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Compile-time interface satisfaction checks
var (
	_ Authenticator = (*Service)(nil)
	_ TokenService  = (*JWTService)(nil)
)
