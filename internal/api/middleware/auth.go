package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crewdesk/crewdesk/internal/auth"
	"github.com/crewdesk/crewdesk/internal/database/models"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	CompanyIDKey contextKey = "company_id"
	UsernameKey  contextKey = "username"
	UserRoleKey  contextKey = "user_role"
	ActorKey     contextKey = "actor"
)

func Auth(jwtService *auth.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string

			authHeader := r.Header.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimPrefix(authHeader, "Bearer ")
			}

			if token == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, CompanyIDKey, claims.CompanyID)
			ctx = context.WithValue(ctx, UsernameKey, claims.Username)
			ctx = context.WithValue(ctx, UserRoleKey, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoadActor resolves the token's user to a database record so handlers can
// pass an explicit actor into the service layer. Role and company always
// come from the record, not the token, so revocations take effect without
// waiting for token expiry. Deactivated accounts are rejected here.
func LoadActor(db *gorm.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r.Context())
			if userID == uuid.Nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			var actor models.User
			if err := db.WithContext(r.Context()).
				Preload("Company").
				First(&actor, "id = ?", userID).Error; err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !actor.IsActive {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), ActorKey, &actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Helper functions to extract values from context
func GetUserID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

func GetCompanyID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(CompanyIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

func GetUserRole(ctx context.Context) string {
	if role, ok := ctx.Value(UserRoleKey).(string); ok {
		return role
	}
	return ""
}

func GetActor(ctx context.Context) *models.User {
	if actor, ok := ctx.Value(ActorKey).(*models.User); ok {
		return actor
	}
	return nil
}
