package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewdesk/crewdesk/internal/apperr"
	"github.com/crewdesk/crewdesk/internal/auth"
	"github.com/crewdesk/crewdesk/internal/database/models"
	"github.com/crewdesk/crewdesk/internal/testutil"
)

func TestService_Authenticate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	company := testutil.CreateTestCompany(t, db)
	user := testutil.CreateTestUser(t, db, company, models.RoleMember)

	svc := auth.NewService(db, testutil.CreateTestJWTService())
	ctx := context.Background()

	t.Run("authenticates with correct credentials", func(t *testing.T) {
		got, err := svc.Authenticate(ctx, user.Username, "testpassword123")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.NotNil(t, got.LastLoginAt)
	})

	t.Run("rejects unknown username", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody", "testpassword123")
		assert.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(err))
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, user.Username, "wrongpassword")
		assert.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(err))
	})

	t.Run("rejects deactivated account", func(t *testing.T) {
		inactive := testutil.CreateTestUser(t, db, company, models.RoleMember)
		require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

		_, err := svc.Authenticate(ctx, inactive.Username, "testpassword123")
		assert.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(err))
	})
}

func TestService_Login(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	company := testutil.CreateTestCompany(t, db)
	user := testutil.CreateTestUser(t, db, company, models.RoleAdmin)

	jwtService := testutil.CreateTestJWTService()
	svc := auth.NewService(db, jwtService)
	ctx := context.Background()

	t.Run("returns a token carrying identity claims", func(t *testing.T) {
		resp, err := svc.Login(ctx, auth.LoginInput{
			Username: user.Username,
			Password: "testpassword123",
		})
		require.NoError(t, err)
		require.NotEmpty(t, resp.Token)

		claims, err := jwtService.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, *user.CompanyID, claims.CompanyID)
		assert.Equal(t, user.Role, claims.Role)
	})

	t.Run("propagates invalid credentials", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginInput{
			Username: user.Username,
			Password: "nope",
		})
		assert.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(err))
	})
}

func TestService_ChangePassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	company := testutil.CreateTestCompany(t, db)
	svc := auth.NewService(db, testutil.CreateTestJWTService())
	ctx := context.Background()

	t.Run("changes password with correct old password", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db, company, models.RoleMember)

		err := svc.ChangePassword(ctx, user, auth.ChangePasswordInput{
			OldPassword:        "testpassword123",
			NewPassword:        "newpassword456",
			NewPasswordConfirm: "newpassword456",
		})
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, user.Username, "newpassword456")
		assert.NoError(t, err)
		_, err = svc.Authenticate(ctx, user.Username, "testpassword123")
		assert.Error(t, err)
	})

	t.Run("rejects wrong old password", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db, company, models.RoleMember)

		err := svc.ChangePassword(ctx, user, auth.ChangePasswordInput{
			OldPassword:        "wrong",
			NewPassword:        "newpassword456",
			NewPasswordConfirm: "newpassword456",
		})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("rejects mismatched confirmation", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db, company, models.RoleMember)

		err := svc.ChangePassword(ctx, user, auth.ChangePasswordInput{
			OldPassword:        "testpassword123",
			NewPassword:        "newpassword456",
			NewPasswordConfirm: "different",
		})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}
