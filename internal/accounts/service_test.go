package accounts_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/crewdesk/crewdesk/internal/accounts"
	"github.com/crewdesk/crewdesk/internal/apperr"
	"github.com/crewdesk/crewdesk/internal/database/models"
	"github.com/crewdesk/crewdesk/internal/testutil"
)

// raceUserInsert registers a create hook that slips a competing user with
// the given username in after the service's count pre-check, right before
// the service's own insert.
func raceUserInsert(t *testing.T, db *gorm.DB, username string) *bool {
	t.Helper()

	raced := new(bool)
	err := db.Callback().Create().Before("gorm:create").
		Register("competing_user_insert", func(tx *gorm.DB) {
			u, ok := tx.Statement.Dest.(*models.User)
			if !ok || *raced || u.Username != username {
				return
			}
			*raced = true
			competing := &models.User{
				Username:     u.Username,
				Email:        "competing-" + u.Username + "@example.com",
				PasswordHash: "x",
				Role:         models.RoleMember,
				IsActive:     true,
			}
			if err := tx.Session(&gorm.Session{NewDB: true}).Create(competing).Error; err != nil {
				_ = tx.AddError(err)
			}
		})
	require.NoError(t, err)
	return raced
}

func TestService_RegisterCompany(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := accounts.NewService(db)
	ctx := context.Background()

	t.Run("creates company with admin owner", func(t *testing.T) {
		company, owner, err := svc.RegisterCompany(ctx, accounts.RegisterCompanyInput{
			Name:                 "Acme Corp",
			Email:                "acme@example.com",
			OwnerUsername:        "acme-owner",
			OwnerEmail:           "owner@acme.example.com",
			OwnerPassword:        "supersecret1",
			OwnerPasswordConfirm: "supersecret1",
			OwnerFirstName:       "Ada",
			OwnerLastName:        "Lovelace",
		})
		require.NoError(t, err)

		assert.Equal(t, models.CompanyTypeCompany, company.CompanyType)
		assert.True(t, company.IsActive)

		assert.Equal(t, models.RoleAdmin, owner.Role)
		assert.True(t, owner.IsCompanyOwner)
		require.NotNil(t, owner.CompanyID)
		assert.Equal(t, company.ID, *owner.CompanyID)
	})

	t.Run("rejects mismatched passwords", func(t *testing.T) {
		_, _, err := svc.RegisterCompany(ctx, accounts.RegisterCompanyInput{
			Name:                 "Mismatch Inc",
			Email:                "mismatch@example.com",
			OwnerUsername:        "mismatch-owner",
			OwnerEmail:           "owner@mismatch.example.com",
			OwnerPassword:        "supersecret1",
			OwnerPasswordConfirm: "different",
		})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("rejects taken username", func(t *testing.T) {
		_, _, err := svc.RegisterCompany(ctx, accounts.RegisterCompanyInput{
			Name:                 "Copycat LLC",
			Email:                "copycat@example.com",
			OwnerUsername:        "acme-owner",
			OwnerEmail:           "other@copycat.example.com",
			OwnerPassword:        "supersecret1",
			OwnerPasswordConfirm: "supersecret1",
		})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("rejected registration leaves no company row", func(t *testing.T) {
		var before int64
		require.NoError(t, db.Model(&models.Company{}).Count(&before).Error)

		_, _, err := svc.RegisterCompany(ctx, accounts.RegisterCompanyInput{
			Name:                 "Halfway Ltd",
			Email:                "halfway@example.com",
			OwnerUsername:        "ACME-OWNER-2",
			OwnerEmail:           "owner@acme.example.com",
			OwnerPassword:        "supersecret1",
			OwnerPasswordConfirm: "supersecret1",
		})
		require.Error(t, err)

		var after int64
		require.NoError(t, db.Model(&models.Company{}).Count(&after).Error)
		assert.Equal(t, before, after)
	})
}

func TestService_RegisterCompanyInsertRace(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := accounts.NewService(db)
	ctx := context.Background()

	raced := raceUserInsert(t, db, "raced-owner")

	_, _, err := svc.RegisterCompany(ctx, accounts.RegisterCompanyInput{
		Name:                 "Racy Corp",
		Email:                "racy@example.com",
		OwnerUsername:        "raced-owner",
		OwnerEmail:           "owner@racy.example.com",
		OwnerPassword:        "supersecret1",
		OwnerPasswordConfirm: "supersecret1",
	})
	require.True(t, *raced)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// The owner insert lost the race inside the registration transaction,
	// so the company row must have rolled back with it.
	var companies int64
	require.NoError(t, db.Model(&models.Company{}).
		Where("name = ?", "Racy Corp").Count(&companies).Error)
	assert.Zero(t, companies)
}

func TestService_CreateUserInsertRace(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	company := testutil.CreateTestCompany(t, db)
	admin := testutil.CreateTestUser(t, db, company, models.RoleAdmin)

	svc := accounts.NewService(db)
	ctx := context.Background()

	raced := raceUserInsert(t, db, "raced-hire")

	_, err := svc.CreateUser(ctx, admin, accounts.CreateUserInput{
		Username:        "raced-hire",
		Email:           "raced-hire@example.com",
		Password:        "supersecret1",
		PasswordConfirm: "supersecret1",
	})
	require.True(t, *raced)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestService_CreateUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	company := testutil.CreateTestCompany(t, db)
	admin := testutil.CreateTestUser(t, db, company, models.RoleAdmin)
	member := testutil.CreateTestUser(t, db, company, models.RoleMember)

	svc := accounts.NewService(db)
	ctx := context.Background()

	t.Run("admin creates a user in own company", func(t *testing.T) {
		user, err := svc.CreateUser(ctx, admin, accounts.CreateUserInput{
			Username:        "new-hire",
			Email:           "new-hire@example.com",
			Password:        "supersecret1",
			PasswordConfirm: "supersecret1",
			FirstName:       "New",
			LastName:        "Hire",
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleMember, user.Role)
		require.NotNil(t, user.CompanyID)
		assert.Equal(t, company.ID, *user.CompanyID)
	})

	t.Run("plain member cannot create users", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, member, accounts.CreateUserInput{
			Username:        "sneaky",
			Email:           "sneaky@example.com",
			Password:        "supersecret1",
			PasswordConfirm: "supersecret1",
		})
		assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
	})

	t.Run("cannot create into a foreign company", func(t *testing.T) {
		otherCompany := testutil.CreateTestCompany(t, db)

		_, err := svc.CreateUser(ctx, admin, accounts.CreateUserInput{
			Username:        "foreign",
			Email:           "foreign@example.com",
			Password:        "supersecret1",
			PasswordConfirm: "supersecret1",
			CompanyID:       &otherCompany.ID,
		})
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, admin, accounts.CreateUserInput{
			Username:        "new-hire",
			Email:           "unique@example.com",
			Password:        "supersecret1",
			PasswordConfirm: "supersecret1",
		})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestService_UpdateUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	company := testutil.CreateTestCompany(t, db)
	admin := testutil.CreateTestUser(t, db, company, models.RoleAdmin)
	member := testutil.CreateTestUser(t, db, company, models.RoleMember)

	svc := accounts.NewService(db)
	ctx := context.Background()

	t.Run("member updates own profile", func(t *testing.T) {
		name := "Updated"
		got, err := svc.UpdateUser(ctx, member, member.ID, accounts.UpdateUserInput{
			FirstName: &name,
		})
		require.NoError(t, err)
		assert.Equal(t, "Updated", got.FirstName)
	})

	t.Run("member cannot change own role", func(t *testing.T) {
		role := models.RoleAdmin
		_, err := svc.UpdateUser(ctx, member, member.ID, accounts.UpdateUserInput{
			Role: &role,
		})
		assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
	})

	t.Run("member cannot update others", func(t *testing.T) {
		name := "Hacked"
		_, err := svc.UpdateUser(ctx, member, admin.ID, accounts.UpdateUserInput{
			FirstName: &name,
		})
		assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
	})

	t.Run("admin promotes a member", func(t *testing.T) {
		role := models.RoleManager
		got, err := svc.UpdateUser(ctx, admin, member.ID, accounts.UpdateUserInput{
			Role: &role,
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleManager, got.Role)
	})

	t.Run("user in another company reads as not found", func(t *testing.T) {
		otherCompany := testutil.CreateTestCompany(t, db)
		outsider := testutil.CreateTestUser(t, db, otherCompany, models.RoleMember)

		name := "Nope"
		_, err := svc.UpdateUser(ctx, admin, outsider.ID, accounts.UpdateUserInput{
			FirstName: &name,
		})
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestService_DeactivateUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	company := testutil.CreateTestCompany(t, db)
	admin := testutil.CreateTestUser(t, db, company, models.RoleAdmin)
	manager := testutil.CreateTestUser(t, db, company, models.RoleManager)

	svc := accounts.NewService(db)
	ctx := context.Background()

	t.Run("admin deactivates a user", func(t *testing.T) {
		target := testutil.CreateTestUser(t, db, company, models.RoleMember)

		require.NoError(t, svc.DeactivateUser(ctx, admin, target.ID))

		var got models.User
		require.NoError(t, db.First(&got, "id = ?", target.ID).Error)
		assert.False(t, got.IsActive)
	})

	t.Run("manager cannot deactivate", func(t *testing.T) {
		target := testutil.CreateTestUser(t, db, company, models.RoleMember)

		err := svc.DeactivateUser(ctx, manager, target.ID)
		assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
	})

	t.Run("admin cannot deactivate self", func(t *testing.T) {
		err := svc.DeactivateUser(ctx, admin, admin.ID)
		assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
	})
}

func TestService_Company(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	company := testutil.CreateTestCompany(t, db)
	admin := testutil.CreateTestUser(t, db, company, models.RoleAdmin)
	manager := testutil.CreateTestUser(t, db, company, models.RoleManager)

	svc := accounts.NewService(db)
	ctx := context.Background()

	t.Run("members see their own company", func(t *testing.T) {
		got, err := svc.GetCompany(ctx, manager)
		require.NoError(t, err)
		assert.Equal(t, company.ID, got.ID)
	})

	t.Run("admin updates company details", func(t *testing.T) {
		name := "Renamed Corp"
		got, err := svc.UpdateCompany(ctx, admin, accounts.UpdateCompanyInput{
			Name: &name,
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed Corp", got.Name)
	})

	t.Run("manager cannot update company details", func(t *testing.T) {
		name := "Nope Inc"
		_, err := svc.UpdateCompany(ctx, manager, accounts.UpdateCompanyInput{
			Name: &name,
		})
		assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
	})

	t.Run("list returns only company users", func(t *testing.T) {
		otherCompany := testutil.CreateTestCompany(t, db)
		testutil.CreateTestUser(t, db, otherCompany, models.RoleMember)

		users, err := svc.ListCompanyUsers(ctx, admin)
		require.NoError(t, err)
		for _, u := range users {
			require.NotNil(t, u.CompanyID)
			assert.Equal(t, company.ID, *u.CompanyID)
		}
	})
}
