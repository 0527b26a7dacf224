package teams_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewdesk/crewdesk/internal/apperr"
	"github.com/crewdesk/crewdesk/internal/database/models"
	"github.com/crewdesk/crewdesk/internal/membership"
	"github.com/crewdesk/crewdesk/internal/teams"
	"github.com/crewdesk/crewdesk/internal/testutil"
)

func TestService_CreateTeam(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	company := testutil.CreateTestCompany(t, db)
	admin := testutil.CreateTestUser(t, db, company, models.RoleAdmin)
	member := testutil.CreateTestUser(t, db, company, models.RoleMember)

	svc := teams.NewService(db)
	ledger := membership.NewLedger(db)
	ctx := context.Background()

	t.Run("creates team with lead and roster in one go", func(t *testing.T) {
		lead := testutil.CreateTestUser(t, db, company, models.RoleMember)
		dev := testutil.CreateTestUser(t, db, company, models.RoleMember)

		team, err := svc.CreateTeam(ctx, admin, teams.CreateTeamInput{
			Name:      "Backend",
			LeadID:    &lead.ID,
			MemberIDs: []uuid.UUID{dev.ID},
		})
		require.NoError(t, err)

		members, err := ledger.ActiveMembers(ctx, team)
		require.NoError(t, err)
		require.Len(t, members, 2)

		roles := map[uuid.UUID]string{}
		for _, m := range members {
			roles[m.UserID] = m.Role
		}
		assert.Equal(t, models.TeamRoleMember, roles[dev.ID])
		assert.Equal(t, models.TeamRoleLead, roles[lead.ID])
	})

	t.Run("lead listed as member keeps exactly one active row", func(t *testing.T) {
		lead := testutil.CreateTestUser(t, db, company, models.RoleMember)

		team, err := svc.CreateTeam(ctx, admin, teams.CreateTeamInput{
			Name:      "Frontend",
			LeadID:    &lead.ID,
			MemberIDs: []uuid.UUID{lead.ID},
		})
		require.NoError(t, err)

		members, err := ledger.ActiveMembers(ctx, team)
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, models.TeamRoleMember, members[0].Role)
	})

	t.Run("member ids outside the company are skipped", func(t *testing.T) {
		otherCompany := testutil.CreateTestCompany(t, db)
		outsider := testutil.CreateTestUser(t, db, otherCompany, models.RoleMember)

		team, err := svc.CreateTeam(ctx, admin, teams.CreateTeamInput{
			Name:      "Ops",
			MemberIDs: []uuid.UUID{outsider.ID, uuid.New()},
		})
		require.NoError(t, err)

		members, err := ledger.ActiveMembers(ctx, team)
		require.NoError(t, err)
		assert.Empty(t, members)
	})

	t.Run("plain member cannot create", func(t *testing.T) {
		_, err := svc.CreateTeam(ctx, member, teams.CreateTeamInput{Name: "Shadow"})
		assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
	})

	t.Run("foreign lead is rejected", func(t *testing.T) {
		otherCompany := testutil.CreateTestCompany(t, db)
		outsider := testutil.CreateTestUser(t, db, otherCompany, models.RoleMember)

		_, err := svc.CreateTeam(ctx, admin, teams.CreateTeamInput{
			Name:   "Espionage",
			LeadID: &outsider.ID,
		})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("duplicate name in the same company conflicts", func(t *testing.T) {
		_, err := svc.CreateTeam(ctx, admin, teams.CreateTeamInput{Name: "Backend"})
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})

	t.Run("same name in another company is fine", func(t *testing.T) {
		otherCompany := testutil.CreateTestCompany(t, db)
		otherAdmin := testutil.CreateTestUser(t, db, otherCompany, models.RoleAdmin)

		_, err := svc.CreateTeam(ctx, otherAdmin, teams.CreateTeamInput{Name: "Backend"})
		assert.NoError(t, err)
	})
}

func TestService_TeamVisibility(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	company := testutil.CreateTestCompany(t, db)
	admin := testutil.CreateTestUser(t, db, company, models.RoleAdmin)

	otherCompany := testutil.CreateTestCompany(t, db)
	otherAdmin := testutil.CreateTestUser(t, db, otherCompany, models.RoleAdmin)

	svc := teams.NewService(db)
	ctx := context.Background()

	team, err := svc.CreateTeam(ctx, admin, teams.CreateTeamInput{Name: "Visible"})
	require.NoError(t, err)

	t.Run("same-company read succeeds", func(t *testing.T) {
		got, err := svc.GetTeam(ctx, admin, team.ID)
		require.NoError(t, err)
		assert.Equal(t, team.ID, got.ID)
	})

	t.Run("cross-company read is not found", func(t *testing.T) {
		_, err := svc.GetTeam(ctx, otherAdmin, team.ID)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("list excludes other companies and inactive teams", func(t *testing.T) {
		retired, err := svc.CreateTeam(ctx, admin, teams.CreateTeamInput{Name: "Retired"})
		require.NoError(t, err)
		require.NoError(t, svc.DeactivateTeam(ctx, admin, retired.ID))

		list, err := svc.ListTeams(ctx, admin)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Visible", list[0].Name)
	})
}

func TestService_TeamRoster(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	company := testutil.CreateTestCompany(t, db)
	admin := testutil.CreateTestUser(t, db, company, models.RoleAdmin)
	lead := testutil.CreateTestUser(t, db, company, models.RoleMember)
	member := testutil.CreateTestUser(t, db, company, models.RoleMember)

	svc := teams.NewService(db)
	ctx := context.Background()

	team, err := svc.CreateTeam(ctx, admin, teams.CreateTeamInput{
		Name:   "Roster",
		LeadID: &lead.ID,
	})
	require.NoError(t, err)

	t.Run("lead manages the roster despite member role", func(t *testing.T) {
		_, err := svc.AddMember(ctx, lead, team.ID, member.ID, "")
		require.NoError(t, err)

		require.NoError(t, svc.RemoveMember(ctx, lead, team.ID, member.ID))
	})

	t.Run("plain member cannot manage the roster", func(t *testing.T) {
		other := testutil.CreateTestUser(t, db, company, models.RoleMember)

		_, err := svc.AddMember(ctx, member, team.ID, other.ID, "")
		assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
	})

	t.Run("re-added member shows up once", func(t *testing.T) {
		_, err := svc.AddMember(ctx, admin, team.ID, member.ID, "")
		require.NoError(t, err)

		roster, err := svc.ListMembers(ctx, admin, team.ID)
		require.NoError(t, err)

		var count int
		for _, m := range roster {
			if m.UserID == member.ID {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("my memberships reflects active rows only", func(t *testing.T) {
		mine, err := svc.MyMemberships(ctx, member)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, team.ID, mine[0].ParentID)
	})
}
