package policy_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/crewdesk/crewdesk/internal/apperr"
	"github.com/crewdesk/crewdesk/internal/database/models"
	"github.com/crewdesk/crewdesk/internal/policy"
)

func testUser(companyID uuid.UUID, role string) *models.User {
	return &models.User{
		Base:      models.Base{ID: uuid.New()},
		CompanyID: &companyID,
		Role:      role,
	}
}

func TestDecide_TenantBoundary(t *testing.T) {
	companyA := uuid.New()
	companyB := uuid.New()

	actor := testUser(companyA, models.RoleAdmin)
	foreignProject := &models.Project{
		Base:      models.Base{ID: uuid.New()},
		CompanyID: companyB,
	}

	t.Run("cross-company access reads as not found", func(t *testing.T) {
		for _, action := range []policy.Action{
			policy.ActionRead,
			policy.ActionUpdate,
			policy.ActionDelete,
			policy.ActionAddMember,
		} {
			d := policy.Decide(actor, action, foreignProject)
			assert.Equal(t, policy.DenyNotFound, d.Effect, "action %s", action)
			assert.Equal(t, apperr.KindNotFound, apperr.KindOf(d.Err()), "action %s", action)
		}
	})

	t.Run("admin role does not cross the boundary", func(t *testing.T) {
		d := policy.Decide(actor, policy.ActionDelete, foreignProject)
		assert.Equal(t, policy.DenyNotFound, d.Effect)
	})

	t.Run("task without loaded project is invisible", func(t *testing.T) {
		d := policy.Decide(actor, policy.ActionRead, &models.Task{})
		assert.Equal(t, policy.DenyNotFound, d.Effect)
	})
}

func TestDecide_Project(t *testing.T) {
	companyID := uuid.New()

	admin := testUser(companyID, models.RoleAdmin)
	manager := testUser(companyID, models.RoleManager)
	member := testUser(companyID, models.RoleMember)
	projectManager := testUser(companyID, models.RoleMember)

	project := &models.Project{
		Base:      models.Base{ID: uuid.New()},
		CompanyID: companyID,
		ManagerID: &projectManager.ID,
	}

	t.Run("any company member can read", func(t *testing.T) {
		assert.True(t, policy.Decide(member, policy.ActionRead, project).Allowed())
	})

	t.Run("only elevated roles create", func(t *testing.T) {
		assert.True(t, policy.Decide(admin, policy.ActionCreate, project).Allowed())
		assert.True(t, policy.Decide(manager, policy.ActionCreate, project).Allowed())

		d := policy.Decide(member, policy.ActionCreate, project)
		assert.Equal(t, policy.DenyForbidden, d.Effect)
		assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(d.Err()))
	})

	t.Run("plain member cannot mutate", func(t *testing.T) {
		for _, action := range []policy.Action{
			policy.ActionUpdate,
			policy.ActionDelete,
			policy.ActionAddMember,
			policy.ActionRemoveMember,
		} {
			d := policy.Decide(member, action, project)
			assert.Equal(t, policy.DenyForbidden, d.Effect, "action %s", action)
		}
	})

	t.Run("the designated project manager can mutate despite member role", func(t *testing.T) {
		for _, action := range []policy.Action{
			policy.ActionUpdate,
			policy.ActionDelete,
			policy.ActionAddMember,
			policy.ActionRemoveMember,
		} {
			assert.True(t, policy.Decide(projectManager, action, project).Allowed(), "action %s", action)
		}
	})

	t.Run("admin and manager can mutate any project", func(t *testing.T) {
		assert.True(t, policy.Decide(admin, policy.ActionDelete, project).Allowed())
		assert.True(t, policy.Decide(manager, policy.ActionAddMember, project).Allowed())
	})
}

func TestDecide_Team(t *testing.T) {
	companyID := uuid.New()

	admin := testUser(companyID, models.RoleAdmin)
	member := testUser(companyID, models.RoleMember)
	lead := testUser(companyID, models.RoleMember)

	team := &models.Team{
		Base:      models.Base{ID: uuid.New()},
		CompanyID: companyID,
		LeadID:    &lead.ID,
	}

	t.Run("team lead can manage the roster", func(t *testing.T) {
		assert.True(t, policy.Decide(lead, policy.ActionAddMember, team).Allowed())
		assert.True(t, policy.Decide(lead, policy.ActionRemoveMember, team).Allowed())
	})

	t.Run("plain member cannot", func(t *testing.T) {
		d := policy.Decide(member, policy.ActionAddMember, team)
		assert.Equal(t, policy.DenyForbidden, d.Effect)
	})

	t.Run("only elevated roles create teams", func(t *testing.T) {
		assert.True(t, policy.Decide(admin, policy.ActionCreate, team).Allowed())
		assert.Equal(t, policy.DenyForbidden, policy.Decide(member, policy.ActionCreate, team).Effect)
	})
}

func TestDecide_Task(t *testing.T) {
	companyID := uuid.New()

	admin := testUser(companyID, models.RoleAdmin)
	member := testUser(companyID, models.RoleMember)
	creator := testUser(companyID, models.RoleMember)
	projectManager := testUser(companyID, models.RoleMember)

	project := &models.Project{
		Base:      models.Base{ID: uuid.New()},
		CompanyID: companyID,
		ManagerID: &projectManager.ID,
	}
	task := &models.Task{
		Base:        models.Base{ID: uuid.New()},
		ProjectID:   project.ID,
		CreatedByID: &creator.ID,
		Project:     project,
	}

	t.Run("any company member can create and update tasks", func(t *testing.T) {
		assert.True(t, policy.Decide(member, policy.ActionCreate, task).Allowed())
		assert.True(t, policy.Decide(member, policy.ActionUpdate, task).Allowed())
	})

	t.Run("delete requires creator, project manager, or elevated role", func(t *testing.T) {
		assert.True(t, policy.Decide(creator, policy.ActionDelete, task).Allowed())
		assert.True(t, policy.Decide(projectManager, policy.ActionDelete, task).Allowed())
		assert.True(t, policy.Decide(admin, policy.ActionDelete, task).Allowed())

		d := policy.Decide(member, policy.ActionDelete, task)
		assert.Equal(t, policy.DenyForbidden, d.Effect)
	})
}

func TestDecide_Comment(t *testing.T) {
	companyID := uuid.New()

	admin := testUser(companyID, models.RoleAdmin)
	author := testUser(companyID, models.RoleMember)
	other := testUser(companyID, models.RoleMember)

	project := &models.Project{
		Base:      models.Base{ID: uuid.New()},
		CompanyID: companyID,
	}
	task := &models.Task{
		Base:      models.Base{ID: uuid.New()},
		ProjectID: project.ID,
		Project:   project,
	}
	comment := &models.TaskComment{
		Base:   models.Base{ID: uuid.New()},
		TaskID: task.ID,
		UserID: author.ID,
		Task:   task,
	}

	t.Run("only the author edits", func(t *testing.T) {
		assert.True(t, policy.Decide(author, policy.ActionUpdate, comment).Allowed())
		assert.Equal(t, policy.DenyForbidden, policy.Decide(other, policy.ActionUpdate, comment).Effect)
		assert.Equal(t, policy.DenyForbidden, policy.Decide(admin, policy.ActionUpdate, comment).Effect)
	})

	t.Run("author or admin deletes", func(t *testing.T) {
		assert.True(t, policy.Decide(author, policy.ActionDelete, comment).Allowed())
		assert.True(t, policy.Decide(admin, policy.ActionDelete, comment).Allowed())
		assert.Equal(t, policy.DenyForbidden, policy.Decide(other, policy.ActionDelete, comment).Effect)
	})
}

func TestDecide_Company(t *testing.T) {
	companyID := uuid.New()
	company := &models.Company{Base: models.Base{ID: companyID}}

	admin := testUser(companyID, models.RoleAdmin)
	manager := testUser(companyID, models.RoleManager)

	t.Run("only admins update company details", func(t *testing.T) {
		assert.True(t, policy.Decide(admin, policy.ActionUpdate, company).Allowed())
		assert.Equal(t, policy.DenyForbidden, policy.Decide(manager, policy.ActionUpdate, company).Effect)
	})
}

func TestDecide_User(t *testing.T) {
	companyID := uuid.New()

	admin := testUser(companyID, models.RoleAdmin)
	manager := testUser(companyID, models.RoleManager)
	member := testUser(companyID, models.RoleMember)
	target := testUser(companyID, models.RoleMember)

	t.Run("self-update always allowed", func(t *testing.T) {
		assert.True(t, policy.Decide(member, policy.ActionUpdate, member).Allowed())
	})

	t.Run("updating others requires elevated role", func(t *testing.T) {
		assert.True(t, policy.Decide(admin, policy.ActionUpdate, target).Allowed())
		assert.True(t, policy.Decide(manager, policy.ActionUpdate, target).Allowed())
		assert.Equal(t, policy.DenyForbidden, policy.Decide(member, policy.ActionUpdate, target).Effect)
	})

	t.Run("deactivation is admin-only and never self", func(t *testing.T) {
		assert.True(t, policy.Decide(admin, policy.ActionDelete, target).Allowed())
		assert.Equal(t, policy.DenyForbidden, policy.Decide(manager, policy.ActionDelete, target).Effect)
		assert.Equal(t, policy.DenyForbidden, policy.Decide(admin, policy.ActionDelete, admin).Effect)
	})
}
