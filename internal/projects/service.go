// Package projects manages project, task, and comment lifecycle on top of
// the membership ledger and the authorization policy.
package projects

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crewdesk/crewdesk/internal/apperr"
	"github.com/crewdesk/crewdesk/internal/database/models"
	"github.com/crewdesk/crewdesk/internal/membership"
	"github.com/crewdesk/crewdesk/internal/policy"
)

type Service struct {
	db     *gorm.DB
	ledger *membership.Ledger
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, ledger: membership.NewLedger(db)}
}

type CreateProjectInput struct {
	Title       string
	Description string
	ManagerID   *uuid.UUID
	Status      string
	Priority    string
	StartDate   *time.Time
	DueDate     *time.Time
	Budget      *float64
	UserIDs     []uuid.UUID
	TeamIDs     []uuid.UUID
}

// CreateProject creates a project, its initial member roster, and its team
// assignments in one transaction. Listed users join with the member role;
// team ids outside the company are skipped. The manager, when designated
// and not listed, is auto-inserted with the manager role.
func (s *Service) CreateProject(ctx context.Context, actor *models.User, input CreateProjectInput) (*models.Project, error) {
	if actor.CompanyID == nil {
		return nil, apperr.NotFound("company not found")
	}

	status := input.Status
	if status == "" {
		status = models.ProjectStatusPlanning
	}
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	project := &models.Project{
		Title:       input.Title,
		Description: input.Description,
		CompanyID:   *actor.CompanyID,
		Status:      status,
		Priority:    priority,
		StartDate:   input.StartDate,
		DueDate:     input.DueDate,
		Budget:      input.Budget,
	}
	if err := policy.Decide(actor, policy.ActionCreate, project).Err(); err != nil {
		return nil, err
	}

	var manager *models.User
	if input.ManagerID != nil {
		var err error
		manager, err = s.loadUser(ctx, *input.ManagerID)
		if err != nil {
			return nil, err
		}
		if !manager.InCompany(*actor.CompanyID) {
			return nil, apperr.Validation("project manager must belong to the same company")
		}
		project.ManagerID = input.ManagerID
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		ledger := s.ledger.WithTx(tx)
		for _, id := range input.UserIDs {
			var user models.User
			if err := tx.Where("id = ? AND company_id = ?", id, project.CompanyID).
				First(&user).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}
			if _, err := ledger.AddMember(ctx, project, &user, models.ProjectRoleMember); err != nil {
				return err
			}
		}

		for _, id := range input.TeamIDs {
			var team models.Team
			if err := tx.Where("id = ? AND company_id = ?", id, project.CompanyID).
				First(&team).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}
			if err := tx.Model(project).Association("Teams").Append(&team); err != nil {
				return err
			}
		}

		if manager != nil {
			if err := ledger.EnsureHolder(ctx, project, manager, models.ProjectRoleManager); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	project.Manager = manager
	return project, nil
}

type UpdateProjectInput struct {
	Title       *string
	Description *string
	ManagerID   *uuid.UUID
	Status      *string
	Priority    *string
	StartDate   *time.Time
	DueDate     *time.Time
	Budget      *float64
	Progress    *int
}

func (s *Service) UpdateProject(ctx context.Context, actor *models.User, projectID uuid.UUID, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.GetProject(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	if err := policy.Decide(actor, policy.ActionUpdate, project).Err(); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.ManagerID != nil {
		manager, err := s.loadUser(ctx, *input.ManagerID)
		if err != nil {
			return nil, err
		}
		if !manager.InCompany(project.CompanyID) {
			return nil, apperr.Validation("project manager must belong to the same company")
		}
		updates["manager_id"] = *input.ManagerID
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.Priority != nil {
		updates["priority"] = *input.Priority
	}
	if input.StartDate != nil {
		updates["start_date"] = *input.StartDate
	}
	if input.DueDate != nil {
		updates["due_date"] = *input.DueDate
	}
	if input.Budget != nil {
		updates["budget"] = *input.Budget
	}
	if input.Progress != nil {
		if *input.Progress < 0 || *input.Progress > 100 {
			return nil, apperr.Validation("progress must be between 0 and 100")
		}
		updates["progress"] = *input.Progress
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(project).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return project, nil
}

// DeleteProject hard-deletes a project; tasks, comments, and membership
// rows cascade with it.
func (s *Service) DeleteProject(ctx context.Context, actor *models.User, projectID uuid.UUID) error {
	project, err := s.GetProject(ctx, actor, projectID)
	if err != nil {
		return err
	}
	if err := policy.Decide(actor, policy.ActionDelete, project).Err(); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id IN (?)",
			tx.Model(&models.Task{}).Select("id").Where("project_id = ?", project.ID)).
			Delete(&models.TaskComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("parent_kind = ? AND parent_id = ?",
			models.MembershipKindProject, project.ID).
			Delete(&models.Membership{}).Error; err != nil {
			return err
		}
		if err := tx.Model(project).Association("Teams").Clear(); err != nil {
			return err
		}
		return tx.Delete(project).Error
	})
}

func (s *Service) AddMember(ctx context.Context, actor *models.User, projectID, userID uuid.UUID, role string) (*models.Membership, error) {
	project, err := s.GetProject(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	if err := policy.Decide(actor, policy.ActionAddMember, project).Err(); err != nil {
		return nil, err
	}
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if role == "" {
		role = models.ProjectRoleMember
	}
	return s.ledger.AddMember(ctx, project, user, role)
}

func (s *Service) RemoveMember(ctx context.Context, actor *models.User, projectID, userID uuid.UUID) error {
	project, err := s.GetProject(ctx, actor, projectID)
	if err != nil {
		return err
	}
	if err := policy.Decide(actor, policy.ActionRemoveMember, project).Err(); err != nil {
		return err
	}
	return s.ledger.RemoveMember(ctx, project, userID)
}

func (s *Service) ListMembers(ctx context.Context, actor *models.User, projectID uuid.UUID) ([]models.Membership, error) {
	project, err := s.GetProject(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	return s.ledger.ActiveMembers(ctx, project)
}

// ListProjects returns the company's projects, newest first.
func (s *Service) ListProjects(ctx context.Context, actor *models.User) ([]models.Project, error) {
	if actor.CompanyID == nil {
		return nil, apperr.NotFound("company not found")
	}
	var list []models.Project
	err := s.db.WithContext(ctx).
		Preload("Manager").
		Where("company_id = ?", *actor.CompanyID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// MyProjects returns projects where the actor holds an active membership.
func (s *Service) MyProjects(ctx context.Context, actor *models.User) ([]models.Project, error) {
	if actor.CompanyID == nil {
		return nil, apperr.NotFound("company not found")
	}
	var list []models.Project
	err := s.db.WithContext(ctx).
		Joins("JOIN memberships ON memberships.parent_id = projects.id AND memberships.parent_kind = ? AND memberships.user_id = ? AND memberships.is_active = ?",
			models.MembershipKindProject, actor.ID, true).
		Where("projects.company_id = ?", *actor.CompanyID).
		Order("projects.created_at DESC").
		Find(&list).Error
	return list, err
}

// GetProject loads a project visible to the actor. Cross-company projects
// are reported as not found.
func (s *Service) GetProject(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := s.db.WithContext(ctx).Preload("Manager").Preload("Teams").First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("project not found")
	}
	if err != nil {
		return nil, err
	}
	if !actor.InCompany(project.CompanyID) {
		return nil, apperr.NotFound("project not found")
	}
	return &project, nil
}

// ProjectStats are the task-derived numbers for a project.
type ProjectStats struct {
	TaskCount      int64 `json:"task_count"`
	CompletedTasks int64 `json:"completed_tasks"`
	Completion     int   `json:"completion_percentage"`
}

// Stats computes task counts and the completion percentage for a project.
func (s *Service) Stats(ctx context.Context, actor *models.User, projectID uuid.UUID) (*ProjectStats, error) {
	project, err := s.GetProject(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}

	var total, completed int64
	if err := s.db.WithContext(ctx).Model(&models.Task{}).
		Where("project_id = ?", project.ID).
		Count(&total).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Task{}).
		Where("project_id = ? AND status = ?", project.ID, models.TaskStatusCompleted).
		Count(&completed).Error; err != nil {
		return nil, err
	}

	return &ProjectStats{
		TaskCount:      total,
		CompletedTasks: completed,
		Completion:     CompletionPercentage(completed, total),
	}, nil
}

// CompletionPercentage truncates toward zero: 1 of 3 completed is 33.
// A project with no tasks is 0, not a division error.
func CompletionPercentage(completed, total int64) int {
	if total == 0 {
		return 0
	}
	return int(completed * 100 / total)
}

func (s *Service) loadUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
