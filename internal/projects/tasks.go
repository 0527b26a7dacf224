package projects

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crewdesk/crewdesk/internal/apperr"
	"github.com/crewdesk/crewdesk/internal/database/models"
	"github.com/crewdesk/crewdesk/internal/policy"
)

type CreateTaskInput struct {
	Title          string
	Description    string
	ProjectID      uuid.UUID
	AssignedToID   *uuid.UUID
	Status         string
	Priority       string
	EstimatedHours *int
	StartDate      *time.Time
	DueDate        *time.Time
}

// CreateTask creates a task inside a project of the actor's company.
// created_by is the actor and is set exactly once here.
func (s *Service) CreateTask(ctx context.Context, actor *models.User, input CreateTaskInput) (*models.Task, error) {
	project, err := s.GetProject(ctx, actor, input.ProjectID)
	if err != nil {
		return nil, err
	}

	if input.AssignedToID != nil {
		assignee, err := s.loadUser(ctx, *input.AssignedToID)
		if err != nil {
			return nil, err
		}
		if !assignee.InCompany(project.CompanyID) {
			return nil, apperr.Validation("assigned user must belong to the same company")
		}
	}

	status := input.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	task := &models.Task{
		Title:          input.Title,
		Description:    input.Description,
		ProjectID:      project.ID,
		AssignedToID:   input.AssignedToID,
		CreatedByID:    &actor.ID,
		Status:         status,
		Priority:       priority,
		EstimatedHours: input.EstimatedHours,
		StartDate:      input.StartDate,
		DueDate:        input.DueDate,
		Project:        project,
	}
	if err := policy.Decide(actor, policy.ActionCreate, task).Err(); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

type UpdateTaskInput struct {
	Title          *string
	Description    *string
	AssignedToID   *uuid.UUID
	Status         *string
	Priority       *string
	EstimatedHours *int
	ActualHours    *int
	StartDate      *time.Time
	DueDate        *time.Time
}

// UpdateTask applies task changes. Any company member may update a task.
// Status transitions are unconstrained: the only bookkeeping is that
// entering completed stamps completed_at and leaving it clears the stamp.
func (s *Service) UpdateTask(ctx context.Context, actor *models.User, taskID uuid.UUID, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTask(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	if err := policy.Decide(actor, policy.ActionUpdate, task).Err(); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.AssignedToID != nil {
		assignee, err := s.loadUser(ctx, *input.AssignedToID)
		if err != nil {
			return nil, err
		}
		if !assignee.InCompany(task.Project.CompanyID) {
			return nil, apperr.Validation("assigned user must belong to the same company")
		}
		updates["assigned_to_id"] = *input.AssignedToID
	}
	if input.Status != nil {
		updates["status"] = *input.Status
		switch {
		case *input.Status == models.TaskStatusCompleted && task.Status != models.TaskStatusCompleted:
			now := time.Now()
			updates["completed_at"] = &now
		case task.Status == models.TaskStatusCompleted && *input.Status != models.TaskStatusCompleted:
			updates["completed_at"] = gorm.Expr("NULL")
		}
	}
	if input.Priority != nil {
		updates["priority"] = *input.Priority
	}
	if input.EstimatedHours != nil {
		updates["estimated_hours"] = *input.EstimatedHours
	}
	if input.ActualHours != nil {
		updates["actual_hours"] = *input.ActualHours
	}
	if input.StartDate != nil {
		updates["start_date"] = *input.StartDate
	}
	if input.DueDate != nil {
		updates["due_date"] = *input.DueDate
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(task).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetTask(ctx, actor, taskID)
}

// DeleteTask removes a task and its comments. Allowed for the task
// creator, the project manager, or an admin/manager.
func (s *Service) DeleteTask(ctx context.Context, actor *models.User, taskID uuid.UUID) error {
	task, err := s.GetTask(ctx, actor, taskID)
	if err != nil {
		return err
	}
	if err := policy.Decide(actor, policy.ActionDelete, task).Err(); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(task).Error
	})
}

// ListTasks returns a project's tasks, newest first.
func (s *Service) ListTasks(ctx context.Context, actor *models.User, projectID uuid.UUID) ([]models.Task, error) {
	project, err := s.GetProject(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	var tasks []models.Task
	err = s.db.WithContext(ctx).
		Preload("AssignedTo").
		Preload("CreatedBy").
		Where("project_id = ?", project.ID).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

// MyTasks returns the tasks assigned to the actor across the company.
func (s *Service) MyTasks(ctx context.Context, actor *models.User) ([]models.Task, error) {
	if actor.CompanyID == nil {
		return nil, apperr.NotFound("company not found")
	}
	var tasks []models.Task
	err := s.db.WithContext(ctx).
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Where("tasks.assigned_to_id = ? AND projects.company_id = ?", actor.ID, *actor.CompanyID).
		Order("tasks.created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

// GetTask loads a task with its project. Tasks of other companies are
// reported as not found.
func (s *Service) GetTask(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := s.db.WithContext(ctx).Preload("Project").First(&task, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("task not found")
	}
	if err != nil {
		return nil, err
	}
	if task.Project == nil || !actor.InCompany(task.Project.CompanyID) {
		return nil, apperr.NotFound("task not found")
	}
	return &task, nil
}

// AddComment attaches a comment authored by the actor to a task.
func (s *Service) AddComment(ctx context.Context, actor *models.User, taskID uuid.UUID, content string) (*models.TaskComment, error) {
	task, err := s.GetTask(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, apperr.Validation("comment content is required")
	}

	comment := &models.TaskComment{
		TaskID:  task.ID,
		UserID:  actor.ID,
		Content: content,
		Task:    task,
	}
	if err := policy.Decide(actor, policy.ActionCreate, comment).Err(); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, err
	}
	comment.User = actor
	return comment, nil
}

func (s *Service) UpdateComment(ctx context.Context, actor *models.User, commentID uuid.UUID, content string) (*models.TaskComment, error) {
	comment, err := s.getComment(ctx, actor, commentID)
	if err != nil {
		return nil, err
	}
	if err := policy.Decide(actor, policy.ActionUpdate, comment).Err(); err != nil {
		return nil, err
	}
	if content == "" {
		return nil, apperr.Validation("comment content is required")
	}
	if err := s.db.WithContext(ctx).Model(comment).Update("content", content).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *Service) DeleteComment(ctx context.Context, actor *models.User, commentID uuid.UUID) error {
	comment, err := s.getComment(ctx, actor, commentID)
	if err != nil {
		return err
	}
	if err := policy.Decide(actor, policy.ActionDelete, comment).Err(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(comment).Error
}

// ListComments returns a task's comments, newest first.
func (s *Service) ListComments(ctx context.Context, actor *models.User, taskID uuid.UUID) ([]models.TaskComment, error) {
	task, err := s.GetTask(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	var comments []models.TaskComment
	err = s.db.WithContext(ctx).
		Preload("User").
		Where("task_id = ?", task.ID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

func (s *Service) getComment(ctx context.Context, actor *models.User, id uuid.UUID) (*models.TaskComment, error) {
	var comment models.TaskComment
	err := s.db.WithContext(ctx).Preload("Task.Project").First(&comment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("comment not found")
	}
	if err != nil {
		return nil, err
	}
	if comment.Task == nil || comment.Task.Project == nil ||
		!actor.InCompany(comment.Task.Project.CompanyID) {
		return nil, apperr.NotFound("comment not found")
	}
	return &comment, nil
}
