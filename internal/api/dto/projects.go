package dto

import "github.com/crewdesk/crewdesk/internal/api/validation"

type CreateProjectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	ManagerID   *string  `json:"manager_id,omitempty"`
	Status      string   `json:"status,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	StartDate   *string  `json:"start_date,omitempty"`
	DueDate     *string  `json:"due_date,omitempty"`
	Budget      *float64 `json:"budget,omitempty"`
	UserIDs     []string `json:"assigned_user_ids,omitempty"`
	TeamIDs     []string `json:"assigned_team_ids,omitempty"`
}

func (r CreateProjectRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Title == "" {
		errors["title"] = "Project title is required"
	}
	if r.Status != "" && !validation.OneOf(r.Status, "planning", "active", "on_hold", "completed", "cancelled") {
		errors["status"] = "Invalid status"
	}
	if r.Priority != "" && !validation.OneOf(r.Priority, "low", "medium", "high", "urgent") {
		errors["priority"] = "Invalid priority"
	}
	if r.ManagerID != nil && !validation.ValidUUID(*r.ManagerID) {
		errors["manager_id"] = "Invalid manager ID format"
	}
	return errors
}

type UpdateProjectRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	ManagerID   *string  `json:"manager_id,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Priority    *string  `json:"priority,omitempty"`
	StartDate   *string  `json:"start_date,omitempty"`
	DueDate     *string  `json:"due_date,omitempty"`
	Budget      *float64 `json:"budget,omitempty"`
	Progress    *int     `json:"progress,omitempty"`
}

func (r UpdateProjectRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Title != nil && *r.Title == "" {
		errors["title"] = "Project title cannot be empty"
	}
	if r.Status != nil && !validation.OneOf(*r.Status, "planning", "active", "on_hold", "completed", "cancelled") {
		errors["status"] = "Invalid status"
	}
	if r.Priority != nil && !validation.OneOf(*r.Priority, "low", "medium", "high", "urgent") {
		errors["priority"] = "Invalid priority"
	}
	if r.Progress != nil && (*r.Progress < 0 || *r.Progress > 100) {
		errors["progress"] = "Progress must be between 0 and 100"
	}
	return errors
}

type ProjectDTO struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	CompanyID   string   `json:"company_id"`
	ManagerID   string   `json:"manager_id,omitempty"`
	ManagerName string   `json:"manager_name,omitempty"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	Budget      *float64 `json:"budget,omitempty"`
	Progress    int      `json:"progress"`
}

type CreateTaskRequest struct {
	Title          string  `json:"title"`
	Description    string  `json:"description,omitempty"`
	ProjectID      string  `json:"project_id"`
	AssignedToID   *string `json:"assigned_to,omitempty"`
	Status         string  `json:"status,omitempty"`
	Priority       string  `json:"priority,omitempty"`
	EstimatedHours *int    `json:"estimated_hours,omitempty"`
}

func (r CreateTaskRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Title == "" {
		errors["title"] = "Task title is required"
	}
	if !validation.ValidUUID(r.ProjectID) {
		errors["project_id"] = "Valid project ID is required"
	}
	if r.Status != "" && !validation.OneOf(r.Status, "todo", "in_progress", "review", "completed", "cancelled") {
		errors["status"] = "Invalid status"
	}
	if r.Priority != "" && !validation.OneOf(r.Priority, "low", "medium", "high", "urgent") {
		errors["priority"] = "Invalid priority"
	}
	if r.AssignedToID != nil && !validation.ValidUUID(*r.AssignedToID) {
		errors["assigned_to"] = "Invalid user ID format"
	}
	return errors
}

type UpdateTaskRequest struct {
	Title          *string `json:"title,omitempty"`
	Description    *string `json:"description,omitempty"`
	AssignedToID   *string `json:"assigned_to,omitempty"`
	Status         *string `json:"status,omitempty"`
	Priority       *string `json:"priority,omitempty"`
	EstimatedHours *int    `json:"estimated_hours,omitempty"`
	ActualHours    *int    `json:"actual_hours,omitempty"`
}

func (r UpdateTaskRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Title != nil && *r.Title == "" {
		errors["title"] = "Task title cannot be empty"
	}
	if r.Status != nil && !validation.OneOf(*r.Status, "todo", "in_progress", "review", "completed", "cancelled") {
		errors["status"] = "Invalid status"
	}
	if r.Priority != nil && !validation.OneOf(*r.Priority, "low", "medium", "high", "urgent") {
		errors["priority"] = "Invalid priority"
	}
	if r.AssignedToID != nil && !validation.ValidUUID(*r.AssignedToID) {
		errors["assigned_to"] = "Invalid user ID format"
	}
	return errors
}

type TaskDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ProjectID   string `json:"project_id"`
	AssignedTo  string `json:"assigned_to,omitempty"`
	CreatedBy   string `json:"created_by,omitempty"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	CompletedAt string `json:"completed_at,omitempty"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

func (r CommentRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Content == "" {
		errors["content"] = "Content is required"
	}
	return errors
}

type CommentDTO struct {
	ID        string `json:"id"`
	TaskID    string `json:"task_id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name,omitempty"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}
