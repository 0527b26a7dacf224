package models

import (
	"time"

	"github.com/google/uuid"
)

// Task statuses
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusReview     = "review"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

type Task struct {
	Base
	Title          string     `gorm:"not null" json:"title"`
	Description    string     `json:"description,omitempty"`
	ProjectID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	AssignedToID   *uuid.UUID `gorm:"type:uuid;index" json:"assigned_to"`
	CreatedByID    *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	Status         string     `gorm:"size:20;default:'todo'" json:"status"`     // todo, in_progress, review, completed, cancelled
	Priority       string     `gorm:"size:20;default:'medium'" json:"priority"` // low, medium, high, urgent
	EstimatedHours *int       `json:"estimated_hours,omitempty"`
	ActualHours    *int       `json:"actual_hours,omitempty"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`

	// Relationships
	Project    *Project      `gorm:"foreignKey:ProjectID" json:"-"`
	AssignedTo *User         `gorm:"foreignKey:AssignedToID" json:"assigned_to_user,omitempty"`
	CreatedBy  *User         `gorm:"foreignKey:CreatedByID" json:"created_by_user,omitempty"`
	Comments   []TaskComment `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Task) TableName() string {
	return "tasks"
}

// IsCreator reports whether the given user created the task.
func (t *Task) IsCreator(userID uuid.UUID) bool {
	return t.CreatedByID != nil && *t.CreatedByID == userID
}

type TaskComment struct {
	Base
	TaskID  uuid.UUID `gorm:"type:uuid;not null;index" json:"task_id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Content string    `gorm:"not null" json:"content"`

	// Relationships
	Task *Task `gorm:"foreignKey:TaskID" json:"-"`
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (TaskComment) TableName() string {
	return "task_comments"
}
