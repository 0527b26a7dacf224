package models

import (
	"time"

	"github.com/google/uuid"
)

// Project statuses
const (
	ProjectStatusPlanning  = "planning"
	ProjectStatusActive    = "active"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCompleted = "completed"
	ProjectStatusCancelled = "cancelled"
)

// Priorities, shared by projects and tasks
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Project membership roles
const (
	ProjectRoleManager     = "manager"
	ProjectRoleLead        = "lead"
	ProjectRoleMember      = "member"
	ProjectRoleContributor = "contributor"
)

type Project struct {
	Base
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description,omitempty"`
	CompanyID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	ManagerID   *uuid.UUID `gorm:"type:uuid" json:"manager_id"`
	Status      string     `gorm:"size:20;default:'planning'" json:"status"`   // planning, active, on_hold, completed, cancelled
	Priority    string     `gorm:"size:20;default:'medium'" json:"priority"`   // low, medium, high, urgent
	StartDate   *time.Time `json:"start_date,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Budget      *float64   `gorm:"type:decimal(12,2)" json:"budget,omitempty"`
	Progress    int        `gorm:"default:0" json:"progress"` // manual 0-100, independent of task completion

	// Relationships
	Company *Company `gorm:"foreignKey:CompanyID" json:"-"`
	Manager *User    `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	Teams   []Team   `gorm:"many2many:project_teams" json:"teams,omitempty"`
	Tasks   []Task   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Project) TableName() string {
	return "projects"
}

func (p *Project) MembershipKind() string        { return MembershipKindProject }
func (p *Project) MembershipParentID() uuid.UUID  { return p.ID }
func (p *Project) MembershipCompanyID() uuid.UUID { return p.CompanyID }

func (p *Project) MemberRoles() []string {
	return []string{ProjectRoleManager, ProjectRoleLead, ProjectRoleMember, ProjectRoleContributor}
}

// IsManager reports whether the given user manages the project.
func (p *Project) IsManager(userID uuid.UUID) bool {
	return p.ManagerID != nil && *p.ManagerID == userID
}
