package models

import (
	"time"

	"github.com/google/uuid"
)

// Membership parent kinds
const (
	MembershipKindProject = "project"
	MembershipKindTeam    = "team"
)

// Membership is a role-bearing, soft-deletable link between a user and a
// parent entity (project or team). History is kept: removing a member flips
// is_active, and re-adding inserts a fresh row. Uniqueness is enforced only
// over active rows, so the partial index is what serializes concurrent adds
// for the same (parent, user) pair.
type Membership struct {
	Base
	ParentKind string    `gorm:"size:20;not null;uniqueIndex:uniq_memberships_active,where:is_active" json:"parent_kind"`
	ParentID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_memberships_active" json:"parent_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_memberships_active" json:"user_id"`
	Role       string    `gorm:"size:20;default:'member'" json:"role"`
	JoinedAt   time.Time `gorm:"not null" json:"joined_at"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Membership) TableName() string {
	return "memberships"
}
