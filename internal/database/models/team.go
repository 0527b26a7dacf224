package models

import "github.com/google/uuid"

// Team membership roles
const (
	TeamRoleLead   = "lead"
	TeamRoleMember = "member"
)

type Team struct {
	Base
	Name        string     `gorm:"not null;uniqueIndex:uniq_teams_company_name" json:"name"`
	CompanyID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uniq_teams_company_name" json:"company_id"`
	Description string     `json:"description,omitempty"`
	LeadID      *uuid.UUID `gorm:"type:uuid" json:"lead_id"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`

	// Relationships
	Company *Company `gorm:"foreignKey:CompanyID" json:"-"`
	Lead    *User    `gorm:"foreignKey:LeadID" json:"lead,omitempty"`
}

func (Team) TableName() string {
	return "teams"
}

func (t *Team) MembershipKind() string       { return MembershipKindTeam }
func (t *Team) MembershipParentID() uuid.UUID { return t.ID }
func (t *Team) MembershipCompanyID() uuid.UUID { return t.CompanyID }

func (t *Team) MemberRoles() []string {
	return []string{TeamRoleLead, TeamRoleMember}
}

// IsLead reports whether the given user is the team lead.
func (t *Team) IsLead(userID uuid.UUID) bool {
	return t.LeadID != nil && *t.LeadID == userID
}
