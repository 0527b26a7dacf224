package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User roles
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleMember  = "member"
	RoleViewer  = "viewer"
)

type User struct {
	Base
	Username     string     `gorm:"uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	CompanyID    *uuid.UUID `gorm:"type:uuid;index" json:"company_id"`
	Role         string     `gorm:"size:20;default:'member'" json:"role"` // admin, manager, member, viewer
	Phone        string     `json:"phone,omitempty"`
	Avatar       string     `json:"avatar,omitempty"`
	Position     string     `json:"position,omitempty"`
	Department   string     `json:"department,omitempty"`
	HireDate     *time.Time `json:"hire_date,omitempty"`

	IsCompanyOwner bool       `gorm:"default:false" json:"is_company_owner"`
	IsActive       bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt    *time.Time `json:"last_login,omitempty"`

	// Relationships
	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// FullName returns first+last name, falling back to the username.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// IsElevated reports whether the user holds a company-wide management role.
func (u *User) IsElevated() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager
}

// InCompany reports whether the user belongs to the given company.
func (u *User) InCompany(companyID uuid.UUID) bool {
	return u.CompanyID != nil && *u.CompanyID == companyID
}
