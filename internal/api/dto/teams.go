package dto

import "github.com/crewdesk/crewdesk/internal/api/validation"

type CreateTeamRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	LeadID      *string  `json:"lead_id,omitempty"`
	MemberIDs   []string `json:"member_ids,omitempty"`
}

func (r CreateTeamRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Name == "" {
		errors["name"] = "Team name is required"
	}
	if r.LeadID != nil && !validation.ValidUUID(*r.LeadID) {
		errors["lead_id"] = "Invalid lead ID format"
	}
	for _, id := range r.MemberIDs {
		if !validation.ValidUUID(id) {
			errors["member_ids"] = "Invalid member ID format"
			break
		}
	}
	return errors
}

type UpdateTeamRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	LeadID      *string `json:"lead_id,omitempty"`
}

func (r UpdateTeamRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Name != nil && *r.Name == "" {
		errors["name"] = "Team name cannot be empty"
	}
	if r.LeadID != nil && !validation.ValidUUID(*r.LeadID) {
		errors["lead_id"] = "Invalid lead ID format"
	}
	return errors
}

type AddMemberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
}

func (r AddMemberRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if !validation.ValidUUID(r.UserID) {
		errors["user_id"] = "Valid user ID is required"
	}
	return errors
}

type RemoveMemberRequest struct {
	UserID string `json:"user_id"`
}

func (r RemoveMemberRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if !validation.ValidUUID(r.UserID) {
		errors["user_id"] = "Valid user ID is required"
	}
	return errors
}

type MembershipDTO struct {
	ID       string   `json:"id"`
	UserID   string   `json:"user_id"`
	User     *UserDTO `json:"user,omitempty"`
	Role     string   `json:"role"`
	JoinedAt string   `json:"joined_at"`
	IsActive bool     `json:"is_active"`
}

type TeamDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CompanyID   string `json:"company_id"`
	LeadID      string `json:"lead_id,omitempty"`
	LeadName    string `json:"lead_name,omitempty"`
	IsActive    bool   `json:"is_active"`
}
