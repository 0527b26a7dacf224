package dto

import "github.com/crewdesk/crewdesk/internal/api/validation"

type RegisterCompanyRequest struct {
	Name        string `json:"name"`
	CompanyType string `json:"company_type,omitempty"`
	Description string `json:"description,omitempty"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	Website     string `json:"website,omitempty"`

	OwnerUsername        string `json:"owner_username"`
	OwnerEmail           string `json:"owner_email"`
	OwnerPassword        string `json:"owner_password"`
	OwnerPasswordConfirm string `json:"owner_password_confirm"`
	OwnerFirstName       string `json:"owner_first_name,omitempty"`
	OwnerLastName        string `json:"owner_last_name,omitempty"`
}

func (r RegisterCompanyRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Name == "" {
		errors["name"] = "Company name is required"
	}
	if !validation.ValidEmail(r.Email) {
		errors["email"] = "Valid company email is required"
	}
	if r.CompanyType != "" && r.CompanyType != "company" && r.CompanyType != "freelancer" {
		errors["company_type"] = "Company type must be company or freelancer"
	}
	if r.OwnerUsername == "" {
		errors["owner_username"] = "Owner username is required"
	}
	if !validation.ValidEmail(r.OwnerEmail) {
		errors["owner_email"] = "Valid owner email is required"
	}
	if len(r.OwnerPassword) < 8 {
		errors["owner_password"] = "Password must be at least 8 characters"
	}
	return errors
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Username == "" {
		errors["username"] = "Username is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}
	return errors
}

type ChangePasswordRequest struct {
	OldPassword        string `json:"old_password"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

func (r ChangePasswordRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.OldPassword == "" {
		errors["old_password"] = "Old password is required"
	}
	if len(r.NewPassword) < 8 {
		errors["new_password"] = "Password must be at least 8 characters"
	}
	return errors
}

type UserDTO struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	Role           string `json:"role"`
	CompanyID      string `json:"company_id,omitempty"`
	CompanyName    string `json:"company_name,omitempty"`
	IsCompanyOwner bool   `json:"is_company_owner"`
	IsActive       bool   `json:"is_active"`
}

type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}
