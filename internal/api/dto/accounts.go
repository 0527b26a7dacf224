package dto

import "github.com/crewdesk/crewdesk/internal/api/validation"

type CreateUserRequest struct {
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	PasswordConfirm string  `json:"password_confirm"`
	FirstName       string  `json:"first_name,omitempty"`
	LastName        string  `json:"last_name,omitempty"`
	Role            string  `json:"role,omitempty"`
	Phone           string  `json:"phone,omitempty"`
	Position        string  `json:"position,omitempty"`
	Department      string  `json:"department,omitempty"`
	CompanyID       *string `json:"company_id,omitempty"`
}

func (r CreateUserRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Username == "" {
		errors["username"] = "Username is required"
	}
	if !validation.ValidEmail(r.Email) {
		errors["email"] = "Valid email is required"
	}
	if len(r.Password) < 8 {
		errors["password"] = "Password must be at least 8 characters"
	}
	if r.Role != "" && !validation.OneOf(r.Role, "admin", "manager", "member", "viewer") {
		errors["role"] = "Invalid role"
	}
	if r.CompanyID != nil && !validation.ValidUUID(*r.CompanyID) {
		errors["company_id"] = "Invalid company ID format"
	}
	return errors
}

type UpdateUserRequest struct {
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Avatar     *string `json:"avatar,omitempty"`
	Position   *string `json:"position,omitempty"`
	Department *string `json:"department,omitempty"`
	Role       *string `json:"role,omitempty"`
}

func (r UpdateUserRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Role != nil && !validation.OneOf(*r.Role, "admin", "manager", "member", "viewer") {
		errors["role"] = "Invalid role"
	}
	return errors
}

type UpdateCompanyRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
	Website     *string `json:"website,omitempty"`
}

func (r UpdateCompanyRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Name != nil && *r.Name == "" {
		errors["name"] = "Company name cannot be empty"
	}
	return errors
}

type CompanyDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CompanyType string `json:"company_type"`
	Description string `json:"description,omitempty"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	Website     string `json:"website,omitempty"`
	IsActive    bool   `json:"is_active"`
}
