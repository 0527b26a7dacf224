// Package accounts is the tenant directory: company registration, user
// provisioning, and the soft-delete lifecycle of accounts.
package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crewdesk/crewdesk/internal/apperr"
	"github.com/crewdesk/crewdesk/internal/auth"
	"github.com/crewdesk/crewdesk/internal/database/models"
	"github.com/crewdesk/crewdesk/internal/policy"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type RegisterCompanyInput struct {
	Name        string
	CompanyType string
	Description string
	Email       string
	Phone       string
	Address     string
	Website     string

	OwnerUsername        string
	OwnerEmail           string
	OwnerPassword        string
	OwnerPasswordConfirm string
	OwnerFirstName       string
	OwnerLastName        string
}

// RegisterCompany creates a company together with its owner user. The two
// writes share a transaction: a failed owner insert leaves no company row.
// The owner is the single user created with is_company_owner at
// registration time; nothing later enforces owner uniqueness.
func (s *Service) RegisterCompany(ctx context.Context, input RegisterCompanyInput) (*models.Company, *models.User, error) {
	if input.OwnerPassword != input.OwnerPasswordConfirm {
		return nil, nil, apperr.Validation("passwords don't match")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", input.OwnerUsername, input.OwnerEmail).
		Count(&count).Error; err != nil {
		return nil, nil, err
	}
	if count > 0 {
		return nil, nil, apperr.Validation("username or email already exists")
	}

	hash, err := auth.HashPassword(input.OwnerPassword)
	if err != nil {
		return nil, nil, err
	}

	companyType := input.CompanyType
	if companyType == "" {
		companyType = models.CompanyTypeCompany
	}

	company := &models.Company{
		Name:        input.Name,
		CompanyType: companyType,
		Description: input.Description,
		Email:       input.Email,
		Phone:       input.Phone,
		Address:     input.Address,
		Website:     input.Website,
		IsActive:    true,
	}
	var owner *models.User

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(company).Error; err != nil {
			return err
		}

		owner = &models.User{
			Username:       input.OwnerUsername,
			Email:          input.OwnerEmail,
			PasswordHash:   hash,
			FirstName:      input.OwnerFirstName,
			LastName:       input.OwnerLastName,
			CompanyID:      &company.ID,
			Role:           models.RoleAdmin,
			IsCompanyOwner: true,
			IsActive:       true,
		}
		return tx.Create(owner).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, apperr.Conflict("username or email already exists")
		}
		return nil, nil, err
	}

	owner.Company = company
	return company, owner, nil
}

type CreateUserInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
	CompanyID       *uuid.UUID
	Role            string
	Phone           string
	Position        string
	Department      string
	HireDate        *time.Time
}

// CreateUser provisions a user inside the actor's company. Only admins and
// managers may create users; the new user's company defaults to the
// actor's when unspecified.
func (s *Service) CreateUser(ctx context.Context, actor *models.User, input CreateUserInput) (*models.User, error) {
	if !actor.IsElevated() {
		return nil, apperr.PermissionDenied("you don't have permission to create users")
	}
	if input.Password != input.PasswordConfirm {
		return nil, apperr.Validation("passwords don't match")
	}

	companyID := input.CompanyID
	if companyID == nil {
		companyID = actor.CompanyID
	}
	if companyID == nil || !actor.InCompany(*companyID) {
		return nil, apperr.NotFound("company not found")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", input.Username, input.Email).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.Validation("username or email already exists")
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = models.RoleMember
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		CompanyID:    companyID,
		Role:         role,
		Phone:        input.Phone,
		Position:     input.Position,
		Department:   input.Department,
		HireDate:     input.HireDate,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("username or email already exists")
		}
		return nil, err
	}
	return user, nil
}

type UpdateUserInput struct {
	FirstName  *string
	LastName   *string
	Phone      *string
	Avatar     *string
	Position   *string
	Department *string
	Role       *string
}

// UpdateUser applies profile changes. Self-updates are always allowed;
// changing anyone else requires admin or manager.
func (s *Service) UpdateUser(ctx context.Context, actor *models.User, targetID uuid.UUID, input UpdateUserInput) (*models.User, error) {
	target, err := s.companyUser(ctx, actor, targetID)
	if err != nil {
		return nil, err
	}
	if err := policy.Decide(actor, policy.ActionUpdate, target).Err(); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.FirstName != nil {
		updates["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		updates["last_name"] = *input.LastName
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Avatar != nil {
		updates["avatar"] = *input.Avatar
	}
	if input.Position != nil {
		updates["position"] = *input.Position
	}
	if input.Department != nil {
		updates["department"] = *input.Department
	}
	if input.Role != nil {
		// Only elevated actors may change roles, even on themselves.
		if !actor.IsElevated() {
			return nil, apperr.PermissionDenied("you don't have permission to change roles")
		}
		updates["role"] = *input.Role
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(target).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return target, nil
}

// DeactivateUser soft-deletes a user account. Admin only, never self.
func (s *Service) DeactivateUser(ctx context.Context, actor *models.User, targetID uuid.UUID) error {
	target, err := s.companyUser(ctx, actor, targetID)
	if err != nil {
		return err
	}
	if err := policy.Decide(actor, policy.ActionDelete, target).Err(); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(target).Update("is_active", false).Error
}

// ListCompanyUsers returns every user in the actor's company.
func (s *Service) ListCompanyUsers(ctx context.Context, actor *models.User) ([]models.User, error) {
	if actor.CompanyID == nil {
		return nil, apperr.NotFound("company not found")
	}
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("company_id = ?", *actor.CompanyID).
		Order("first_name ASC, last_name ASC").
		Find(&users).Error
	return users, err
}

// GetCompany returns the actor's own company.
func (s *Service) GetCompany(ctx context.Context, actor *models.User) (*models.Company, error) {
	if actor.CompanyID == nil {
		return nil, apperr.NotFound("company not found")
	}
	var company models.Company
	if err := s.db.WithContext(ctx).First(&company, "id = ?", *actor.CompanyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("company not found")
		}
		return nil, err
	}
	return &company, nil
}

type UpdateCompanyInput struct {
	Name        *string
	Description *string
	Phone       *string
	Address     *string
	Website     *string
}

// UpdateCompany edits the actor's company. Admin only.
func (s *Service) UpdateCompany(ctx context.Context, actor *models.User, input UpdateCompanyInput) (*models.Company, error) {
	company, err := s.GetCompany(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := policy.Decide(actor, policy.ActionUpdate, company).Err(); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.Website != nil {
		updates["website"] = *input.Website
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(company).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return company, nil
}

// companyUser loads a user scoped to the actor's company. A user outside
// it is reported as not found, not forbidden.
func (s *Service) companyUser(ctx context.Context, actor *models.User, id uuid.UUID) (*models.User, error) {
	if actor.CompanyID == nil {
		return nil, apperr.NotFound("user not found")
	}
	var user models.User
	err := s.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, *actor.CompanyID).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
