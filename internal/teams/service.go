// Package teams manages team lifecycle and rosters.
package teams

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crewdesk/crewdesk/internal/apperr"
	"github.com/crewdesk/crewdesk/internal/database/models"
	"github.com/crewdesk/crewdesk/internal/membership"
	"github.com/crewdesk/crewdesk/internal/policy"
)

type Service struct {
	db     *gorm.DB
	ledger *membership.Ledger
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, ledger: membership.NewLedger(db)}
}

type CreateTeamInput struct {
	Name        string
	Description string
	LeadID      *uuid.UUID
	MemberIDs   []uuid.UUID
}

// CreateTeam creates a team plus its initial roster in one transaction.
// Listed members join with the member role; member ids outside the company
// are skipped. The lead, when designated and not listed, is auto-inserted
// with the lead role — callers must not add it themselves.
func (s *Service) CreateTeam(ctx context.Context, actor *models.User, input CreateTeamInput) (*models.Team, error) {
	if actor.CompanyID == nil {
		return nil, apperr.NotFound("company not found")
	}

	team := &models.Team{
		Name:        input.Name,
		Description: input.Description,
		CompanyID:   *actor.CompanyID,
		IsActive:    true,
	}
	if err := policy.Decide(actor, policy.ActionCreate, team).Err(); err != nil {
		return nil, err
	}

	var lead *models.User
	if input.LeadID != nil {
		var err error
		lead, err = s.loadUser(ctx, *input.LeadID)
		if err != nil {
			return nil, err
		}
		if !lead.InCompany(*actor.CompanyID) {
			return nil, apperr.Validation("team lead must belong to the same company")
		}
		team.LeadID = input.LeadID
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("a team with this name already exists")
			}
			return err
		}

		ledger := s.ledger.WithTx(tx)
		for _, id := range input.MemberIDs {
			var user models.User
			if err := tx.Where("id = ? AND company_id = ?", id, team.CompanyID).
				First(&user).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}
			if _, err := ledger.AddMember(ctx, team, &user, models.TeamRoleMember); err != nil {
				return err
			}
		}

		if lead != nil {
			if err := ledger.EnsureHolder(ctx, team, lead, models.TeamRoleLead); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	team.Lead = lead
	return team, nil
}

type UpdateTeamInput struct {
	Name        *string
	Description *string
	LeadID      *uuid.UUID
}

func (s *Service) UpdateTeam(ctx context.Context, actor *models.User, teamID uuid.UUID, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.GetTeam(ctx, actor, teamID)
	if err != nil {
		return nil, err
	}
	if err := policy.Decide(actor, policy.ActionUpdate, team).Err(); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.LeadID != nil {
		lead, err := s.loadUser(ctx, *input.LeadID)
		if err != nil {
			return nil, err
		}
		if !lead.InCompany(team.CompanyID) {
			return nil, apperr.Validation("team lead must belong to the same company")
		}
		updates["lead_id"] = *input.LeadID
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(team).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperr.Conflict("a team with this name already exists")
			}
			return nil, err
		}
	}
	return team, nil
}

// DeactivateTeam soft-deletes a team; membership history stays intact.
func (s *Service) DeactivateTeam(ctx context.Context, actor *models.User, teamID uuid.UUID) error {
	team, err := s.GetTeam(ctx, actor, teamID)
	if err != nil {
		return err
	}
	if err := policy.Decide(actor, policy.ActionDelete, team).Err(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(team).Update("is_active", false).Error
}

func (s *Service) AddMember(ctx context.Context, actor *models.User, teamID, userID uuid.UUID, role string) (*models.Membership, error) {
	team, err := s.GetTeam(ctx, actor, teamID)
	if err != nil {
		return nil, err
	}
	if err := policy.Decide(actor, policy.ActionAddMember, team).Err(); err != nil {
		return nil, err
	}
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if role == "" {
		role = models.TeamRoleMember
	}
	return s.ledger.AddMember(ctx, team, user, role)
}

func (s *Service) RemoveMember(ctx context.Context, actor *models.User, teamID, userID uuid.UUID) error {
	team, err := s.GetTeam(ctx, actor, teamID)
	if err != nil {
		return err
	}
	if err := policy.Decide(actor, policy.ActionRemoveMember, team).Err(); err != nil {
		return err
	}
	return s.ledger.RemoveMember(ctx, team, userID)
}

func (s *Service) ListMembers(ctx context.Context, actor *models.User, teamID uuid.UUID) ([]models.Membership, error) {
	team, err := s.GetTeam(ctx, actor, teamID)
	if err != nil {
		return nil, err
	}
	return s.ledger.ActiveMembers(ctx, team)
}

// ListTeams returns the active teams of the actor's company, name order.
func (s *Service) ListTeams(ctx context.Context, actor *models.User) ([]models.Team, error) {
	if actor.CompanyID == nil {
		return nil, apperr.NotFound("company not found")
	}
	var list []models.Team
	err := s.db.WithContext(ctx).
		Preload("Lead").
		Where("company_id = ? AND is_active = ?", *actor.CompanyID, true).
		Order("name ASC").
		Find(&list).Error
	return list, err
}

// MyMemberships returns the actor's active team memberships.
func (s *Service) MyMemberships(ctx context.Context, actor *models.User) ([]models.Membership, error) {
	var list []models.Membership
	err := s.db.WithContext(ctx).
		Where("parent_kind = ? AND user_id = ? AND is_active = ?",
			models.MembershipKindTeam, actor.ID, true).
		Order("joined_at ASC").
		Find(&list).Error
	return list, err
}

// GetTeam loads a team visible to the actor. Cross-company teams are
// reported as not found.
func (s *Service) GetTeam(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := s.db.WithContext(ctx).Preload("Lead").First(&team, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("team not found")
	}
	if err != nil {
		return nil, err
	}
	if !actor.InCompany(team.CompanyID) {
		return nil, apperr.NotFound("team not found")
	}
	return &team, nil
}

func (s *Service) loadUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
