// Package membership is the soft-membership ledger shared by projects and
// teams. One generic table holds both rosters, parameterized by parent kind.
package membership

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crewdesk/crewdesk/internal/apperr"
	"github.com/crewdesk/crewdesk/internal/database/models"
)

// Parent is an entity that owns a membership roster.
type Parent interface {
	MembershipKind() string
	MembershipParentID() uuid.UUID
	MembershipCompanyID() uuid.UUID
	MemberRoles() []string
}

type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// WithTx returns a ledger bound to the given transaction, so membership
// writes commit or roll back together with the caller's writes.
func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	return &Ledger{db: tx}
}

// AddMember inserts a new active membership row. The user must belong to
// the parent's company and must not already be an active member. A
// concurrent writer losing the race on the active-row uniqueness gets a
// Conflict, never a silent duplicate.
func (l *Ledger) AddMember(ctx context.Context, parent Parent, user *models.User, role string) (*models.Membership, error) {
	if !slices.Contains(parent.MemberRoles(), role) {
		return nil, apperr.Validation("invalid membership role %q", role)
	}
	if !user.InCompany(parent.MembershipCompanyID()) {
		return nil, apperr.Validation("user must belong to the same company")
	}

	active, err := l.activeRow(ctx, parent, user.ID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, apperr.Validation("user is already a member")
	}

	m := &models.Membership{
		ParentKind: parent.MembershipKind(),
		ParentID:   parent.MembershipParentID(),
		UserID:     user.ID,
		Role:       role,
		JoinedAt:   time.Now(),
		IsActive:   true,
	}
	if err := l.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("user is already a member")
		}
		return nil, err
	}
	m.User = user
	return m, nil
}

// RemoveMember soft-deactivates the active row for (parent, user).
func (l *Ledger) RemoveMember(ctx context.Context, parent Parent, userID uuid.UUID) error {
	res := l.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("parent_kind = ? AND parent_id = ? AND user_id = ? AND is_active = ?",
			parent.MembershipKind(), parent.MembershipParentID(), userID, true).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("member not found")
	}
	return nil
}

// ActiveMembers returns the current roster in join order.
func (l *Ledger) ActiveMembers(ctx context.Context, parent Parent) ([]models.Membership, error) {
	var members []models.Membership
	err := l.db.WithContext(ctx).
		Preload("User").
		Where("parent_kind = ? AND parent_id = ? AND is_active = ?",
			parent.MembershipKind(), parent.MembershipParentID(), true).
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}

// EnsureHolder inserts the privileged role holder (project manager, team
// lead) into the roster when entity creation designates one. Idempotent:
// an existing active membership is left alone.
func (l *Ledger) EnsureHolder(ctx context.Context, parent Parent, holder *models.User, role string) error {
	active, err := l.activeRow(ctx, parent, holder.ID)
	if err != nil {
		return err
	}
	if active != nil {
		return nil
	}
	_, err = l.AddMember(ctx, parent, holder, role)
	return err
}

// IsActiveMember reports whether the user currently belongs to the parent.
func (l *Ledger) IsActiveMember(ctx context.Context, parent Parent, userID uuid.UUID) (bool, error) {
	active, err := l.activeRow(ctx, parent, userID)
	if err != nil {
		return false, err
	}
	return active != nil, nil
}

func (l *Ledger) activeRow(ctx context.Context, parent Parent, userID uuid.UUID) (*models.Membership, error) {
	var m models.Membership
	err := l.db.WithContext(ctx).
		Where("parent_kind = ? AND parent_id = ? AND user_id = ? AND is_active = ?",
			parent.MembershipKind(), parent.MembershipParentID(), userID, true).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
