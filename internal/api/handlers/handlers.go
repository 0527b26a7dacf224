package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/crewdesk/crewdesk/internal/apperr"
	"github.com/crewdesk/crewdesk/internal/api/dto"
	"github.com/crewdesk/crewdesk/internal/database/models"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service error kinds to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "Internal server error"

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status, msg = http.StatusBadRequest, err.Error()
	case apperr.KindInvalidCredentials:
		status, msg = http.StatusUnauthorized, err.Error()
	case apperr.KindPermissionDenied:
		status, msg = http.StatusForbidden, err.Error()
	case apperr.KindNotFound:
		status, msg = http.StatusNotFound, err.Error()
	case apperr.KindConflict:
		status, msg = http.StatusConflict, err.Error()
	}

	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}

func toUserDTO(user *models.User) dto.UserDTO {
	d := dto.UserDTO{
		ID:             user.ID.String(),
		Username:       user.Username,
		Email:          user.Email,
		FullName:       user.FullName(),
		Role:           user.Role,
		IsCompanyOwner: user.IsCompanyOwner,
		IsActive:       user.IsActive,
	}
	if user.CompanyID != nil {
		d.CompanyID = user.CompanyID.String()
	}
	if user.Company != nil {
		d.CompanyName = user.Company.Name
	}
	return d
}

func toCompanyDTO(company *models.Company) dto.CompanyDTO {
	return dto.CompanyDTO{
		ID:          company.ID.String(),
		Name:        company.Name,
		CompanyType: company.CompanyType,
		Description: company.Description,
		Email:       company.Email,
		Phone:       company.Phone,
		Address:     company.Address,
		Website:     company.Website,
		IsActive:    company.IsActive,
	}
}

func toMembershipDTO(m *models.Membership) dto.MembershipDTO {
	d := dto.MembershipDTO{
		ID:       m.ID.String(),
		UserID:   m.UserID.String(),
		Role:     m.Role,
		JoinedAt: m.JoinedAt.Format(time.RFC3339),
		IsActive: m.IsActive,
	}
	if m.User != nil {
		u := toUserDTO(m.User)
		d.User = &u
	}
	return d
}

func toTeamDTO(team *models.Team) dto.TeamDTO {
	d := dto.TeamDTO{
		ID:          team.ID.String(),
		Name:        team.Name,
		Description: team.Description,
		CompanyID:   team.CompanyID.String(),
		IsActive:    team.IsActive,
	}
	if team.LeadID != nil {
		d.LeadID = team.LeadID.String()
	}
	if team.Lead != nil {
		d.LeadName = team.Lead.FullName()
	}
	return d
}

func toProjectDTO(project *models.Project) dto.ProjectDTO {
	d := dto.ProjectDTO{
		ID:          project.ID.String(),
		Title:       project.Title,
		Description: project.Description,
		CompanyID:   project.CompanyID.String(),
		Status:      project.Status,
		Priority:    project.Priority,
		Budget:      project.Budget,
		Progress:    project.Progress,
	}
	if project.ManagerID != nil {
		d.ManagerID = project.ManagerID.String()
	}
	if project.Manager != nil {
		d.ManagerName = project.Manager.FullName()
	}
	return d
}

func toTaskDTO(task *models.Task) dto.TaskDTO {
	d := dto.TaskDTO{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
		ProjectID:   task.ProjectID.String(),
		Status:      task.Status,
		Priority:    task.Priority,
	}
	if task.AssignedToID != nil {
		d.AssignedTo = task.AssignedToID.String()
	}
	if task.CreatedByID != nil {
		d.CreatedBy = task.CreatedByID.String()
	}
	if task.CompletedAt != nil {
		d.CompletedAt = task.CompletedAt.Format(time.RFC3339)
	}
	return d
}

func toCommentDTO(comment *models.TaskComment) dto.CommentDTO {
	d := dto.CommentDTO{
		ID:        comment.ID.String(),
		TaskID:    comment.TaskID.String(),
		UserID:    comment.UserID.String(),
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt.Format(time.RFC3339),
	}
	if comment.User != nil {
		d.UserName = comment.User.FullName()
	}
	return d
}
