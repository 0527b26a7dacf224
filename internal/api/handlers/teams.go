package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk/internal/api/dto"
	"github.com/crewdesk/crewdesk/internal/api/middleware"
	"github.com/crewdesk/crewdesk/internal/teams"
)

type TeamHandler struct {
	teamService *teams.Service
}

func NewTeamHandler(teamService *teams.Service) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// List handles GET /api/v1/teams
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	list, err := h.teamService.ListTeams(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]dto.TeamDTO, 0, len(list))
	for i := range list {
		out = append(out, toTeamDTO(&list[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Mine handles GET /api/v1/teams/mine — the actor's active memberships.
func (h *TeamHandler) Mine(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	list, err := h.teamService.MyMemberships(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]dto.MembershipDTO, 0, len(list))
	for i := range list {
		out = append(out, toMembershipDTO(&list[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Create handles POST /api/v1/teams
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	var req dto.CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	input := teams.CreateTeamInput{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.LeadID != nil {
		id, err := uuid.Parse(*req.LeadID)
		if err == nil {
			input.LeadID = &id
		}
	}
	for _, raw := range req.MemberIDs {
		if id, err := uuid.Parse(raw); err == nil {
			input.MemberIDs = append(input.MemberIDs, id)
		}
	}

	team, err := h.teamService.CreateTeam(r.Context(), actor, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTeamDTO(team))
}

// Get handles GET /api/v1/teams/{id}
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid team ID"})
		return
	}

	team, err := h.teamService.GetTeam(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTeamDTO(team))
}

// Update handles PATCH /api/v1/teams/{id}
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid team ID"})
		return
	}

	var req dto.UpdateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	input := teams.UpdateTeamInput{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.LeadID != nil {
		if leadID, err := uuid.Parse(*req.LeadID); err == nil {
			input.LeadID = &leadID
		}
	}

	team, err := h.teamService.UpdateTeam(r.Context(), actor, id, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTeamDTO(team))
}

// Delete handles DELETE /api/v1/teams/{id} — a soft deactivation.
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid team ID"})
		return
	}

	if err := h.teamService.DeactivateTeam(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Team deactivated"})
}

// AddMember handles POST /api/v1/teams/{id}/members
func (h *TeamHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	teamID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid team ID"})
		return
	}

	var req dto.AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	userID, _ := uuid.Parse(req.UserID)
	m, err := h.teamService.AddMember(r.Context(), actor, teamID, userID, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMembershipDTO(m))
}

// RemoveMember handles DELETE /api/v1/teams/{id}/members
func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	teamID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid team ID"})
		return
	}

	var req dto.RemoveMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	userID, _ := uuid.Parse(req.UserID)
	if err := h.teamService.RemoveMember(r.Context(), actor, teamID, userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Member removed successfully"})
}

// Members handles GET /api/v1/teams/{id}/members
func (h *TeamHandler) Members(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	teamID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid team ID"})
		return
	}

	members, err := h.teamService.ListMembers(r.Context(), actor, teamID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]dto.MembershipDTO, 0, len(members))
	for i := range members {
		out = append(out, toMembershipDTO(&members[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
