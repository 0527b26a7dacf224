package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk/internal/api/dto"
	"github.com/crewdesk/crewdesk/internal/api/middleware"
	"github.com/crewdesk/crewdesk/internal/projects"
)

type ProjectHandler struct {
	projectService *projects.Service
}

func NewProjectHandler(projectService *projects.Service) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// parseDate parses a YYYY-MM-DD date from a request field.
func parseDate(raw *string) *time.Time {
	if raw == nil || *raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil
	}
	return &t
}

// List handles GET /api/v1/projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	list, err := h.projectService.ListProjects(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]dto.ProjectDTO, 0, len(list))
	for i := range list {
		out = append(out, toProjectDTO(&list[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Mine handles GET /api/v1/projects/mine
func (h *ProjectHandler) Mine(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	list, err := h.projectService.MyProjects(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]dto.ProjectDTO, 0, len(list))
	for i := range list {
		out = append(out, toProjectDTO(&list[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Create handles POST /api/v1/projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	var req dto.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	input := projects.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   parseDate(req.StartDate),
		DueDate:     parseDate(req.DueDate),
		Budget:      req.Budget,
	}
	if req.ManagerID != nil {
		if id, err := uuid.Parse(*req.ManagerID); err == nil {
			input.ManagerID = &id
		}
	}
	for _, raw := range req.UserIDs {
		if id, err := uuid.Parse(raw); err == nil {
			input.UserIDs = append(input.UserIDs, id)
		}
	}
	for _, raw := range req.TeamIDs {
		if id, err := uuid.Parse(raw); err == nil {
			input.TeamIDs = append(input.TeamIDs, id)
		}
	}

	project, err := h.projectService.CreateProject(r.Context(), actor, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProjectDTO(project))
}

// Get handles GET /api/v1/projects/{id}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid project ID"})
		return
	}

	project, err := h.projectService.GetProject(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectDTO(project))
}

// Stats handles GET /api/v1/projects/{id}/stats
func (h *ProjectHandler) Stats(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid project ID"})
		return
	}

	stats, err := h.projectService.Stats(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Update handles PATCH /api/v1/projects/{id}
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid project ID"})
		return
	}

	var req dto.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	input := projects.UpdateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   parseDate(req.StartDate),
		DueDate:     parseDate(req.DueDate),
		Budget:      req.Budget,
		Progress:    req.Progress,
	}
	if req.ManagerID != nil {
		if managerID, err := uuid.Parse(*req.ManagerID); err == nil {
			input.ManagerID = &managerID
		}
	}

	project, err := h.projectService.UpdateProject(r.Context(), actor, id, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectDTO(project))
}

// Delete handles DELETE /api/v1/projects/{id}
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid project ID"})
		return
	}

	if err := h.projectService.DeleteProject(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Project deleted"})
}

// AddMember handles POST /api/v1/projects/{id}/members
func (h *ProjectHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid project ID"})
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
	m, err := h.projectService.AddMember(r.Context(), actor, projectID, userID, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMembershipDTO(m))
}

// RemoveMember handles DELETE /api/v1/projects/{id}/members
func (h *ProjectHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid project ID"})
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
	if err := h.projectService.RemoveMember(r.Context(), actor, projectID, userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Member removed successfully"})
}

// Members handles GET /api/v1/projects/{id}/members
func (h *ProjectHandler) Members(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid project ID"})
		return
	}

	members, err := h.projectService.ListMembers(r.Context(), actor, projectID)
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

// Tasks handles GET /api/v1/projects/{id}/tasks
func (h *ProjectHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid project ID"})
		return
	}

	tasks, err := h.projectService.ListTasks(r.Context(), actor, projectID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]dto.TaskDTO, 0, len(tasks))
	for i := range tasks {
		out = append(out, toTaskDTO(&tasks[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
