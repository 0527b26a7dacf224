package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk/internal/api/dto"
	"github.com/crewdesk/crewdesk/internal/api/middleware"
	"github.com/crewdesk/crewdesk/internal/projects"
)

type TaskHandler struct {
	projectService *projects.Service
}

func NewTaskHandler(projectService *projects.Service) *TaskHandler {
	return &TaskHandler{projectService: projectService}
}

// Create handles POST /api/v1/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	var req dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	projectID, _ := uuid.Parse(req.ProjectID)
	input := projects.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		ProjectID:      projectID,
		Status:         req.Status,
		Priority:       req.Priority,
		EstimatedHours: req.EstimatedHours,
	}
	if req.AssignedToID != nil {
		if id, err := uuid.Parse(*req.AssignedToID); err == nil {
			input.AssignedToID = &id
		}
	}

	task, err := h.projectService.CreateTask(r.Context(), actor, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTaskDTO(task))
}

// Get handles GET /api/v1/tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid task ID"})
		return
	}

	task, err := h.projectService.GetTask(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskDTO(task))
}

// Update handles PATCH /api/v1/tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid task ID"})
		return
	}

	var req dto.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	input := projects.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
	}
	if req.AssignedToID != nil {
		if assigneeID, err := uuid.Parse(*req.AssignedToID); err == nil {
			input.AssignedToID = &assigneeID
		}
	}

	task, err := h.projectService.UpdateTask(r.Context(), actor, id, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskDTO(task))
}

// Delete handles DELETE /api/v1/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid task ID"})
		return
	}

	if err := h.projectService.DeleteTask(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Task deleted"})
}

// Mine handles GET /api/v1/tasks/mine
func (h *TaskHandler) Mine(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	tasks, err := h.projectService.MyTasks(r.Context(), actor)
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

// AddComment handles POST /api/v1/tasks/{id}/comments
func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid task ID"})
		return
	}

	var req dto.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	comment, err := h.projectService.AddComment(r.Context(), actor, taskID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCommentDTO(comment))
}

// Comments handles GET /api/v1/tasks/{id}/comments
func (h *TaskHandler) Comments(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid task ID"})
		return
	}

	comments, err := h.projectService.ListComments(r.Context(), actor, taskID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]dto.CommentDTO, 0, len(comments))
	for i := range comments {
		out = append(out, toCommentDTO(&comments[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// UpdateComment handles PATCH /api/v1/comments/{id}
func (h *TaskHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid comment ID"})
		return
	}

	var req dto.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	comment, err := h.projectService.UpdateComment(r.Context(), actor, id, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCommentDTO(comment))
}

// DeleteComment handles DELETE /api/v1/comments/{id}
func (h *TaskHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid comment ID"})
		return
	}

	if err := h.projectService.DeleteComment(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Comment deleted"})
}
