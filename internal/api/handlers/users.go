package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk/internal/accounts"
	"github.com/crewdesk/crewdesk/internal/api/dto"
	"github.com/crewdesk/crewdesk/internal/api/middleware"
)

type UserHandler struct {
	accountsService *accounts.Service
}

func NewUserHandler(accountsService *accounts.Service) *UserHandler {
	return &UserHandler{accountsService: accountsService}
}

// List handles GET /api/v1/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	users, err := h.accountsService.ListCompanyUsers(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		out = append(out, toUserDTO(&users[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Create handles POST /api/v1/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	input := accounts.CreateUserInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Role:            req.Role,
		Phone:           req.Phone,
		Position:        req.Position,
		Department:      req.Department,
	}
	if req.CompanyID != nil {
		id, err := uuid.Parse(*req.CompanyID)
		if err == nil {
			input.CompanyID = &id
		}
	}

	user, err := h.accountsService.CreateUser(r.Context(), actor, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

// Update handles PATCH /api/v1/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
		return
	}

	var req dto.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	user, err := h.accountsService.UpdateUser(r.Context(), actor, targetID, accounts.UpdateUserInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Avatar:     req.Avatar,
		Position:   req.Position,
		Department: req.Department,
		Role:       req.Role,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// Delete handles DELETE /api/v1/users/{id} — a soft deactivation.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
		return
	}

	if err := h.accountsService.DeactivateUser(r.Context(), actor, targetID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "User deactivated"})
}

type CompanyHandler struct {
	accountsService *accounts.Service
}

func NewCompanyHandler(accountsService *accounts.Service) *CompanyHandler {
	return &CompanyHandler{accountsService: accountsService}
}

// Get handles GET /api/v1/company
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	company, err := h.accountsService.GetCompany(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCompanyDTO(company))
}

// Update handles PATCH /api/v1/company
func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	var req dto.UpdateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	company, err := h.accountsService.UpdateCompany(r.Context(), actor, accounts.UpdateCompanyInput{
		Name:        req.Name,
		Description: req.Description,
		Phone:       req.Phone,
		Address:     req.Address,
		Website:     req.Website,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCompanyDTO(company))
}
