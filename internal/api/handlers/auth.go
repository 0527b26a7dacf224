package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/crewdesk/crewdesk/internal/accounts"
	"github.com/crewdesk/crewdesk/internal/api/dto"
	"github.com/crewdesk/crewdesk/internal/api/middleware"
	"github.com/crewdesk/crewdesk/internal/auth"
)

type AuthHandler struct {
	authService     *auth.Service
	accountsService *accounts.Service
}

func NewAuthHandler(authService *auth.Service, accountsService *accounts.Service) *AuthHandler {
	return &AuthHandler{authService: authService, accountsService: accountsService}
}

// Register handles POST /api/v1/auth/register — company + owner signup.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}
	if req.OwnerPassword != req.OwnerPasswordConfirm {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Passwords don't match"})
		return
	}

	company, owner, err := h.accountsService.RegisterCompany(r.Context(), accounts.RegisterCompanyInput{
		Name:                 req.Name,
		CompanyType:          req.CompanyType,
		Description:          req.Description,
		Email:                req.Email,
		Phone:                req.Phone,
		Address:              req.Address,
		Website:              req.Website,
		OwnerUsername:        req.OwnerUsername,
		OwnerEmail:           req.OwnerEmail,
		OwnerPassword:        req.OwnerPassword,
		OwnerPasswordConfirm: req.OwnerPasswordConfirm,
		OwnerFirstName:       req.OwnerFirstName,
		OwnerLastName:        req.OwnerLastName,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.authService.TokenFor(owner)
	if err != nil {
		writeError(w, err)
		return
	}

	owner.Company = company
	writeJSON(w, http.StatusCreated, dto.AuthResponse{
		Token: token,
		User:  toUserDTO(owner),
	})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	resp, err := h.authService.Login(r.Context(), auth.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Token: resp.Token,
		User:  toUserDTO(resp.User),
	})
}

// Logout handles POST /api/v1/auth/logout. It always reports success, even
// for an invalid or expired token, so session validity does not leak.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Logout successful"})
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())
	if actor == nil {
		writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(actor))
}

// ChangePassword handles POST /api/v1/auth/change-password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())
	if actor == nil {
		writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	err := h.authService.ChangePassword(r.Context(), actor, auth.ChangePasswordInput{
		OldPassword:        req.OldPassword,
		NewPassword:        req.NewPassword,
		NewPasswordConfirm: req.NewPasswordConfirm,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Password changed successfully"})
}
