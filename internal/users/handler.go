package users

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bissquit/userdesk/internal/domain"
	"github.com/bissquit/userdesk/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Validation messages.
const (
	msgCreateRequired = "name, email, type, and password are required"
	msgInvalidType    = "type must be one of: admin, user"
	msgEmptyField     = "name, email, type, and password must not be empty"
)

// Handler handles HTTP requests for the users module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new users handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers read routes available to any authenticated user.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/users", h.List)
	r.Get("/users/{id}", h.Get)
}

// RegisterAdminRoutes registers routes that require admin role.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/users", h.Create)
	r.Put("/users/{id}", h.Update)
	r.Delete("/users/{id}", h.Delete)
}

// CreateUserRequest represents the request body for creating a user.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=admin user"`
	Password string `json:"password" validate:"required"`
}

// ToDomain converts the request to a domain model.
func (r *CreateUserRequest) ToDomain() domain.NewUser {
	return domain.NewUser{
		Name:     r.Name,
		Email:    r.Email,
		Type:     domain.Role(r.Type),
		Password: r.Password,
	}
}

// UpdateUserRequest represents the request body for a partial user update.
// Absent fields keep their current values; id cannot be changed.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitnil,min=1"`
	Email    *string `json:"email" validate:"omitnil,min=1"`
	Type     *string `json:"type" validate:"omitnil,oneof=admin user"`
	Password *string `json:"password" validate:"omitnil,min=1"`
}

// ToDomain converts the request to a domain patch.
func (r *UpdateUserRequest) ToDomain() domain.UserPatch {
	patch := domain.UserPatch{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
	}
	if r.Type != nil {
		role := domain.Role(*r.Type)
		patch.Type = &role
	}
	return patch
}

// List handles GET /users request.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	httputil.Success(w, http.StatusOK, h.service.List(r.Context()))
}

// Get handles GET /users/{id} request.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, user)
}

// Create handles POST /users request.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, createValidationMessage(err), err)
		return
	}

	user, err := h.service.Create(r.Context(), req.ToDomain())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusCreated, user)
}

// Update handles PUT /users/{id} request.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, updateValidationMessage(err), err)
		return
	}

	user, err := h.service.Update(r.Context(), id, req.ToDomain())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, user)
}

// Delete handles DELETE /users/{id} request.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Message(w, http.StatusOK, "user deleted successfully")
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: ErrUserNotFound, Status: http.StatusNotFound},
		{Error: ErrEmailTaken, Status: http.StatusConflict},
		{Error: ErrEmailExists, Status: http.StatusConflict},
	})
}

// createValidationMessage reports missing fields before an unknown type.
func createValidationMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return msgCreateRequired
	}
	for _, e := range fieldErrors {
		if e.Tag() == "required" {
			return msgCreateRequired
		}
	}
	return msgInvalidType
}

func updateValidationMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		for _, e := range fieldErrors {
			if e.Tag() == "oneof" {
				return msgInvalidType
			}
		}
	}
	return msgEmptyField
}
