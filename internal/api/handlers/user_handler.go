package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/spendtrack/spendtrack-be/internal/models"
	"github.com/spendtrack/spendtrack-be/internal/services"
)

// UserHandler handles admin HTTP requests for the account directory.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// List handles the request to get all user-role accounts, newest first.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// Get handles retrieving an account by its ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.service.GetUserByID(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Create handles admin-initiated account creation.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if !decodeBody(w, r, &payload) {
		return
	}

	user, err := h.service.CreateUser(payload.Username, payload.Email, payload.Password, models.RoleUser)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to create account")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Update handles updating an account's username and email.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}

	user, err := h.service.UpdateUser(id, payload.Username, payload.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Delete handles the permanent deletion of an account and, with it, every
// expense that account owns.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteUser(id); err != nil {
		writeServiceError(w, err)
		return
	}

	log.Info().Str("user_id", id).Msg("Account deleted with its expenses")
	writeMessage(w, http.StatusOK, "user deleted successfully")
}

// Stats handles the admin dashboard counters.
func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
