package handler

import (
	"encoding/json"
	"net/http"

	"github.com/filevault/filevault/internal/ctxkeys"
	"github.com/filevault/filevault/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type userProjection struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Create registers a new user.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	// An undecodable body is treated as empty input; the service
	// reports the first missing field.
	_ = json.NewDecoder(r.Body).Decode(&req)

	user, err := h.userService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, userProjection{ID: user.ID, Email: user.Email})
}

// Me returns the authenticated user's projection.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	respondJSON(w, http.StatusOK, userProjection{ID: user.ID, Email: user.Email})
}
