package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-redis/redis/v8"

	"github.com/filevault/filevault/internal/cache"
	"github.com/filevault/filevault/internal/db"
	"github.com/filevault/filevault/internal/repository"
)

// AppHandler serves the service-level status and stats endpoints.
type AppHandler struct {
	database *db.DB
	redis    *redis.Client
	users    repository.UserRepository
	files    repository.FileRepository
}

func NewAppHandler(database *db.DB, redisClient *redis.Client, users repository.UserRepository, files repository.FileRepository) *AppHandler {
	return &AppHandler{
		database: database,
		redis:    redisClient,
		users:    users,
		files:    files,
	}
}

// Status reports connectivity of the two external stores.
func (h *AppHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]bool{
		"redis": cache.Alive(r.Context(), h.redis),
		"db":    h.database.Ping(r.Context()),
	})
}

// Stats reports collection counts.
func (h *AppHandler) Stats(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.Count(r.Context())
	if err != nil {
		slog.Error("failed to count users", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	files, err := h.files.Count(r.Context())
	if err != nil {
		slog.Error("failed to count files", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{
		"users": users,
		"files": files,
	})
}
