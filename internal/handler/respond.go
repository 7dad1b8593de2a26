package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/filevault/filevault/internal/model"
	"github.com/filevault/filevault/internal/service"
)

// fileProjection is the client-facing view of a file document.
// localPath stays internal.
type fileProjection struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID string `json:"parentId"`
}

func projectFile(f *model.File) fileProjection {
	return fileProjection{
		ID:       f.ID,
		UserID:   f.UserID,
		Name:     f.Name,
		Type:     f.Type,
		IsPublic: f.IsPublic,
		ParentID: f.ParentID,
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// apiError maps a service sentinel to the wire status and message.
var apiErrors = map[error]struct {
	status  int
	message string
}{
	service.ErrUnauthorized:    {http.StatusUnauthorized, "Unauthorized"},
	service.ErrMissingEmail:    {http.StatusBadRequest, "Missing email"},
	service.ErrMissingPassword: {http.StatusBadRequest, "Missing password"},
	service.ErrInvalidEmail:    {http.StatusBadRequest, "Invalid email"},
	service.ErrEmailExists:     {http.StatusBadRequest, "Already exist"},
	service.ErrMissingName:     {http.StatusBadRequest, "Missing name"},
	service.ErrMissingType:     {http.StatusBadRequest, "Missing type"},
	service.ErrMissingData:     {http.StatusBadRequest, "Missing data"},
	service.ErrParentNotFound:  {http.StatusBadRequest, "Parent not found"},
	service.ErrParentNotFolder: {http.StatusBadRequest, "Parent is not a folder"},
	service.ErrNotFound:        {http.StatusNotFound, "Not found"},
	service.ErrFolderContent:   {http.StatusBadRequest, "A folder doesn't have content"},
}

func respondServiceError(w http.ResponseWriter, err error) {
	for sentinel, api := range apiErrors {
		if errors.Is(err, sentinel) {
			respondError(w, api.status, api.message)
			return
		}
	}

	slog.Error("request failed", "error", err)
	respondError(w, http.StatusInternalServerError, "Internal server error")
}
