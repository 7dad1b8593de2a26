package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/filevault/filevault/internal/ctxkeys"
	"github.com/filevault/filevault/internal/model"
	"github.com/filevault/filevault/internal/service"
)

type FileHandler struct {
	fileService *service.FileService
}

func NewFileHandler(fileService *service.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// Create uploads a file or folder.
func (h *FileHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		Name     string `json:"name"`
		Type     string `json:"type"`
		Data     string `json:"data"`
		ParentID any    `json:"parentId"`
		IsPublic bool   `json:"isPublic"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	file, err := h.fileService.Create(r.Context(), user.ID, service.CreateFileInput{
		Name:     req.Name,
		Type:     req.Type,
		Data:     req.Data,
		ParentID: normalizeParentID(req.ParentID),
		IsPublic: req.IsPublic,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, projectFile(file))
}

// Show returns one of the caller's files.
func (h *FileHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	file, err := h.fileService.ByID(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, projectFile(file))
}

// Index lists one page of the caller's files under a parent.
func (h *FileHandler) Index(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	parentID := r.URL.Query().Get("parentId")
	if parentID == "" {
		parentID = model.RootParentID
	}

	page, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	if err != nil || page < 0 {
		page = 0
	}

	files, err := h.fileService.List(r.Context(), user.ID, parentID, page)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	projections := make([]fileProjection, 0, len(files))
	for _, f := range files {
		projections = append(projections, projectFile(f))
	}
	respondJSON(w, http.StatusOK, projections)
}

// Publish marks a file public.
func (h *FileHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.setPublic(w, r, true)
}

// Unpublish marks a file private.
func (h *FileHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.setPublic(w, r, false)
}

func (h *FileHandler) setPublic(w http.ResponseWriter, r *http.Request, isPublic bool) {
	user := ctxkeys.User(r.Context())

	file, err := h.fileService.SetPublic(r.Context(), user.ID, r.PathValue("id"), isPublic)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, projectFile(file))
}

// Data serves raw file content. Public files need no token; private
// files require the owner's session, and any denial reads as 404.
func (h *FileHandler) Data(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context()) // may be nil

	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err == nil && parsed > 0 {
			size = parsed
		}
	}

	data, mimeType, err := h.fileService.Content(r.Context(), user, r.PathValue("id"), size)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// normalizeParentID defaults an absent parentId to the root sentinel
// and accepts both the JSON number 0 and string ids.
func normalizeParentID(v any) string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return model.RootParentID
		}
		return t
	case float64:
		return strconv.FormatInt(int64(t), 10)
	default:
		return model.RootParentID
	}
}
