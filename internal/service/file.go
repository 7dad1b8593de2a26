package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/filevault/filevault/internal/model"
	"github.com/filevault/filevault/internal/queue"
	"github.com/filevault/filevault/internal/repository"
	"github.com/filevault/filevault/internal/storage"
)

type FileService struct {
	files   repository.FileRepository
	storage storage.Storage
	queue   queue.Queue
}

func NewFileService(files repository.FileRepository, storage storage.Storage, q queue.Queue) *FileService {
	return &FileService{
		files:   files,
		storage: storage,
		queue:   q,
	}
}

// CreateFileInput carries the already-defaulted upload fields; the
// handler resolves absent parentId/isPublic before calling Create.
type CreateFileInput struct {
	Name     string
	Type     string
	Data     string // base64 content, empty for folders
	ParentID string
	IsPublic bool
}

// Create validates and persists a file or folder. For non-folders the
// blob write is best-effort: a failed write is logged and the metadata
// is still persisted, leaving a record whose content reads as missing.
// Image uploads queue a thumbnail job after the record exists.
func (s *FileService) Create(ctx context.Context, userID string, in CreateFileInput) (*model.File, error) {
	if in.Name == "" {
		return nil, ErrMissingName
	}
	if !model.ValidFileType(in.Type) {
		return nil, ErrMissingType
	}
	if in.Type != model.FileTypeFolder && in.Data == "" {
		return nil, ErrMissingData
	}

	if in.ParentID != model.RootParentID {
		parent, err := s.files.ByID(ctx, in.ParentID)
		if err != nil {
			if errors.Is(err, repository.ErrFileNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if !parent.IsFolder() {
			return nil, ErrParentNotFolder
		}
	}

	file := &model.File{
		UserID:    userID,
		Name:      in.Name,
		Type:      in.Type,
		IsPublic:  in.IsPublic,
		ParentID:  in.ParentID,
		CreatedAt: time.Now(),
	}

	if in.Type == model.FileTypeFolder {
		if err := s.files.Create(ctx, file); err != nil {
			return nil, err
		}
		return file, nil
	}

	data, err := base64.StdEncoding.DecodeString(in.Data)
	if err != nil {
		return nil, ErrMissingData
	}

	file.LocalPath = s.storage.BlobPath(uuid.New().String())
	if err := s.storage.Save(file.LocalPath, data); err != nil {
		// Deliberate weak point: the record is written regardless, and
		// the missing blob surfaces later as a content 404.
		slog.Error("blob write failed", "error", err, "path", file.LocalPath)
	}

	if err := s.files.Create(ctx, file); err != nil {
		return nil, err
	}

	if file.Type == model.FileTypeImage {
		job, err := queue.NewJob(queue.KindThumbnail, queue.ThumbnailPayload{
			FileID: file.ID,
			UserID: file.UserID,
		})
		if err == nil {
			err = s.queue.Enqueue(ctx, queue.FileQueue, job)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to enqueue thumbnail job: %w", err)
		}
	}

	return file, nil
}

// ByID returns the file only if the user owns it.
func (s *FileService) ByID(ctx context.Context, userID, id string) (*model.File, error) {
	file, err := s.files.ByIDForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return file, nil
}

// List returns one page of the user's files under the given parent,
// newest first. Re-invoking with the same page restarts the window.
func (s *FileService) List(ctx context.Context, userID, parentID string, page int64) ([]*model.File, error) {
	return s.files.ByParent(ctx, userID, parentID, page)
}

// SetPublic flips visibility. Idempotent: repeating the call leaves the
// record unchanged and still succeeds.
func (s *FileService) SetPublic(ctx context.Context, userID, id string, isPublic bool) (*model.File, error) {
	file, err := s.files.SetPublic(ctx, id, userID, isPublic)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return file, nil
}

// Content returns the raw bytes and MIME type for a file. Private files
// require the owner; every denial is a not-found so private-file
// existence never leaks. size selects a pre-generated rendition.
func (s *FileService) Content(ctx context.Context, user *model.User, id string, size int) ([]byte, string, error) {
	file, err := s.files.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}

	if !file.IsPublic {
		if user == nil || user.ID != file.UserID {
			return nil, "", ErrNotFound
		}
	}

	if file.IsFolder() {
		return nil, "", ErrFolderContent
	}

	path := file.LocalPath
	if size != 0 {
		path = fmt.Sprintf("%s_%d", path, size)
	}

	data, err := s.storage.Read(path)
	if err != nil {
		return nil, "", ErrNotFound
	}

	mimeType := mime.TypeByExtension(filepath.Ext(file.Name))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return data, mimeType, nil
}
