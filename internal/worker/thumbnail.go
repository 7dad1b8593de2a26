package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"

	"github.com/disintegration/imaging"

	"github.com/filevault/filevault/internal/queue"
	"github.com/filevault/filevault/internal/repository"
	"github.com/filevault/filevault/internal/storage"
)

// ThumbnailWidths are the rendition sizes generated for every image
// upload, written as <localPath>_<width>.
var ThumbnailWidths = []int{100, 250, 500}

type ThumbnailWorker struct {
	files   repository.FileRepository
	storage storage.Storage
}

func NewThumbnailWorker(files repository.FileRepository, storage storage.Storage) *ThumbnailWorker {
	return &ThumbnailWorker{
		files:   files,
		storage: storage,
	}
}

// Handle processes one thumbnail job. Validation and lookup failures
// fail the attempt; rendition failures are logged and the job still
// completes, so a partial rendition set is possible and accepted.
func (w *ThumbnailWorker) Handle(ctx context.Context, job queue.Job) error {
	var payload queue.ThumbnailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("malformed thumbnail payload: %w", err)
	}
	if payload.FileID == "" {
		return errors.New("missing fileId")
	}
	if payload.UserID == "" {
		return errors.New("missing userId")
	}

	// Owner-scoped lookup: a job carrying someone else's file id is
	// rejected the same way as an unknown one.
	file, err := w.files.ByIDForUser(ctx, payload.FileID, payload.UserID)
	if err != nil {
		return fmt.Errorf("file not found: %w", err)
	}

	data, err := w.storage.Read(file.LocalPath)
	if err != nil {
		slog.Error("thumbnail source unreadable", "error", err, "file_id", file.ID, "path", file.LocalPath)
		return nil
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		slog.Error("thumbnail source decode failed", "error", err, "file_id", file.ID)
		return nil
	}

	for _, width := range ThumbnailWidths {
		if err := w.writeRendition(file.LocalPath, src, format, width); err != nil {
			slog.Error("rendition failed", "error", err, "file_id", file.ID, "width", width)
			continue
		}
		slog.Debug("rendition written", "file_id", file.ID, "width", width)
	}

	slog.Info("thumbnails generated", "file_id", file.ID, "user_id", file.UserID)
	return nil
}

func (w *ThumbnailWorker) writeRendition(localPath string, src image.Image, format string, width int) error {
	thumb := imaging.Resize(src, width, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, encodeFormat(format)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	return w.storage.Save(fmt.Sprintf("%s_%d", localPath, width), buf.Bytes())
}

// encodeFormat keeps renditions in the source format where possible.
func encodeFormat(format string) imaging.Format {
	switch format {
	case "png":
		return imaging.PNG
	case "gif":
		return imaging.GIF
	default:
		return imaging.JPEG
	}
}
