package app

import (
	"context"
	"errors"
	"io"
	"time"

	"eventvault/internal/util"
	"eventvault/pkg/domain"
	"eventvault/pkg/storage"
)

// UploadResult is returned to the uploader.
type UploadResult struct {
	FileName   string    `json:"file_name"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Upload accepts a file for the calling principal. The file row and the
// owning event row are written before the bytes are transferred, in
// that order: a crash mid-upload leaves a discoverable record whose
// object-store lookup fails, never unreachable bytes without metadata.
// No rollback is attempted on partial failure.
func (a *App) Upload(ctx context.Context, p domain.Principal, filename string, r io.Reader, size int64, contentType string) (UploadResult, error) {
	if p.ID == 0 {
		return UploadResult{}, ErrForbidden("upload requires an authenticated identity")
	}
	file, err := a.files.Save(domain.File{
		Location: a.locationPrefix + filename,
		Status:   domain.StatusActive,
	})
	if err != nil {
		return UploadResult{}, ErrInternal(err)
	}
	if _, err := a.events.Save(domain.Event{
		UserID: p.ID,
		FileID: file.ID,
		Status: domain.StatusActive,
	}); err != nil {
		return UploadResult{}, ErrInternal(err)
	}
	if err := a.objects.Put(ctx, a.objectKey(filename), r, size, contentType); err != nil {
		return UploadResult{}, ErrInternal(err)
	}
	util.LoggerFromContext(ctx).Info("file uploaded", "filename", filename, "user_id", p.ID, "file_id", file.ID)
	return UploadResult{FileName: filename, UploadedAt: a.now()}, nil
}

// Download streams a stored object. Callers holding the USER role must
// own the file through an event. Callers with any other role, and
// anonymous callers (the zero principal), pass through unchecked. That
// asymmetry is a known gap, not a deliberate grant; see DESIGN.md
// before relying on it.
func (a *App) Download(ctx context.Context, p domain.Principal, filename string) (io.ReadCloser, error) {
	if p.Role == domain.RoleUser {
		if _, err := a.FindEventByFilenameAndUserID(filename, p.ID); err != nil {
			if Classify(err).Kind == KindNotFound {
				return nil, ErrForbidden("access denied")
			}
			return nil, err
		}
	}
	rc, err := a.objects.Get(ctx, a.objectKey(filename))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrNotFound("file %q not found", filename)
		}
		return nil, ErrInternal(err)
	}
	return rc, nil
}
