package app

import "eventvault/pkg/domain"

// GetFileByIDAuthorized returns a file if the caller is privileged or
// owns it through an active event. Files carry no owner field, so
// ownership is exactly the existence of such an event; existence of the
// file is still confirmed first.
func (a *App) GetFileByIDAuthorized(id int64, p domain.Principal) (domain.File, error) {
	file, ok, err := a.files.FindActiveByID(id)
	if err != nil {
		return domain.File{}, ErrInternal(err)
	}
	if !ok {
		return domain.File{}, ErrNotFound("file %d not found", id)
	}
	if !p.Role.Privileged() {
		_, owns, err := a.events.FindActiveByFileIDAndUserID(id, p.ID)
		if err != nil {
			return domain.File{}, ErrInternal(err)
		}
		if !owns {
			return domain.File{}, ErrForbidden("access denied")
		}
	}
	return file, nil
}

// ListFilesForPrincipal returns all active files for privileged callers
// and the caller's event-owned files otherwise.
func (a *App) ListFilesForPrincipal(p domain.Principal) ([]domain.File, error) {
	var (
		files []domain.File
		err   error
	)
	if p.Role.Privileged() {
		files, err = a.files.FindAllActive()
	} else {
		files, err = a.files.FindAllActiveByUserID(p.ID)
	}
	if err != nil {
		return nil, ErrInternal(err)
	}
	return files, nil
}

// UpdateFileByID rewrites the file's storage location.
func (a *App) UpdateFileByID(id int64, location string) (domain.File, error) {
	file, ok, err := a.files.FindActiveByID(id)
	if err != nil {
		return domain.File{}, ErrInternal(err)
	}
	if !ok {
		return domain.File{}, ErrNotFound("file %d not found", id)
	}
	file.Location = location
	updated, err := a.files.Save(file)
	if err != nil {
		return domain.File{}, ErrInternal(err)
	}
	return updated, nil
}

// DeleteFileByID soft-deletes a file; not-found when no active row exists.
func (a *App) DeleteFileByID(id int64) error {
	deleted, err := a.files.SoftDeleteByID(id)
	if err != nil {
		return ErrInternal(err)
	}
	if !deleted {
		return ErrNotFound("file %d not found", id)
	}
	return nil
}

// DeleteAllFilesByUserID soft-deletes the files owned by a user's
// active events and reports the count.
func (a *App) DeleteAllFilesByUserID(userID int64) (int64, error) {
	n, err := a.files.SoftDeleteAllByUserID(userID)
	if err != nil {
		return 0, ErrInternal(err)
	}
	return n, nil
}

// DeleteAllFiles soft-deletes every active file and reports the count.
func (a *App) DeleteAllFiles() (int64, error) {
	n, err := a.files.SoftDeleteAll()
	if err != nil {
		return 0, ErrInternal(err)
	}
	return n, nil
}
