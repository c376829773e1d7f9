package app

import "eventvault/pkg/domain"

// EventPatch reassigns the user/file pair of an event.
type EventPatch struct {
	UserID int64
	FileID int64
}

// GetEventByIDAuthorized checks existence, then the owner policy on the
// event's user, then joins the file. Here a missing file is a hard
// not-found: the event is the access grant to that file, so a dangling
// grant must not be served.
func (a *App) GetEventByIDAuthorized(id int64, p domain.Principal) (domain.EventWithFile, error) {
	event, ok, err := a.events.FindActiveByID(id)
	if err != nil {
		return domain.EventWithFile{}, ErrInternal(err)
	}
	if !ok {
		return domain.EventWithFile{}, ErrNotFound("event %d not found", id)
	}
	if err := authorizeOwner(p, event.UserID); err != nil {
		return domain.EventWithFile{}, err
	}
	file, ok, err := a.files.FindActiveByID(event.FileID)
	if err != nil {
		return domain.EventWithFile{}, ErrInternal(err)
	}
	if !ok {
		return domain.EventWithFile{}, ErrNotFound("file %d not found", event.FileID)
	}
	return domain.EventWithFile{Event: event, File: file}, nil
}

// ListEventsForPrincipal returns all active events for privileged
// callers and only the caller's own events otherwise, each resolved
// with its file.
func (a *App) ListEventsForPrincipal(p domain.Principal) ([]domain.EventWithFile, error) {
	var (
		events []domain.Event
		err    error
	)
	if p.Role.Privileged() {
		events, err = a.events.FindAllActive()
	} else {
		events, err = a.events.FindAllActiveByUserID(p.ID)
	}
	if err != nil {
		return nil, ErrInternal(err)
	}
	return a.resolveFiles(events)
}

// ListEventsByUserID returns a user's active events with files. The
// boundary gates this to privileged roles.
func (a *App) ListEventsByUserID(userID int64) ([]domain.EventWithFile, error) {
	events, err := a.events.FindAllActiveByUserID(userID)
	if err != nil {
		return nil, ErrInternal(err)
	}
	return a.resolveFiles(events)
}

// resolveFiles joins each event with its file, skipping events whose
// file has been deleted out from under them.
func (a *App) resolveFiles(events []domain.Event) ([]domain.EventWithFile, error) {
	resolved := make([]domain.EventWithFile, 0, len(events))
	for _, event := range events {
		file, ok, err := a.files.FindActiveByID(event.FileID)
		if err != nil {
			return nil, ErrInternal(err)
		}
		if !ok {
			continue
		}
		resolved = append(resolved, domain.EventWithFile{Event: event, File: file})
	}
	return resolved, nil
}

// FindEventByFilenameAndUserID resolves a filename to its file and the
// owning event for the given user. This is the authorization primitive
// behind file download.
func (a *App) FindEventByFilenameAndUserID(filename string, userID int64) (domain.Event, error) {
	fileID, ok, err := a.files.GetIDByFilename(filename)
	if err != nil {
		return domain.Event{}, ErrInternal(err)
	}
	if !ok {
		return domain.Event{}, ErrNotFound("event not found")
	}
	event, ok, err := a.events.FindActiveByFileIDAndUserID(fileID, userID)
	if err != nil {
		return domain.Event{}, ErrInternal(err)
	}
	if !ok {
		return domain.Event{}, ErrNotFound("event not found")
	}
	return event, nil
}

// UpdateEventByID reassigns the event's user/file pair.
func (a *App) UpdateEventByID(id int64, patch EventPatch) (domain.Event, error) {
	event, ok, err := a.events.FindActiveByID(id)
	if err != nil {
		return domain.Event{}, ErrInternal(err)
	}
	if !ok {
		return domain.Event{}, ErrNotFound("event %d not found", id)
	}
	event.UserID = patch.UserID
	event.FileID = patch.FileID
	updated, err := a.events.Save(event)
	if err != nil {
		return domain.Event{}, ErrInternal(err)
	}
	return updated, nil
}

// DeleteEventByID soft-deletes an event; not-found when no active row
// exists.
func (a *App) DeleteEventByID(id int64) error {
	deleted, err := a.events.SoftDeleteByID(id)
	if err != nil {
		return ErrInternal(err)
	}
	if !deleted {
		return ErrNotFound("event %d not found", id)
	}
	return nil
}

// DeleteAllEvents soft-deletes every active event and reports the count.
func (a *App) DeleteAllEvents() (int64, error) {
	n, err := a.events.SoftDeleteAll()
	if err != nil {
		return 0, ErrInternal(err)
	}
	return n, nil
}
