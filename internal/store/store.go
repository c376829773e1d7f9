// Package store defines the persistence contracts consumed by the core
// and their gorm and in-memory implementations. Every "active" lookup
// filters on the explicit record status; soft-deleted rows never leave
// the store through these methods.
package store

import "eventvault/pkg/domain"

// UserRepository persists user accounts.
type UserRepository interface {
	FindActiveByID(id int64) (domain.User, bool, error)
	FindActiveByUsername(username string) (domain.User, bool, error)
	FindAllActive() ([]domain.User, error)
	// ExistsActiveByUsernameExcludingID reports whether any active row other
	// than id holds the username. Pass id 0 to check against all rows.
	ExistsActiveByUsernameExcludingID(username string, id int64) (bool, error)
	Save(u domain.User) (domain.User, error)
	// SoftDeleteByID marks the row deleted; false when no active row matched.
	SoftDeleteByID(id int64) (bool, error)
	SoftDeleteAll() (int64, error)
}

// FileRepository persists uploaded-file metadata.
type FileRepository interface {
	FindActiveByID(id int64) (domain.File, bool, error)
	FindAllActive() ([]domain.File, error)
	// FindAllActiveByUserID resolves files through the user's active events.
	FindAllActiveByUserID(userID int64) ([]domain.File, error)
	// GetIDByFilename resolves the active file whose location ends in filename.
	GetIDByFilename(filename string) (int64, bool, error)
	Save(f domain.File) (domain.File, error)
	SoftDeleteByID(id int64) (bool, error)
	SoftDeleteAllByUserID(userID int64) (int64, error)
	SoftDeleteAll() (int64, error)
}

// EventRepository persists the user-file association records.
type EventRepository interface {
	FindActiveByID(id int64) (domain.Event, bool, error)
	FindAllActive() ([]domain.Event, error)
	FindAllActiveByUserID(userID int64) ([]domain.Event, error)
	FindActiveByFileIDAndUserID(fileID, userID int64) (domain.Event, bool, error)
	Save(e domain.Event) (domain.Event, error)
	SoftDeleteByID(id int64) (bool, error)
	SoftDeleteAll() (int64, error)
}

// Store aggregates the three repositories behind one backing engine.
type Store interface {
	Users() UserRepository
	Files() FileRepository
	Events() EventRepository
}
