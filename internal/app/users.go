package app

import (
	"log/slog"
	"strings"

	"eventvault/pkg/auth"
	"eventvault/pkg/domain"
)

// UserPatch carries the updatable user fields. Nil fields are left
// untouched; an empty password means "keep the current one".
type UserPatch struct {
	Username  *string
	Password  *string
	FirstName *string
	LastName  *string
	Role      *domain.Role
	Enabled   *bool
}

// GetUserByID returns an active user or not-found.
func (a *App) GetUserByID(id int64) (domain.User, error) {
	user, ok, err := a.users.FindActiveByID(id)
	if err != nil {
		return domain.User{}, ErrInternal(err)
	}
	if !ok {
		return domain.User{}, ErrNotFound("user %d not found", id)
	}
	return user, nil
}

// GetUserByIDAuthorized checks existence, then the owner policy, then
// loads the user's events joined with their files. An event whose file
// is missing keeps a zero-value placeholder file instead of failing the
// whole aggregate.
func (a *App) GetUserByIDAuthorized(id int64, p domain.Principal) (domain.UserWithEvents, error) {
	user, err := a.GetUserByID(id)
	if err != nil {
		return domain.UserWithEvents{}, err
	}
	if err := authorizeOwner(p, id); err != nil {
		return domain.UserWithEvents{}, err
	}
	events, err := a.events.FindAllActiveByUserID(id)
	if err != nil {
		return domain.UserWithEvents{}, ErrInternal(err)
	}
	resolved := make([]domain.EventWithFile, 0, len(events))
	for _, event := range events {
		file, ok, err := a.files.FindActiveByID(event.FileID)
		if err != nil {
			return domain.UserWithEvents{}, ErrInternal(err)
		}
		if !ok {
			file = domain.File{}
		}
		resolved = append(resolved, domain.EventWithFile{Event: event, File: file})
	}
	return domain.UserWithEvents{User: user, Events: resolved}, nil
}

// ListUsers returns all active users. The boundary gates this to
// privileged roles.
func (a *App) ListUsers() ([]domain.User, error) {
	users, err := a.users.FindAllActive()
	if err != nil {
		return nil, ErrInternal(err)
	}
	return users, nil
}

// UpdateUserByID applies the patch to an existing user. Username
// uniqueness is re-checked against every other active row; the password
// is re-hashed only when a new non-empty one is supplied.
func (a *App) UpdateUserByID(id int64, patch UserPatch) (domain.User, error) {
	user, err := a.GetUserByID(id)
	if err != nil {
		return domain.User{}, err
	}
	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		if username == "" {
			return domain.User{}, ErrConflict("username must not be empty")
		}
		taken, err := a.users.ExistsActiveByUsernameExcludingID(username, id)
		if err != nil {
			return domain.User{}, ErrInternal(err)
		}
		if taken {
			return domain.User{}, ErrConflict("username %q is already taken", username)
		}
		user.Username = username
	}
	if patch.Password != nil && *patch.Password != "" {
		hash, err := auth.HashPassword(*patch.Password)
		if err != nil {
			return domain.User{}, ErrInternal(err)
		}
		user.PasswordHash = hash
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	if patch.Enabled != nil {
		user.Enabled = *patch.Enabled
	}
	user.UpdatedAt = a.now()
	updated, err := a.users.Save(user)
	if err != nil {
		return domain.User{}, ErrInternal(err)
	}
	return updated, nil
}

// DeleteUserByID soft-deletes a user; not-found when no active row exists.
func (a *App) DeleteUserByID(id int64) error {
	deleted, err := a.users.SoftDeleteByID(id)
	if err != nil {
		return ErrInternal(err)
	}
	if !deleted {
		return ErrNotFound("user %d not found", id)
	}
	slog.Info("user deleted", "user_id", id)
	return nil
}

// DeleteAllUsers soft-deletes every active user and reports the count.
func (a *App) DeleteAllUsers() (int64, error) {
	n, err := a.users.SoftDeleteAll()
	if err != nil {
		return 0, ErrInternal(err)
	}
	return n, nil
}
