package app

import (
	"errors"
	"log/slog"
	"strings"

	"eventvault/pkg/auth"
	"eventvault/pkg/domain"
	"eventvault/pkg/token"
)

// Register creates a new account. Role and enabled flag are forced; the
// caller cannot pick them.
func (a *App) Register(username, password, firstName, lastName string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, ErrConflict("username and password are required")
	}
	taken, err := a.users.ExistsActiveByUsernameExcludingID(username, 0)
	if err != nil {
		return domain.User{}, ErrInternal(err)
	}
	if taken {
		return domain.User{}, ErrConflict("username %q is already taken", username)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, ErrInternal(err)
	}
	now := a.now()
	user, err := a.users.Save(domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		FirstName:    firstName,
		LastName:     lastName,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
		Status:       domain.StatusActive,
	})
	if err != nil {
		return domain.User{}, ErrInternal(err)
	}
	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login checks credentials and issues a signed token. Unknown usernames,
// disabled accounts, and wrong passwords all produce the same answer so
// accounts cannot be enumerated.
func (a *App) Login(username, password string) (token.Details, error) {
	user, ok, err := a.users.FindActiveByUsername(strings.TrimSpace(username))
	if err != nil {
		return token.Details{}, ErrInternal(err)
	}
	if !ok || !user.Enabled || !auth.CheckPassword(password, user.PasswordHash) {
		return token.Details{}, ErrUnauthorized("INVALID_CREDENTIALS", "invalid username or password")
	}
	details, err := a.codec.Issue(user.ID, user.Role)
	if err != nil {
		return token.Details{}, ErrInternal(err)
	}
	return details, nil
}

// DecodeToken validates a bearer credential and reconstructs the
// principal, mapping each decode failure to its stable error code.
func (a *App) DecodeToken(tokenString string) (domain.Principal, error) {
	principal, err := a.codec.Decode(tokenString)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrExpired):
			return domain.Principal{}, ErrUnauthorized("TOKEN_EXPIRED", "token expired")
		case errors.Is(err, token.ErrBadSignature):
			return domain.Principal{}, ErrUnauthorized("TOKEN_SIGNATURE", "token signature invalid")
		default:
			return domain.Principal{}, ErrUnauthorized("TOKEN_MALFORMED", "token malformed")
		}
	}
	return principal, nil
}

// Info returns the calling principal's own user record.
func (a *App) Info(p domain.Principal) (domain.User, error) {
	return a.GetUserByID(p.ID)
}
