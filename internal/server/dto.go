package server

import (
	"encoding/json"
	"net/http"

	"eventvault/internal/app"
	"eventvault/internal/util"
	"eventvault/pkg/domain"
)

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userUpdateRequest struct {
	Username  *string `json:"username"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Role      *string `json:"role"`
	Enabled   *bool   `json:"enabled"`
}

type eventUpdateRequest struct {
	UserID int64 `json:"user_id"`
	FileID int64 `json:"file_id"`
}

type fileUpdateRequest struct {
	Location string `json:"location"`
}

type deleteCountResponse struct {
	Deleted int64 `json:"deleted"`
}

type link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// eventResponse decorates a single-event read with hypermedia links to
// itself and to its file's download endpoint.
type eventResponse struct {
	domain.EventWithFile
	Links []link `json:"links"`
}

// wire error envelope shared by every failure response

type wireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Errors []wireError `json:"errors"`
}

func statusOf(kind app.Kind) int {
	switch kind {
	case app.KindNotFound:
		return http.StatusNotFound
	case app.KindForbidden:
		return http.StatusForbidden
	case app.KindUnauthorized:
		return http.StatusUnauthorized
	case app.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorEnvelope{Errors: []wireError{{Code: code, Message: msg}}})
}

// writeAppError maps a service failure onto the wire envelope. Internal
// causes are logged through the request-scoped logger and never leak
// into the response body.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := app.Classify(err)
	if appErr.Kind == app.KindInternal {
		util.LoggerFromContext(r.Context()).Error("internal error", "err", appErr.Unwrap())
	}
	writeError(w, statusOf(appErr.Kind), appErr.Code, appErr.Message)
}

func parseRole(role string) (domain.Role, bool) {
	switch domain.Role(role) {
	case domain.RoleUser, domain.RoleModerator, domain.RoleAdmin:
		return domain.Role(role), true
	default:
		return "", false
	}
}
