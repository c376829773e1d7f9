// Package server is the HTTP adapter over the core: bearer decoding,
// role gates, request/response DTOs, and the uniform error envelope.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"eventvault/internal/app"
	"eventvault/internal/util"
	"eventvault/pkg/domain"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App *app.App
}

// Server exposes the REST endpoints.
type Server struct {
	app *app.App
	mux *http.ServeMux
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	s := &Server{
		app: cfg.App,
		mux: http.NewServeMux(),
	}
	s.routes()
	return s
}

// Router returns the configured handler wrapped with request-id and
// request-log middleware.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog(s.mux))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// auth
	s.mux.HandleFunc("/api/v1/auth/register", s.handleRegister)
	s.mux.HandleFunc("/api/v1/auth/login", s.handleLogin)
	s.mux.Handle("/api/v1/auth/info", s.authenticated(s.handleInfo))

	// resources
	s.mux.Handle("/api/v1/users/", s.authenticated(s.handleUsers))
	s.mux.Handle("/api/v1/events/", s.authenticated(s.handleEvents))
	// download tolerates anonymous callers, so files dispatch their own auth
	s.mux.HandleFunc("/api/v1/files/", s.handleFiles)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// auth wrappers

type authHandler func(http.ResponseWriter, *http.Request, domain.Principal)

func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := s.principalFromRequest(r)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		next(w, r, principal)
	})
}

func (s *Server) principalFromRequest(r *http.Request) (domain.Principal, error) {
	token, ok := bearerToken(r)
	if !ok {
		return domain.Principal{}, app.ErrUnauthorized("UNAUTHORIZED", "missing bearer token")
	}
	return s.app.DecodeToken(token)
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}

func requirePrivileged(w http.ResponseWriter, r *http.Request, p domain.Principal) bool {
	if !p.Role.Privileged() {
		writeAppError(w, r, app.ErrForbidden("access denied"))
		return false
	}
	return true
}

func requireAdmin(w http.ResponseWriter, r *http.Request, p domain.Principal) bool {
	if p.Role != domain.RoleAdmin {
		writeAppError(w, r, app.ErrForbidden("access denied"))
		return false
	}
	return true
}

// auth handlers

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := s.app.Register(req.Username, req.Password, req.FirstName, req.LastName)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	details, err := s.app.Login(req.Username, req.Password)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request, p domain.Principal) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	user, err := s.app.Info(p)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// user handlers

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request, p domain.Principal) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/users/")
	switch rest {
	case "":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		if !requirePrivileged(w, r, p) {
			return
		}
		users, err := s.app.ListUsers()
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, users)
	case "all":
		if r.Method != http.MethodDelete {
			methodNotAllowed(w)
			return
		}
		if !requireAdmin(w, r, p) {
			return
		}
		n, err := s.app.DeleteAllUsers()
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, deleteCountResponse{Deleted: n})
	default:
		id, ok := parseID(w, rest)
		if !ok {
			return
		}
		s.handleUserByID(w, r, p, id)
	}
}

func (s *Server) handleUserByID(w http.ResponseWriter, r *http.Request, p domain.Principal, id int64) {
	switch r.Method {
	case http.MethodGet:
		user, err := s.app.GetUserByIDAuthorized(id, p)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	case http.MethodPut:
		if !requireAdmin(w, r, p) {
			return
		}
		var req userUpdateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		patch := app.UserPatch{
			Username:  req.Username,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Enabled:   req.Enabled,
		}
		if req.Role != nil {
			role, ok := parseRole(*req.Role)
			if !ok {
				writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid role")
				return
			}
			patch.Role = &role
		}
		user, err := s.app.UpdateUserByID(id, patch)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	case http.MethodDelete:
		if !requireAdmin(w, r, p) {
			return
		}
		if err := s.app.DeleteUserByID(id); err != nil {
			writeAppError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

// event handlers

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request, p domain.Principal) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/events/")
	switch rest {
	case "":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		events, err := s.app.ListEventsForPrincipal(p)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, events)
	case "by-user-id/", "by-user-id":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		if !requirePrivileged(w, r, p) {
			return
		}
		userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid user_id")
			return
		}
		events, err := s.app.ListEventsByUserID(userID)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, events)
	case "all":
		if r.Method != http.MethodDelete {
			methodNotAllowed(w)
			return
		}
		if !requireAdmin(w, r, p) {
			return
		}
		n, err := s.app.DeleteAllEvents()
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, deleteCountResponse{Deleted: n})
	default:
		id, ok := parseID(w, rest)
		if !ok {
			return
		}
		s.handleEventByID(w, r, p, id)
	}
}

func (s *Server) handleEventByID(w http.ResponseWriter, r *http.Request, p domain.Principal, id int64) {
	switch r.Method {
	case http.MethodGet:
		event, err := s.app.GetEventByIDAuthorized(id, p)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, eventResponse{
			EventWithFile: event,
			Links: []link{
				{Rel: "self", Href: fmt.Sprintf("/api/v1/events/%d", event.ID)},
				{Rel: "download", Href: "/api/v1/files/download/" + path.Base(event.File.Location)},
			},
		})
	case http.MethodPut:
		if !requirePrivileged(w, r, p) {
			return
		}
		var req eventUpdateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		event, err := s.app.UpdateEventByID(id, app.EventPatch{UserID: req.UserID, FileID: req.FileID})
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, event)
	case http.MethodDelete:
		if !requirePrivileged(w, r, p) {
			return
		}
		if err := s.app.DeleteEventByID(id); err != nil {
			writeAppError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

// file handlers

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/files/")

	if filename, ok := strings.CutPrefix(rest, "download/"); ok {
		s.handleDownload(w, r, filename)
		return
	}

	principal, err := s.principalFromRequest(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	switch rest {
	case "upload":
		s.handleUpload(w, r, principal)
	case "":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		files, err := s.app.ListFilesForPrincipal(principal)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, files)
	case "by-user-id/", "by-user-id":
		if r.Method != http.MethodDelete {
			methodNotAllowed(w)
			return
		}
		if !requireAdmin(w, r, principal) {
			return
		}
		userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid user_id")
			return
		}
		n, err := s.app.DeleteAllFilesByUserID(userID)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, deleteCountResponse{Deleted: n})
	case "all":
		if r.Method != http.MethodDelete {
			methodNotAllowed(w)
			return
		}
		if !requireAdmin(w, r, principal) {
			return
		}
		n, err := s.app.DeleteAllFiles()
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, deleteCountResponse{Deleted: n})
	default:
		id, ok := parseID(w, rest)
		if !ok {
			return
		}
		s.handleFileByID(w, r, principal, id)
	}
}

func (s *Server) handleFileByID(w http.ResponseWriter, r *http.Request, p domain.Principal, id int64) {
	switch r.Method {
	case http.MethodGet:
		file, err := s.app.GetFileByIDAuthorized(id, p)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, file)
	case http.MethodPut:
		if !requirePrivileged(w, r, p) {
			return
		}
		var req fileUpdateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		file, err := s.app.UpdateFileByID(id, req.Location)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, file)
	case http.MethodDelete:
		if !requirePrivileged(w, r, p) {
			return
		}
		if err := s.app.DeleteFileByID(id); err != nil {
			writeAppError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request, p domain.Principal) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "multipart field \"file\" is required")
		return
	}
	defer file.Close()
	result, err := s.app.Upload(r.Context(), p, header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request, filename string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if filename == "" || strings.Contains(filename, "/") {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "not found")
		return
	}
	// A presented token must still be valid; only its absence makes the
	// caller anonymous.
	var principal domain.Principal
	if _, ok := bearerToken(r); ok {
		p, err := s.principalFromRequest(r)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		principal = p
	}
	rc, err := s.app.Download(r.Context(), principal, filename)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
}

// helpers

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return false
	}
	return true
}

func parseID(w http.ResponseWriter, raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSuffix(raw, "/"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "not found")
		return 0, false
	}
	return id, true
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
}
