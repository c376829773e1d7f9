// Package app holds the core services: token-backed authentication,
// the owner-access policy, and the user/event/file orchestration on top
// of the repositories and the object store.
package app

import (
	"errors"
	"strings"
	"time"

	"eventvault/internal/store"
	"eventvault/pkg/storage"
	"eventvault/pkg/token"
)

// Config wires the collaborators the core depends on. Secrets and
// storage naming are passed in explicitly; nothing is read from globals.
type Config struct {
	Store       store.Store
	Objects     storage.ObjectStore
	TokenSecret string
	TokenTTL    time.Duration
	// KeyPrefix is prepended to filenames to form object-store keys.
	KeyPrefix string
	// LocationPrefix is prepended to filenames to form the stored file
	// location URL.
	LocationPrefix string
}

// App is the authorization-aware core composed by the HTTP adapter.
type App struct {
	users   store.UserRepository
	files   store.FileRepository
	events  store.EventRepository
	objects storage.ObjectStore
	codec   *token.Codec

	keyPrefix      string
	locationPrefix string
}

// New validates the wiring and constructs the core.
func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.Objects == nil {
		return nil, errors.New("object store is required")
	}
	codec, err := token.NewCodec(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	keyPrefix := strings.Trim(cfg.KeyPrefix, "/")
	if keyPrefix == "" {
		return nil, errors.New("storage key prefix is required")
	}
	locationPrefix := cfg.LocationPrefix
	if locationPrefix == "" {
		return nil, errors.New("storage location prefix is required")
	}
	if !strings.HasSuffix(locationPrefix, "/") {
		locationPrefix += "/"
	}
	return &App{
		users:          cfg.Store.Users(),
		files:          cfg.Store.Files(),
		events:         cfg.Store.Events(),
		objects:        cfg.Objects,
		codec:          codec,
		keyPrefix:      keyPrefix,
		locationPrefix: locationPrefix,
	}, nil
}

func (a *App) objectKey(filename string) string {
	return a.keyPrefix + "/" + filename
}

func (a *App) now() time.Time {
	return time.Now().UTC()
}
