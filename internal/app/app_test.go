package app

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"eventvault/internal/store"
	"eventvault/pkg/domain"
	"eventvault/pkg/storage"
)

// fakeObjects is an in-memory ObjectStore. putHook, when set, runs
// before the bytes are recorded so tests can observe or fail a Put.
type fakeObjects struct {
	mu      sync.Mutex
	data    map[string][]byte
	putHook func(key string) error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{data: make(map[string][]byte)}
}

func (f *fakeObjects) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	f.mu.Lock()
	hook := f.putHook
	f.mu.Unlock()
	if hook != nil {
		if err := hook(key); err != nil {
			return err
		}
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = b
	return nil
}

func (f *fakeObjects) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.data[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func newTestApp(t *testing.T) (*App, *store.MemoryStore, *fakeObjects) {
	t.Helper()
	st := store.NewMemoryStore()
	objects := newFakeObjects()
	a, err := New(Config{
		Store:          st,
		Objects:        objects,
		TokenSecret:    "test-secret",
		TokenTTL:       time.Hour,
		KeyPrefix:      "files",
		LocationPrefix: "https://test-bucket.s3.amazonaws.com/",
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a, st, objects
}

func registerUser(t *testing.T, a *App, username string) domain.User {
	t.Helper()
	user, err := a.Register(username, "secret-pw", "Test", "User")
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}

// seedUpload writes a file row, an owning event row, and the object
// bytes directly, bypassing Upload.
func seedUpload(t *testing.T, st *store.MemoryStore, objects *fakeObjects, userID int64, filename string) (domain.File, domain.Event) {
	t.Helper()
	file, err := st.Files().Save(domain.File{
		Location: "https://test-bucket.s3.amazonaws.com/" + filename,
		Status:   domain.StatusActive,
	})
	if err != nil {
		t.Fatalf("save file: %v", err)
	}
	event, err := st.Events().Save(domain.Event{
		UserID: userID,
		FileID: file.ID,
		Status: domain.StatusActive,
	})
	if err != nil {
		t.Fatalf("save event: %v", err)
	}
	if objects != nil {
		objects.mu.Lock()
		objects.data["files/"+filename] = []byte("content of " + filename)
		objects.mu.Unlock()
	}
	return file, event
}

func kindOf(err error) Kind {
	if err == nil {
		return 0
	}
	return Classify(err).Kind
}

func wantKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	if got := kindOf(err); got != kind {
		t.Fatalf("expected error kind %d, got %d (err: %v)", kind, got, err)
	}
}
