package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"eventvault/pkg/domain"
)

func uploadFor(t *testing.T, a *App, p domain.Principal, filename, content string) UploadResult {
	t.Helper()
	res, err := a.Upload(context.Background(), p, filename, strings.NewReader(content), int64(len(content)), "application/octet-stream")
	if err != nil {
		t.Fatalf("upload %s: %v", filename, err)
	}
	return res
}

func TestUploadWritesMetadataThenBytes(t *testing.T) {
	a, st, objects := newTestApp(t)
	alice := registerUser(t, a, "alice")

	// By the time the bytes arrive, both the file row and the owning
	// event row must already exist.
	objects.putHook = func(key string) error {
		if key != "files/report.pdf" {
			t.Fatalf("unexpected object key %q", key)
		}
		fileID, ok, err := st.Files().GetIDByFilename("report.pdf")
		if err != nil || !ok {
			t.Fatalf("file row missing at byte-transfer time: ok=%v err=%v", ok, err)
		}
		if _, ok, err := st.Events().FindActiveByFileIDAndUserID(fileID, alice.ID); err != nil || !ok {
			t.Fatalf("event row missing at byte-transfer time: ok=%v err=%v", ok, err)
		}
		return nil
	}
	res := uploadFor(t, a, domain.Principal{ID: alice.ID, Role: domain.RoleUser}, "report.pdf", "pdf bytes")
	if res.FileName != "report.pdf" || res.UploadedAt.IsZero() {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestUploadPartialFailureKeepsMetadata(t *testing.T) {
	a, st, objects := newTestApp(t)
	alice := registerUser(t, a, "alice")
	objects.putHook = func(string) error { return errors.New("backend down") }

	_, err := a.Upload(context.Background(), domain.Principal{ID: alice.ID, Role: domain.RoleUser},
		"report.pdf", strings.NewReader("pdf bytes"), 9, "application/pdf")
	wantKind(t, err, KindInternal)

	// The rows stay behind and the missing object is detectable.
	if _, ok, _ := st.Files().GetIDByFilename("report.pdf"); !ok {
		t.Fatalf("file row should survive a failed byte transfer")
	}
	objects.putHook = nil
	_, err = a.Download(context.Background(), domain.Principal{ID: alice.ID, Role: domain.RoleUser}, "report.pdf")
	wantKind(t, err, KindNotFound)
}

func TestUploadRequiresIdentity(t *testing.T) {
	a, _, _ := newTestApp(t)
	_, err := a.Upload(context.Background(), domain.Principal{}, "report.pdf", strings.NewReader("x"), 1, "")
	wantKind(t, err, KindForbidden)
}

func TestDownloadOwnerGetsBytes(t *testing.T) {
	a, _, _ := newTestApp(t)
	alice := registerUser(t, a, "alice")
	p := domain.Principal{ID: alice.ID, Role: domain.RoleUser}
	uploadFor(t, a, p, "report.pdf", "pdf bytes")

	rc, err := a.Download(context.Background(), p, "report.pdf")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "pdf bytes" {
		t.Fatalf("unexpected content %q", b)
	}
}

func TestDownloadOtherUserForbidden(t *testing.T) {
	a, _, _ := newTestApp(t)
	alice := registerUser(t, a, "alice")
	bob := registerUser(t, a, "bob")
	uploadFor(t, a, domain.Principal{ID: alice.ID, Role: domain.RoleUser}, "report.pdf", "pdf bytes")

	_, err := a.Download(context.Background(), domain.Principal{ID: bob.ID, Role: domain.RoleUser}, "report.pdf")
	wantKind(t, err, KindForbidden)
}

// Only USER-role callers are subjected to the ownership check; elevated
// roles and the anonymous zero principal are passed straight to the
// object store. Pinned here so a change to that asymmetry is loud.
func TestDownloadBypassForNonUserRoles(t *testing.T) {
	a, _, _ := newTestApp(t)
	alice := registerUser(t, a, "alice")
	uploadFor(t, a, domain.Principal{ID: alice.ID, Role: domain.RoleUser}, "report.pdf", "pdf bytes")

	for _, p := range []domain.Principal{
		{},
		{ID: 999, Role: domain.RoleModerator},
		{ID: 999, Role: domain.RoleAdmin},
	} {
		rc, err := a.Download(context.Background(), p, "report.pdf")
		if err != nil {
			t.Fatalf("principal %+v: %v", p, err)
		}
		rc.Close()
	}
}

func TestDownloadMissingObject(t *testing.T) {
	a, _, _ := newTestApp(t)
	_, err := a.Download(context.Background(), domain.Principal{}, "missing.pdf")
	wantKind(t, err, KindNotFound)
}
