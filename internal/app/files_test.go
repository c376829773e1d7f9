package app

import (
	"testing"

	"eventvault/pkg/domain"
)

func TestGetFileByIDAuthorized(t *testing.T) {
	a, st, objects := newTestApp(t)
	alice := registerUser(t, a, "alice")
	bob := registerUser(t, a, "bob")
	file, _ := seedUpload(t, st, objects, alice.ID, "report.pdf")

	_, err := a.GetFileByIDAuthorized(999, domain.Principal{ID: alice.ID, Role: domain.RoleUser})
	wantKind(t, err, KindNotFound)

	_, err = a.GetFileByIDAuthorized(file.ID, domain.Principal{ID: bob.ID, Role: domain.RoleUser})
	wantKind(t, err, KindForbidden)

	got, err := a.GetFileByIDAuthorized(file.ID, domain.Principal{ID: alice.ID, Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if got.ID != file.ID {
		t.Fatalf("expected file %d, got %d", file.ID, got.ID)
	}

	if _, err := a.GetFileByIDAuthorized(file.ID, domain.Principal{ID: bob.ID, Role: domain.RoleModerator}); err != nil {
		t.Fatalf("moderator lookup: %v", err)
	}
}

func TestGetFileByIDAuthorizedAfterEventDeleted(t *testing.T) {
	a, st, objects := newTestApp(t)
	alice := registerUser(t, a, "alice")
	file, event := seedUpload(t, st, objects, alice.ID, "report.pdf")

	// Deleting the event revokes the owner's grant but not the file row.
	if _, err := st.Events().SoftDeleteByID(event.ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}
	_, err := a.GetFileByIDAuthorized(file.ID, domain.Principal{ID: alice.ID, Role: domain.RoleUser})
	wantKind(t, err, KindForbidden)
}

func TestListFilesForPrincipal(t *testing.T) {
	a, st, objects := newTestApp(t)
	alice := registerUser(t, a, "alice")
	bob := registerUser(t, a, "bob")
	aliceFile, _ := seedUpload(t, st, objects, alice.ID, "a.pdf")
	seedUpload(t, st, objects, bob.ID, "b.pdf")

	own, err := a.ListFilesForPrincipal(domain.Principal{ID: alice.ID, Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("list own: %v", err)
	}
	if len(own) != 1 || own[0].ID != aliceFile.ID {
		t.Fatalf("expected alice's single file, got %+v", own)
	}

	all, err := a.ListFilesForPrincipal(domain.Principal{ID: bob.ID, Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected both files, got %d", len(all))
	}
}

func TestUpdateFileByID(t *testing.T) {
	a, st, objects := newTestApp(t)
	alice := registerUser(t, a, "alice")
	file, _ := seedUpload(t, st, objects, alice.ID, "report.pdf")

	updated, err := a.UpdateFileByID(file.ID, "https://elsewhere.example.com/report.pdf")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Location != "https://elsewhere.example.com/report.pdf" {
		t.Fatalf("location not applied: %+v", updated)
	}

	_, err = a.UpdateFileByID(999, "anywhere")
	wantKind(t, err, KindNotFound)
}

func TestDeleteAllFilesByUserID(t *testing.T) {
	a, st, objects := newTestApp(t)
	alice := registerUser(t, a, "alice")
	bob := registerUser(t, a, "bob")
	seedUpload(t, st, objects, alice.ID, "a1.pdf")
	seedUpload(t, st, objects, alice.ID, "a2.pdf")
	bobFile, _ := seedUpload(t, st, objects, bob.ID, "b.pdf")

	n, err := a.DeleteAllFilesByUserID(alice.ID)
	if err != nil {
		t.Fatalf("delete by user: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deletions, got %d", n)
	}
	if _, ok, _ := st.Files().FindActiveByID(bobFile.ID); !ok {
		t.Fatalf("bob's file must survive")
	}
}

func TestDeleteFileByIDTwice(t *testing.T) {
	a, st, objects := newTestApp(t)
	alice := registerUser(t, a, "alice")
	file, _ := seedUpload(t, st, objects, alice.ID, "report.pdf")

	if err := a.DeleteFileByID(file.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	wantKind(t, a.DeleteFileByID(file.ID), KindNotFound)
}
