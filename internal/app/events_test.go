package app

import (
	"testing"

	"eventvault/pkg/domain"
)

func TestGetEventByIDAuthorized(t *testing.T) {
	a, st, objects := newTestApp(t)
	alice := registerUser(t, a, "alice")
	bob := registerUser(t, a, "bob")
	file, event := seedUpload(t, st, objects, alice.ID, "report.pdf")

	_, err := a.GetEventByIDAuthorized(999, domain.Principal{ID: alice.ID, Role: domain.RoleUser})
	wantKind(t, err, KindNotFound)

	_, err = a.GetEventByIDAuthorized(event.ID, domain.Principal{ID: bob.ID, Role: domain.RoleUser})
	wantKind(t, err, KindForbidden)

	got, err := a.GetEventByIDAuthorized(event.ID, domain.Principal{ID: alice.ID, Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if got.File.ID != file.ID {
		t.Fatalf("expected file %d joined, got %+v", file.ID, got.File)
	}

	if _, err := a.GetEventByIDAuthorized(event.ID, domain.Principal{ID: bob.ID, Role: domain.RoleAdmin}); err != nil {
		t.Fatalf("admin lookup: %v", err)
	}
}

func TestGetEventByIDAuthorizedDanglingFile(t *testing.T) {
	a, st, objects := newTestApp(t)
	alice := registerUser(t, a, "alice")
	file, event := seedUpload(t, st, objects, alice.ID, "report.pdf")

	if _, err := st.Files().SoftDeleteByID(file.ID); err != nil {
		t.Fatalf("delete file: %v", err)
	}
	_, err := a.GetEventByIDAuthorized(event.ID, domain.Principal{ID: alice.ID, Role: domain.RoleUser})
	wantKind(t, err, KindNotFound)
}

func TestListEventsForPrincipal(t *testing.T) {
	a, st, objects := newTestApp(t)
	alice := registerUser(t, a, "alice")
	bob := registerUser(t, a, "bob")
	seedUpload(t, st, objects, alice.ID, "a.pdf")
	seedUpload(t, st, objects, bob.ID, "b.pdf")

	own, err := a.ListEventsForPrincipal(domain.Principal{ID: alice.ID, Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("list own: %v", err)
	}
	if len(own) != 1 || own[0].UserID != alice.ID {
		t.Fatalf("expected alice's single event, got %+v", own)
	}

	all, err := a.ListEventsForPrincipal(domain.Principal{ID: bob.ID, Role: domain.RoleModerator})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected both events, got %d", len(all))
	}
}

func TestListEventsSkipsDeletedFiles(t *testing.T) {
	a, st, objects := newTestApp(t)
	alice := registerUser(t, a, "alice")
	keep, _ := seedUpload(t, st, objects, alice.ID, "keep.pdf")
	gone, _ := seedUpload(t, st, objects, alice.ID, "gone.pdf")

	if _, err := st.Files().SoftDeleteByID(gone.ID); err != nil {
		t.Fatalf("delete file: %v", err)
	}
	events, err := a.ListEventsForPrincipal(domain.Principal{ID: alice.ID, Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 1 || events[0].File.ID != keep.ID {
		t.Fatalf("expected only the event with a live file, got %+v", events)
	}
}

func TestFindEventByFilenameAndUserID(t *testing.T) {
	a, st, objects := newTestApp(t)
	alice := registerUser(t, a, "alice")
	bob := registerUser(t, a, "bob")
	_, event := seedUpload(t, st, objects, alice.ID, "report.pdf")

	got, err := a.FindEventByFilenameAndUserID("report.pdf", alice.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != event.ID {
		t.Fatalf("expected event %d, got %d", event.ID, got.ID)
	}

	_, err = a.FindEventByFilenameAndUserID("report.pdf", bob.ID)
	wantKind(t, err, KindNotFound)

	_, err = a.FindEventByFilenameAndUserID("missing.pdf", alice.ID)
	wantKind(t, err, KindNotFound)
}

func TestUpdateEventByID(t *testing.T) {
	a, st, objects := newTestApp(t)
	alice := registerUser(t, a, "alice")
	bob := registerUser(t, a, "bob")
	file, event := seedUpload(t, st, objects, alice.ID, "report.pdf")

	updated, err := a.UpdateEventByID(event.ID, EventPatch{UserID: bob.ID, FileID: file.ID})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.UserID != bob.ID {
		t.Fatalf("expected reassignment to bob, got %+v", updated)
	}

	_, err = a.UpdateEventByID(999, EventPatch{UserID: bob.ID, FileID: file.ID})
	wantKind(t, err, KindNotFound)
}

func TestDeleteEventByIDTwice(t *testing.T) {
	a, st, objects := newTestApp(t)
	alice := registerUser(t, a, "alice")
	_, event := seedUpload(t, st, objects, alice.ID, "report.pdf")

	if err := a.DeleteEventByID(event.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	wantKind(t, a.DeleteEventByID(event.ID), KindNotFound)
}
