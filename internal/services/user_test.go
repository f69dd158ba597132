package services

import (
	"errors"
	"testing"

	"github.com/tmorell/chorus/internal/models"
)

func TestUserListOthers(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	createUser(t, db, "bob")
	createUser(t, db, "carol")

	svc := NewUserService(db)
	users, err := svc.ListOthers(alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users, expected 2", len(users))
	}
	for _, u := range users {
		if u.ID == alice.ID {
			t.Error("listing includes the caller")
		}
	}
}

func TestUserSearch(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	createUser(t, db, "bob")
	createUser(t, db, "bobby")

	svc := NewUserService(db)

	if _, err := svc.Search(alice.ID, "b"); !errors.Is(err, ErrValidation) {
		t.Errorf("short query: expected ErrValidation, got %v", err)
	}

	users, err := svc.Search(alice.ID, "bob")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("got %d matches, expected 2", len(users))
	}

	// Email substrings match too
	users, err = svc.Search(alice.ID, "bobby@example")
	if err != nil {
		t.Fatalf("search by email: %v", err)
	}
	if len(users) != 1 || users[0].Username != "bobby" {
		t.Errorf("unexpected matches: %+v", users)
	}
}

func TestUserAvailableForProject(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	member := createUser(t, db, "member")
	outsider := createUser(t, db, "outsider")
	project := createProject(t, db, owner, "Song")
	addCollaborator(t, db, project.ID, member.ID, models.RoleViewer)

	svc := NewUserService(db)
	users, err := svc.AvailableForProject(owner.ID, project.ID)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("got %d candidates, expected 1", len(users))
	}
	if users[0].ID != outsider.ID {
		t.Errorf("candidate = %q, expected outsider", users[0].Username)
	}
}
