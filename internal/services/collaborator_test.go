package services

import (
	"errors"
	"testing"

	"github.com/tmorell/chorus/internal/models"
)

func TestCollaboratorAdd(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	guest := createUser(t, db, "guest")
	project := createProject(t, db, owner, "Song")

	svc := NewCollaboratorService(db)
	collab, err := svc.Add(project.ID, owner.ID, &AddCollaboratorRequest{
		UserEmail: "guest@example.com",
		Role:      models.RoleViewer,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if collab.UserID != guest.ID || collab.Role != models.RoleViewer {
		t.Errorf("unexpected row: %+v", collab)
	}
}

func TestCollaboratorAdd_DefaultsToEditor(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	createUser(t, db, "guest")
	project := createProject(t, db, owner, "Song")

	svc := NewCollaboratorService(db)
	collab, err := svc.Add(project.ID, owner.ID, &AddCollaboratorRequest{UserEmail: "guest@example.com"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if collab.Role != models.RoleEditor {
		t.Errorf("Role = %q, expected editor", collab.Role)
	}
}

func TestCollaboratorAdd_Errors(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	editor := createUser(t, db, "editor")
	createUser(t, db, "guest")
	project := createProject(t, db, owner, "Song")
	addCollaborator(t, db, project.ID, editor.ID, models.RoleEditor)

	svc := NewCollaboratorService(db)

	// Only the owner manages membership
	_, err := svc.Add(project.ID, editor.ID, &AddCollaboratorRequest{UserEmail: "guest@example.com"})
	if !errors.Is(err, ErrAccessDenied) {
		t.Errorf("editor add: expected ErrAccessDenied, got %v", err)
	}

	_, err = svc.Add(project.ID, owner.ID, &AddCollaboratorRequest{UserEmail: "nobody@example.com"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown email: expected ErrNotFound, got %v", err)
	}

	_, err = svc.Add(project.ID, owner.ID, &AddCollaboratorRequest{UserEmail: "editor@example.com"})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate: expected ErrConflict, got %v", err)
	}
}

func TestCollaboratorList(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	viewer := createUser(t, db, "viewer")
	stranger := createUser(t, db, "stranger")
	project := createProject(t, db, owner, "Song")
	addCollaborator(t, db, project.ID, viewer.ID, models.RoleViewer)

	svc := NewCollaboratorService(db)
	collaborators, err := svc.List(project.ID, viewer.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(collaborators) != 2 {
		t.Fatalf("got %d collaborators, expected 2", len(collaborators))
	}
	if collaborators[0].Role != models.RoleOwner {
		t.Errorf("first row role = %q, expected owner first (join order)", collaborators[0].Role)
	}
	if collaborators[0].User.Username != "owner" {
		t.Errorf("User not preloaded: %+v", collaborators[0].User)
	}

	if _, err := svc.List(project.ID, stranger.ID); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("stranger list: expected ErrAccessDenied, got %v", err)
	}
}

func TestCollaboratorRemove(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	viewer := createUser(t, db, "viewer")
	project := createProject(t, db, owner, "Song")
	addCollaborator(t, db, project.ID, viewer.ID, models.RoleViewer)

	svc := NewCollaboratorService(db)
	if err := svc.Remove(project.ID, owner.ID, viewer.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	var count int64
	db.Model(&models.Collaborator{}).Where("project_id = ?", project.ID).Count(&count)
	if count != 1 {
		t.Errorf("collaborator count = %d, expected 1 (owner row)", count)
	}

	if err := svc.Remove(project.ID, owner.ID, viewer.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second remove: expected ErrNotFound, got %v", err)
	}
}

func TestCollaboratorRemove_OwnerProtected(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	project := createProject(t, db, owner, "Song")

	svc := NewCollaboratorService(db)
	err := svc.Remove(project.ID, owner.ID, owner.ID)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("self-remove: expected ErrValidation, got %v", err)
	}

	var count int64
	db.Model(&models.Collaborator{}).
		Where("project_id = ? AND role = ?", project.ID, models.RoleOwner).
		Count(&count)
	if count != 1 {
		t.Errorf("owner row missing after self-remove attempt")
	}
}
