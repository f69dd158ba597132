package services

import (
	"errors"
	"testing"

	"github.com/tmorell/chorus/internal/models"
)

func TestRoleCan_Matrix(t *testing.T) {
	cases := []struct {
		role   Role
		action Action
		want   bool
	}{
		// read: any collaborator
		{RoleOwner, ActionRead, true},
		{RoleEditor, ActionRead, true},
		{RoleViewer, ActionRead, true},
		{RoleNone, ActionRead, false},

		// write-version: any collaborator; the submit path decides HEAD vs proposal
		{RoleOwner, ActionWriteVersion, true},
		{RoleEditor, ActionWriteVersion, true},
		{RoleViewer, ActionWriteVersion, true},
		{RoleNone, ActionWriteVersion, false},

		// revert: owner or editor only
		{RoleOwner, ActionRevert, true},
		{RoleEditor, ActionRevert, true},
		{RoleViewer, ActionRevert, false},
		{RoleNone, ActionRevert, false},

		// review-proposal: owner or editor only
		{RoleOwner, ActionReviewProposal, true},
		{RoleEditor, ActionReviewProposal, true},
		{RoleViewer, ActionReviewProposal, false},
		{RoleNone, ActionReviewProposal, false},

		// invite: owner or editor
		{RoleOwner, ActionInviteCollaborator, true},
		{RoleEditor, ActionInviteCollaborator, true},
		{RoleViewer, ActionInviteCollaborator, false},
		{RoleNone, ActionInviteCollaborator, false},

		// collaborator/project management: owner only
		{RoleOwner, ActionManageCollaborators, true},
		{RoleEditor, ActionManageCollaborators, false},
		{RoleViewer, ActionManageCollaborators, false},
		{RoleNone, ActionManageCollaborators, false},
		{RoleOwner, ActionManageProject, true},
		{RoleEditor, ActionManageProject, false},
		{RoleViewer, ActionManageProject, false},
		{RoleNone, ActionManageProject, false},
	}

	for _, tc := range cases {
		if got := tc.role.Can(tc.action); got != tc.want {
			t.Errorf("%s.Can(%s) = %v, expected %v", tc.role, tc.action, got, tc.want)
		}
	}
}

func TestRoleCanEdit(t *testing.T) {
	if !RoleOwner.CanEdit() || !RoleEditor.CanEdit() {
		t.Error("owner and editor should save directly")
	}
	if RoleViewer.CanEdit() || RoleNone.CanEdit() {
		t.Error("viewer and none should not save directly")
	}
}

func TestRoleOn(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	editor := createUser(t, db, "editor")
	viewer := createUser(t, db, "viewer")
	stranger := createUser(t, db, "stranger")
	project := createProject(t, db, owner, "Song A")
	addCollaborator(t, db, project.ID, editor.ID, models.RoleEditor)
	addCollaborator(t, db, project.ID, viewer.ID, models.RoleViewer)

	svc := NewAccessService(db)

	cases := []struct {
		userID uint
		want   Role
	}{
		{owner.ID, RoleOwner},
		{editor.ID, RoleEditor},
		{viewer.ID, RoleViewer},
		{stranger.ID, RoleNone},
	}
	for _, tc := range cases {
		role, err := svc.RoleOn(project.ID, tc.userID)
		if err != nil {
			t.Fatalf("RoleOn(%d): %v", tc.userID, err)
		}
		if role != tc.want {
			t.Errorf("RoleOn(%d) = %s, expected %s", tc.userID, role, tc.want)
		}
	}
}

func TestRoleOn_ProjectNotFound(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "solo")

	svc := NewAccessService(db)
	_, err := svc.RoleOn(9999, user.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRequire_Denied(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	viewer := createUser(t, db, "viewer")
	project := createProject(t, db, owner, "Song B")
	addCollaborator(t, db, project.ID, viewer.ID, models.RoleViewer)

	svc := NewAccessService(db)
	_, err := svc.Require(project.ID, viewer.ID, ActionRevert)
	if !errors.Is(err, ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied, got %v", err)
	}
}
