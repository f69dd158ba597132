package services

import (
	"testing"
	"time"

	"github.com/tmorell/chorus/internal/models"
)

func TestActivityRecordAndList(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	project := createProject(t, db, owner, "Song")

	svc := NewActivityService(db)
	for i := 0; i < 3; i++ {
		svc.Record(project.ID, &owner.ID, models.ActivityVersionSaved, "saved a version",
			map[string]interface{}{"n": i})
	}
	svc.Record(project.ID, nil, models.ActivityProjectUpdated, "system note", nil)

	page, err := svc.ListByProject(project.ID, &ActivityListRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 4 {
		t.Errorf("Total = %d, expected 4", page.Total)
	}
	if page.Page != 1 || page.PageSize != 20 {
		t.Errorf("default paging = %d/%d", page.Page, page.PageSize)
	}
	if len(page.Items) != 4 {
		t.Errorf("got %d items, expected 4", len(page.Items))
	}
}

func TestActivityPagination(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	project := createProject(t, db, owner, "Song")

	svc := NewActivityService(db)
	for i := 0; i < 5; i++ {
		svc.Record(project.ID, &owner.ID, models.ActivityVersionSaved, "saved", nil)
	}

	page, err := svc.ListByProject(project.ID, &ActivityListRequest{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 5 {
		t.Errorf("Total = %d, expected 5", page.Total)
	}
	if len(page.Items) != 2 {
		t.Errorf("got %d items on page 2, expected 2", len(page.Items))
	}
}

func TestActivityCleanup(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	project := createProject(t, db, owner, "Song")

	svc := NewActivityService(db)
	svc.Record(project.ID, &owner.ID, models.ActivityVersionSaved, "recent", nil)
	svc.Record(project.ID, &owner.ID, models.ActivityVersionSaved, "ancient", nil)

	past := time.Now().AddDate(0, 0, -(ActivityRetentionDays + 1))
	err := db.Model(&models.ActivityLog{}).
		Where("message = ?", "ancient").
		Update("created_at", past).Error
	if err != nil {
		t.Fatalf("backdate: %v", err)
	}

	deleted, err := svc.Cleanup(ActivityRetentionDays)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted %d rows, expected 1", deleted)
	}

	var count int64
	db.Model(&models.ActivityLog{}).Where("project_id = ?", project.ID).Count(&count)
	if count != 1 {
		t.Errorf("remaining = %d, expected 1", count)
	}
}

func TestActivityRecordedBySubmit(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	viewer := createUser(t, db, "viewer")
	project := createProject(t, db, owner, "Song")
	addCollaborator(t, db, project.ID, viewer.ID, models.RoleViewer)

	versions := NewVersionService(db, disabledCache())
	submit(t, versions, project.ID, owner.ID, `{"n":1}`)
	submit(t, versions, project.ID, viewer.ID, `{"n":2}`)

	var actions []string
	db.Model(&models.ActivityLog{}).
		Where("project_id = ?", project.ID).
		Order("id ASC").
		Pluck("action", &actions)

	want := []string{models.ActivityVersionSaved, models.ActivityProposalSubmitted}
	if len(actions) != len(want) {
		t.Fatalf("actions = %v, expected %v", actions, want)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Errorf("action[%d] = %q, expected %q", i, actions[i], want[i])
		}
	}
}
