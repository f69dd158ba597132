package services

import (
	"fmt"
	"testing"

	"github.com/tmorell/chorus/internal/config"
	"github.com/tmorell/chorus/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory sqlite database for one test. The named
// shared-cache DSN keeps gorm's pooled connections on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Version{},
		&models.Collaborator{},
		&models.Proposal{},
		&models.CollaborationRequest{},
		&models.ActivityLog{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// disabledCache returns a cache with no Redis attached; all operations are no-ops.
func disabledCache() *ProjectCache {
	return NewProjectCache(&config.CacheConfig{Enabled: false, TTLSeconds: 60})
}

// createUser inserts a user and returns it.
func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return &user
}

// createProject inserts a project with its owner collaborator row.
func createProject(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Project {
	t.Helper()

	svc := NewProjectService(db, disabledCache())
	project, err := svc.Create(&CreateProjectRequest{Name: name}, owner.ID)
	if err != nil {
		t.Fatalf("create project %s: %v", name, err)
	}
	return project
}

// addCollaborator inserts a membership row with the given role.
func addCollaborator(t *testing.T, db *gorm.DB, projectID, userID uint, role string) {
	t.Helper()

	collab := models.Collaborator{ProjectID: projectID, UserID: userID, Role: role}
	if err := db.Create(&collab).Error; err != nil {
		t.Fatalf("add collaborator: %v", err)
	}
}
