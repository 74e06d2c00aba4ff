package services

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/collabhub/backend/internal/config"
	"github.com/collabhub/backend/internal/models"
	"github.com/collabhub/backend/internal/utils"
	"github.com/collabhub/backend/pkg/response"
)

func init() {
	utils.SetJWTSecret("test-secret-for-service-testing")
}

// newTestDB opens an isolated in-memory sqlite database, migrated with the
// full schema. The database name is derived from the test name so parallel
// tests do not share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.JoinRequest{},
		&models.Notification{},
		&models.ActivityLog{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

var testJWTConfig = config.JWTConfig{
	Secret:     "test-secret-for-service-testing",
	ExpireHour: 24,
}

func createTestUser(t *testing.T, db *gorm.DB, email string, skills []string) *models.User {
	t.Helper()

	hashed, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		FullName: "Test " + email,
		Email:    email,
		Password: hashed,
		Role:     "user",
		Skills:   models.JoinTags(skills),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return &user
}

func createTestProject(t *testing.T, db *gorm.DB, creator *models.User, title string, maxMembers int) *models.Project {
	t.Helper()

	svc := NewProjectService(db)
	view, err := svc.Create(&CreateProjectRequest{
		Title:          title,
		Description:    "A project used for exercising the service layer",
		RequiredSkills: "go,sql",
		MaxMembers:     maxMembers,
	}, creator.ID)
	if err != nil {
		t.Fatalf("failed to create project %q: %v", title, err)
	}

	var project models.Project
	if err := db.First(&project, view.ID).Error; err != nil {
		t.Fatalf("failed to load project %q: %v", title, err)
	}
	return &project
}

// wantAppError asserts err is an *AppError with the given status and message.
func wantAppError(t *testing.T, err error, status int, message string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error %q, got nil", message)
	}
	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *response.AppError, got %T: %v", err, err)
	}
	if appErr.HTTPStatus != status {
		t.Errorf("expected status %d, got %d (%q)", status, appErr.HTTPStatus, appErr.Message)
	}
	if appErr.Message != message {
		t.Errorf("expected message %q, got %q", message, appErr.Message)
	}
}
