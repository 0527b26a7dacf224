package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/crewdesk/crewdesk/internal/auth"
	"github.com/crewdesk/crewdesk/internal/database/models"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Team{},
		&models.Project{},
		&models.Membership{},
		&models.Task{},
		&models.TaskComment{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB closes the test database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("warning: failed to get sql.DB: %v", err)
		return
	}
	sqlDB.Close()
}

// CreateTestCompany creates a test company
func CreateTestCompany(t *testing.T, db *gorm.DB) *models.Company {
	t.Helper()

	company := &models.Company{
		Base: models.Base{
			ID: uuid.New(),
		},
		Name:        "Test Company",
		CompanyType: models.CompanyTypeCompany,
		Email:       "company-" + uuid.New().String()[:8] + "@example.com",
		IsActive:    true,
	}

	if err := db.Create(company).Error; err != nil {
		t.Fatalf("failed to create test company: %v", err)
	}

	return company
}

// CreateTestUser creates a test user in the given company with the given role
func CreateTestUser(t *testing.T, db *gorm.DB, company *models.Company, role string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	suffix := uuid.New().String()[:8]
	user := &models.User{
		Base: models.Base{
			ID: uuid.New(),
		},
		Username:     "user-" + suffix,
		Email:        "user-" + suffix + "@example.com",
		PasswordHash: hash,
		FirstName:    "Test",
		LastName:     "User",
		CompanyID:    &company.ID,
		Role:         role,
		IsActive:     true,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	user.Company = company
	return user
}

// CreateTestProject creates a test project in the given company
func CreateTestProject(t *testing.T, db *gorm.DB, company *models.Company, manager *models.User) *models.Project {
	t.Helper()

	project := &models.Project{
		Base: models.Base{
			ID: uuid.New(),
		},
		Title:     "Test Project",
		CompanyID: company.ID,
		Status:    models.ProjectStatusActive,
		Priority:  models.PriorityMedium,
	}
	if manager != nil {
		project.ManagerID = &manager.ID
	}

	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}

	project.Company = company
	project.Manager = manager
	return project
}

// CreateTestTask creates a test task on the given project
func CreateTestTask(t *testing.T, db *gorm.DB, project *models.Project, creator *models.User, status string) *models.Task {
	t.Helper()

	task := &models.Task{
		Base: models.Base{
			ID: uuid.New(),
		},
		Title:     "Test Task",
		ProjectID: project.ID,
		Status:    status,
		Priority:  models.PriorityMedium,
	}
	if creator != nil {
		task.CreatedByID = &creator.ID
	}
	if status == models.TaskStatusCompleted {
		now := time.Now()
		task.CompletedAt = &now
	}

	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}

	task.Project = project
	return task
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// GenerateTestToken generates a valid JWT token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	var companyID uuid.UUID
	if user.CompanyID != nil {
		companyID = *user.CompanyID
	}
	token, err := jwtService.GenerateToken(user.ID, companyID, user.Username, user.Role)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	return AuthenticatedRequest(t, method, path, body, "")
}
