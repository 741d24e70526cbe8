package test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/Iamyashsiwach/sparksync-app/config"
	"github.com/Iamyashsiwach/sparksync-app/handlers"
	"github.com/Iamyashsiwach/sparksync-app/models"
	"github.com/Iamyashsiwach/sparksync-app/types"
	"github.com/Iamyashsiwach/sparksync-app/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	testDB *gorm.DB
)

func init() {
	os.Setenv("JWT_SECRET", "test-secret")
	config.LoadConfig()
	utils.InitLogger()

	var err error
	testDB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatal("Failed to connect to test database:", err)
	}

	if err := testDB.AutoMigrate(
		&models.User{},
		&models.Attendance{},
		&models.LeaveRequest{},
		&models.Task{},
	); err != nil {
		log.Fatal("Failed to migrate test database:", err)
	}

	handlers.InitHandlers(testDB)
}

func SetupTest(t *testing.T) (*fiber.App, *gorm.DB) {
	ResetTestDB()

	app := fiber.New()
	handlers.RegisterRoutes(app)

	return app, testDB
}

func ResetTestDB() {
	testDB.Exec("DELETE FROM tasks")
	testDB.Exec("DELETE FROM attendances")
	testDB.Exec("DELETE FROM leave_requests")
	testDB.Exec("DELETE FROM users")
}

// createTestUser persists a user with the given role. The password for
// every test user is "password123".
func createTestUser(t *testing.T, role string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Name:         "Test " + role,
		Email:        uuid.New().String() + "@reveeinfotech.com",
		PasswordHash: string(hash),
		Department:   "Engineering",
		Position:     "Engineer",
		Role:         role,
		IsActive:     true,
		JoinedAt:     time.Now(),
	}
	if err := testDB.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func createTestToken(userID string, role string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString([]byte(config.AppConfig.JWTSecret))
	if err != nil {
		log.Printf("Error creating test token: %v", err)
		return ""
	}
	return tokenString
}

// doRequest performs a JSON request as the given user and decodes the
// response envelope.
func doRequest(t *testing.T, app *fiber.App, method, target string, body interface{}, user *models.User) (int, types.APIResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+createTestToken(user.ID, user.Role))
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var response types.APIResponse
	_ = json.NewDecoder(resp.Body).Decode(&response)

	return resp.StatusCode, response
}

func dataMap(t *testing.T, response types.APIResponse) map[string]interface{} {
	t.Helper()

	data, ok := response.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected object data, got %T", response.Data)
	}
	return data
}
