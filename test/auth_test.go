package test

import (
	"testing"

	"github.com/Iamyashsiwach/sparksync-app/models"

	"github.com/stretchr/testify/assert"
)

func TestRegister(t *testing.T) {
	app, db := SetupTest(t)

	body := map[string]string{
		"name":       "New Hire",
		"email":      "new.hire@reveeinfotech.com",
		"password":   "s3cret-pass",
		"department": "Engineering",
		"position":   "Developer",
	}

	status, response := doRequest(t, app, "POST", "/auth/register", body, nil)
	assert.Equal(t, 201, status)
	assert.True(t, response.Success)

	user := dataMap(t, response)
	assert.Equal(t, "employee", user["role"])
	assert.NotContains(t, user, "password_hash")

	// The stored credential is a hash, not the password.
	var stored models.User
	assert.NoError(t, db.First(&stored, "email = ?", body["email"]).Error)
	assert.NotEqual(t, body["password"], stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)

	// Same email registers only once.
	status, response = doRequest(t, app, "POST", "/auth/register", body, nil)
	assert.Equal(t, 409, status)
	assert.Equal(t, "Email already registered", response.Error)
}

func TestRegisterRejectsForeignDomain(t *testing.T) {
	app, _ := SetupTest(t)

	status, response := doRequest(t, app, "POST", "/auth/register", map[string]string{
		"name":       "Outsider",
		"email":      "outsider@gmail.com",
		"password":   "s3cret-pass",
		"department": "Engineering",
		"position":   "Developer",
	}, nil)
	assert.Equal(t, 400, status)
	assert.Equal(t, "Only reveeinfotech.com email addresses are allowed", response.Error)
}

func TestLogin(t *testing.T) {
	app, _ := SetupTest(t)
	employee := createTestUser(t, "employee")

	status, response := doRequest(t, app, "POST", "/auth/login", map[string]string{
		"email":    employee.Email,
		"password": "password123",
	}, nil)
	assert.Equal(t, 200, status)

	data := dataMap(t, response)
	assert.NotEmpty(t, data["token"])

	user := data["user"].(map[string]interface{})
	assert.Equal(t, employee.ID, user["id"])

	// Wrong password.
	status, response = doRequest(t, app, "POST", "/auth/login", map[string]string{
		"email":    employee.Email,
		"password": "wrong",
	}, nil)
	assert.Equal(t, 401, status)
	assert.Equal(t, "Invalid credentials", response.Error)

	// Unknown email looks the same as a wrong password.
	status, _ = doRequest(t, app, "POST", "/auth/login", map[string]string{
		"email":    "ghost@reveeinfotech.com",
		"password": "password123",
	}, nil)
	assert.Equal(t, 401, status)
}

func TestLoginDeactivatedUser(t *testing.T) {
	app, db := SetupTest(t)
	employee := createTestUser(t, "employee")

	assert.NoError(t, db.Model(&employee).Update("is_active", false).Error)

	status, response := doRequest(t, app, "POST", "/auth/login", map[string]string{
		"email":    employee.Email,
		"password": "password123",
	}, nil)
	assert.Equal(t, 403, status)
	assert.Equal(t, "Account is deactivated", response.Error)
}
