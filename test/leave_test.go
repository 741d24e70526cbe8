package test

import (
	"testing"
	"time"

	"github.com/Iamyashsiwach/sparksync-app/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func seedLeaveRequest(t *testing.T, userID, status string) models.LeaveRequest {
	t.Helper()

	request := models.LeaveRequest{
		ID:        uuid.New().String(),
		UserID:    userID,
		StartDate: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC),
		Type:      "vacation",
		Reason:    "Family trip",
		Status:    status,
	}
	if err := testDB.Create(&request).Error; err != nil {
		t.Fatalf("Failed to seed leave request: %v", err)
	}
	return request
}

func TestCreateLeaveRequest(t *testing.T) {
	app, _ := SetupTest(t)
	employee := createTestUser(t, "employee")

	status, response := doRequest(t, app, "POST", "/leave", map[string]string{
		"start_date": "2024-06-10",
		"end_date":   "2024-06-12",
		"type":       "sick",
		"reason":     "Flu",
	}, &employee)
	assert.Equal(t, 201, status)
	assert.True(t, response.Success)

	request := dataMap(t, response)
	assert.Equal(t, "pending", request["status"])
	assert.Equal(t, employee.ID, request["user_id"])
}

func TestCreateLeaveValidation(t *testing.T) {
	app, _ := SetupTest(t)
	employee := createTestUser(t, "employee")

	tests := []struct {
		name      string
		body      map[string]string
		wantError string
	}{
		{
			name: "end before start",
			body: map[string]string{
				"start_date": "2024-01-10",
				"end_date":   "2024-01-05",
				"type":       "vacation",
				"reason":     "Trip",
			},
			wantError: "End date must be after start date",
		},
		{
			name: "missing reason",
			body: map[string]string{
				"start_date": "2024-01-05",
				"end_date":   "2024-01-10",
				"type":       "vacation",
			},
			wantError: "Missing required fields",
		},
		{
			name: "unknown type",
			body: map[string]string{
				"start_date": "2024-01-05",
				"end_date":   "2024-01-10",
				"type":       "sabbatical",
				"reason":     "Break",
			},
			wantError: "Invalid leave type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, response := doRequest(t, app, "POST", "/leave", tt.body, &employee)
			assert.Equal(t, 400, status)
			assert.Equal(t, tt.wantError, response.Error)
		})
	}
}

func TestLeaveTransition(t *testing.T) {
	app, db := SetupTest(t)
	employee := createTestUser(t, "employee")
	manager := createTestUser(t, "manager")

	request := seedLeaveRequest(t, employee.ID, "pending")

	// Employees cannot transition.
	status, _ := doRequest(t, app, "PATCH", "/leave/"+request.ID, map[string]string{
		"status": "approved",
	}, &employee)
	assert.Equal(t, 403, status)

	// Managers approve; approver and timestamp are recorded.
	status, response := doRequest(t, app, "PATCH", "/leave/"+request.ID, map[string]string{
		"status": "approved",
	}, &manager)
	assert.Equal(t, 200, status)

	approved := dataMap(t, response)
	assert.Equal(t, "approved", approved["status"])
	assert.Equal(t, manager.ID, approved["approved_by"])
	assert.NotNil(t, approved["approval_date"])

	// A second transition conflicts and the status stays approved.
	status, response = doRequest(t, app, "PATCH", "/leave/"+request.ID, map[string]string{
		"status": "rejected",
	}, &manager)
	assert.Equal(t, 409, status)
	assert.Equal(t, "Leave request already approved", response.Error)

	var stored models.LeaveRequest
	assert.NoError(t, db.First(&stored, "id = ?", request.ID).Error)
	assert.Equal(t, "approved", stored.Status)
}

func TestGetLeaveRequest(t *testing.T) {
	app, _ := SetupTest(t)
	employee := createTestUser(t, "employee")
	other := createTestUser(t, "employee")
	manager := createTestUser(t, "manager")

	request := seedLeaveRequest(t, employee.ID, "pending")

	// The owner sees their request with the profile attached.
	status, response := doRequest(t, app, "GET", "/leave/"+request.ID, nil, &employee)
	assert.Equal(t, 200, status)

	fetched := dataMap(t, response)
	assert.Equal(t, request.ID, fetched["id"])
	assert.Equal(t, employee.Email, fetched["user"].(map[string]interface{})["email"])

	// Other employees do not.
	status, response = doRequest(t, app, "GET", "/leave/"+request.ID, nil, &other)
	assert.Equal(t, 403, status)
	assert.Equal(t, "Unauthorized to view this leave request", response.Error)

	// Managers and admins see anyone's.
	status, _ = doRequest(t, app, "GET", "/leave/"+request.ID, nil, &manager)
	assert.Equal(t, 200, status)

	// Unknown ids are 404.
	status, _ = doRequest(t, app, "GET", "/leave/"+uuid.New().String(), nil, &manager)
	assert.Equal(t, 404, status)
}

func TestLeaveTransitionNotFound(t *testing.T) {
	app, _ := SetupTest(t)
	admin := createTestUser(t, "admin")

	status, response := doRequest(t, app, "PATCH", "/leave/"+uuid.New().String(), map[string]string{
		"status": "approved",
	}, &admin)
	assert.Equal(t, 404, status)
	assert.Equal(t, "Leave request not found", response.Error)
}

func TestDeleteLeaveRequest(t *testing.T) {
	app, _ := SetupTest(t)
	employee := createTestUser(t, "employee")
	other := createTestUser(t, "employee")
	admin := createTestUser(t, "admin")

	// Owner deletes a pending request.
	pending := seedLeaveRequest(t, employee.ID, "pending")
	status, _ := doRequest(t, app, "DELETE", "/leave/"+pending.ID, nil, &employee)
	assert.Equal(t, 200, status)

	// Owner cannot delete once approved.
	approved := seedLeaveRequest(t, employee.ID, "approved")
	status, response := doRequest(t, app, "DELETE", "/leave/"+approved.ID, nil, &employee)
	assert.Equal(t, 403, status)
	assert.Equal(t, "Only pending leave requests can be deleted", response.Error)

	// A stranger cannot delete at all.
	status, _ = doRequest(t, app, "DELETE", "/leave/"+approved.ID, nil, &other)
	assert.Equal(t, 403, status)

	// Admins delete regardless of status.
	status, _ = doRequest(t, app, "DELETE", "/leave/"+approved.ID, nil, &admin)
	assert.Equal(t, 200, status)
}

func TestListLeaveScoping(t *testing.T) {
	app, _ := SetupTest(t)
	employee := createTestUser(t, "employee")
	other := createTestUser(t, "employee")
	admin := createTestUser(t, "admin")

	seedLeaveRequest(t, employee.ID, "pending")
	seedLeaveRequest(t, other.ID, "pending")
	seedLeaveRequest(t, other.ID, "approved")

	// Employees only see their own.
	status, response := doRequest(t, app, "GET", "/leave", nil, &employee)
	assert.Equal(t, 200, status)
	assert.Len(t, dataMap(t, response)["requests"], 1)

	// Admins see everything, with optional filters.
	status, response = doRequest(t, app, "GET", "/leave", nil, &admin)
	assert.Equal(t, 200, status)
	assert.Len(t, dataMap(t, response)["requests"], 3)

	status, response = doRequest(t, app, "GET", "/leave?status=approved", nil, &admin)
	assert.Equal(t, 200, status)
	assert.Len(t, dataMap(t, response)["requests"], 1)

	status, response = doRequest(t, app, "GET", "/leave?user_id="+other.ID, nil, &admin)
	assert.Equal(t, 200, status)
	assert.Len(t, dataMap(t, response)["requests"], 2)

	// Admin overview endpoint mirrors the same visibility.
	status, response = doRequest(t, app, "GET", "/admin/leave", nil, &admin)
	assert.Equal(t, 200, status)
	assert.Len(t, dataMap(t, response)["requests"], 3)

	status, _ = doRequest(t, app, "GET", "/admin/leave", nil, &employee)
	assert.Equal(t, 403, status)
}
