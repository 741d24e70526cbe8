package test

import (
	"testing"
	"time"

	"github.com/Iamyashsiwach/sparksync-app/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCheckInCheckOut(t *testing.T) {
	app, _ := SetupTest(t)
	employee := createTestUser(t, "employee")

	// First check-in of the day creates the record.
	status, response := doRequest(t, app, "POST", "/attendance", map[string]string{
		"action": "check-in",
		"notes":  "morning standup",
	}, &employee)
	assert.Equal(t, 200, status)
	assert.True(t, response.Success)

	record := dataMap(t, response)
	assert.Equal(t, "present", record["status"])
	assert.NotNil(t, record["check_in"])
	assert.Nil(t, record["check_out"])

	// Second check-in conflicts.
	status, response = doRequest(t, app, "POST", "/attendance", map[string]string{
		"action": "check-in",
	}, &employee)
	assert.Equal(t, 409, status)
	assert.Equal(t, "Already checked in today", response.Error)

	// Check-out closes the record and appends notes.
	status, response = doRequest(t, app, "POST", "/attendance", map[string]string{
		"action": "check-out",
		"notes":  "wrapped up",
	}, &employee)
	assert.Equal(t, 200, status)

	record = dataMap(t, response)
	assert.NotNil(t, record["check_out"])
	assert.NotNil(t, record["working_hours"])
	assert.Equal(t, "morning standup\nwrapped up", record["notes"])
	// A few milliseconds of work counts as a short day.
	assert.Equal(t, "late", record["status"])

	// Second check-out conflicts.
	status, response = doRequest(t, app, "POST", "/attendance", map[string]string{
		"action": "check-out",
	}, &employee)
	assert.Equal(t, 409, status)
	assert.Equal(t, "Already checked out today", response.Error)
}

func TestCheckOutRequiresCheckIn(t *testing.T) {
	app, _ := SetupTest(t)
	employee := createTestUser(t, "employee")

	status, response := doRequest(t, app, "POST", "/attendance", map[string]string{
		"action": "check-out",
	}, &employee)
	assert.Equal(t, 400, status)
	assert.Equal(t, "Must check in before checking out", response.Error)
}

func TestAttendanceInvalidAction(t *testing.T) {
	app, _ := SetupTest(t)
	employee := createTestUser(t, "employee")

	status, response := doRequest(t, app, "POST", "/attendance", map[string]string{
		"action": "clock-in",
	}, &employee)
	assert.Equal(t, 400, status)
	assert.Equal(t, "Invalid action", response.Error)
}

func TestListAttendanceScoping(t *testing.T) {
	app, db := SetupTest(t)
	employee := createTestUser(t, "employee")
	other := createTestUser(t, "employee")
	admin := createTestUser(t, "admin")

	for i := 0; i < 3; i++ {
		record := models.Attendance{
			ID:     uuid.New().String(),
			UserID: employee.ID,
			Date:   time.Date(2024, 5, 6+i, 0, 0, 0, 0, time.UTC),
			Status: "present",
		}
		if err := db.Create(&record).Error; err != nil {
			t.Fatalf("Failed to seed attendance: %v", err)
		}
	}

	// Employees see their own records with pagination metadata.
	status, response := doRequest(t, app, "GET", "/attendance?page=1&limit=2", nil, &employee)
	assert.Equal(t, 200, status)

	data := dataMap(t, response)
	records := data["records"].([]interface{})
	assert.Len(t, records, 2)

	pagination := data["pagination"].(map[string]interface{})
	assert.Equal(t, float64(3), pagination["total"])
	assert.Equal(t, float64(2), pagination["pages"])

	// Newest first.
	first := records[0].(map[string]interface{})
	second := records[1].(map[string]interface{})
	assert.Greater(t, first["date"].(string), second["date"].(string))

	// Another employee's records are off limits.
	status, response = doRequest(t, app, "GET", "/attendance?user_id="+employee.ID, nil, &other)
	assert.Equal(t, 403, status)
	assert.Equal(t, "Unauthorized to view other users attendance", response.Error)

	// Admins may read anyone's.
	status, response = doRequest(t, app, "GET", "/attendance?user_id="+employee.ID, nil, &admin)
	assert.Equal(t, 200, status)
	assert.Len(t, dataMap(t, response)["records"], 3)

	// Unauthenticated requests are rejected outright.
	status, _ = doRequest(t, app, "GET", "/attendance", nil, nil)
	assert.Equal(t, 401, status)
}

func TestAdminCreateAttendanceDuplicate(t *testing.T) {
	app, _ := SetupTest(t)
	admin := createTestUser(t, "admin")
	employee := createTestUser(t, "employee")

	body := map[string]string{
		"user_id": employee.ID,
		"date":    "2024-05-06",
		"status":  "absent",
	}

	status, response := doRequest(t, app, "POST", "/admin/attendance", body, &admin)
	assert.Equal(t, 201, status)
	assert.True(t, response.Success)

	status, response = doRequest(t, app, "POST", "/admin/attendance", body, &admin)
	assert.Equal(t, 409, status)
	assert.Equal(t, "Attendance record already exists for this user and date", response.Error)
}

func TestAdminUpdateAttendanceDerivation(t *testing.T) {
	app, _ := SetupTest(t)
	admin := createTestUser(t, "admin")
	employee := createTestUser(t, "employee")

	base := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)

	status, response := doRequest(t, app, "POST", "/admin/attendance", map[string]string{
		"user_id":  employee.ID,
		"date":     "2024-05-06",
		"status":   "absent",
		"check_in": base.Format(time.RFC3339),
	}, &admin)
	assert.Equal(t, 201, status)
	recordID := dataMap(t, response)["id"].(string)

	tests := []struct {
		name       string
		checkOut   time.Time
		wantHours  float64
		wantStatus string
	}{
		{"nine hour day", base.Add(9 * time.Hour), 9.00, "present"},
		{"five hour day", base.Add(5 * time.Hour), 5.00, "halfday"},
		{"two hour day", base.Add(2 * time.Hour), 2.00, "late"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkOut := tt.checkOut.Format(time.RFC3339)
			status, response := doRequest(t, app, "PATCH", "/admin/attendance", map[string]interface{}{
				"attendance_id": recordID,
				"check_out":     checkOut,
			}, &admin)
			assert.Equal(t, 200, status)

			record := dataMap(t, response)
			assert.Equal(t, tt.wantHours, record["working_hours"])
			assert.Equal(t, tt.wantStatus, record["status"])
		})
	}

	// An explicit status in the patch overrides the derived one.
	status, response = doRequest(t, app, "PATCH", "/admin/attendance", map[string]interface{}{
		"attendance_id": recordID,
		"status":        "leave",
	}, &admin)
	assert.Equal(t, 200, status)
	assert.Equal(t, "leave", dataMap(t, response)["status"])

	// Moving check-out before check-in undefines the working hours
	// instead of keeping the previously derived value.
	status, response = doRequest(t, app, "PATCH", "/admin/attendance", map[string]interface{}{
		"attendance_id": recordID,
		"check_out":     base.Add(-time.Hour).Format(time.RFC3339),
	}, &admin)
	assert.Equal(t, 200, status)
	assert.Nil(t, dataMap(t, response)["working_hours"])
}

func TestAdminAttendanceRequiresAdmin(t *testing.T) {
	app, _ := SetupTest(t)
	employee := createTestUser(t, "employee")

	status, response := doRequest(t, app, "GET", "/admin/attendance", nil, &employee)
	assert.Equal(t, 403, status)
	assert.NotEmpty(t, response.Error)

	status, _ = doRequest(t, app, "PATCH", "/admin/attendance", map[string]string{
		"attendance_id": uuid.New().String(),
	}, &employee)
	assert.Equal(t, 403, status)
}
