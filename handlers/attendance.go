package handlers

import (
	"errors"
	"math"
	"time"

	"github.com/Iamyashsiwach/sparksync-app/models"
	"github.com/Iamyashsiwach/sparksync-app/types"
	"github.com/Iamyashsiwach/sparksync-app/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AttendanceActionRequest struct {
	Action string `json:"action"` // check-in, check-out
	Notes  string `json:"notes,omitempty"`
}

type AdminAttendanceCreateRequest struct {
	UserID   string `json:"user_id"`
	Date     string `json:"date"`   // YYYY-MM-DD
	Status   string `json:"status"` // present, absent, late, halfday, leave
	CheckIn  string `json:"check_in,omitempty"`
	CheckOut string `json:"check_out,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

type AdminAttendanceUpdateRequest struct {
	AttendanceID string  `json:"attendance_id"`
	Status       *string `json:"status,omitempty"`
	CheckIn      *string `json:"check_in,omitempty"`
	CheckOut     *string `json:"check_out,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

func validAttendanceStatus(status string) bool {
	switch status {
	case "present", "absent", "late", "halfday", "leave":
		return true
	}
	return false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AttendanceAction handles the employee check-in / check-out flow for
// the current calendar day. One record per user per day; the unique
// index on (user_id, date) is the only guard against concurrent
// check-ins for the same user.
func AttendanceAction(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req AttendanceActionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrInvalidInput,
		})
	}

	if req.Action != "check-in" && req.Action != "check-out" {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   "Invalid action",
		})
	}

	now := time.Now()
	today := startOfDay(now)

	var record models.Attendance
	err := DB.Where("user_id = ? AND date = ?", userID, today).First(&record).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Logger.Error("Failed to look up attendance record", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}
	found := err == nil

	if req.Action == "check-in" {
		if found && record.CheckIn != nil {
			return c.Status(409).JSON(types.APIResponse{
				Success: false,
				Error:   "Already checked in today",
			})
		}

		if !found {
			checkIn := now
			record = models.Attendance{
				ID:      uuid.New().String(),
				UserID:  userID,
				Date:    today,
				CheckIn: &checkIn,
				Status:  "present",
				Notes:   req.Notes,
			}
			if err := DB.Create(&record).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					// Lost the race against a concurrent check-in.
					return c.Status(409).JSON(types.APIResponse{
						Success: false,
						Error:   "Already checked in today",
					})
				}
				utils.Logger.Error("Failed to create attendance record", zap.Error(err))
				return c.Status(500).JSON(types.APIResponse{
					Success: false,
					Error:   types.ErrDatabaseError,
				})
			}
		} else {
			checkIn := now
			record.CheckIn = &checkIn
			record.Status = "present"
			if req.Notes != "" {
				record.Notes = req.Notes
			}
			if err := DB.Save(&record).Error; err != nil {
				utils.Logger.Error("Failed to update attendance record", zap.Error(err))
				return c.Status(500).JSON(types.APIResponse{
					Success: false,
					Error:   types.ErrDatabaseError,
				})
			}
		}

		return c.JSON(types.APIResponse{
			Success: true,
			Message: "Checked in successfully",
			Data:    record,
		})
	}

	// check-out
	if !found || record.CheckIn == nil {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   "Must check in before checking out",
		})
	}
	if record.CheckOut != nil {
		return c.Status(409).JSON(types.APIResponse{
			Success: false,
			Error:   "Already checked out today",
		})
	}

	checkOut := now
	record.CheckOut = &checkOut
	if req.Notes != "" {
		if record.Notes != "" {
			record.Notes += "\n" + req.Notes
		} else {
			record.Notes = req.Notes
		}
	}
	record.RecalculateWorkHours()

	if err := DB.Save(&record).Error; err != nil {
		utils.Logger.Error("Failed to update attendance record", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "Checked out successfully",
		Data:    record,
	})
}

// ListAttendance returns a page of the caller's records, newest first.
// Admins and managers may read any user's records via the user_id
// query parameter.
func ListAttendance(c *fiber.Ctx) error {
	callerID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)

	userID := c.Query("user_id", callerID)
	if userID != callerID && !isPrivileged(role) {
		return c.Status(403).JSON(types.APIResponse{
			Success: false,
			Error:   "Unauthorized to view other users attendance",
		})
	}

	query := DB.Model(&models.Attendance{}).Where("user_id = ?", userID)

	var ok bool
	if query, ok = applyAttendanceDateFilters(c, query); !ok {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   "Invalid date format. Use YYYY-MM-DD",
		})
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Logger.Error("Failed to count attendance records", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 10)
	if limit < 1 {
		limit = 10
	}

	var records []models.Attendance
	if err := query.Order("date DESC").Offset((page - 1) * limit).Limit(limit).Find(&records).Error; err != nil {
		utils.Logger.Error("Failed to fetch attendance records", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Data: fiber.Map{
			"records": records,
			"pagination": types.Pagination{
				Total: total,
				Page:  page,
				Limit: limit,
				Pages: int(math.Ceil(float64(total) / float64(limit))),
			},
		},
	})
}

func applyAttendanceDateFilters(c *fiber.Ctx, query *gorm.DB) (*gorm.DB, bool) {
	if startDate := c.Query("start_date"); startDate != "" {
		start, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return query, false
		}
		query = query.Where("date >= ?", start)
	}
	if endDate := c.Query("end_date"); endDate != "" {
		end, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return query, false
		}
		query = query.Where("date <= ?", end)
	}
	return query, true
}

// GetAllAttendance is the admin view across all users.
func GetAllAttendance(c *fiber.Ctx) error {
	query := DB.Model(&models.Attendance{}).Preload("User")

	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	var ok bool
	if query, ok = applyAttendanceDateFilters(c, query); !ok {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   "Invalid date format. Use YYYY-MM-DD",
		})
	}

	var records []models.Attendance
	if err := query.Order("date DESC").Find(&records).Error; err != nil {
		utils.Logger.Error("Failed to fetch attendance records", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Data:    fiber.Map{"attendance_records": records},
	})
}

// CreateAttendance lets an admin record attendance directly, including
// backdated entries. Duplicate (user, date) pairs are rejected.
func CreateAttendance(c *fiber.Ctx) error {
	var req AdminAttendanceCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrInvalidInput,
		})
	}

	if req.UserID == "" || req.Date == "" || req.Status == "" {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   "User ID, date, and status are required",
		})
	}
	if !validAttendanceStatus(req.Status) {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   "Invalid status",
		})
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   "Invalid date format. Use YYYY-MM-DD",
		})
	}

	record := models.Attendance{
		ID:     uuid.New().String(),
		UserID: req.UserID,
		Date:   startOfDay(date),
		Status: req.Status,
		Notes:  req.Notes,
	}

	if req.CheckIn != "" {
		checkIn, err := time.Parse(time.RFC3339, req.CheckIn)
		if err != nil {
			return c.Status(400).JSON(types.APIResponse{
				Success: false,
				Error:   "Invalid check-in timestamp",
			})
		}
		record.CheckIn = &checkIn
	}
	if req.CheckOut != "" {
		checkOut, err := time.Parse(time.RFC3339, req.CheckOut)
		if err != nil {
			return c.Status(400).JSON(types.APIResponse{
				Success: false,
				Error:   "Invalid check-out timestamp",
			})
		}
		record.CheckOut = &checkOut
	}

	// Explicit status wins over the derived one on direct creation.
	status := record.Status
	record.RecalculateWorkHours()
	record.Status = status

	if err := DB.Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(409).JSON(types.APIResponse{
				Success: false,
				Error:   "Attendance record already exists for this user and date",
			})
		}
		utils.Logger.Error("Failed to create attendance record", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	return c.Status(201).JSON(types.APIResponse{
		Success: true,
		Message: "Attendance record created",
		Data:    record,
	})
}

// UpdateAttendance patches status/check-in/check-out/notes on an
// existing record. Working hours are recomputed whenever both
// timestamps end up present; a status supplied in the patch overrides
// the derived one.
func UpdateAttendance(c *fiber.Ctx) error {
	var req AdminAttendanceUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrInvalidInput,
		})
	}

	if req.AttendanceID == "" {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   "Attendance ID is required",
		})
	}
	if req.Status != nil && !validAttendanceStatus(*req.Status) {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   "Invalid status",
		})
	}

	var record models.Attendance
	if err := DB.First(&record, "id = ?", req.AttendanceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(types.APIResponse{
				Success: false,
				Error:   "Attendance record not found",
			})
		}
		utils.Logger.Error("Failed to look up attendance record", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	if req.CheckIn != nil {
		checkIn, err := time.Parse(time.RFC3339, *req.CheckIn)
		if err != nil {
			return c.Status(400).JSON(types.APIResponse{
				Success: false,
				Error:   "Invalid check-in timestamp",
			})
		}
		record.CheckIn = &checkIn
	}
	if req.CheckOut != nil {
		checkOut, err := time.Parse(time.RFC3339, *req.CheckOut)
		if err != nil {
			return c.Status(400).JSON(types.APIResponse{
				Success: false,
				Error:   "Invalid check-out timestamp",
			})
		}
		record.CheckOut = &checkOut
	}
	if req.Notes != nil {
		record.Notes = *req.Notes
	}

	record.RecalculateWorkHours()
	if req.Status != nil {
		record.Status = *req.Status
	}

	if err := DB.Save(&record).Error; err != nil {
		utils.Logger.Error("Failed to update attendance record", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "Attendance record updated",
		Data:    record,
	})
}
