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

type LeaveCreateRequest struct {
	StartDate     string `json:"start_date"` // YYYY-MM-DD
	EndDate       string `json:"end_date"`   // YYYY-MM-DD
	Type          string `json:"type"`       // sick, vacation, personal, other
	Reason        string `json:"reason"`
	AttachmentURL string `json:"attachment_url,omitempty"`
}

type LeaveTransitionRequest struct {
	Status string `json:"status"` // approved, rejected
}

func validLeaveType(t string) bool {
	switch t {
	case "sick", "vacation", "personal", "other":
		return true
	}
	return false
}

// CreateLeave submits a leave request for the caller, status pending.
func CreateLeave(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req LeaveCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrInvalidInput,
		})
	}

	if req.StartDate == "" || req.EndDate == "" || req.Type == "" || req.Reason == "" {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   "Missing required fields",
		})
	}
	if !validLeaveType(req.Type) {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   "Invalid leave type",
		})
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   "Invalid start date format. Use YYYY-MM-DD",
		})
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   "Invalid end date format. Use YYYY-MM-DD",
		})
	}
	if end.Before(start) {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   "End date must be after start date",
		})
	}

	request := models.LeaveRequest{
		ID:            uuid.New().String(),
		UserID:        userID,
		StartDate:     start,
		EndDate:       end,
		Type:          req.Type,
		Reason:        req.Reason,
		Status:        "pending",
		AttachmentURL: req.AttachmentURL,
	}

	if err := DB.Create(&request).Error; err != nil {
		utils.Logger.Error("Failed to create leave request", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	return c.Status(201).JSON(types.APIResponse{
		Success: true,
		Message: "Leave request submitted successfully",
		Data:    request,
	})
}

// ListLeave pages through leave requests, newest first. Employees see
// only their own; admins and managers see all and may filter by user.
func ListLeave(c *fiber.Ctx) error {
	callerID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)

	query := DB.Model(&models.LeaveRequest{}).Preload("User").Preload("Approver")

	if !isPrivileged(role) {
		query = query.Where("user_id = ?", callerID)
	} else if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Logger.Error("Failed to count leave requests", zap.Error(err))
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

	var requests []models.LeaveRequest
	if err := query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&requests).Error; err != nil {
		utils.Logger.Error("Failed to fetch leave requests", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Data: fiber.Map{
			"requests": requests,
			"pagination": types.Pagination{
				Total: total,
				Page:  page,
				Limit: limit,
				Pages: int(math.Ceil(float64(total) / float64(limit))),
			},
		},
	})
}

// GetLeave returns a single request with the requester and approver
// profiles attached. Visible to its owner and to admins and managers.
func GetLeave(c *fiber.Ctx) error {
	callerID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)

	var request models.LeaveRequest
	err := DB.Preload("User").Preload("Approver").First(&request, "id = ?", c.Params("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(types.APIResponse{
				Success: false,
				Error:   "Leave request not found",
			})
		}
		utils.Logger.Error("Failed to look up leave request", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	if request.UserID != callerID && !isPrivileged(role) {
		return c.Status(403).JSON(types.APIResponse{
			Success: false,
			Error:   "Unauthorized to view this leave request",
		})
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Data:    request,
	})
}

// GetAllLeave is the unpaginated admin view with filters.
func GetAllLeave(c *fiber.Ctx) error {
	query := DB.Model(&models.LeaveRequest{}).Preload("User").Preload("Approver")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var requests []models.LeaveRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		utils.Logger.Error("Failed to fetch leave requests", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Data:    fiber.Map{"requests": requests},
	})
}

// TransitionLeave approves or rejects a pending request. Only
// admins and managers may transition, and only out of pending.
func TransitionLeave(c *fiber.Ctx) error {
	callerID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)

	if !isPrivileged(role) {
		return c.Status(403).JSON(types.APIResponse{
			Success: false,
			Error:   "Unauthorized to update leave requests",
		})
	}

	var req LeaveTransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrInvalidInput,
		})
	}
	if req.Status != "approved" && req.Status != "rejected" {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   "Invalid status",
		})
	}

	var request models.LeaveRequest
	if err := DB.First(&request, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(types.APIResponse{
				Success: false,
				Error:   "Leave request not found",
			})
		}
		utils.Logger.Error("Failed to look up leave request", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	if request.Status != "pending" {
		return c.Status(409).JSON(types.APIResponse{
			Success: false,
			Error:   "Leave request already " + request.Status,
		})
	}

	now := time.Now()
	request.Status = req.Status
	request.ApprovedBy = &callerID
	request.ApprovalDate = &now

	if err := DB.Save(&request).Error; err != nil {
		utils.Logger.Error("Failed to update leave request", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "Leave request " + req.Status + " successfully",
		Data:    request,
	})
}

// DeleteLeave removes a request. Owners may delete while it is still
// pending; admins may delete regardless of status.
func DeleteLeave(c *fiber.Ctx) error {
	callerID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)

	var request models.LeaveRequest
	if err := DB.First(&request, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(types.APIResponse{
				Success: false,
				Error:   "Leave request not found",
			})
		}
		utils.Logger.Error("Failed to look up leave request", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	isOwner := request.UserID == callerID
	isAdmin := role == "admin" || role == "super-admin"

	if !isOwner && !isAdmin {
		return c.Status(403).JSON(types.APIResponse{
			Success: false,
			Error:   "Unauthorized to delete this leave request",
		})
	}
	if !isAdmin && request.Status != "pending" {
		return c.Status(403).JSON(types.APIResponse{
			Success: false,
			Error:   "Only pending leave requests can be deleted",
		})
	}

	if err := DB.Delete(&request).Error; err != nil {
		utils.Logger.Error("Failed to delete leave request", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "Leave request deleted successfully",
	})
}
