package handlers

import (
	"errors"

	"github.com/Iamyashsiwach/sparksync-app/models"
	"github.com/Iamyashsiwach/sparksync-app/types"
	"github.com/Iamyashsiwach/sparksync-app/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RoleChangeRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type UserUpdateRequest struct {
	Role       *string `json:"role,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
	Department *string `json:"department,omitempty"`
	Position   *string `json:"position,omitempty"`
}

func validRole(role string) bool {
	switch role {
	case "super-admin", "admin", "manager", "employee":
		return true
	}
	return false
}

func GetAllUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := DB.Order("created_at DESC").Find(&users).Error; err != nil {
		utils.Logger.Error("Failed to fetch users", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Data:    fiber.Map{"users": users},
	})
}

func GetUser(c *fiber.Ctx) error {
	var user models.User
	if err := DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(types.APIResponse{
				Success: false,
				Error:   "User not found",
			})
		}
		utils.Logger.Error("Failed to look up user", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Data:    user,
	})
}

// ChangeUserRole reassigns a user's role. Super admin only.
func ChangeUserRole(c *fiber.Ctx) error {
	if c.Locals("role") != "super-admin" {
		return c.Status(403).JSON(types.APIResponse{
			Success: false,
			Error:   "Only super admins can change user roles",
		})
	}

	var req RoleChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrInvalidInput,
		})
	}

	if req.UserID == "" || req.Role == "" {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   "User ID and role are required",
		})
	}
	if !validRole(req.Role) {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   "Invalid role",
		})
	}

	var user models.User
	if err := DB.First(&user, "id = ?", req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(types.APIResponse{
				Success: false,
				Error:   "User not found",
			})
		}
		utils.Logger.Error("Failed to look up user", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	user.Role = req.Role
	if err := DB.Save(&user).Error; err != nil {
		utils.Logger.Error("Failed to update user role", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "User role updated successfully",
		Data:    user,
	})
}

// UpdateUser patches profile fields. Role changes are reserved for
// super admins; the rest is open to any admin.
func UpdateUser(c *fiber.Ctx) error {
	role := c.Locals("role").(string)

	var req UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrInvalidInput,
		})
	}

	if req.Role != nil {
		if role != "super-admin" {
			return c.Status(403).JSON(types.APIResponse{
				Success: false,
				Error:   "Only super admins can change user roles",
			})
		}
		if !validRole(*req.Role) {
			return c.Status(400).JSON(types.APIResponse{
				Success: false,
				Error:   "Invalid role",
			})
		}
	}

	var user models.User
	if err := DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(types.APIResponse{
				Success: false,
				Error:   "User not found",
			})
		}
		utils.Logger.Error("Failed to look up user", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Department != nil {
		user.Department = *req.Department
	}
	if req.Position != nil {
		user.Position = *req.Position
	}

	if err := DB.Save(&user).Error; err != nil {
		utils.Logger.Error("Failed to update user", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "User updated successfully",
		Data:    user,
	})
}

// DeleteUser removes a user. Super admin only.
func DeleteUser(c *fiber.Ctx) error {
	if c.Locals("role") != "super-admin" {
		return c.Status(403).JSON(types.APIResponse{
			Success: false,
			Error:   "Only super admins can delete users",
		})
	}

	var user models.User
	if err := DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(types.APIResponse{
				Success: false,
				Error:   "User not found",
			})
		}
		utils.Logger.Error("Failed to look up user", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	if err := DB.Delete(&user).Error; err != nil {
		utils.Logger.Error("Failed to delete user", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "User deleted successfully",
	})
}
