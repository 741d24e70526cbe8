package handlers

import (
	"errors"
	"time"

	"github.com/Iamyashsiwach/sparksync-app/models"
	"github.com/Iamyashsiwach/sparksync-app/types"
	"github.com/Iamyashsiwach/sparksync-app/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TaskCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	AssignedTo  string `json:"assigned_to"`
	Priority    string `json:"priority,omitempty"` // low, medium, high
	DueDate     string `json:"due_date"`           // YYYY-MM-DD
}

func validTaskPriority(p string) bool {
	return p == "low" || p == "medium" || p == "high"
}

func validTaskStatus(s string) bool {
	return s == "pending" || s == "in-progress" || s == "completed"
}

func isTaskAdmin(role string) bool {
	return role == "admin" || role == "super-admin"
}

func fetchTask(id string) (models.Task, error) {
	var task models.Task
	err := DB.Preload("Assignee").First(&task, "id = ?", id).Error
	return task, err
}

// CreateTask assigns a new task to an existing user. Admin only.
func CreateTask(c *fiber.Ctx) error {
	role := c.Locals("role").(string)
	if !isTaskAdmin(role) {
		return c.Status(403).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrForbidden,
		})
	}

	var req TaskCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrInvalidInput,
		})
	}

	if req.Title == "" || req.Description == "" || req.AssignedTo == "" || req.DueDate == "" {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   "Missing required fields",
		})
	}
	if req.Priority == "" {
		req.Priority = "medium"
	}
	if !validTaskPriority(req.Priority) {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   "Invalid priority",
		})
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   "Invalid due date format. Use YYYY-MM-DD",
		})
	}

	var assignee models.User
	if err := DB.First(&assignee, "id = ?", req.AssignedTo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(types.APIResponse{
				Success: false,
				Error:   "Assigned user not found",
			})
		}
		utils.Logger.Error("Failed to look up assignee", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	task := models.Task{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Priority:    req.Priority,
		Status:      "pending",
		DueDate:     dueDate,
	}

	if err := DB.Create(&task).Error; err != nil {
		utils.Logger.Error("Failed to create task", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	task.Assignee = assignee

	return c.Status(201).JSON(types.APIResponse{
		Success: true,
		Message: "Task created successfully",
		Data:    task,
	})
}

// ListTasks returns all tasks for admins and their own tasks for
// employees. No other role reaches the task surface.
func ListTasks(c *fiber.Ctx) error {
	callerID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)

	if !isTaskAdmin(role) && role != "employee" {
		return c.Status(403).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrForbidden,
		})
	}

	query := DB.Model(&models.Task{}).Preload("Assignee")
	if !isTaskAdmin(role) {
		query = query.Where("assigned_to = ?", callerID)
	}

	var tasks []models.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		utils.Logger.Error("Failed to fetch tasks", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Data:    fiber.Map{"tasks": tasks},
	})
}

// GetTask returns a single task. Non-admins only see their own; a task
// assigned to someone else reads as not found for them.
func GetTask(c *fiber.Ctx) error {
	callerID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)

	if !isTaskAdmin(role) && role != "employee" {
		return c.Status(403).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrForbidden,
		})
	}

	task, err := fetchTask(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(types.APIResponse{
				Success: false,
				Error:   "Task not found",
			})
		}
		utils.Logger.Error("Failed to look up task", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	if !isTaskAdmin(role) && task.AssignedTo != callerID {
		return c.Status(404).JSON(types.APIResponse{
			Success: false,
			Error:   "Task not found",
		})
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Data:    task,
	})
}

// UpdateTask patches a task. Admins may change any field; employees
// may only advance the status of their own task.
func UpdateTask(c *fiber.Ctx) error {
	callerID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)

	if !isTaskAdmin(role) && role != "employee" {
		return c.Status(403).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrForbidden,
		})
	}

	var task models.Task
	if err := DB.First(&task, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(types.APIResponse{
				Success: false,
				Error:   "Task not found",
			})
		}
		utils.Logger.Error("Failed to look up task", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	var patch map[string]interface{}
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrInvalidInput,
		})
	}

	if !isTaskAdmin(role) {
		if task.AssignedTo != callerID {
			return c.Status(403).JSON(types.APIResponse{
				Success: false,
				Error:   "You can only update tasks assigned to you",
			})
		}
		for field := range patch {
			if field != "status" {
				return c.Status(403).JSON(types.APIResponse{
					Success: false,
					Error:   "You can only update the task status",
				})
			}
		}
		if _, ok := patch["status"]; !ok {
			return c.Status(400).JSON(types.APIResponse{
				Success: false,
				Error:   "Missing status field",
			})
		}
	}

	updates := map[string]interface{}{}
	for field, value := range patch {
		switch field {
		case "title", "description":
			str, ok := value.(string)
			if !ok || str == "" {
				return c.Status(400).JSON(types.APIResponse{
					Success: false,
					Error:   types.ErrInvalidInput,
				})
			}
			updates[field] = str
		case "status":
			str, ok := value.(string)
			if !ok || !validTaskStatus(str) {
				return c.Status(400).JSON(types.APIResponse{
					Success: false,
					Error:   "Invalid status",
				})
			}
			updates["status"] = str
		case "priority":
			str, ok := value.(string)
			if !ok || !validTaskPriority(str) {
				return c.Status(400).JSON(types.APIResponse{
					Success: false,
					Error:   "Invalid priority",
				})
			}
			updates["priority"] = str
		case "assigned_to":
			str, ok := value.(string)
			if !ok {
				return c.Status(400).JSON(types.APIResponse{
					Success: false,
					Error:   types.ErrInvalidInput,
				})
			}
			var assignee models.User
			if err := DB.First(&assignee, "id = ?", str).Error; err != nil {
				return c.Status(404).JSON(types.APIResponse{
					Success: false,
					Error:   "Assigned user not found",
				})
			}
			updates["assigned_to"] = str
		case "due_date":
			str, ok := value.(string)
			if !ok {
				return c.Status(400).JSON(types.APIResponse{
					Success: false,
					Error:   types.ErrInvalidInput,
				})
			}
			dueDate, err := time.Parse("2006-01-02", str)
			if err != nil {
				return c.Status(400).JSON(types.APIResponse{
					Success: false,
					Error:   "Invalid due date format. Use YYYY-MM-DD",
				})
			}
			updates["due_date"] = dueDate
		}
	}

	if len(updates) == 0 {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   "Nothing to update",
		})
	}

	if err := DB.Model(&task).Updates(updates).Error; err != nil {
		utils.Logger.Error("Failed to update task", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	updated, err := fetchTask(task.ID)
	if err != nil {
		utils.Logger.Error("Failed to reload task", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "Task updated successfully",
		Data:    updated,
	})
}

// DeleteTask removes a task. Admin only.
func DeleteTask(c *fiber.Ctx) error {
	role := c.Locals("role").(string)
	if !isTaskAdmin(role) {
		return c.Status(403).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrForbidden,
		})
	}

	var task models.Task
	if err := DB.First(&task, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(types.APIResponse{
				Success: false,
				Error:   "Task not found",
			})
		}
		utils.Logger.Error("Failed to look up task", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	if err := DB.Delete(&task).Error; err != nil {
		utils.Logger.Error("Failed to delete task", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "Task deleted successfully",
	})
}
