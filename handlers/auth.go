package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/Iamyashsiwach/sparksync-app/config"
	"github.com/Iamyashsiwach/sparksync-app/models"
	"github.com/Iamyashsiwach/sparksync-app/types"
	"github.com/Iamyashsiwach/sparksync-app/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department"`
	Position   string `json:"position"`
	SecretKey  string `json:"secret_key,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an employee account. Only company email addresses
// are accepted; a super-admin account requires the registration secret.
func Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrInvalidInput,
		})
	}

	if req.Name == "" || req.Email == "" || req.Password == "" || req.Department == "" || req.Position == "" {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   "Missing required fields",
		})
	}

	domain := config.AppConfig.AllowedEmailDomain
	if !strings.HasSuffix(req.Email, "@"+domain) {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   "Only " + domain + " email addresses are allowed",
		})
	}

	role := "employee"
	if config.AppConfig.SuperAdminKey != "" && req.SecretKey == config.AppConfig.SuperAdminKey {
		role = "super-admin"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.Logger.Error("Failed to hash password", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrInternalError,
		})
	}

	user := models.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Department:   req.Department,
		Position:     req.Position,
		Role:         role,
		IsActive:     true,
		JoinedAt:     time.Now(),
	}

	if err := DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(409).JSON(types.APIResponse{
				Success: false,
				Error:   "Email already registered",
			})
		}
		utils.Logger.Error("Failed to create user", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	return c.Status(201).JSON(types.APIResponse{
		Success: true,
		Message: "User registered successfully",
		Data:    user,
	})
}

// Login verifies credentials and issues a bearer token carrying the
// caller's id and role.
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrInvalidInput,
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   "Missing required fields",
		})
	}

	var user models.User
	if err := DB.First(&user, "email = ?", req.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(401).JSON(types.APIResponse{
				Success: false,
				Error:   "Invalid credentials",
			})
		}
		utils.Logger.Error("Failed to look up user", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrDatabaseError,
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return c.Status(401).JSON(types.APIResponse{
			Success: false,
			Error:   "Invalid credentials",
		})
	}

	if !user.IsActive {
		return c.Status(403).JSON(types.APIResponse{
			Success: false,
			Error:   "Account is deactivated",
		})
	}

	expiry, err := time.ParseDuration(config.AppConfig.TokenExpiry)
	if err != nil {
		expiry = 24 * time.Hour
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(expiry).Unix(),
	})

	signed, err := token.SignedString([]byte(config.AppConfig.JWTSecret))
	if err != nil {
		utils.Logger.Error("Failed to sign token", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrInternalError,
		})
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Data: fiber.Map{
			"token": signed,
			"user":  user,
		},
	})
}
