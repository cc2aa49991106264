package controllers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/cardboardhq/cardboard/app/models"
	"github.com/cardboardhq/cardboard/app/repository"
	"github.com/cardboardhq/cardboard/internal/pkg/usercontext"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new user account.
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", "Invalid request body")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := repo.GetByEmail(email); err == nil {
		return errorJSON(c, fiber.StatusConflict, "conflict", "Email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to check email")
	}

	user, err := models.CreateUser(req.Name, email, req.Password)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", err.Error())
	}

	if err := repo.Create(user); err != nil {
		log.Printf("failed to create user: %v", err)
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create user")
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and issues a bearer token. Failed
// attempts are throttled per user.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", "email and password are required")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorJSON(c, fiber.StatusUnauthorized, "unauthorized", "Invalid credentials")
		}
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Login failed")
	}

	now := time.Now()
	if !user.CanAttemptLogin(now) {
		return errorJSON(c, fiber.StatusTooManyRequests, "too_many_attempts", "Too many failed login attempts, try again later")
	}

	if !user.CheckPassword(req.Password) {
		user.RegisterFailedLogin(now)
		if err := repo.Update(user); err != nil {
			log.Printf("failed to persist login attempt for user %d: %v", user.ID, err)
		}
		return errorJSON(c, fiber.StatusUnauthorized, "unauthorized", "Invalid credentials")
	}

	if !user.IsActive() {
		return errorJSON(c, fiber.StatusForbidden, "forbidden", "User inactive")
	}

	token, err := user.IssueAuthToken()
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to issue token")
	}
	user.RegisterSuccessfulLogin(now)

	if err := repo.Update(user); err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Login failed")
	}

	return c.JSON(fiber.Map{"token": token, "user": user})
}

// HandleLogout revokes the caller's bearer token.
func HandleLogout(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repo := repository.GetGlobalFactory().GetUserRepository()

	user, err := repo.GetByID(userCtx.UserID)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Logout failed")
	}

	user.RevokeAuthToken()
	if err := repo.Update(user); err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Logout failed")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListUsers returns a paginated user listing. Admin only.
func HandleListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", 50)
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	repo := repository.GetGlobalFactory().GetUserRepository()

	users, err := repo.List((page-1)*perPage, perPage)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load users")
	}
	total, err := repo.Count()
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count users")
	}

	return c.JSON(fiber.Map{
		"users":    users,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

// HandleGetProfile returns the authenticated user's account.
func HandleGetProfile(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "not_found", "User not found")
		}
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}

	return c.JSON(user)
}
