package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/cardboardhq/cardboard/app/models"
	"github.com/cardboardhq/cardboard/app/repository"
	"github.com/cardboardhq/cardboard/internal/pkg/usercontext"
)

type listRequest struct {
	Name string `json:"name"`
}

// HandleCreateList creates a list for the authenticated user. The quota
// middleware has already checked the plan's list ceiling.
func HandleCreateList(c *fiber.Ctx) error {
	var req listRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", "Invalid request body")
	}
	if err := models.ValidateListName(req.Name); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", err.Error())
	}

	userID := usercontext.GetUserID(c)
	repo := repository.GetGlobalFactory().GetListRepository()

	if _, err := repo.GetByNameAndUser(req.Name, userID); err == nil {
		return errorJSON(c, fiber.StatusConflict, "conflict", "A list with this name already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to check list name")
	}

	list := &models.List{UserID: userID, Name: req.Name}
	if err := repo.Create(list); err != nil {
		log.Printf("failed to create list for user %d: %v", userID, err)
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create list")
	}

	return c.Status(fiber.StatusCreated).JSON(list)
}

// HandleGetLists returns the authenticated user's lists.
func HandleGetLists(c *fiber.Ctx) error {
	lists, err := repository.GetGlobalFactory().GetListRepository().GetByUserID(usercontext.GetUserID(c))
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load lists")
	}
	return c.JSON(lists)
}

// HandleUpdateList renames a list owned by the authenticated user.
func HandleUpdateList(c *fiber.Ctx) error {
	list, err := loadOwnedList(c)
	if err != nil {
		return err
	}

	var req listRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", "Invalid request body")
	}
	if err := models.ValidateListName(req.Name); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", err.Error())
	}

	repo := repository.GetGlobalFactory().GetListRepository()
	if existing, err := repo.GetByNameAndUser(req.Name, list.UserID); err == nil && existing.ID != list.ID {
		return errorJSON(c, fiber.StatusConflict, "conflict", "A list with this name already exists")
	}

	list.Name = req.Name
	if err := repo.Update(list); err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update list")
	}

	return c.JSON(list)
}

// HandleDeleteList removes a list owned by the authenticated user. Lists
// still holding cards are not deleted.
func HandleDeleteList(c *fiber.Ctx) error {
	list, err := loadOwnedList(c)
	if err != nil {
		return err
	}

	repos := repository.GetGlobalRepositories()
	cardCount, err := repos.Card.CountByListID(list.ID)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to check list contents")
	}
	if cardCount > 0 {
		return errorJSON(c, fiber.StatusConflict, "conflict", "List still contains cards")
	}

	if err := repos.List.Delete(list.ID); err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete list")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// loadOwnedList resolves the :id route param to a list owned by the
// caller. On failure it writes the error response and returns it.
func loadOwnedList(c *fiber.Ctx) (*models.List, error) {
	listID := parseIDParam(c, "id")
	if listID == 0 {
		return nil, errorJSON(c, fiber.StatusBadRequest, "invalid_input", "Invalid list id")
	}

	list, err := repository.GetGlobalFactory().GetListRepository().GetByID(listID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorJSON(c, fiber.StatusNotFound, "not_found", "List not found")
		}
		return nil, errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load list")
	}

	if list.UserID != usercontext.GetUserID(c) {
		return nil, errorJSON(c, fiber.StatusForbidden, "forbidden", "You do not own this list")
	}

	return list, nil
}
