package controllers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/cardboardhq/cardboard/app/models"
	"github.com/cardboardhq/cardboard/app/repository"
	"github.com/cardboardhq/cardboard/internal/pkg/usercontext"
)

type createCardRequest struct {
	ListID      uint       `json:"list_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	AssigneeID  *uint      `json:"assignee_id"`
}

// HandleCreateCard creates a card in one of the caller's lists.
func HandleCreateCard(c *fiber.Ctx) error {
	var req createCardRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", "Invalid request body")
	}
	if req.ListID == 0 || req.Title == "" {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", "list_id and title are required")
	}

	userID := usercontext.GetUserID(c)
	repos := repository.GetGlobalRepositories()

	list, err := repos.List.GetByID(req.ListID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "not_found", "List not found")
		}
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load list")
	}
	if list.UserID != userID {
		return errorJSON(c, fiber.StatusForbidden, "forbidden", "You do not own this list")
	}

	card := models.NewCard(list.ID, userID, req.Title, req.Description)
	if req.Priority != "" {
		card.Priority = req.Priority
	}
	card.DueDate = req.DueDate
	card.AssigneeID = req.AssigneeID

	if err := card.Validate(); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", err.Error())
	}

	if err := repos.Card.Create(card); err != nil {
		log.Printf("failed to create card in list %d: %v", list.ID, err)
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create card")
	}

	return c.Status(fiber.StatusCreated).JSON(card)
}

// HandleGetCardsByList returns every card in one of the caller's lists.
func HandleGetCardsByList(c *fiber.Ctx) error {
	listID := parseIDParam(c, "id")
	if listID == 0 {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", "Invalid list id")
	}

	repos := repository.GetGlobalRepositories()
	list, err := repos.List.GetByID(listID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "not_found", "List not found")
		}
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load list")
	}
	if list.UserID != usercontext.GetUserID(c) {
		return errorJSON(c, fiber.StatusForbidden, "forbidden", "You do not own this list")
	}

	cards, err := repos.Card.GetByListID(listID)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load cards")
	}
	return c.JSON(cards)
}

type updateCardRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	AssigneeID  *uint      `json:"assignee_id"`
}

// HandleUpdateCard edits a card by public UUID. Completing a card awards
// org points to its owner.
func HandleUpdateCard(c *fiber.Ctx) error {
	card, err := loadOwnedCard(c)
	if err != nil {
		return err
	}

	var req updateCardRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", "Invalid request body")
	}

	wasDone := card.IsDone()
	if req.Title != nil {
		card.Title = *req.Title
	}
	if req.Description != nil {
		card.Description = *req.Description
	}
	if req.Status != nil {
		card.Status = *req.Status
	}
	if req.Priority != nil {
		card.Priority = *req.Priority
	}
	if req.DueDate != nil {
		card.DueDate = req.DueDate
	}
	if req.AssigneeID != nil {
		card.AssigneeID = req.AssigneeID
	}

	if err := card.Validate(); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", err.Error())
	}

	repos := repository.GetGlobalRepositories()
	if err := repos.Card.Update(card); err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update card")
	}

	if !wasDone && card.IsDone() {
		if owner, err := repos.User.GetByID(card.UserID); err == nil {
			owner.AddOrgPoints(models.OrgPointsPerCompletedCard)
			if err := repos.User.Update(owner); err != nil {
				log.Printf("failed to award org points to user %d: %v", owner.ID, err)
			}
		}
	}

	return c.JSON(card)
}

// HandleDeleteCard removes a card by public UUID.
func HandleDeleteCard(c *fiber.Ctx) error {
	card, err := loadOwnedCard(c)
	if err != nil {
		return err
	}

	if err := repository.GetGlobalRepositories().Card.Delete(card.ID); err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete card")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func loadOwnedCard(c *fiber.Ctx) (*models.Card, error) {
	uuid := c.Params("uuid")
	if uuid == "" {
		return nil, errorJSON(c, fiber.StatusBadRequest, "invalid_input", "Invalid card id")
	}

	card, err := repository.GetGlobalRepositories().Card.GetByUUID(uuid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorJSON(c, fiber.StatusNotFound, "not_found", "Card not found")
		}
		return nil, errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load card")
	}

	if card.UserID != usercontext.GetUserID(c) {
		return nil, errorJSON(c, fiber.StatusForbidden, "forbidden", "You do not own this card")
	}

	return card, nil
}
