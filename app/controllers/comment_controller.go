package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/cardboardhq/cardboard/app/models"
	"github.com/cardboardhq/cardboard/app/repository"
	"github.com/cardboardhq/cardboard/internal/pkg/usercontext"
)

type commentRequest struct {
	Content string `json:"content"`
}

// HandleCreateComment adds a comment to a card.
func HandleCreateComment(c *fiber.Ctx) error {
	cardUUID := c.Params("uuid")
	repos := repository.GetGlobalRepositories()

	card, err := repos.Card.GetByUUID(cardUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "not_found", "Card not found")
		}
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load card")
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", "Invalid request body")
	}
	if req.Content == "" {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", "content is required")
	}

	comment := &models.Comment{
		UserID:  usercontext.GetUserID(c),
		CardID:  card.ID,
		Content: req.Content,
	}
	if err := repos.Comment.Create(comment); err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create comment")
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// HandleGetComments lists a card's comments, oldest first.
func HandleGetComments(c *fiber.Ctx) error {
	cardUUID := c.Params("uuid")
	repos := repository.GetGlobalRepositories()

	card, err := repos.Card.GetByUUID(cardUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "not_found", "Card not found")
		}
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load card")
	}

	comments, err := repos.Comment.GetByCardID(card.ID)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load comments")
	}
	return c.JSON(comments)
}

// HandleDeleteComment removes the caller's own comment.
func HandleDeleteComment(c *fiber.Ctx) error {
	commentID := parseIDParam(c, "id")
	if commentID == 0 {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", "Invalid comment id")
	}

	repos := repository.GetGlobalRepositories()
	comment, err := repos.Comment.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "not_found", "Comment not found")
		}
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load comment")
	}

	if comment.UserID != usercontext.GetUserID(c) && !usercontext.IsAdmin(c) {
		return errorJSON(c, fiber.StatusForbidden, "forbidden", "You do not own this comment")
	}

	if err := repos.Comment.Delete(comment.ID); err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete comment")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
