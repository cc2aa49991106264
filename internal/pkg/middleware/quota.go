package middleware

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/cardboardhq/cardboard/app/models"
	"github.com/cardboardhq/cardboard/app/repository"
	"github.com/cardboardhq/cardboard/internal/pkg/plans"
	"github.com/cardboardhq/cardboard/internal/pkg/usercontext"
)

// ListQuotaMiddleware gates list creation on the user's plan. Plans
// carrying the unlimited_lists feature have no ceiling; everyone else gets
// the default cap. Runs after AuthMiddleware. The quota check only reads
// entitlement state, it never mutates plan data.
func ListQuotaMiddleware(engine *plans.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userCtx := usercontext.GetUserContext(c)
		if !userCtx.IsLoggedIn {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Authentication required"})
		}

		if engine.HasFeature(c.Context(), userCtx.UserID, models.FeatureUnlimitedLists) {
			return c.Next()
		}

		count, err := repository.GetGlobalFactory().GetListRepository().CountByUserID(userCtx.UserID)
		if err != nil {
			log.Printf("list quota check failed for user %d: %v", userCtx.UserID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to check list quota"})
		}

		if count >= models.DefaultListLimit {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "quota_exceeded",
				"message": fmt.Sprintf("List limit reached. Your plan allows %d lists.", models.DefaultListLimit),
			})
		}

		return c.Next()
	}
}
