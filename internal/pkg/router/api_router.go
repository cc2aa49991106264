package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/cardboardhq/cardboard/app/controllers"
	"github.com/cardboardhq/cardboard/app/repository"
	"github.com/cardboardhq/cardboard/internal/pkg/middleware"
	"github.com/cardboardhq/cardboard/internal/pkg/plans"
)

type ApiRouter struct {
	engine *plans.Service
}

func NewApiRouter(engine *plans.Service) *ApiRouter {
	return &ApiRouter{engine: engine}
}

func (h *ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Cardboard API is online",
		})
	})

	v1 := api.Group("/v1")

	planController := controllers.NewPlanController(h.engine, repository.GetGlobalFactory().GetPlanRepository())

	// Public routes
	v1.Get("/plans", planController.HandleListPlans)
	v1.Post("/register", controllers.HandleRegister)
	v1.Post("/login", controllers.HandleLogin)

	// Authenticated routes
	auth := v1.Group("", middleware.AuthMiddleware())
	auth.Post("/logout", controllers.HandleLogout)
	auth.Get("/me", controllers.HandleGetProfile)

	auth.Get("/users/:id/plan", planController.HandleGetUserPlan)
	auth.Get("/users/:id/plan-history", planController.HandleGetUserPlanHistory)

	auth.Get("/lists", controllers.HandleGetLists)
	auth.Post("/lists", middleware.ListQuotaMiddleware(h.engine), controllers.HandleCreateList)
	auth.Put("/lists/:id", controllers.HandleUpdateList)
	auth.Delete("/lists/:id", controllers.HandleDeleteList)
	auth.Get("/lists/:id/cards", controllers.HandleGetCardsByList)

	auth.Post("/cards", controllers.HandleCreateCard)
	auth.Put("/cards/:uuid", controllers.HandleUpdateCard)
	auth.Delete("/cards/:uuid", controllers.HandleDeleteCard)
	auth.Post("/cards/:uuid/comments", controllers.HandleCreateComment)
	auth.Get("/cards/:uuid/comments", controllers.HandleGetComments)
	auth.Delete("/comments/:id", controllers.HandleDeleteComment)

	// Administrative routes
	admin := auth.Group("", middleware.AdminMiddleware())
	admin.Post("/plans", planController.HandleCreatePlan)
	admin.Put("/plans/:id", planController.HandleUpdatePlan)
	admin.Delete("/plans/:id", planController.HandleDeactivatePlan)
	admin.Get("/users", controllers.HandleListUsers)
	admin.Put("/users/:id/plan", planController.HandleAssignUserPlan)
}
