package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cardboardhq/cardboard/internal/pkg/plans"
)

// Router installs a group of routes on the app.
type Router interface {
	InstallRouter(app *fiber.App)
}

// InstallRouter wires every route group. The plan engine is threaded
// through so the entitlement endpoints and the quota middleware share one
// instance.
func InstallRouter(app *fiber.App, engine *plans.Service) {
	setup(app, NewApiRouter(engine))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
