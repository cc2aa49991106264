package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/cardboardhq/cardboard/app/repository"
	"github.com/cardboardhq/cardboard/internal/pkg/cache"
	"github.com/cardboardhq/cardboard/internal/pkg/database"
	"github.com/cardboardhq/cardboard/internal/pkg/env"
	"github.com/cardboardhq/cardboard/internal/pkg/plans"
	"github.com/cardboardhq/cardboard/internal/pkg/router"
	"github.com/cardboardhq/cardboard/internal/pkg/scheduler"
)

func main() {
	app, sched := NewApplication()

	sched.Start()
	defer sched.Stop()

	// Shut the scheduler down cleanly on SIGINT/SIGTERM.
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		sched.Stop()
		_ = app.Shutdown()
	}()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() (*fiber.App, *scheduler.Scheduler) {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	engine := plans.NewServiceFromDB(database.GetDB())

	sweepInterval := 24 * time.Hour
	if hours, err := strconv.Atoi(env.GetEnv("PLAN_SWEEP_INTERVAL_HOURS", "24")); err == nil && hours > 0 {
		sweepInterval = time.Duration(hours) * time.Hour
	}
	sched := scheduler.New(engine, sweepInterval)

	app := fiber.New(fiber.Config{
		AppName: "Cardboard",
	})
	app.Use(recover.New(), logger.New())

	router.InstallRouter(app, engine)

	return app, sched
}
