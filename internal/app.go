package internal

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"

	"unibase/internal/admin"
	"unibase/internal/auth"
	"unibase/internal/db"
	"unibase/internal/documents"
	"unibase/internal/env"
	"unibase/internal/events"
	"unibase/internal/jobs"
	"unibase/internal/logger"
	"unibase/internal/notify"
	"unibase/internal/realtime"
	"unibase/internal/storage"
	"unibase/internal/utils"
)

// LiveHub is the fan-out hub SetupApp wires into the document routes.
// Exposed so tests can subscribe to the same rooms the handlers publish into.
var LiveHub *realtime.Hub

// SetupApp builds every handle once and wires the routes around them. All
// dependencies flow in explicitly; nothing hangs off package state besides
// the resolved environment.
func SetupApp(deployment string, envRoot string, appVersion string) *fiber.App {
	logger.Init()
	env.Init(envRoot, appVersion)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	database, err := db.Connect(ctx, env.MONGO_URI, env.REDIS_URI)
	if err != nil {
		logger.Sugar.Fatalw("could not connect to storage", "error", err)
		return nil
	}

	blobs, err := storage.NewBlobStore(ctx)
	if err != nil {
		logger.Sugar.Fatalw("could not reach object storage", "error", err)
		return nil
	}

	em := events.NewEmitter(database.Events, deployment)
	hub := realtime.NewHub()
	LiveHub = hub
	store := documents.NewStore(database)
	registry := jobs.NewRegistry()
	dispatcher := jobs.NewDispatcher(database.RDB)

	jobs.NewPool(database.RDB, registry, env.JOB_WORKERS).
		Start(context.Background())

	app := fiber.New(fiber.Config{
		BodyLimit: 32 * 1024 * 1024,
	})

	app.Use(cors.New())
	app.Use(limiter.New(limiter.Config{
		Max:        200,
		Expiration: time.Minute,
	}))
	app.Use(func(c fiber.Ctx) error {
		logger.Sugar.Infow("request", "method", c.Method(), "path", c.Path())
		return c.Next()
	})

	app.Get("/ping", func(c fiber.Ctx) error {
		return c.SendString("PONG")
	})

	app.Get("/version", func(c fiber.Ctx) error {
		return c.SendString("v" + env.VERSION)
	})

	app.Get("/health", healthHandler(database))

	auth.Routes(app, database, em)
	documents.Routes(app, store, hub, em)
	realtime.Routes(app, hub)
	storage.Routes(app, blobs, em)
	jobs.Routes(app, dispatcher, registry, em)
	notify.Routes(app, dispatcher, em)
	admin.Routes(app)

	return app
}

func healthHandler(database *db.DB) fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.RequestCtx(), 5*time.Second)
		defer cancel()

		if err := database.Health(ctx); err != nil {
			logger.Sugar.Errorw("health check failed", "error", err)
			return utils.Error(c, fiber.StatusInternalServerError,
				errors.New("health check failed"))
		}

		return c.JSON(fiber.Map{
			"status": "healthy",
			"db":     "connected",
			"redis":  "pinged",
		})
	}
}
