package auth

import (
	"github.com/gofiber/fiber/v3"

	"unibase/internal/db"
	"unibase/internal/events"
	"unibase/internal/models"
)

func Routes(app fiber.Router, database *db.DB, em *events.Emitter) {
	h := &handler{db: database, em: em}

	group := app.Group("/auth")

	group.Get("/ping", func(c fiber.Ctx) error {
		return c.SendString("PONG")
	})

	group.Post("/register", h.register)
	group.Post("/login", h.login)
	group.Get("/me", h.me, models.AccountMiddleware)
}
