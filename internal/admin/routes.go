package admin

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"unibase/internal/env"
	"unibase/internal/models"
)

func Routes(app fiber.Router) {
	group := app.Group("/admin", models.AccountMiddleware)
	group.Get("/config", configHandler)
}

// configHandler exposes the effective configuration for inspection.
// Connection strings are masked; secrets never appear in a response body.
func configHandler(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"tenant_id":   env.TENANT_ID,
		"version":     env.VERSION,
		"mongo_uri":   MaskDSN(env.MONGO_URI),
		"redis_uri":   MaskDSN(env.REDIS_URI),
		"s3_endpoint": MaskDSN(env.S3_ENDPOINT),
		"s3_bucket":   env.S3_BUCKET,
	})
}

// MaskDSN hides the userinfo part of a connection string. Strings without a
// scheme are returned untouched.
func MaskDSN(dsn string) string {
	i := strings.Index(dsn, "://")
	if i < 0 {
		return dsn
	}

	rest := dsn[i+3:]
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		return dsn[:i+3] + "***:***@" + rest[at+1:]
	}

	return dsn
}
