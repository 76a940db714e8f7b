package auth

import (
	"flag"
	"os"
	"testing"

	"github.com/gofiber/fiber/v3"

	"unibase/internal"
)

var app *fiber.App

func TestMain(m *testing.M) {
	envRoot := flag.String("env-root", "", "directory containing environment files")

	flag.Parse()

	app = internal.SetupApp("test", *envRoot, "1.0.0-test")

	os.Exit(m.Run())
}
