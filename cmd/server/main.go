package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"

	"unibase/internal"
	"unibase/internal/env"
)

func main() {
	deployment := flag.String("deployment", "", "deployment profile (dev|test|prod)")
	portFlag := flag.String("port", "", "port to listen on")
	envRoot := flag.String("env-root", "", "directory containing environment files")
	appVersion := flag.String("app-version", "", "application version override")

	flag.Parse()

	deploy := strings.TrimSpace(*deployment)
	if deploy == "" {
		deploy = "dev"
	}

	port := strings.TrimSpace(*portFlag)
	if port == "" {
		port = "8000"
	}

	app := internal.SetupApp(deploy, *envRoot, *appVersion)

	fmt.Println("APP VERSION:", env.VERSION)

	if err := app.Listen(fmt.Sprintf(":%s", port), fiber.ListenConfig{
		EnablePrefork: env.PREFORK,
	}); err != nil {
		log.Fatalf("Error listening on port %s: %v", port, err)
	}
}
