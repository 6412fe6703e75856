package server

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/emandor/econoguide_service/internal/config"
	"github.com/emandor/econoguide_service/internal/middleware"
	"github.com/emandor/econoguide_service/internal/quiz"
)

// New wires middleware and routes. base is the parent of every request
// context; cancelling it aborts in-flight model calls.
func New(base context.Context, cfg *config.Config, svc *quiz.Service) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "econoguide_service",
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Recover())
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.RequestLog())
	app.Use(middleware.SecureHeaders())
	app.Use(middleware.Deadline(base, cfg.RequestTimeout))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	quiz.NewHandler(svc).Register(app)

	return app
}
