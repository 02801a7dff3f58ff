package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/hafizsameer11/colala-api-sub004/internal/apperr"
	"github.com/hafizsameer11/colala-api-sub004/internal/config"
	"github.com/hafizsameer11/colala-api-sub004/internal/database"
	"github.com/hafizsameer11/colala-api-sub004/internal/events"
	"github.com/hafizsameer11/colala-api-sub004/internal/middleware"
	"github.com/hafizsameer11/colala-api-sub004/internal/routes"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	publisher := events.NewPublisher(cfg.AmqpURL)
	defer publisher.Close()

	app := fiber.New(fiber.Config{
		AppName:      "Colala Marketplace API",
		ErrorHandler: apperr.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(middleware.PrometheusMiddleware())

	routes.Register(app, db, cfg, publisher)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
