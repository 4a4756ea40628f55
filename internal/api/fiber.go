// Package api wires the HTTP surface: middleware, routes and the GraphQL
// schema over the running services.
package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/hydrosense/phealth-backend/database"
	"github.com/hydrosense/phealth-backend/graphql"
	"github.com/hydrosense/phealth-backend/internal/health"
	"github.com/hydrosense/phealth-backend/internal/inference"
	"github.com/hydrosense/phealth-backend/internal/simulation"
	"github.com/hydrosense/phealth-backend/restapi"
)

// NewFiberApp creates and configures a Fiber app with REST, streaming and
// GraphQL routes.
func NewFiberApp(store *database.Store, mgr *simulation.Manager, mapper *health.Mapper,
	svc *inference.Service, logger *zap.SugaredLogger) (*fiber.App, error) {

	schema, err := graphql.CreateSchema(store, mgr, mapper)
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:     "phealth-backend API v1.0",
		ReadTimeout: 60 * time.Second,
	})

	// Middleware
	app.Use(fiberrecover.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))

	// Open CORS for the demo dashboard
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowMethods: "GET, POST, HEAD, PUT, DELETE, PATCH, OPTIONS",
	}))

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("graphql_op", "-")
		return c.Next()
	})
	app.Use(fiberlogger.New())

	// Health check endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	// Setup REST and GraphQL routes (Pass the schema here)
	restapi.SetupRoutes(app, store, mgr, mapper, svc, schema, logger)

	return app, nil
}
