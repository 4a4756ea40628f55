// Package restapi provides the main router and initialization for REST API endpoints.
package restapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	"github.com/hydrosense/phealth-backend/database"
	"github.com/hydrosense/phealth-backend/internal/health"
	"github.com/hydrosense/phealth-backend/internal/inference"
	"github.com/hydrosense/phealth-backend/internal/simulation"
	"github.com/hydrosense/phealth-backend/restapi/modules/control"
	"github.com/hydrosense/phealth-backend/restapi/modules/segments"
	"github.com/hydrosense/phealth-backend/restapi/modules/stream"
)

// SetupRoutes configures all REST API routes, the streaming endpoints and
// the GraphQL endpoint.
func SetupRoutes(app *fiber.App, store *database.Store, mgr *simulation.Manager,
	mapper *health.Mapper, svc *inference.Service, schema graphql.Schema,
	logger *zap.SugaredLogger) {

	// API Group /api/v1
	api := app.Group("/api/v1")

	// GraphQL Route - Mounted within the api group to inherit path prefixes
	api.Post("/graphql", GraphQLHandler(schema))

	// Bootstrap & health reads
	api.Get("/init", segments.GetInit(mgr))
	api.Get("/health", segments.GetHealth(mgr))
	api.Get("/health/:segment", segments.GetSegmentHealth(mgr))
	api.Get("/history/:segment", segments.GetHistory(store, mgr, mapper))

	// On-demand inference
	api.Post("/predict/:segment", segments.PostPredict(store, mgr, svc, mapper))

	// Simulation clock controls
	ctl := api.Group("/control")
	ctl.Get("/status", control.GetStatus(mgr))
	ctl.Post("/speed", control.PostSpeed(mgr))
	ctl.Post("/pause", control.PostPause(mgr))
	ctl.Post("/resume", control.PostResume(mgr))
	ctl.Post("/reset", control.PostReset(mgr))

	// Live feed: websocket push plus polling fallback
	app.Get("/stream", stream.GetState(mgr))
	app.Use("/ws", stream.UpgradeGuard())
	app.Get("/ws", stream.Websocket(mgr, logger))

	logger.Info("API routes initialized successfully")
}
