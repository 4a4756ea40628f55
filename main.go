// package main provides the entry point for the phealth-backend microservice:
// it seeds the simulated segment histories, starts the replay clock and
// serves the REST, streaming and GraphQL APIs.
package main

import (
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hydrosense/phealth-backend/database"
	"github.com/hydrosense/phealth-backend/internal/api"
	"github.com/hydrosense/phealth-backend/internal/config"
	"github.com/hydrosense/phealth-backend/internal/health"
	"github.com/hydrosense/phealth-backend/internal/inference"
	"github.com/hydrosense/phealth-backend/internal/simulation"
	"github.com/hydrosense/phealth-backend/internal/simulator"
	"github.com/hydrosense/phealth-backend/util"
)

var logger = util.InitLogger().Sugar()

// simulationEpoch anchors day 1 of every generated history.
var simulationEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func main() {
	catalogPath := util.GetEnvDefault("PHEALTH_CATALOG", "configs/segments.yaml")
	dbPath := util.GetEnvDefault("PHEALTH_DB", "data/phealth.db")
	modelPath := util.GetEnvDefault("PHEALTH_MODEL", "data/model.json")
	port := util.GetEnvDefault("PHEALTH_PORT", "8080")

	cfg, err := config.Load(catalogPath)
	if err != nil {
		logger.Fatalf("Failed to load segment catalog: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		logger.Fatalf("Failed to create data directory: %v", err)
	}
	store, err := database.Open(dbPath)
	if err != nil {
		logger.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	if err := seedHistories(store, cfg); err != nil {
		logger.Fatalf("Failed to seed segment histories: %v", err)
	}

	svc := inference.NewService(modelPath, logger)
	mapper := health.NewMapper(cfg.HealthProfiles())

	mgr := simulation.NewManager(store, mapper, cfg.SegmentIDs(),
		cfg.Simulation.StartDay, cfg.Simulation.MaxDay,
		time.Duration(cfg.Simulation.TickMillis)*time.Millisecond, logger)
	mgr.Start()
	defer mgr.Stop()

	app, err := api.NewFiberApp(store, mgr, mapper, svc, logger)
	if err != nil {
		logger.Fatalf("Failed to build API: %v", err)
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("Shutting down")
		if err := app.Shutdown(); err != nil {
			logger.Errorf("Shutdown error: %v", err)
		}
	}()

	logger.Infof("Serving on :%s (day %d, %d segments)",
		port, cfg.Simulation.StartDay, len(cfg.Segments))
	if err := app.Listen(":" + port); err != nil {
		logger.Fatalf("Server stopped: %v", err)
	}
}

// seedHistories generates and stores the full scenario history for every
// catalog segment that is not already present at full length. Generation is
// deterministic, so reseeding after a partial write converges to the same
// data.
func seedHistories(store *database.Store, cfg *config.Config) error {
	for _, seg := range cfg.Segments {
		latest, err := store.LatestDay(seg.ID)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			return err
		}
		if err == nil && latest >= seg.Scenario.DurationDays {
			logger.Infof("Segment %s already seeded through day %d", seg.ID, latest)
			continue
		}

		records := simulator.New(seg.Scenario.Profile()).Run(simulationEpoch)
		simulator.ApplyAdjustments(records, seg.Scenario.Adjustments)

		if err := store.ReplaceSegment(seg.ID, records); err != nil {
			return err
		}
		logger.Infof("Seeded segment %s: %d days (%s)", seg.ID, len(records), seg.Scenario.Mode)
	}
	return nil
}
