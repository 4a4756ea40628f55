// Package segments implements the REST API handlers for segment health reads.
package segments

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/hydrosense/phealth-backend/database"
	"github.com/hydrosense/phealth-backend/internal/features"
	"github.com/hydrosense/phealth-backend/internal/health"
	"github.com/hydrosense/phealth-backend/internal/inference"
	"github.com/hydrosense/phealth-backend/internal/simulation"
	"github.com/hydrosense/phealth-backend/model"
)

// historyWindowDays bounds chart payloads to the trailing six months.
const historyWindowDays = 180

// GetInit returns the bootstrap payload: segment list plus clock status.
func GetInit(mgr *simulation.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, state, speed := mgr.Status()
		return c.JSON(fiber.Map{
			"segments": mgr.SegmentIDs(),
			"status": fiber.Map{
				"day":   day,
				"state": state,
				"speed": speed,
			},
		})
	}
}

// GetHealth returns the current-day snapshot for every segment.
func GetHealth(mgr *simulation.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		update := mgr.CurrentUpdate()
		snapshots := make(map[string]model.SegmentHealthSnapshot, len(update.Segments))
		for id, tick := range update.Segments {
			snapshots[id] = tick.Snapshot
		}
		return c.JSON(fiber.Map{
			"day":       update.Day,
			"timestamp": update.Timestamp,
			"segments":  snapshots,
		})
	}
}

// GetSegmentHealth returns the current-day snapshot for one segment.
func GetSegmentHealth(mgr *simulation.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		update := mgr.CurrentUpdate()
		tick, ok := update.Segments[c.Params("segment")]
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Segment not found",
			})
		}
		return c.JSON(tick.Snapshot)
	}
}

// GetHistory returns the scored chart history for one segment, trailing
// window only, oldest first.
func GetHistory(store *database.Store, mgr *simulation.Manager, mapper *health.Mapper) fiber.Handler {
	return func(c *fiber.Ctx) error {
		segmentID := c.Params("segment")

		records, err := store.History(segmentID, mgr.Day())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}
		if len(records) == 0 {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Segment not found",
			})
		}

		if len(records) > historyWindowDays {
			records = records[len(records)-historyWindowDays:]
		}

		points := make([]model.HistoryPoint, len(records))
		for i, rec := range records {
			points[i] = HistoryPoint(segmentID, rec, mapper)
		}
		return c.JSON(points)
	}
}

// HistoryPoint converts one stored record into its chart row.
func HistoryPoint(segmentID string, rec model.DailyRecord, mapper *health.Mapper) model.HistoryPoint {
	return model.HistoryPoint{
		Day:       "Day " + strconv.Itoa(rec.Day),
		Score:     round1(mapper.HealthScore(segmentID, rec.RUL)),
		RUL:       round1(rec.RUL),
		Corrosion: round4(rec.Upstream.Corrosion),
	}
}

// PostPredict runs the full inference path for one segment at the current
// simulation day: stored history, feature engineering, model scoring.
func PostPredict(store *database.Store, mgr *simulation.Manager,
	svc *inference.Service, mapper *health.Mapper) fiber.Handler {
	return func(c *fiber.Ctx) error {
		segmentID := c.Params("segment")

		records, err := store.History(segmentID, mgr.Day())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}
		if len(records) == 0 {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Segment not found",
			})
		}

		// A per-request engineer keeps the handler stateless.
		vectors := features.NewEngineer().EngineerFeatures(segmentID, records)
		if len(vectors) == 0 {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"success": false,
				"message": "Not enough history to engineer features",
			})
		}

		latest := vectors[len(vectors)-1]
		rul := svc.Predict(latest)

		source := "model"
		if !svc.Ready() {
			source = "fallback"
		}

		return c.JSON(fiber.Map{
			"segment_id":   segmentID,
			"day":          latest.Day,
			"rul":          rul,
			"rul_display":  mapper.DisplayRUL(rul),
			"health_score": mapper.HealthScore(segmentID, rul),
			"source":       source,
		})
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
