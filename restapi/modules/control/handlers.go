// Package control implements the REST API handlers for the simulation clock.
package control

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hydrosense/phealth-backend/internal/simulation"
)

// GetStatus reports the clock position, state and speed.
func GetStatus(mgr *simulation.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, state, speed := mgr.Status()
		return c.JSON(fiber.Map{
			"day":   day,
			"state": state,
			"speed": speed,
		})
	}
}

// PostSpeed sets the clock multiplier. Zero freezes advancement; the
// pause state is a separate control.
func PostSpeed(mgr *simulation.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			Speed float64 `json:"speed"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body: " + err.Error(),
			})
		}
		if err := mgr.SetSpeed(req.Speed); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"speed": req.Speed})
	}
}

// PostPause holds the clock.
func PostPause(mgr *simulation.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		mgr.Pause()
		return c.JSON(fiber.Map{"message": "Simulation Paused"})
	}
}

// PostResume releases a paused clock.
func PostResume(mgr *simulation.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		mgr.Resume()
		return c.JSON(fiber.Map{"message": "Simulation Resumed"})
	}
}

// PostReset rewinds the clock to the start day and resumes.
func PostReset(mgr *simulation.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		mgr.Reset()
		return c.JSON(fiber.Map{"message": "Simulation Reset"})
	}
}
