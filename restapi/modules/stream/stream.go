// Package stream exposes the live simulation feed: a websocket push channel
// plus an HTTP polling fallback for clients that cannot upgrade.
package stream

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/hydrosense/phealth-backend/internal/simulation"
)

// GetState is the polling fallback: the current tick payload on demand.
func GetState(mgr *simulation.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(mgr.CurrentUpdate())
	}
}

// UpgradeGuard rejects plain HTTP requests on the websocket path.
func UpgradeGuard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// Websocket subscribes the client to clock ticks and forwards every update
// until the client disconnects. The first frame is sent immediately so the
// dashboard renders without waiting for the next tick.
func Websocket(mgr *simulation.Manager, logger *zap.SugaredLogger) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		id, updates := mgr.Subscribe()
		defer mgr.Unsubscribe(id)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		if err := conn.WriteJSON(mgr.CurrentUpdate()); err != nil {
			return
		}

		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				if err := conn.WriteJSON(update); err != nil {
					logger.Debugf("Websocket client %s write failed: %v", id, err)
					return
				}
			case <-done:
				return
			}
		}
	})
}
