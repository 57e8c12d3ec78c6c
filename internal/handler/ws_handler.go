package handler

import (
	"go-inventory-api/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// UpgradeOnly rejects plain HTTP requests to the websocket endpoint.
func UpgradeOnly(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.SendStatus(fiber.StatusUpgradeRequired)
}

// ChangeFeed streams hub events to the connected client.
func ChangeFeed(hub *ws.Hub) fiber.Handler {
	return websocket.New(hub.Serve)
}
