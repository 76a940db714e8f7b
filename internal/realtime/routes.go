package realtime

import (
	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v3"

	"unibase/internal/models"
	"unibase/internal/utils"
	"unibase/internal/ws"
)

func Routes(app fiber.Router, hub *Hub) {
	app.Get("/realtime", serveHandler(hub), models.WebSocketMiddleware)
}

func serveHandler(hub *Hub) fiber.Handler {
	return func(c fiber.Ctx) error {
		var principal models.Principal
		utils.GetLocals(c, "principal", &principal)

		return ws.Upgrade(c, func(conn *websocket.Conn) {
			defer conn.Close()

			sub := hub.Subscribe(principal.ID)
			defer hub.Unsubscribe(sub)

			// Reader only watches for the client going away; inbound
			// frames carry no meaning on this channel.
			done := make(chan struct{})
			go func() {
				defer close(done)
				for {
					if _, _, err := conn.ReadMessage(); err != nil {
						return
					}
				}
			}()

			for {
				select {
				case frame, ok := <-sub.Send:
					if !ok {
						return
					}
					if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
						return
					}
				case <-done:
					return
				}
			}
		})
	}
}
