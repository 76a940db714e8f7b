package ws

import (
	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v3"
	"github.com/valyala/fasthttp"
)

// Upgrader upgrades HTTP connections to WebSocket connections. Origins are
// not restricted; the API itself runs with open CORS.
var Upgrader = websocket.FastHTTPUpgrader{
	CheckOrigin: func(ctx *fasthttp.RequestCtx) bool {
		return true
	},
}

type requestCtxProvider interface {
	RequestCtx() *fasthttp.RequestCtx
}

// Upgrade hijacks the Fiber request and runs handler on the upgraded
// connection. The handler owns the connection's lifetime.
func Upgrade(c fiber.Ctx, handler func(conn *websocket.Conn)) error {
	provider, ok := any(c).(requestCtxProvider)
	if !ok {
		return fiber.ErrInternalServerError
	}

	return Upgrader.Upgrade(provider.RequestCtx(), handler)
}
