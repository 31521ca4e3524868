package echoapi

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/edumentor/edumentor/services/realtime"
)

type realtimeApi struct {
	auth     *authenticator
	registry *realtime.Registry
	upgrader websocket.Upgrader
}

func registerRealtimeAPI(e *echo.Echo, jwt echo.MiddlewareFunc, auth *authenticator, registry *realtime.Registry, origins []string) {
	api := realtimeApi{
		auth:     auth,
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(origins),
		},
	}
	e.GET("/ws/:id", api.connect, jwt, auth.contextUserMiddleware())
}

// connect upgrades the request and serves the connection until the client goes away.
// The token subject must be the identity being connected.
func (api *realtimeApi) connect(ctx echo.Context) error {
	usr := contextUser(ctx)
	if usr.ID != ctx.Param("id") {
		return errInsufficientPermissions
	}

	conn, err := api.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		// the upgrader already replied to the client
		ctx.Logger().Debug(errors.Wrap(err, "upgrading connection"))
		return nil
	}
	api.registry.Serve(usr.ID, conn)
	return nil
}

func checkOrigin(origins []string) func(r *http.Request) bool {
	if len(origins) == 0 || lo.Contains(origins, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || lo.Contains(origins, origin)
	}
}
