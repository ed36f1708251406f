package live

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Origin is checked against Host (the upgrader default).
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WSHandler upgrades the request and keeps the client registered until it
// disconnects. Incoming messages are ignored.
func WSHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			hub.log.WithError(err).Debug("websocket upgrade failed")
			return
		}

		hub.AddWS(ws)
		hub.log.WithField("remote", ws.RemoteAddr().String()).Info("client connected")

		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}

		hub.RemoveWS(ws)
		hub.log.Info("client disconnected")
	}
}
