package live

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"mangasearch/pkg/models"
)

const (
	writeWait = 2 * time.Second
	// sendBuffer bounds the messages queued for one client before the hub
	// gives up on it.
	sendBuffer = 16
)

var welcomeMsg = []byte(`{"type":"welcome","transport":"websocket"}`)

// client owns one connection. Only its writer goroutine writes to ws.
type client struct {
	ws   *websocket.Conn
	send chan []byte
}

// Hub fans history events out to every connected websocket client. A
// broadcast only queues messages, so a slow reader never blocks the caller.
type Hub struct {
	mu        sync.Mutex
	wsClients map[*websocket.Conn]*client
	log       logrus.FieldLogger
}

type Stats struct {
	WSClients int `json:"ws_clients"`
}

func NewHub(log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		wsClients: make(map[*websocket.Conn]*client),
		log:       log.WithField("component", "live"),
	}
}

// AddWS registers ws and starts its writer. The welcome message is queued
// before the client becomes visible to broadcasts.
func (h *Hub) AddWS(ws *websocket.Conn) {
	c := &client{ws: ws, send: make(chan []byte, sendBuffer)}
	c.send <- welcomeMsg

	h.mu.Lock()
	h.wsClients[ws] = c
	h.mu.Unlock()

	go h.writePump(c)
}

// RemoveWS unregisters ws. Its writer closes the connection once the queue
// is closed. Safe to call more than once.
func (h *Hub) RemoveWS(ws *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(ws)
}

func (h *Hub) dropLocked(ws *websocket.Conn) {
	c, ok := h.wsClients[ws]
	if !ok {
		return
	}
	delete(h.wsClients, ws)
	close(c.send)
}

func (h *Hub) writePump(c *client) {
	defer c.ws.Close()

	for b := range c.send {
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.ws.WriteMessage(websocket.TextMessage, b); err != nil {
			h.log.WithError(err).Debug("dropping websocket client")
			h.RemoveWS(c.ws)
			return
		}
	}
}

// PublishHistory implements history.Publisher.
func (h *Hub) PublishHistory(e models.HistoryEntry) {
	h.BroadcastJSON(HistoryEvent{
		Type:        HistoryRecordedType,
		ID:          e.ID,
		SearchQuery: e.SearchQuery,
		Timestamp:   e.Timestamp,
	})
}

func (h *Hub) BroadcastJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.log.WithError(err).Error("marshal broadcast")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for ws, c := range h.wsClients {
		select {
		case c.send <- b:
		default:
			h.log.WithField("remote", ws.RemoteAddr().String()).Warn("websocket client too slow, dropping")
			h.dropLocked(ws)
		}
	}
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{WSClients: len(h.wsClients)}
}
