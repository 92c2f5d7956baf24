package mapview

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"route_planner/internal/models"
)

const (
	writeWait      = 10 * time.Second
	clientSendSize = 8
)

// viewer is one connected map page. All writes to conn go through send so the
// connection only ever has a single writer.
type viewer struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub keeps the latest map view and pushes every new one to connected viewers.
type Hub struct {
	mu        sync.Mutex
	viewers   map[*viewer]bool
	latest    []byte
	broadcast chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewHub creates a hub and starts its broadcast loop.
func NewHub() *Hub {
	h := &Hub{
		viewers:   make(map[*viewer]bool),
		broadcast: make(chan []byte, 100),
		done:      make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case msg := <-h.broadcast:
			h.mu.Lock()
			for v := range h.viewers {
				select {
				case v.send <- msg:
				default:
					logrus.WithField("conn_ptr", fmt.Sprintf("%p", v.conn)).Warn("Map viewer too slow, dropping update.")
				}
			}
			h.mu.Unlock()
		case <-h.done:
			return
		}
	}
}

// Publish implements Sink.
func (h *Hub) Publish(view models.MapView) {
	msg, err := json.Marshal(view)
	if err != nil {
		logrus.WithError(err).Error("Failed to encode map view.")
		return
	}

	h.mu.Lock()
	h.latest = msg
	h.mu.Unlock()

	select {
	case h.broadcast <- msg:
	default:
		logrus.Warn("Map broadcast channel full, dropping update.")
	}
}

// Latest returns the most recently published view, or nil before the first one.
func (h *Hub) Latest() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

// Serve registers conn as a viewer and blocks until it disconnects. The
// current view is sent first so a new page renders immediately.
func (h *Hub) Serve(conn *websocket.Conn) {
	v := &viewer{conn: conn, send: make(chan []byte, clientSendSize)}

	h.mu.Lock()
	h.viewers[v] = true
	if h.latest != nil {
		v.send <- h.latest
	}
	h.mu.Unlock()
	logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Info("Map viewer registered.")

	go h.writePump(v)
	defer h.unregister(v)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logrus.WithError(err).Debug("Map viewer read ended.")
			}
			return
		}
		logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Debug("Map viewer sent unexpected message. Ignoring.")
	}
}

func (h *Hub) writePump(v *viewer) {
	for msg := range v.send {
		v.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := v.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logrus.WithError(err).Warn("Failed to send map view to viewer.")
			v.conn.Close()
			return
		}
	}
	v.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Hub) unregister(v *viewer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.viewers[v] {
		delete(h.viewers, v)
		close(v.send)
		logrus.WithField("conn_ptr", fmt.Sprintf("%p", v.conn)).Info("Map viewer unregistered.")
	}
}

// ViewerCount reports how many viewers are connected.
func (h *Hub) ViewerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.viewers)
}

// Close stops the broadcast loop. Connected viewers are left to disconnect.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}
