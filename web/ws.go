package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"jyu-rooms/state"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// wsClient pushes a fresh view after every state change. Only the latest
// view matters, so the send buffer holds one message and older ones are
// replaced.
type wsClient struct {
	conn   *websocket.Conn
	send   chan []byte
	closed chan struct{}
}

func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.l.Warn("websocket upgrade: %v", err)
		return
	}

	client := &wsClient{
		conn:   conn,
		send:   make(chan []byte, 1),
		closed: make(chan struct{}),
	}

	push := func(snap state.Snapshot) {
		view, err := buildView(snap, sess.scene, s.conf.ReservationBaseURL)
		if err != nil {
			s.l.Error("build view: %v", err)
			return
		}
		msg, err := json.Marshal(view)
		if err != nil {
			s.l.Error("encode view: %v", err)
			return
		}
		client.enqueue(msg)
	}

	unsubscribe := sess.ctrl.Watch(push)

	go client.writePump()
	client.readPump()

	unsubscribe()
	s.l.Debug("session %s: websocket closed", sess.id)
}

// enqueue runs under the controller lock and must not block.
func (c *wsClient) enqueue(msg []byte) {
	for {
		select {
		case c.send <- msg:
			return
		case <-c.closed:
			return
		default:
		}
		select {
		case <-c.send:
		default:
		}
	}
}

// readPump only services pings and close frames; actions go through the
// JSON API.
func (c *wsClient) readPump() {
	defer func() {
		close(c.closed)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closed:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
