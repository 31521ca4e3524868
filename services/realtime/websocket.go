package realtime

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// time allowed to write a frame to the peer
	writeWait = 10 * time.Second

	// maximum inbound frame size; clients only receive notifications
	maxMessageSize = 4096
)

// WSChannel is a Channel over a gorilla websocket connection, pushing text frames.
type WSChannel struct {
	conn      *websocket.Conn
	closeOnce sync.Once
	closeErr  error
}

var _ Channel = (*WSChannel)(nil)

func NewWSChannel(conn *websocket.Conn) *WSChannel {
	return &WSChannel{conn: conn}
}

func (c *WSChannel) Send(frame []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, frame)
}

// Close sends a close frame (best-effort) and closes the underlying connection. It is idempotent.
func (c *WSChannel) Close() error {
	c.closeOnce.Do(func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

// Serve runs the lifecycle of identity's connection: it registers the connection, then blocks
// reading inbound frames until the peer disconnects, and finally unregisters and closes it.
// Meant to be run once per connection, on the goroutine that accepted it.
func (r *Registry) Serve(identity string, conn *websocket.Conn) {
	ch := NewWSChannel(conn)
	r.Register(identity, ch)
	r.logger.Debug(fmt.Sprintf("realtime: %s connected", identity))
	defer func() {
		r.Unregister(identity, ch)
		_ = ch.Close()
		r.logger.Debug(fmt.Sprintf("realtime: %s disconnected", identity))
	}()

	conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				r.logger.Debug(fmt.Sprintf("realtime: %s read: %v", identity, err))
			}
			return
		}
		// inbound frames carry no semantics yet
		r.logger.Debug(fmt.Sprintf("realtime: %s sent %d bytes", identity, len(data)))
	}
}
