package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"chathub/pkg/types"
)

// Conn wraps one websocket connection with a buffered outbound queue drained
// by a single writer goroutine, so concurrent fan-out never races on the
// socket and a slow reader only loses its own frames.
type Conn struct {
	conn         *websocket.Conn
	sendCh       chan []byte
	sessionID    string
	writeTimeout time.Duration
	ctx          context.Context
	cancel       context.CancelFunc
	closeOnce    sync.Once
}

// NewConn wraps conn and starts its writer goroutine. sessionID is assigned
// by the caller at upgrade time and never changes.
func NewConn(conn *websocket.Conn, sessionID string, sendBuffer int, writeTimeout time.Duration) *Conn {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Conn{
		conn:         conn,
		sendCh:       make(chan []byte, sendBuffer),
		sessionID:    sessionID,
		writeTimeout: writeTimeout,
		ctx:          ctx,
		cancel:       cancel,
	}

	go c.writeLoop()

	return c
}

func (c *Conn) writeLoop() {
	for {
		select {
		case data := <-c.sendCh:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-c.ctx.Done():
			// Queued sends for a closed connection are discarded, not
			// delivered late.
			return
		}
	}
}

// Send queues an event envelope for delivery. It never blocks: a full buffer
// drops the frame for this connection only and reports ErrSendBufferFull.
func (c *Conn) Send(event string, data any) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return ErrInvalidJSON
	}
	frame, err := json.Marshal(types.Envelope{Event: event, Data: payload})
	if err != nil {
		return ErrInvalidJSON
	}

	select {
	case c.sendCh <- frame:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		log.Printf("Dropping %s frame for session %s: send buffer full", event, c.sessionID)
		return ErrSendBufferFull
	}
}

// SessionID returns the session id bound to this connection.
func (c *Conn) SessionID() string {
	return c.sessionID
}

// Close shuts down the writer and the underlying socket. Safe to call more
// than once.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		if c.conn != nil {
			err = c.conn.Close()
		}
	})
	return err
}
