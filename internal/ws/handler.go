package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"chathub/internal/config"
	"chathub/internal/router"
	"chathub/pkg/types"
)

// Handler upgrades HTTP requests to websocket connections and pumps inbound
// frames into the router. Each connection gets a fresh session id; joining,
// identity, and room state are driven entirely by events after the upgrade.
type Handler struct {
	registry *Registry
	router   *router.Router
	cfg      *config.WebSocketConfig
	upgrader websocket.Upgrader
}

func NewHandler(registry *Registry, rt *router.Router, cfg *config.WebSocketConfig) *Handler {
	checker := newOriginChecker(cfg.AllowedOrigins)
	return &Handler{
		registry: registry,
		router:   rt,
		cfg:      cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			HandshakeTimeout: 10 * time.Second,
			CheckOrigin:      checker.check,
		},
	}
}

// HandleWebSocket is the /ws endpoint.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	socket, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	sessionID := uuid.New().String()
	conn := NewConn(socket, sessionID, h.cfg.SendBuffer, h.cfg.WriteTimeout)

	if err := h.registry.Add(conn); err != nil {
		log.Printf("Failed to register connection: %v", err)
		_ = conn.Close()
		return
	}
	incConnections()
	log.Printf("Session connected: %s", sessionID)

	go h.readPump(conn)
}

// readPump reads frames until the connection dies, dispatching each through
// the router, then tears down all session state. No event for the session is
// processed after teardown starts.
func (h *Handler) readPump(conn *Conn) {
	defer func() {
		h.registry.Remove(conn)
		_ = conn.Close()
		h.router.HandleDisconnect(conn.SessionID())
		decConnections()
		log.Printf("Session disconnected: %s", conn.SessionID())
	}()

	conn.conn.SetReadLimit(h.cfg.ReadLimit)
	if err := conn.conn.SetReadDeadline(time.Now().Add(h.cfg.ReadTimeout)); err != nil {
		return
	}
	conn.conn.SetPongHandler(func(string) error {
		return conn.conn.SetReadDeadline(time.Now().Add(h.cfg.ReadTimeout))
	})

	go h.pingLoop(conn)

	for {
		messageType, data, err := conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Printf("Read error for session %s: %v", conn.SessionID(), err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var envelope types.Envelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			log.Printf("Dropping malformed frame from session %s: %v", conn.SessionID(), err)
			continue
		}

		_ = h.router.Dispatch(conn.SessionID(), envelope.Event, envelope.Data)
	}
}

func (h *Handler) pingLoop(conn *Conn) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			deadline := time.Now().Add(h.cfg.WriteTimeout)
			if err := conn.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		case <-conn.ctx.Done():
			return
		}
	}
}
