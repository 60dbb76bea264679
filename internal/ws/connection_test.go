package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"chathub/pkg/types"
)

// socketPair upgrades a loopback connection and returns both ends.
func socketPair(t *testing.T) (server, client *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	serverCh := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		serverCh <- conn
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	select {
	case server = <-serverCh:
	case <-time.After(2 * time.Second):
		t.Fatal("server side never upgraded")
	}
	t.Cleanup(func() { server.Close() })

	return server, client
}

func TestConn_SendDeliversEnvelope(t *testing.T) {
	serverSide, clientSide := socketPair(t)
	conn := NewConn(serverSide, "s1", 10, time.Second)
	defer conn.Close()

	if err := conn.Send(types.EventReceiveMessage, types.Message{ID: "m1", Body: "hello"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	clientSide.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := clientSide.ReadMessage()
	if err != nil {
		t.Fatalf("client read failed: %v", err)
	}

	var env types.Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		t.Fatalf("frame is not an envelope: %v", err)
	}
	if env.Event != types.EventReceiveMessage {
		t.Errorf("expected event %q, got %q", types.EventReceiveMessage, env.Event)
	}

	var msg types.Message
	if err := json.Unmarshal(env.Data, &msg); err != nil {
		t.Fatalf("payload decode failed: %v", err)
	}
	if msg.ID != "m1" || msg.Body != "hello" {
		t.Errorf("unexpected payload: %+v", msg)
	}
}

func TestConn_SendAfterCloseFails(t *testing.T) {
	serverSide, _ := socketPair(t)
	conn := NewConn(serverSide, "s1", 10, time.Second)

	if err := conn.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}

	if err := conn.Send(types.EventSystem, types.SystemPayload{Event: "x"}); err != ErrConnectionClosed {
		t.Errorf("expected ErrConnectionClosed, got %v", err)
	}
}

func TestConn_SendUnmarshalableData(t *testing.T) {
	serverSide, _ := socketPair(t)
	conn := NewConn(serverSide, "s1", 10, time.Second)
	defer conn.Close()

	if err := conn.Send(types.EventSystem, make(chan int)); err != ErrInvalidJSON {
		t.Errorf("expected ErrInvalidJSON, got %v", err)
	}
}
