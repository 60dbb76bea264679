package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chathub/internal/state"
	"chathub/pkg/types"
)

type fixedCounter int

func (c fixedCounter) Count() int { return int(c) }

func newTestServer(t *testing.T) (*Server, *state.State) {
	t.Helper()
	st := state.New(500)
	return NewServer(st, fixedCounter(3)), st
}

func doRequest(t *testing.T, srv *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func seedMessage(t *testing.T, st *state.State, room, id, body, sender string) {
	t.Helper()
	_, err := st.Messages.Append(room, &types.Message{
		ID:         id,
		Body:       body,
		SenderName: sender,
		Room:       room,
		Timestamp:  time.Now(),
		Reactions:  map[string][]string{},
	})
	require.NoError(t, err)
}

func TestHandleMessages(t *testing.T) {
	srv, st := newTestServer(t)
	seedMessage(t, st, "general", "m1", "hello", "alice")
	seedMessage(t, st, "random", "m2", "elsewhere", "bob")

	rec := doRequest(t, srv, http.MethodGet, "/api/messages/general")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var messages []types.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
	require.Len(t, messages, 1)
	assert.Equal(t, "hello", messages[0].Body)
	assert.Equal(t, "alice", messages[0].SenderName)
}

func TestHandleMessages_DefaultsToGeneral(t *testing.T) {
	srv, st := newTestServer(t)
	seedMessage(t, st, "general", "m1", "hello", "alice")

	rec := doRequest(t, srv, http.MethodGet, "/api/messages")
	require.Equal(t, http.StatusOK, rec.Code)

	var messages []types.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
	assert.Len(t, messages, 1)
}

func TestHandleMessages_UnknownRoomIsEmptyList(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/messages/nowhere")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestHandleMessages_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/messages/general")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)
}

func TestHandleUsers(t *testing.T) {
	srv, st := newTestServer(t)
	st.Sessions.Register("s1", "alice", "general")
	st.Sessions.Register("s2", "bob", "random")

	rec := doRequest(t, srv, http.MethodGet, "/api/users")
	require.Equal(t, http.StatusOK, rec.Code)

	var sessions []types.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sessions))
	require.Len(t, sessions, 2)
}

func TestHandleRooms(t *testing.T) {
	srv, st := newTestServer(t)
	seedMessage(t, st, "random", "m1", "x", "alice")

	rec := doRequest(t, srv, http.MethodGet, "/api/rooms")
	require.Equal(t, http.StatusOK, rec.Code)

	var rooms []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rooms))
	assert.Contains(t, rooms, "general")
	assert.Contains(t, rooms, "random")
}

func TestHealthCheck(t *testing.T) {
	srv, st := newTestServer(t)
	st.Sessions.Register("s1", "alice", "general")

	rec := doRequest(t, srv, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, 3, health.Connections)
	assert.Equal(t, 1, health.Sessions)
	assert.Equal(t, 1, health.Rooms)
}

func TestHandleRoot(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandleRoot_UnknownPathIs404(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodOptions, "/api/users")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
