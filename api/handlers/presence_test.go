package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"github.com/lawbridge/lawbridge-api/api/handlers"
	"github.com/lawbridge/lawbridge-api/realtime"
)

func dialWebsocket(t *testing.T, serverURL, path string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(serverURL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) realtime.Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev realtime.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("failed to read event: %v", err)
	}
	return ev
}

func TestPresence_OnlineUsersSocketHandler(t *testing.T) {
	hub := realtime.NewHub()
	p := handlers.Presence{Hub: hub}

	server := httptest.NewServer(http.HandlerFunc(p.OnlineUsersSocketHandler))
	defer server.Close()

	conn := dialWebsocket(t, server.URL, "?user_id=user-1")

	// the snapshot arrives first and nobody is online yet
	ev := readEvent(t, conn)
	assert.Equal(t, realtime.EventSync, ev.Event)
	assert.Equal(t, realtime.PresenceTopic, ev.Topic)

	// announcing ourselves marks us online and broadcasts a join
	err := conn.WriteJSON(realtime.Event{Event: realtime.EventTrack})
	assert.NoError(t, err)

	ev = readEvent(t, conn)
	assert.Equal(t, realtime.EventJoin, ev.Event)
	assert.Equal(t, "user-1", ev.Key)
	assert.True(t, hub.Tracker().IsOnline("user-1"))

	// a second member's snapshot carries the first member
	conn2 := dialWebsocket(t, server.URL, "?user_id=user-2")
	ev = readEvent(t, conn2)
	assert.Equal(t, realtime.EventSync, ev.Event)
	snapshot, ok := ev.Payload.([]interface{})
	if !ok {
		t.Fatalf("expected a list payload, got %T", ev.Payload)
	}
	assert.Len(t, snapshot, 1)
	assert.Equal(t, "user-1", snapshot[0])
}

func TestPresence_OnlineUsersSocketHandlerMissingUserID(t *testing.T) {
	p := handlers.Presence{Hub: realtime.NewHub()}

	req := httptest.NewRequest("GET", "/ws/online-users", nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.OnlineUsersSocketHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "user_id query parameter is required")
}

func TestPresence_OnlineUsersHandler(t *testing.T) {
	hub := realtime.NewHub()
	hub.Tracker().ApplySync([]string{"user-3", "user-1"})

	p := handlers.Presence{Hub: hub}

	req := httptest.NewRequest("GET", "/api/v1/online-users", nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.OnlineUsersHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"online": ["user-1", "user-3"]}`, rr.Body.String())
}
