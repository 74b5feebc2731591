package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"studysync-backend/internal/middleware"
	"studysync-backend/internal/models"
)

func newTestServer(t *testing.T) (*Hub, *httptest.Server, string) {
	t.Helper()
	auth := middleware.NewJWTAuth("test-secret", time.Hour)
	hub := NewHub(nil, auth, zap.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	t.Cleanup(srv.Close)

	token, err := auth.GenerateAccessToken("user-1", "a@example.com")
	if err != nil {
		t.Fatal(err)
	}
	return hub, srv, token
}

func dial(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) models.WSMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg models.WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_RejectsMissingOrBadToken(t *testing.T) {
	_, srv, _ := newTestServer(t)
	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/"

	for _, url := range []string{base, base + "?token=garbage"} {
		_, resp, err := websocket.DefaultDialer.Dial(url, nil)
		if err == nil {
			t.Fatalf("%s: expected handshake failure", url)
		}
		if resp == nil || resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %v", url, resp)
		}
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub, srv, token := newTestServer(t)
	a := dial(t, srv, token)
	b := dial(t, srv, token)
	waitForClients(t, hub, 2)

	err := hub.Broadcast(context.Background(), models.WSMessage{
		Type:    models.WSGroupsChanged,
		Payload: models.GroupsChangedEvent{Version: "abc", GroupCount: 3},
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, conn := range []*websocket.Conn{a, b} {
		if msg := readMessage(t, conn); msg.Type != models.WSGroupsChanged {
			t.Errorf("type = %q", msg.Type)
		}
	}
}

func TestHub_GroupMessagesOnlyReachSubscribers(t *testing.T) {
	hub, srv, token := newTestServer(t)
	subscriber := dial(t, srv, token)
	other := dial(t, srv, token)
	waitForClients(t, hub, 2)

	if err := subscriber.WriteJSON(clientCommand{Action: "subscribe", GroupID: "g1"}); err != nil {
		t.Fatal(err)
	}
	if ack := readMessage(t, subscriber); ack.Type != "subscribed" {
		t.Fatalf("ack type = %q", ack.Type)
	}

	_ = hub.PublishToGroup(context.Background(), "g1", models.WSMessage{Type: models.WSNewMessage, Payload: "hi"})
	if msg := readMessage(t, subscriber); msg.Type != models.WSNewMessage {
		t.Errorf("subscriber got %q", msg.Type)
	}

	// The other client only sees the next broadcast.
	_ = hub.Broadcast(context.Background(), models.WSMessage{Type: models.WSGroupsChanged})
	if msg := readMessage(t, other); msg.Type != models.WSGroupsChanged {
		t.Errorf("non-subscriber received %q before the broadcast", msg.Type)
	}
}

func TestHub_SubscribeAcceptsAnyAuthenticatedUser(t *testing.T) {
	hub, srv, _ := newTestServer(t)
	stranger, err := hub.jwtAuth.GenerateAccessToken("user-2", "b@example.com")
	if err != nil {
		t.Fatal(err)
	}
	conn := dial(t, srv, stranger)
	waitForClients(t, hub, 1)

	if err := conn.WriteJSON(clientCommand{Action: "subscribe", GroupID: "private-group"}); err != nil {
		t.Fatal(err)
	}
	if ack := readMessage(t, conn); ack.Type != "subscribed" {
		t.Fatalf("ack type = %q", ack.Type)
	}
	_ = hub.PublishToGroup(context.Background(), "private-group", models.WSMessage{Type: models.WSNewMessage, Payload: "hi"})
	if msg := readMessage(t, conn); msg.Type != models.WSNewMessage {
		t.Errorf("got %q", msg.Type)
	}
}

func TestHub_UnregisterOnClose(t *testing.T) {
	hub, srv, token := newTestServer(t)
	conn := dial(t, srv, token)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}
