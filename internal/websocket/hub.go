package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"studysync-backend/internal/middleware"
	"studysync-backend/internal/models"
)

const (
	channelPrefix    = "studysync:"
	broadcastChannel = channelPrefix + "broadcast"
	groupChannel     = channelPrefix + "group:"
	writeWait        = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	conn   *websocket.Conn
	userID string
	mu     sync.Mutex // serializes writes
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// clientCommand is sent by browsers to follow a group's chat and updates.
type clientCommand struct {
	Action  string `json:"action"` // "subscribe" or "unsubscribe"
	GroupID string `json:"groupId"`
}

// Hub fans push messages out to websocket clients. With a redis client the
// messages go through pub/sub so every server instance delivers them;
// otherwise they are delivered to local connections directly.
type Hub struct {
	mu          sync.RWMutex
	clients     map[*client]struct{}
	groups      map[string]map[*client]struct{}
	redisClient *redis.Client
	jwtAuth     *middleware.JWTAuth
	logger      *zap.Logger
}

func NewHub(redisClient *redis.Client, jwtAuth *middleware.JWTAuth, logger *zap.Logger) *Hub {
	return &Hub{
		clients:     make(map[*client]struct{}),
		groups:      make(map[string]map[*client]struct{}),
		redisClient: redisClient,
		jwtAuth:     jwtAuth,
		logger:      logger,
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Authenticate via token query param
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, err := h.jwtAuth.ParseToken(tokenStr)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, userID: userID}
	h.register(c)

	go func() {
		defer h.unregister(c)
		for {
			var cmd clientCommand
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			h.handleCommand(c, cmd)
		}
	}()
}

// handleCommand does not check group membership; knowing the group id is
// enough to subscribe.
func (h *Hub) handleCommand(c *client, cmd clientCommand) {
	groupID := strings.TrimSpace(cmd.GroupID)
	if groupID == "" {
		return
	}

	h.mu.Lock()
	switch cmd.Action {
	case "subscribe":
		if h.groups[groupID] == nil {
			h.groups[groupID] = make(map[*client]struct{})
		}
		h.groups[groupID][c] = struct{}{}
	case "unsubscribe":
		delete(h.groups[groupID], c)
		if len(h.groups[groupID]) == 0 {
			delete(h.groups, groupID)
		}
	default:
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	ack, _ := json.Marshal(models.WSMessage{
		Type:    cmd.Action + "d",
		Payload: map[string]string{"groupId": groupID},
	})
	c.write(ack)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	h.logger.Debug("websocket connected", zap.String("user_id", c.userID), zap.Int("clients", len(h.clients)))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.conn.Close()
	delete(h.clients, c)
	for groupID, members := range h.groups {
		delete(members, c)
		if len(members) == 0 {
			delete(h.groups, groupID)
		}
	}
	h.logger.Debug("websocket disconnected", zap.String("user_id", c.userID))
}

// Run relays redis pub/sub messages to local clients until ctx is done. It
// returns immediately when the hub has no redis client.
func (h *Hub) Run(ctx context.Context) {
	if h.redisClient == nil {
		return
	}
	pubsub := h.redisClient.PSubscribe(ctx, channelPrefix+"*")
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.dispatch(msg.Channel, []byte(msg.Payload))
		}
	}
}

func (h *Hub) dispatch(channel string, data []byte) {
	switch {
	case channel == broadcastChannel:
		h.deliverAll(data)
	case strings.HasPrefix(channel, groupChannel):
		h.deliverGroup(strings.TrimPrefix(channel, groupChannel), data)
	}
}

// Broadcast sends msg to every connected client.
func (h *Hub) Broadcast(ctx context.Context, msg models.WSMessage) error {
	return h.publish(ctx, broadcastChannel, msg)
}

// PublishToGroup sends msg to clients subscribed to groupID.
func (h *Hub) PublishToGroup(ctx context.Context, groupID string, msg models.WSMessage) error {
	return h.publish(ctx, groupChannel+groupID, msg)
}

func (h *Hub) publish(ctx context.Context, channel string, msg models.WSMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if h.redisClient != nil {
		return h.redisClient.Publish(ctx, channel, data).Err()
	}
	h.dispatch(channel, data)
	return nil
}

func (h *Hub) deliverAll(data []byte) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	h.send(targets, data)
}

func (h *Hub) deliverGroup(groupID string, data []byte) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.groups[groupID]))
	for c := range h.groups[groupID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	h.send(targets, data)
}

func (h *Hub) send(targets []*client, data []byte) {
	for _, c := range targets {
		if err := c.write(data); err != nil {
			h.logger.Debug("websocket write failed", zap.String("user_id", c.userID), zap.Error(err))
		}
	}
}

// ClientCount reports the number of open connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
