package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"health-portal-be/internal/model"
	"health-portal-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	clusterChannel  = "cluster_events"
	broadcastTarget = "*"
	hubLogModule    = "Hub"
)

type clusterMessage struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

// Hub tracks live websocket clients per user. With Redis configured, every
// delivery is mirrored to the other instances through a pub/sub channel.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	rdb        *redis.Client
	instanceId string
	logger     logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rdb:        rdb,
		instanceId: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]struct{})
			}
			h.clients[client.UserID][client] = struct{}{}
			h.mu.Unlock()
			h.logger.Info(hubLogModule, "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.clients[client.UserID]; ok {
				if _, ok := set[client]; ok {
					delete(set, client)
					close(client.Send)
				}
				if len(set) == 0 {
					delete(h.clients, client.UserID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Connected reports how many live connections a user has on this instance.
func (h *Hub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func encodeNotification(notification model.Notification) []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})
	return data
}

// Send delivers a notification to every connection of the user.
func (h *Hub) Send(userID string, notification model.Notification) {
	data := encodeNotification(notification)
	h.deliver(userID, data)
	h.mirror(userID, data)
}

// Broadcast delivers a notification to every connected user.
func (h *Hub) Broadcast(notification model.Notification) {
	data := encodeNotification(notification)
	h.deliver(broadcastTarget, data)
	h.mirror(broadcastTarget, data)
}

func (h *Hub) deliver(target string, data []byte) {
	var slow []*Client

	h.mu.RLock()
	for userID, set := range h.clients {
		if target != broadcastTarget && userID != target {
			continue
		}
		for client := range set {
			select {
			case client.Send <- data:
			default:
				slow = append(slow, client)
			}
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn(hubLogModule, "Client send buffer full, disconnecting", map[string]interface{}{"user_id": client.UserID})
		go func(c *Client) { h.unregister <- c }(client)
	}
}

func (h *Hub) mirror(target string, data []byte) {
	if h.rdb == nil {
		return
	}
	payload, _ := json.Marshal(clusterMessage{
		Origin:       h.instanceId,
		TargetUserID: target,
		Message:      data,
	})
	if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
		h.logger.Warn(hubLogModule, "Redis publish failed", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterMessage
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn(hubLogModule, "Redis message parse error", map[string]interface{}{"error": err.Error()})
			continue
		}
		// Our own deliveries were already made locally.
		if payload.Origin == h.instanceId {
			continue
		}
		h.deliver(payload.TargetUserID, payload.Message)
	}
}
