// 대시보드 실시간 알림 피드 (GET /api/alerts/stream)
//
// 메시지 형식: {"type": "alert", "payload": model.Alert}

package websocket

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/bi-data-explainer/backend/internal/metrics"
	"github.com/bi-data-explainer/backend/internal/model"
)

const broadcastBuffer = 64

// Message - 클라이언트로 전송하는 envelope
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Hub maintains the set of active clients and broadcasts messages.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run owns the client set until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for client := range h.clients {
			h.drop(client)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.clients[client] = true
			metrics.WebsocketClients.Set(float64(len(h.clients)))
			h.logger.Debug("websocket client registered", zap.String("remote", client.remoteAddr()))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.logger.Debug("websocket client unregistered", zap.String("remote", client.remoteAddr()))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// 버퍼가 가득 찬 클라이언트는 제거
					h.logger.Warn("websocket client send buffer full, removing", zap.String("remote", client.remoteAddr()))
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
	metrics.WebsocketClients.Set(float64(len(h.clients)))
}

// Register hands a client to the hub loop. A stopped hub closes the client immediately.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastAlerts pushes each alert to every connected client. Messages are dropped when the
// hub backlog is full.
func (h *Hub) BroadcastAlerts(alerts []model.Alert) {
	for _, a := range alerts {
		h.publish(Message{Type: "alert", Payload: a})
	}
}

func (h *Hub) publish(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal websocket message", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("websocket broadcast backlog full, dropping message", zap.String("type", msg.Type))
	}
}
