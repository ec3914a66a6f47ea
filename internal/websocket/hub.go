package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MessageType определяет типы сообщений
type MessageType string

const (
	TypeConnected MessageType = "connected"
	TypePong      MessageType = "pong"
	TypeNewPost   MessageType = "new_post"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Hub держит открытые соединения и рассылает события их владельцам
type Hub struct {
	clients map[uuid.UUID]*Client

	// Клиенты по UserID (один пользователь может иметь несколько соединений)
	userClients map[uuid.UUID]map[uuid.UUID]*Client

	unregister chan *Client

	mu     sync.RWMutex
	logger *slog.Logger

	// Контекст для graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub создает новый Hub
func NewHub(logger *slog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[uuid.UUID]*Client),
		userClients: make(map[uuid.UUID]map[uuid.UUID]*Client),
		unregister:  make(chan *Client),
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Run обрабатывает отключения клиентов до Stop
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

// Stop останавливает hub и закрывает все соединения
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		close(client.Send)
		if client.Conn != nil {
			client.Conn.Close()
		}
		delete(h.clients, id)
	}
	h.userClients = make(map[uuid.UUID]map[uuid.UUID]*Client)
}

// Register добавляет клиента синхронно: после возврата ему уже доставляются события
func (h *Hub) Register(client *Client) error {
	return h.registerClient(client)
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

func (h *Hub) registerClient(client *Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.ctx.Err() != nil {
		return ErrHubStopped
	}

	h.clients[client.ID] = client

	if _, ok := h.userClients[client.UserID]; !ok {
		h.userClients[client.UserID] = make(map[uuid.UUID]*Client)
	}
	h.userClients[client.UserID][client.ID] = client

	h.logger.Debug("client registered", "client_id", client.ID, "user_id", client.UserID)
	return nil
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	if userClients, ok := h.userClients[client.UserID]; ok {
		delete(userClients, client.ID)
		if len(userClients) == 0 {
			delete(h.userClients, client.UserID)
		}
	}

	delete(h.clients, client.ID)
	close(client.Send)

	h.logger.Debug("client unregistered", "client_id", client.ID, "user_id", client.UserID)
}

// Publish отправляет событие всем соединениям перечисленных пользователей
func (h *Hub) Publish(userIDs []uuid.UUID, msgType MessageType, data interface{}) error {
	payload, err := encode(msgType, data)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, userID := range userIDs {
		for _, client := range h.userClients[userID] {
			select {
			case client.Send <- payload:
			default:
				h.logger.Warn("client send channel full", "client_id", client.ID, "user_id", userID)
			}
		}
	}
	return nil
}

// IsOnline сообщает, есть ли у пользователя открытые соединения
func (h *Hub) IsOnline(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userClients[userID]) > 0
}

func encode(msgType MessageType, data interface{}) ([]byte, error) {
	msg := Message{Type: msgType, Timestamp: time.Now().UTC()}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		msg.Data = raw
	}
	return json.Marshal(msg)
}
