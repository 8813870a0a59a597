package live

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Well-known topics a client can subscribe to.
const (
	TopicBracket     = "bracket"
	TopicLeaderboard = "leaderboard"
	TopicStandings   = "standings"
)

// Message types pushed to subscribers.
const (
	MessageBracketUpdated     = "BRACKET_UPDATED"
	MessageLeaderboardUpdated = "LEADERBOARD_UPDATED"
	MessageStandingsUpdated   = "STANDINGS_UPDATED"
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	Topic   string      `json:"topic,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

type Client struct {
	Hub   *Hub
	Conn  *websocket.Conn
	Send  chan []byte
	Topic string

	mu     sync.Mutex
	closed bool
}

// Hub fans live updates out to websocket subscribers grouped by topic.
// Incoming client messages are ignored; the stream is one-way.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	topics map[string]map[*Client]bool
	mu     sync.RWMutex
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		topics:     make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.topics[client.Topic]; !ok {
				h.topics[client.Topic] = make(map[*Client]bool)
			}
			h.topics[client.Topic][client] = true
			h.logger.Debug("websocket client subscribed",
				slog.String("topic", client.Topic),
				slog.Int("subscribers", len(h.topics[client.Topic])))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if subs, ok := h.topics[client.Topic]; ok {
				if _, okClient := subs[client]; okClient {
					client.closeSend()
					delete(subs, client)
					if len(subs) == 0 {
						delete(h.topics, client.Topic)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish sends a typed message to every subscriber of a topic. Slow
// clients are skipped rather than blocking the caller.
func (h *Hub) Publish(topic, messageType string, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	subs, ok := h.topics[topic]
	if !ok {
		return
	}
	raw, err := json.Marshal(Message{Type: messageType, Payload: payload, Topic: topic})
	if err != nil {
		h.logger.Error("failed to marshal websocket message",
			slog.String("topic", topic), slog.Any("error", err))
		return
	}
	for client := range subs {
		client.mu.Lock()
		if client.closed {
			client.mu.Unlock()
			continue
		}
		select {
		case client.Send <- raw:
		default:
			h.logger.Warn("dropping message for slow websocket client",
				slog.String("topic", topic))
		}
		client.mu.Unlock()
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.Send)
		c.closed = true
	}
}

func (c *Client) markClosed() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
		c.markClosed()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.markClosed()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Drain whatever queued up while we held the writer.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write(<-c.Send)
			}
			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
