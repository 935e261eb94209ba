// internal/server/handlers/websocket.go

package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"

	"chanalytics/internal/domain/analytics"
	"chanalytics/internal/logging"
	"chanalytics/internal/metrics"
)

// Subscriber is the subset of *nats.Conn the relay needs
type Subscriber interface {
	Subscribe(subject string, cb nats.MsgHandler) (*nats.Subscription, error)
}

var _ Subscriber = (*nats.Conn)(nil)

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64

	// Buffered outbound messages per client
	SendBuffer int
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 4 * 1024,
		SendBuffer:     64,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// reportClient relays report completion events to one websocket peer
type reportClient struct {
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	channel string
	config  WebSocketConfig
	sub     *nats.Subscription
	counted bool
	once    sync.Once
}

// ReportWebSocketHandler streams report completion events published on
// subject. The optional channel query parameter limits events to one channel.
func ReportWebSocketHandler(bus Subscriber, subject string, config WebSocketConfig) http.HandlerFunc {
	if config.PingPeriod <= 0 || config.SendBuffer <= 0 {
		config = DefaultWebSocketConfig()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		channelFilter := strings.TrimSpace(r.URL.Query().Get("channel"))

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to upgrade to WebSocket")
			return
		}

		client := &reportClient{
			conn:    conn,
			send:    make(chan []byte, config.SendBuffer),
			done:    make(chan struct{}),
			channel: channelFilter,
			config:  config,
		}

		if err := client.subscribe(bus, subject); err != nil {
			logging.Error().Err(err).Str("subject", subject).Msg("Failed to subscribe to report events")
			client.close()
			return
		}

		metrics.WSConnections.Inc()
		client.counted = true

		go client.writePump()
		go client.readPump()

		welcome, _ := json.Marshal(map[string]interface{}{
			"type":    "welcome",
			"channel": channelFilter,
			"time":    time.Now().UTC(),
		})
		client.enqueue(welcome)

		logging.Debug().Str("channel", channelFilter).Msg("Report WebSocket connected")
	}
}

// reportEvent is the message sent to websocket peers
type reportEvent struct {
	Type   string                  `json:"type"`
	Report analytics.ReportSummary `json:"report"`
}

func (c *reportClient) subscribe(bus Subscriber, subject string) error {
	sub, err := bus.Subscribe(subject, func(msg *nats.Msg) {
		var summary analytics.ReportSummary
		if err := json.Unmarshal(msg.Data, &summary); err != nil {
			logging.Warn().Err(err).Msg("Dropping malformed report event")
			return
		}
		if c.channel != "" && !strings.EqualFold(c.channel, summary.Channel) {
			return
		}

		data, err := json.Marshal(reportEvent{Type: "report", Report: summary})
		if err != nil {
			return
		}
		c.enqueue(data)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	c.sub = sub
	return nil
}

// enqueue queues a message without blocking the event bus. Messages for a
// slow peer are dropped.
func (c *reportClient) enqueue(data []byte) {
	select {
	case <-c.done:
	case c.send <- data:
	default:
		logging.Debug().Msg("WebSocket send buffer full, dropping event")
	}
}

// readPump drains the connection so control frames are processed
func (c *reportClient) readPump() {
	defer c.close()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Debug().Err(err).Msg("WebSocket read error")
			}
			return
		}
	}
}

// writePump pumps queued events to the WebSocket connection
func (c *reportClient) writePump() {
	ticker := time.NewTicker(c.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// close unsubscribes and closes the connection once
func (c *reportClient) close() {
	c.once.Do(func() {
		close(c.done)
		if c.sub != nil {
			c.sub.Unsubscribe()
		}
		if c.counted {
			metrics.WSConnections.Dec()
		}
		c.conn.Close()
	})
}
