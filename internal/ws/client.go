package ws

import (
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/inklineapp/inkline/backend/internal/ratelimit"
	"github.com/inklineapp/inkline/backend/internal/room"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 64 * 1024
	sendBufferSize    = 512
	messagesPerSecond = 100
	messageBurst      = 200
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Display colors handed out round-robin as users connect. Uniqueness is
// not required, only reasonable contrast between consecutive joiners.
var palette = []string{
	"hsl(0, 70%, 60%)",
	"hsl(40, 70%, 60%)",
	"hsl(80, 70%, 60%)",
	"hsl(120, 70%, 60%)",
	"hsl(160, 70%, 60%)",
	"hsl(200, 70%, 60%)",
	"hsl(240, 70%, 60%)",
	"hsl(280, 70%, 60%)",
	"hsl(320, 70%, 60%)",
}

var paletteIndex uint64

func nextColor() string {
	i := atomic.AddUint64(&paletteIndex, 1) - 1
	return palette[i%uint64(len(palette))]
}

// One connected user: the websocket, its outbound buffer and the identity
// assigned at upgrade time
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	id          string
	color       string
	roomID      string
	room        *room.Room
	rateLimiter *ratelimit.Limiter
}

func (c *Client) UserID() string    { return c.id }
func (c *Client) UserColor() string { return c.color }

// Non-blocking send; false means the buffer was full and the message is
// dropped
func (c *Client) Enqueue(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Upgrades the connection, assigns identity and color, and hands the
// client to the hub. An empty roomID resolves to the default room.
func ServeWs(hub *Hub, roomID string, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}

	client := &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		id:          uuid.NewString(),
		color:       nextColor(),
		roomID:      roomID,
		rateLimiter: ratelimit.NewLimiter(messagesPerSecond, messageBurst),
	}

	hub.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	rateLimitWarnings := 0

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if !c.rateLimiter.Allow() {
			rateLimitWarnings++
			if rateLimitWarnings%100 == 1 {
				log.Printf("⚠️ Rate limit exceeded for user %s in room %s (warning #%d)",
					c.id, c.roomID, rateLimitWarnings)
			}
			if rateLimitWarnings > 1000 {
				log.Printf("🚫 Disconnecting user %s for excessive rate limit violations", c.id)
				return
			}
			continue
		}

		c.hub.inbound <- &inboundMessage{client: c, data: message}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
