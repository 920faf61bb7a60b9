package handlers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/peerhaven/signaling/internal/models"
	"github.com/peerhaven/signaling/internal/relay"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second

	sendQueueSize = 256
)

// Client binds one WebSocket to the coordinator. It satisfies
// registry.Sender; Deliver enqueues onto the buffered send channel that the
// write pump drains, which keeps per-destination delivery in FIFO order.
type Client struct {
	id   string
	conn *websocket.Conn
	send chan models.ServerMessage
}

func newClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		id:   id,
		conn: conn,
		send: make(chan models.ServerMessage, sendQueueSize),
	}
}

func (c *Client) ID() string {
	return c.id
}

// Deliver enqueues msg without blocking. A full queue drops the message; a
// peer that slow is about to be torn down by the transport anyway.
func (c *Client) Deliver(msg models.ServerMessage) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) readPump(coord *relay.Coordinator) {
	defer func() {
		coord.Disconnect(c.id)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for peer %s: %v", c.id, err)
			}
			break
		}
		coord.HandleCommand(c.id, raw)
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
		case msg := <-c.send:
			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("Failed to marshal %s message for peer %s: %v", msg.Type, c.id, err)
				continue
			}

			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
