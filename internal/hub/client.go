package hub

import (
	"context"
	"encoding/json"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/soar/padcheck/internal/actuator"
	"github.com/soar/padcheck/internal/circularity"
)

// vibrateTimeout bounds one reset+play sequence started by a client.
const vibrateTimeout = 2 * time.Second

// CommandHandler executes client commands against the session.
type CommandHandler interface {
	Select(slot int) bool
	ResetStick(slot int, stick circularity.Stick)
	Vibrate(ctx context.Context, slot int, intensity float64, durationMs int) actuator.Result
}

// Client represents a connected WebSocket client.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	slot atomic.Int64 // slot this client is viewing
}

// NewClient creates a new Client attached to the hub, viewing slot.
func NewClient(hub *Hub, conn *websocket.Conn, slot int) *Client {
	c := &Client{
		id:   uuid.NewString(),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
	c.slot.Store(int64(slot))
	return c
}

func (c *Client) ID() string { return c.id }

// Slot returns the slot this client is viewing.
func (c *Client) Slot() int {
	return int(c.slot.Load())
}

// SetSlot sets the slot this client is viewing.
func (c *Client) SetSlot(slot int) {
	c.slot.Store(int64(slot))
}

// WritePump sends messages from the send channel to the WebSocket connection.
func (c *Client) WritePump() {
	defer func() {
		c.conn.Close()
	}()

	for msg := range c.send {
		err := c.conn.WriteMessage(websocket.TextMessage, msg)
		if err != nil {
			break
		}
	}
}

// ReadPumpWithHandler reads messages from the WebSocket and handles client
// commands. onSelect is called after the client switched slots.
func (c *Client) ReadPumpWithHandler(handler CommandHandler, onSelect func(*Client)) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var clientMsg ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			log.Printf("Error parsing client message: %v", err)
			continue
		}
		c.handle(handler, clientMsg, onSelect)
	}
}

func (c *Client) handle(handler CommandHandler, msg ClientMessage, onSelect func(*Client)) {
	switch msg.Type {
	case "select_slot":
		if !handler.Select(msg.Slot) {
			log.Printf("Client %s failed to switch to slot %d: no device", c.id, msg.Slot)
			return
		}
		c.SetSlot(msg.Slot)
		c.reply(NewSlotSelectedMessage(msg.Slot))
		if onSelect != nil {
			onSelect(c)
		}
		log.Printf("Client %s switched to slot %d", c.id, msg.Slot)

	case "reset_stick":
		stick, err := circularity.ParseStick(msg.Stick)
		if err != nil {
			log.Printf("Client %s reset_stick: %v", c.id, err)
			return
		}
		handler.ResetStick(c.Slot(), stick)

	case "vibrate":
		slot := c.Slot()
		// Never block the read pump on haptics.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), vibrateTimeout)
			defer cancel()
			c.reply(NewVibrateResultMessage(handler.Vibrate(ctx, slot, msg.Intensity, msg.DurationMs)))
		}()

	default:
		log.Printf("Client %s sent unknown message type %q", c.id, msg.Type)
	}
}

func (c *Client) reply(msg *WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling %s message: %v", msg.Type, err)
		return
	}
	c.hub.SendTo(c, data)
}
