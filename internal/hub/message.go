package hub

import (
	"time"

	"github.com/soar/padcheck/internal/actuator"
)

// WSMessage represents a WebSocket message sent from server to client.
type WSMessage struct {
	Type      string        `json:"type"`                // "full", "delta", "event", "slot_selected", "vibrate_result"
	Seq       int64         `json:"seq"`                 // Sequence number for ordering
	Timestamp int64         `json:"timestamp"`           // Unix timestamp in milliseconds
	Slot      int           `json:"slot"`                // Slot the message is about
	Event     string        `json:"event,omitempty"`     // Event name for type "event"
	Data      *DeviceState  `json:"data,omitempty"`      // Full state for type "full" or "event"
	Changes   *DeltaChanges `json:"changes,omitempty"`   // Delta changes for type "delta"
	Vibration *VibrateReply `json:"vibration,omitempty"` // Outcome for type "vibrate_result"
}

// VibrateReply is the outcome of a client "vibrate" command.
type VibrateReply struct {
	Status actuator.Status `json:"status"`
	Legacy bool            `json:"legacy,omitempty"`
	Error  string          `json:"error,omitempty"`
}

const EventDeviceGone = "device_gone"

// NewFullMessage creates a "full" type message containing complete device state.
func NewFullMessage(seq int64, state *DeviceState) *WSMessage {
	return &WSMessage{
		Type:      "full",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Slot:      state.Slot,
		Data:      state,
	}
}

// NewDeltaMessage creates a "delta" type message containing only changed fields.
func NewDeltaMessage(seq int64, slot int, changes *DeltaChanges) *WSMessage {
	return &WSMessage{
		Type:      "delta",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Slot:      slot,
		Changes:   changes,
	}
}

// NewEventMessage creates an "event" type message for special events.
func NewEventMessage(seq int64, event string, state *DeviceState) *WSMessage {
	return &WSMessage{
		Type:      "event",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Slot:      state.Slot,
		Event:     event,
		Data:      state,
	}
}

// NewSlotSelectedMessage confirms a "select_slot" command.
func NewSlotSelectedMessage(slot int) *WSMessage {
	return &WSMessage{
		Type:      "slot_selected",
		Timestamp: time.Now().UnixMilli(),
		Slot:      slot,
	}
}

// NewVibrateResultMessage reports the outcome of a "vibrate" command.
func NewVibrateResultMessage(res actuator.Result) *WSMessage {
	reply := &VibrateReply{Status: res.Status, Legacy: res.Legacy}
	if res.Err != nil {
		reply.Error = res.Err.Error()
	}
	return &WSMessage{
		Type:      "vibrate_result",
		Timestamp: time.Now().UnixMilli(),
		Slot:      res.Slot,
		Vibration: reply,
	}
}

// ClientMessage represents a message sent from the client to the server.
type ClientMessage struct {
	Type       string  `json:"type"` // "select_slot", "reset_stick", "vibrate"
	Slot       int     `json:"slot,omitempty"`
	Stick      string  `json:"stick,omitempty"`
	Intensity  float64 `json:"intensity,omitempty"`
	DurationMs int     `json:"durationMs,omitempty"`
}
