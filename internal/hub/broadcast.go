package hub

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/soar/padcheck/internal/session"
)

const (
	fullSyncInterval = 5 * time.Second
	deltaCountSync   = 100
)

// Broadcaster listens for session frames and broadcasts them to the viewers
// of each slot.
type Broadcaster struct {
	hub      *Hub
	frames   <-chan session.Frame
	deadzone float64

	mu         sync.Mutex
	lastStates map[int]DeviceState
	deltaCount map[int]int
	seq        int64
}

func NewBroadcaster(h *Hub, frames <-chan session.Frame, deadzone float64) *Broadcaster {
	return &Broadcaster{
		hub:        h,
		frames:     frames,
		deadzone:   deadzone,
		lastStates: make(map[int]DeviceState),
		deltaCount: make(map[int]int),
	}
}

// Run starts the broadcaster loop until ctx is cancelled or the frame
// channel closes.
func (b *Broadcaster) Run(ctx context.Context) error {
	ticker := time.NewTicker(fullSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case frame, ok := <-b.frames:
			if !ok {
				return nil
			}
			b.handleFrame(frame)

		case <-ticker.C:
			b.syncAll()
		}
	}
}

func (b *Broadcaster) handleFrame(frame session.Frame) {
	state := NewDeviceState(frame, b.deadzone)

	b.mu.Lock()
	defer b.mu.Unlock()

	if frame.Gone {
		delete(b.lastStates, state.Slot)
		delete(b.deltaCount, state.Slot)
		b.seq++
		b.send(NewEventMessage(b.seq, EventDeviceGone, &state), state.Slot)
		return
	}

	last, seen := b.lastStates[state.Slot]
	b.lastStates[state.Slot] = state
	if !seen {
		b.seq++
		b.send(NewFullMessage(b.seq, &state), state.Slot)
		return
	}

	delta := ComputeDelta(last, state)
	if delta.IsEmpty() {
		return
	}

	b.seq++
	b.deltaCount[state.Slot]++

	// Send full sync periodically
	if b.deltaCount[state.Slot] >= deltaCountSync {
		b.send(NewFullMessage(b.seq, &state), state.Slot)
		b.deltaCount[state.Slot] = 0
	} else {
		b.send(NewDeltaMessage(b.seq, state.Slot, delta), state.Slot)
	}
}

func (b *Broadcaster) syncAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for slot, state := range b.lastStates {
		if !state.Connected {
			continue
		}
		b.seq++
		b.send(NewFullMessage(b.seq, &state), slot)
	}
}

// SendInitialState sends the current full state of the client's slot to a
// newly connected (or newly switched) client.
func (b *Broadcaster) SendInitialState(c *Client) {
	b.mu.Lock()
	state, ok := b.lastStates[c.Slot()]
	if !ok {
		state = DeviceState{Slot: c.Slot()}
	}
	b.seq++
	msg := NewFullMessage(b.seq, &state)
	b.mu.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling initial state: %v", err)
		return
	}
	b.hub.SendTo(c, data)
}

// State returns the last state broadcast for slot.
func (b *Broadcaster) State(slot int) (DeviceState, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.lastStates[slot]
	return s, ok
}

func (b *Broadcaster) send(msg *WSMessage, slot int) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling %s message: %v", msg.Type, err)
		return
	}
	b.hub.BroadcastToSlot(data, slot)
}
