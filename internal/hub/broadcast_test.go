package hub

import (
	"encoding/json"
	"testing"

	"github.com/soar/padcheck/internal/gamepad"
)

func receive(t *testing.T, c *Client) WSMessage {
	t.Helper()
	select {
	case data := <-c.send:
		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("bad message %s: %v", data, err)
		}
		return msg
	default:
		t.Fatalf("expected a message for client on slot %d", c.Slot())
	}
	return WSMessage{}
}

func expectNone(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected message %s", data)
	default:
	}
}

func TestBroadcasterFullThenDelta(t *testing.T) {
	h := NewHub()
	viewer := NewClient(h, nil, 0)
	other := NewClient(h, nil, 1)
	h.Register(viewer)
	h.Register(other)
	b := NewBroadcaster(h, nil, 0.1)

	b.handleFrame(frame(0, []float64{0, 0, 0, 0}, gamepad.ButtonState{Index: 0}))
	if msg := receive(t, viewer); msg.Type != "full" || msg.Data == nil || msg.Slot != 0 {
		t.Fatalf("expected full state, got %+v", msg)
	}

	b.handleFrame(frame(0, []float64{0, 0, 0, 0}, gamepad.ButtonState{Index: 0}))
	expectNone(t, viewer)

	b.handleFrame(frame(0, []float64{0, 0, 0, 0}, gamepad.ButtonState{Index: 0, Pressed: true, Value: 1}))
	msg := receive(t, viewer)
	if msg.Type != "delta" || msg.Changes == nil || len(msg.Changes.Buttons) != 1 {
		t.Fatalf("expected button delta, got %+v", msg)
	}
	if !msg.Changes.Buttons[0].Pressed {
		t.Fatalf("expected pressed button in delta")
	}

	expectNone(t, other)
}

func TestBroadcasterPeriodicFullSync(t *testing.T) {
	h := NewHub()
	c := NewClient(h, nil, 0)
	h.Register(c)
	b := NewBroadcaster(h, nil, 0.1)

	b.handleFrame(frame(0, []float64{0, 0}))
	receive(t, c)
	for i := 1; i <= deltaCountSync; i++ {
		v := 0.5
		if i%2 == 0 {
			v = -0.5
		}
		b.handleFrame(frame(0, []float64{v, 0}))
		msg := receive(t, c)
		want := "delta"
		if i == deltaCountSync {
			want = "full"
		}
		if msg.Type != want {
			t.Fatalf("frame %d: expected %s, got %s", i, want, msg.Type)
		}
	}
}

func TestBroadcasterDeviceGone(t *testing.T) {
	h := NewHub()
	c := NewClient(h, nil, 3)
	h.Register(c)
	b := NewBroadcaster(h, nil, 0.1)

	b.handleFrame(frame(3, []float64{0, 0}))
	receive(t, c)

	f := frame(3, nil)
	f.Gone = true
	b.handleFrame(f)

	msg := receive(t, c)
	if msg.Type != "event" || msg.Event != EventDeviceGone || msg.Data.Connected {
		t.Fatalf("expected disconnected event, got %+v", msg)
	}
	if _, ok := b.State(3); ok {
		t.Fatalf("expected state forgotten after disconnect")
	}

	// A reconnect starts over with a full message.
	b.handleFrame(frame(3, []float64{0, 0}))
	if msg := receive(t, c); msg.Type != "full" {
		t.Fatalf("expected full after reconnect, got %s", msg.Type)
	}
}

func TestSendInitialState(t *testing.T) {
	h := NewHub()
	c := NewClient(h, nil, 5)
	h.Register(c)
	b := NewBroadcaster(h, nil, 0.1)

	b.SendInitialState(c)
	msg := receive(t, c)
	if msg.Type != "full" || msg.Data == nil || msg.Data.Slot != 5 || msg.Data.Connected {
		t.Fatalf("expected empty full state for slot 5, got %+v", msg)
	}

	stranger := NewClient(h, nil, 5)
	b.SendInitialState(stranger)
	expectNone(t, stranger)
}
