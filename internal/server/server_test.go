package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gorilla/websocket"

	"github.com/soar/padcheck/internal/actuator"
	"github.com/soar/padcheck/internal/gamepad"
	"github.com/soar/padcheck/internal/hub"
	"github.com/soar/padcheck/internal/sampler"
	"github.com/soar/padcheck/internal/session"
)

type staticRegistry map[int]gamepad.Device

func (r staticRegistry) Devices() []gamepad.Device {
	var out []gamepad.Device
	for i := 0; i < 8; i++ {
		if d, ok := r[i]; ok {
			out = append(out, d)
		}
	}
	return out
}

func (r staticRegistry) Device(slot int) (gamepad.Device, bool, error) {
	d, ok := r[slot]
	return d, ok, nil
}

func (r staticRegistry) Events() <-chan gamepad.DeviceEvent { return nil }

type noTargets struct{}

func (noTargets) Target(int) (actuator.Target, bool) { return nil, false }

func newTestServer(t *testing.T) (*httptest.Server, *session.Session) {
	t.Helper()
	reg := staticRegistry{
		1: {ID: "pad", Slot: 1, Connected: true, Mapping: gamepad.MappingStandard,
			Buttons: make([]gamepad.ButtonState, 18), Axes: []float64{0, 0, 0, 0}},
	}
	sess := session.New(reg, sampler.NewFrameClock(time.Millisecond), noTargets{})
	sess.Open(1)
	t.Cleanup(sess.CloseAll)

	h := hub.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)

	b := hub.NewBroadcaster(h, sess.Frames(), 0.1)
	frontend := fstest.MapFS{
		"index.html": {Data: []byte("<html>\n  <body>\n    <p>padcheck</p>\n  </body>\n</html>\n")},
	}
	srv := httptest.NewServer(New(h, b, sess, frontend, "").Handler())
	t.Cleanup(srv.Close)
	return srv, sess
}

func TestDevicesEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/devices")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var devices []struct {
		Slot     int    `json:"slot"`
		Mapping  string `json:"mapping"`
		Buttons  int    `json:"buttons"`
		Haptics  bool   `json:"haptics"`
		Selected bool   `json:"selected"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&devices); err != nil {
		t.Fatal(err)
	}
	if len(devices) != 1 {
		t.Fatalf("expected 1 device, got %d", len(devices))
	}
	d := devices[0]
	if d.Slot != 1 || d.Mapping != "standard" || d.Buttons != 18 || d.Haptics || !d.Selected {
		t.Fatalf("unexpected device %+v", d)
	}
}

func TestCircularityEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/circularity")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var reports []struct {
		Slot        int    `json:"slot"`
		Stick       string `json:"stick"`
		Quality     string `json:"quality"`
		SampleCount int    `json:"sampleCount"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reports); err != nil {
		t.Fatal(err)
	}
	if len(reports) != 2 || reports[0].Stick != "left" || reports[1].Stick != "right" {
		t.Fatalf("unexpected reports %+v", reports)
	}
	if reports[0].Quality != "Excellent" || reports[0].SampleCount != 0 {
		t.Fatalf("expected an empty excellent report, got %+v", reports[0])
	}
}

func TestFrontendIsMinified(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), "padcheck") {
		t.Fatalf("expected index page, got %q", body)
	}
	if strings.Contains(string(body), "\n  ") {
		t.Fatalf("expected minified html, got %q", body)
	}
}

func TestWebSocketInitialStateAndSelect(t *testing.T) {
	srv, _ := newTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?slot=0"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var msg struct {
		Type string `json:"type"`
		Slot int    `json:"slot"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != "full" || msg.Slot != 0 {
		t.Fatalf("expected initial full state for slot 0, got %+v", msg)
	}

	if err := conn.WriteJSON(hub.ClientMessage{Type: "select_slot", Slot: 1}); err != nil {
		t.Fatal(err)
	}
	for {
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatal(err)
		}
		if msg.Type == "slot_selected" {
			break
		}
	}
	if msg.Slot != 1 {
		t.Fatalf("expected slot 1 selected, got %+v", msg)
	}
}

func TestWebSocketRejectsBadSlot(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/ws?slot=abc")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
