package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/soar/padcheck/internal/gamepad"
	"github.com/soar/padcheck/internal/hub"
	"github.com/soar/padcheck/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local use
	},
}

func handleWebSocket(h *hub.Hub, b *hub.Broadcaster, s *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slot, _ := s.Selected()
		if q := r.URL.Query().Get("slot"); q != "" {
			n, err := strconv.Atoi(q)
			if err != nil || n < 0 {
				http.Error(w, "invalid slot", http.StatusBadRequest)
				return
			}
			slot = n
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		client := hub.NewClient(h, conn, slot)
		h.Register(client)

		// Send current state to the new client
		b.SendInitialState(client)

		go client.WritePump()
		go client.ReadPumpWithHandler(s, b.SendInitialState)
	}
}

type deviceInfo struct {
	Slot     int                    `json:"slot"`
	ID       string                 `json:"id"`
	Mapping  gamepad.MappingProfile `json:"mapping"`
	Buttons  int                    `json:"buttons"`
	Axes     int                    `json:"axes"`
	Haptics  bool                   `json:"haptics"`
	Selected bool                   `json:"selected"`
}

func handleDevices(s *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		selected, hasSelected := s.Selected()
		devices := s.Devices()
		out := make([]deviceInfo, 0, len(devices))
		for _, d := range devices {
			out = append(out, deviceInfo{
				Slot:     d.Slot,
				ID:       d.ID,
				Mapping:  d.Mapping,
				Buttons:  len(d.Buttons),
				Axes:     len(d.Axes),
				Haptics:  s.HapticsSupported(d.Slot),
				Selected: hasSelected && d.Slot == selected,
			})
		}
		writeJSON(w, out)
	}
}

func handleCircularity(s *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.Table().Reports())
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error writing JSON response: %v", err)
	}
}
