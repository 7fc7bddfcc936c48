package tray

import "testing"

func TestTooltip(t *testing.T) {
	cases := map[int]string{
		0: "padcheck - http://localhost:8080 (0 controllers)",
		1: "padcheck - http://localhost:8080 (1 controller)",
		3: "padcheck - http://localhost:8080 (3 controllers)",
	}
	for n, want := range cases {
		if got := Tooltip("http://localhost:8080", n); got != want {
			t.Fatalf("Tooltip(%d): expected %q, got %q", n, want, got)
		}
	}
}
