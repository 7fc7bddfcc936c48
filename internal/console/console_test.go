//go:build !windows

package console

import "testing"

func TestOnInterruptNoop(t *testing.T) {
	called := false
	rearm := OnInterrupt(func() { called = true })
	rearm()
	if called {
		t.Fatalf("expected no callback outside Windows")
	}
}
