//go:build windows

// Package console keeps Ctrl+C working on Windows while SDL owns a locked OS
// thread. SDL installs its own console control handler during init, which
// swallows the event before Go's signal handling sees it.
package console

import (
	"log"
	"sync"
	"syscall"
)

const (
	ctrlCEvent     = 0
	ctrlBreakEvent = 1
)

var (
	kernel32                  = syscall.NewLazyDLL("kernel32.dll")
	procSetConsoleCtrlHandler = kernel32.NewProc("SetConsoleCtrlHandler")

	mu       sync.Mutex
	onCtrlC  func()
	fired    bool
	callback = syscall.NewCallback(handle)
)

func handle(ctrlType uint32) uintptr {
	if ctrlType != ctrlCEvent && ctrlType != ctrlBreakEvent {
		return 0
	}
	mu.Lock()
	fn := onCtrlC
	first := !fired
	fired = true
	mu.Unlock()
	if first && fn != nil {
		fn()
	}
	return 1
}

// OnInterrupt calls fn once on the first Ctrl+C or Ctrl+Break. The returned
// function registers the handler again and must be called after SDL init.
func OnInterrupt(fn func()) (rearm func()) {
	mu.Lock()
	onCtrlC = fn
	mu.Unlock()

	register := func() {
		if ret, _, _ := procSetConsoleCtrlHandler.Call(callback, 1); ret == 0 {
			log.Printf("Warning: failed to set console control handler")
		}
	}
	register()
	return register
}
