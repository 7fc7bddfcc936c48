package tray

import (
	_ "embed"
	"fmt"
	"log"
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"fyne.io/systray"

	"github.com/soar/padcheck/internal/gamepad"
)

const deviceRefreshInterval = 2 * time.Second

//go:embed icon.ico
var icon []byte

// ShutdownFunc is called when "Exit" is clicked
type ShutdownFunc func()

// Tray manages the system tray icon and menu
type Tray struct {
	url          string
	devices      DeviceLister
	shutdownFunc ShutdownFunc
	once         sync.Once
	shuttingDown atomic.Bool
	menuOpen     *systray.MenuItem
	menuDevices  *systray.MenuItem
	menuExit     *systray.MenuItem
}

// DeviceLister reports the connected controllers for the tooltip.
type DeviceLister interface {
	Devices() []gamepad.Device
}

// New creates a new Tray instance pointing at url
func New(url string, devices DeviceLister, shutdownFn ShutdownFunc) *Tray {
	return &Tray{
		url:          url,
		devices:      devices,
		shutdownFunc: shutdownFn,
	}
}

// Run initializes and runs the system tray (blocks until Quit())
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the tray is ready
func (t *Tray) onReady() {
	systray.SetIcon(icon)
	systray.SetTitle("padcheck")
	systray.SetTooltip(Tooltip(t.url, 0))

	t.menuOpen = systray.AddMenuItem("Open Browser", "Open web interface")
	t.menuDevices = systray.AddMenuItem("Controllers: 0", "Connected controllers")
	t.menuDevices.Disable()
	t.menuExit = systray.AddMenuItem("Exit", "Quit application")

	// Handle menu clicks in separate goroutines to prevent blocking
	go t.handleMenuClicks()

	log.Println("System tray initialized")
}

// handleMenuClicks processes menu item clicks without blocking and keeps
// the controller count current
func (t *Tray) handleMenuClicks() {
	refresh := time.NewTicker(deviceRefreshInterval)
	defer refresh.Stop()

	for {
		select {
		case <-refresh.C:
			t.refreshDevices()
		case <-t.menuOpen.ClickedCh:
			if !t.shuttingDown.Load() {
				t.openBrowser()
			}
		case <-t.menuExit.ClickedCh:
			if t.shuttingDown.CompareAndSwap(false, true) {
				t.once.Do(t.shutdownFunc)
				systray.Quit()
				return
			}
		}
	}
}

func (t *Tray) refreshDevices() {
	n := len(t.devices.Devices())
	t.menuDevices.SetTitle(fmt.Sprintf("Controllers: %d", n))
	systray.SetTooltip(Tooltip(t.url, n))
}

// Tooltip is the tray tooltip for n connected controllers.
func Tooltip(url string, n int) string {
	return fmt.Sprintf("padcheck - %s (%d controller%s)", url, n, plural(n))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// onExit is called when the tray is exiting
func (t *Tray) onExit() {
	t.shuttingDown.Store(true)
	log.Println("System tray exiting")
}

// openBrowser opens the default web browser
func (t *Tray) openBrowser() {
	// Prevent multiple browser launches during shutdown
	if t.shuttingDown.Load() {
		return
	}

	url := t.url
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
