// Package sdlinput is the SDL3 joystick backend. It owns every opened
// joystick, assigns slots to them and serves readings to the rest of the
// program as a gamepad.Registry.
package sdlinput

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/jupiterrider/purego-sdl3/sdl"

	"github.com/soar/padcheck/internal/actuator"
	"github.com/soar/padcheck/internal/gamepad"
)

// ErrNotRunning is returned by rumble requests when the SDL loop is not active.
var ErrNotRunning = errors.New("sdlinput: reader not running")

const (
	defaultPollDelay = 16 * time.Millisecond // ~60Hz
	propCapRumble    = "SDL.joystick.cap.rumble"
)

type joystickInfo struct {
	joystick *sdl.Joystick
	mapping  *gamepad.DeviceMapping
	name     string
	id       sdl.JoystickID
	slot     int
	rumble   bool
}

// slotMeta is what the slot table keeps next to each device.
type slotMeta struct {
	jsID   sdl.JoystickID
	rumble bool
}

type rumbleRequest struct {
	id   sdl.JoystickID
	low  uint16
	high uint16
	ms   uint32
	done chan error
}

// Reader reads controller input through the SDL3 Joystick API.
//
// Run must own an OS thread; everything touching SDL happens there. Other
// goroutines only see the slot table, which Run refreshes every poll.
type Reader struct {
	// SDL thread only.
	joysticks map[sdl.JoystickID]*joystickInfo

	slots gamepad.Slots[slotMeta]

	events    chan gamepad.DeviceEvent
	rumbles   chan rumbleRequest
	pollDelay time.Duration
	debug     bool
	running   atomic.Bool
	afterInit func()
}

// NewReader creates a reader polling every pollDelay (16ms when zero).
func NewReader(pollDelay time.Duration, debug bool) *Reader {
	if pollDelay <= 0 {
		pollDelay = defaultPollDelay
	}
	return &Reader{
		joysticks: make(map[sdl.JoystickID]*joystickInfo),
		events:    make(chan gamepad.DeviceEvent, 16),
		rumbles:   make(chan rumbleRequest, 8),
		pollDelay: pollDelay,
		debug:     debug,
	}
}

// AfterInit sets a hook run on the SDL thread right after SDL is initialized.
// Call it before Run.
func (r *Reader) AfterInit(fn func()) {
	r.afterInit = fn
}

// Events returns the channel on which connect/disconnect events are sent.
func (r *Reader) Events() <-chan gamepad.DeviceEvent {
	return r.events
}

// Devices returns every occupied slot in slot order.
func (r *Reader) Devices() []gamepad.Device {
	return r.slots.Devices()
}

// Device returns the latest reading for slot. Readings are replaced, never
// modified, so the returned slices are safe to keep. The slot table is empty
// whenever Run is not active.
func (r *Reader) Device(slot int) (gamepad.Device, bool, error) {
	dev, _, ok := r.slots.Get(slot)
	return dev, ok, nil
}

// Target implements actuator.Resolver. It always reflects the joystick
// currently in the slot, so a reconnect yields a new target.
func (r *Reader) Target(slot int) (actuator.Target, bool) {
	dev, meta, ok := r.slots.Get(slot)
	if !ok {
		return nil, false
	}
	if meta.rumble {
		return &rumbleTarget{reader: r, id: meta.jsID, name: dev.ID}, true
	}
	return plainTarget(dev.ID), true
}

// Run initializes SDL and runs the event+polling loop on the current thread
// until ctx is cancelled.
func (r *Reader) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if !sdl.Init(sdl.InitJoystick) {
		return fmt.Errorf("SDL init failed: %s", sdl.GetError())
	}
	defer sdl.Quit()

	log.Println("SDL3 Joystick subsystem initialized")
	if r.afterInit != nil {
		r.afterInit()
	}

	// Running before the first enumeration so rumble requests for devices
	// announced below are accepted.
	r.running.Store(true)
	defer r.running.Store(false)

	// Check for already-connected joysticks
	for _, id := range sdl.GetJoysticks() {
		r.openJoystick(id)
	}

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			r.failPendingRumbles()
			return nil
		default:
		}

		r.processEvents()
		r.processRumbles()
		r.pollState()
		sdl.DelayNS(uint64(r.pollDelay.Nanoseconds()))
	}
}

func (r *Reader) processEvents() {
	var event sdl.Event
	for sdl.PollEvent(&event) {
		switch event.Type() {
		case sdl.EventJoystickAdded:
			devEvent := event.JDevice()
			r.openJoystick(devEvent.Which)

		case sdl.EventJoystickRemoved:
			devEvent := event.JDevice()
			r.removeJoystick(devEvent.Which)

		case sdl.EventJoystickButtonDown:
			if r.debug {
				be := event.JButton()
				log.Printf("[DEBUG] Button DOWN: index=%d joystick=%d", be.Button, be.Which)
			}

		case sdl.EventJoystickButtonUp:
			if r.debug {
				be := event.JButton()
				log.Printf("[DEBUG] Button UP:   index=%d joystick=%d", be.Button, be.Which)
			}
		}
	}
}

func (r *Reader) openJoystick(instanceID sdl.JoystickID) {
	if _, exists := r.joysticks[instanceID]; exists {
		return
	}

	js := sdl.OpenJoystick(instanceID)
	if js == nil {
		log.Printf("Failed to open joystick %d: %s", instanceID, sdl.GetError())
		return
	}

	jsID := sdl.GetJoystickID(js)
	vendorID := sdl.GetJoystickVendor(js)
	productID := sdl.GetJoystickProduct(js)
	name := sdl.GetJoystickName(js)
	mapping := gamepad.GetMapping(vendorID, productID)
	rumble := sdl.GetBooleanProperty(sdl.GetJoystickProperties(js), propCapRumble, false)

	info := &joystickInfo{
		joystick: js,
		mapping:  mapping,
		name:     name,
		id:       jsID,
		rumble:   rumble,
	}
	r.joysticks[jsID] = info

	log.Printf("Joystick connected: %s (VID=%04X PID=%04X) mapping=%s axes=%d buttons=%d hats=%d rumble=%t",
		name, vendorID, productID, mapping.MappingName(),
		sdl.GetNumJoystickAxes(js), sdl.GetNumJoystickButtons(js), sdl.GetNumJoystickHats(js), rumble)

	dev := gamepad.Device{
		ID:        fmt.Sprintf("%s (Vendor: %04x Product: %04x)", name, vendorID, productID),
		Connected: true,
		Mapping:   mapping.Profile(),
	}

	info.slot = r.slots.Add(dev, slotMeta{jsID: jsID, rumble: rumble})

	log.Printf("Joystick %s assigned to slot %d", name, info.slot)
	r.emitEvent(gamepad.DeviceEvent{Type: gamepad.EventConnected, Slot: info.slot, ID: dev.ID})
}

func (r *Reader) removeJoystick(instanceID sdl.JoystickID) {
	info, exists := r.joysticks[instanceID]
	if !exists {
		return
	}

	log.Printf("Joystick disconnected: %s (slot %d)", info.name, info.slot)
	sdl.CloseJoystick(info.joystick)
	delete(r.joysticks, instanceID)

	dev, _ := r.slots.Remove(info.slot)
	r.emitEvent(gamepad.DeviceEvent{Type: gamepad.EventDisconnected, Slot: info.slot, ID: dev.ID})
}

func (r *Reader) closeAll() {
	r.slots.Clear()
	for id, info := range r.joysticks {
		sdl.CloseJoystick(info.joystick)
		delete(r.joysticks, id)
	}
}

func (r *Reader) pollState() {
	for _, info := range r.joysticks {
		if !sdl.JoystickConnected(info.joystick) {
			continue
		}
		buttons, axes := info.mapping.Apply(readRaw(info.joystick))

		r.slots.SetInput(info.slot, func(m slotMeta) bool { return m.jsID == info.id }, buttons, axes)
	}
}

func readRaw(js *sdl.Joystick) gamepad.RawInput {
	numAxes := sdl.GetNumJoystickAxes(js)
	numButtons := sdl.GetNumJoystickButtons(js)
	numHats := sdl.GetNumJoystickHats(js)

	raw := gamepad.RawInput{
		Axes:    make([]int16, max(numAxes, 0)),
		Buttons: make([]bool, max(numButtons, 0)),
		Hats:    make([]uint8, max(numHats, 0)),
	}
	for i := range raw.Axes {
		raw.Axes[i] = sdl.GetJoystickAxis(js, int32(i))
	}
	for i := range raw.Buttons {
		raw.Buttons[i] = sdl.GetJoystickButton(js, int32(i))
	}
	for i := range raw.Hats {
		raw.Hats[i] = sdl.GetJoystickHat(js, int32(i))
	}
	return raw
}

func (r *Reader) emitEvent(ev gamepad.DeviceEvent) {
	select {
	case r.events <- ev:
	default:
		// Drop if channel is full to avoid blocking the SDL thread
		log.Printf("Device event dropped: %s slot %d", ev.Type, ev.Slot)
	}
}

func (r *Reader) processRumbles() {
	for {
		select {
		case req := <-r.rumbles:
			req.done <- r.applyRumble(req)
		default:
			return
		}
	}
}

func (r *Reader) applyRumble(req rumbleRequest) error {
	info, ok := r.joysticks[req.id]
	if !ok {
		return fmt.Errorf("joystick %d is gone", req.id)
	}
	if !sdl.RumbleJoystick(info.joystick, req.low, req.high, req.ms) {
		return fmt.Errorf("rumble joystick %d: %s", req.id, sdl.GetError())
	}
	return nil
}

func (r *Reader) failPendingRumbles() {
	for {
		select {
		case req := <-r.rumbles:
			req.done <- ErrNotRunning
		default:
			return
		}
	}
}

// rumble hands a request to the SDL thread and waits for it to be applied.
func (r *Reader) rumble(ctx context.Context, id sdl.JoystickID, low, high uint16, ms uint32) error {
	if !r.running.Load() {
		return ErrNotRunning
	}
	req := rumbleRequest{id: id, low: low, high: high, ms: ms, done: make(chan error, 1)}
	select {
	case r.rumbles <- req:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
