package gamepad

import "testing"

type owner struct{ id int }

func TestSlotsVisibleAsSoonAsAdded(t *testing.T) {
	var s Slots[owner]
	slot := s.Add(Device{ID: "pad", Connected: true}, owner{1})

	// A consumer reacting to the connect event must find the device.
	dev, meta, ok := s.Get(slot)
	if !ok || dev.ID != "pad" || dev.Slot != slot || meta.id != 1 {
		t.Fatalf("expected device in slot %d, got %+v %+v %v", slot, dev, meta, ok)
	}
	if got := s.Devices(); len(got) != 1 || got[0].Slot != slot {
		t.Fatalf("expected one listed device, got %+v", got)
	}
}

func TestSlotsLowestFree(t *testing.T) {
	var s Slots[owner]
	a := s.Add(Device{ID: "a"}, owner{1})
	b := s.Add(Device{ID: "b"}, owner{2})
	c := s.Add(Device{ID: "c"}, owner{3})
	if a != 0 || b != 1 || c != 2 {
		t.Fatalf("expected slots 0,1,2, got %d,%d,%d", a, b, c)
	}

	if dev, ok := s.Remove(1); !ok || dev.ID != "b" {
		t.Fatalf("expected to remove b, got %+v %v", dev, ok)
	}
	if _, _, ok := s.Get(1); ok {
		t.Fatalf("expected slot 1 empty")
	}
	if d := s.Add(Device{ID: "d"}, owner{4}); d != 1 {
		t.Fatalf("expected reuse of slot 1, got %d", d)
	}
	if _, ok := s.Remove(7); ok {
		t.Fatalf("expected removing an unknown slot to fail")
	}
}

func TestSlotsSetInputChecksOwner(t *testing.T) {
	var s Slots[owner]
	slot := s.Add(Device{ID: "pad"}, owner{1})
	before, _, _ := s.Get(slot)

	if s.SetInput(slot, func(o owner) bool { return o.id == 2 }, nil, []float64{1}) {
		t.Fatalf("expected a stale owner to be rejected")
	}
	if !s.SetInput(slot, func(o owner) bool { return o.id == 1 }, nil, []float64{0.5, -0.5}) {
		t.Fatalf("expected the owner to update its slot")
	}
	after, _, _ := s.Get(slot)
	if len(after.Axes) != 2 || after.Axes[0] != 0.5 {
		t.Fatalf("expected new axes, got %v", after.Axes)
	}
	if len(before.Axes) != 0 {
		t.Fatalf("earlier readings must not change, got %v", before.Axes)
	}
}

func TestSlotsClear(t *testing.T) {
	var s Slots[owner]
	s.Add(Device{ID: "pad"}, owner{1})
	s.Clear()
	if _, _, ok := s.Get(0); ok || len(s.Devices()) != 0 {
		t.Fatalf("expected an empty table after Clear")
	}
}
