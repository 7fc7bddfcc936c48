package circularity

import (
	"fmt"
	"sort"
	"sync"

	"github.com/soar/padcheck/internal/gamepad"
)

type Stick int

const (
	Left Stick = iota
	Right
)

func (s Stick) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// ParseStick accepts "left" or "right".
func ParseStick(name string) (Stick, error) {
	switch name {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return 0, fmt.Errorf("unknown stick %q", name)
}

// axes returns the standard axis indices of the stick.
func (s Stick) axes() (int, int) {
	if s == Left {
		return gamepad.AxisLeftX, gamepad.AxisLeftY
	}
	return gamepad.AxisRightX, gamepad.AxisRightY
}

type Key struct {
	Slot  int
	Stick Stick
}

// Report is the stats of one stick with its classification.
type Report struct {
	Slot    int     `json:"slot"`
	Stick   string  `json:"stick"`
	Quality Quality `json:"quality"`
	Stats
}

// Table owns the estimators of every stick of every slot being analysed.
type Table struct {
	mu         sync.RWMutex
	estimators map[Key]*Estimator
}

func NewTable() *Table {
	return &Table{estimators: make(map[Key]*Estimator)}
}

// Open creates the estimators for slot if they do not exist yet.
func (t *Table) Open(slot int) {
	t.estimator(Key{slot, Left})
	t.estimator(Key{slot, Right})
}

func (t *Table) estimator(k Key) *Estimator {
	t.mu.RLock()
	e, ok := t.estimators[k]
	t.mu.RUnlock()
	if ok {
		return e
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok = t.estimators[k]; !ok {
		e = NewEstimator()
		t.estimators[k] = e
	}
	return e
}

// Observe feeds the stick axes of a snapshot into the slot's estimators.
// A stick whose axes the device lacks is left untouched.
func (t *Table) Observe(s gamepad.DeviceSnapshot) {
	for _, stick := range []Stick{Left, Right} {
		xi, yi := stick.axes()
		x, okx := s.Axis(xi)
		y, oky := s.Axis(yi)
		if !okx || !oky {
			continue
		}
		t.estimator(Key{s.Slot, stick}).Update(x, y)
	}
}

// Stats returns the current stats of one stick, zero when never opened.
func (t *Table) Stats(slot int, stick Stick) Stats {
	t.mu.RLock()
	e, ok := t.estimators[Key{slot, stick}]
	t.mu.RUnlock()
	if !ok {
		return Stats{}
	}
	return e.Stats()
}

// Reset zeroes one stick. The other stick of the slot is not touched.
func (t *Table) Reset(slot int, stick Stick) {
	t.estimator(Key{slot, stick}).Reset()
}

// Drop forgets both sticks of slot, used when the device disconnects.
func (t *Table) Drop(slot int) {
	t.mu.Lock()
	delete(t.estimators, Key{slot, Left})
	delete(t.estimators, Key{slot, Right})
	t.mu.Unlock()
}

// Reports lists every open stick ordered by slot then stick.
func (t *Table) Reports() []Report {
	t.mu.RLock()
	out := make([]Report, 0, len(t.estimators))
	for k, e := range t.estimators {
		st := e.Stats()
		out = append(out, Report{Slot: k.Slot, Stick: k.Stick.String(), Quality: st.Quality(), Stats: st})
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Slot != out[j].Slot {
			return out[i].Slot < out[j].Slot
		}
		return out[i].Stick < out[j].Stick
	})
	return out
}
