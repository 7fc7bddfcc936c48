// Package circularity scores how closely a fully deflected analog stick
// traces a unit circle. A worn or drifting stick reports distances away from
// 1.0 at full extension.
package circularity

import (
	"math"
	"sync/atomic"
)

const (
	// Deadzone is the per-axis rest threshold. Samples with both axes inside
	// it are ignored.
	Deadzone = 0.10
	// MinDistance is the smallest deflection scored. Partial pushes are
	// expected to be off-radius.
	MinDistance = 0.8
	// MaxSamples caps SampleCount. Past the cap the average keeps moving, each
	// new error weighted 1/(MaxSamples+1).
	MaxSamples = 1000
)

// Stats is the running state of one stick.
type Stats struct {
	AverageError float64 `json:"averageError"`
	SampleCount  int     `json:"sampleCount"`
}

// Quality is the classification of Stats.AverageError.
func (s Stats) Quality() Quality {
	return Classify(s.AverageError)
}

// SampleError returns the circularity error of a clamped axis pair, or false
// when the sample is not scored.
func SampleError(x, y float64) (float64, bool) {
	if math.Abs(x) < Deadzone && math.Abs(y) < Deadzone {
		return 0, false
	}
	distance := math.Hypot(x, y)
	if distance < MinDistance {
		return 0, false
	}
	return math.Abs(distance - 1.0), true
}

// Step applies one sample to s. It returns s unchanged and false when the
// sample is discarded.
func Step(s Stats, x, y float64) (Stats, bool) {
	e, ok := SampleError(x, y)
	if !ok {
		return s, false
	}
	n := float64(s.SampleCount)
	return Stats{
		AverageError: (s.AverageError*n + e) / (n + 1),
		SampleCount:  min(s.SampleCount+1, MaxSamples),
	}, true
}

// Estimator holds the Stats of one stick. Stats always returns a pair written
// by a single Update or Reset. A Reset is never overwritten by an Update that
// read the stats before it.
type Estimator struct {
	stats atomic.Pointer[Stats]
}

func NewEstimator() *Estimator {
	e := &Estimator{}
	e.stats.Store(&Stats{})
	return e
}

// Update feeds one clamped axis pair and reports whether it was scored.
func (e *Estimator) Update(x, y float64) bool {
	for {
		cur := e.stats.Load()
		next, ok := Step(*cur, x, y)
		if !ok {
			return false
		}
		if e.stats.CompareAndSwap(cur, &next) {
			return true
		}
	}
}

func (e *Estimator) Stats() Stats {
	return *e.stats.Load()
}

// Reset zeroes the stats.
func (e *Estimator) Reset() {
	e.stats.Store(&Stats{})
}
