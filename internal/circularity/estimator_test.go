package circularity

import (
	"math"
	"sync"
	"sync/atomic"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDiscardedSamplesLeaveStatsUnchanged(t *testing.T) {
	start := Stats{AverageError: 0.07, SampleCount: 12}
	samples := [][2]float64{
		{0, 0},
		{0.09, -0.09},  // inside deadzone
		{0.5, 0.5},     // distance ~0.707
		{0.79, 0},      // just short of full extension
		{-0.3, 0.6},    // partial push
		{0.099, 0.099}, // deadzone wins even though distance is small anyway
	}
	for _, s := range samples {
		got, ok := Step(start, s[0], s[1])
		if ok {
			t.Fatalf("expected sample %v to be discarded", s)
		}
		if got != start {
			t.Fatalf("expected stats unchanged for %v, got %+v", s, got)
		}
	}
}

func TestScenarioThreeSamples(t *testing.T) {
	e := NewEstimator()
	e.Update(1.0, 0)
	e.Update(0, 0.95)
	e.Update(-1.05, 0)

	st := e.Stats()
	if st.SampleCount != 3 {
		t.Fatalf("expected 3 samples, got %d", st.SampleCount)
	}
	if math.Abs(st.AverageError-0.0333) > 0.0001 {
		t.Fatalf("expected average ~0.0333, got %v", st.AverageError)
	}
	if q := st.Quality(); q != Excellent {
		t.Fatalf("expected Excellent, got %s", q)
	}
}

func TestAcceptedSampleIsRunningMean(t *testing.T) {
	s := Stats{}
	points := [][2]float64{
		{1, 0}, {0, -1}, {0.9, 0}, {0.7071, 0.7071}, {-1, -1}, {0.85, 0.1}, {0, 1},
	}
	for i := 0; i < 2500; i++ {
		p := points[i%len(points)]
		e, ok := SampleError(p[0], p[1])
		if !ok {
			t.Fatalf("expected %v to be scored", p)
		}
		next, ok := Step(s, p[0], p[1])
		if !ok {
			t.Fatalf("expected %v to be accepted", p)
		}
		lo, hi := math.Min(s.AverageError, e), math.Max(s.AverageError, e)
		if next.AverageError < lo-1e-12 || next.AverageError > hi+1e-12 {
			t.Fatalf("step %d: average %v outside [%v, %v]", i, next.AverageError, lo, hi)
		}
		wantCount := min(s.SampleCount+1, MaxSamples)
		if next.SampleCount != wantCount {
			t.Fatalf("step %d: expected count %d, got %d", i, wantCount, next.SampleCount)
		}
		s = next
	}
	if s.SampleCount != MaxSamples {
		t.Fatalf("expected saturated count, got %d", s.SampleCount)
	}
}

func TestSaturatedUpdateFormula(t *testing.T) {
	s := Stats{AverageError: 0.1, SampleCount: MaxSamples}
	next, ok := Step(s, 1.2, 0) // clamped input would be 1, but Step scores what it is given
	if !ok {
		t.Fatalf("expected sample to be accepted")
	}
	want := (0.1*MaxSamples + 0.2) / (MaxSamples + 1)
	if !approx(next.AverageError, want) {
		t.Fatalf("expected %v, got %v", want, next.AverageError)
	}
	if next.SampleCount != MaxSamples {
		t.Fatalf("expected count to stay %d, got %d", MaxSamples, next.SampleCount)
	}
}

func TestEstimatorReset(t *testing.T) {
	e := NewEstimator()
	for i := 0; i < 10; i++ {
		e.Update(0, -0.9)
	}
	if e.Stats().SampleCount != 10 {
		t.Fatalf("expected 10 samples, got %d", e.Stats().SampleCount)
	}
	e.Reset()
	if got := e.Stats(); got != (Stats{}) {
		t.Fatalf("expected zero stats after reset, got %+v", got)
	}
}

func TestEstimatorConcurrentReadsSeeConsistentPairs(t *testing.T) {
	e := NewEstimator()
	var wg sync.WaitGroup
	stop := make(chan struct{})

	// Every accepted sample has error 0, so a consistent pair always has
	// average 0 no matter the count.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			st := e.Stats()
			if st.AverageError != 0 || st.SampleCount < 0 || st.SampleCount > MaxSamples {
				t.Errorf("inconsistent stats %+v", st)
				return
			}
		}
	}()

	for i := 0; i < 5000; i++ {
		e.Update(1, 0)
	}
	close(stop)
	wg.Wait()
}

func TestResetNotLostToConcurrentUpdate(t *testing.T) {
	e := NewEstimator()
	var updates atomic.Int64
	stop := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			if e.Update(1, 0) {
				updates.Add(1)
			}
		}
	}()

	for i := 0; i < 2000; i++ {
		before := updates.Load()
		e.Reset()
		st := e.Stats()
		since := updates.Load() - before
		if int64(st.SampleCount) > since {
			close(stop)
			wg.Wait()
			t.Fatalf("reset overwritten: count=%d after reset, %d updates since", st.SampleCount, since)
		}
	}
	close(stop)
	wg.Wait()
}
