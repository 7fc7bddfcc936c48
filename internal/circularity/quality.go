package circularity

import (
	"fmt"
	"math"
)

type Quality int

const (
	Excellent Quality = iota
	Good
	Fair
	Poor
	VeryPoor
)

var qualityBands = []struct {
	below   float64
	quality Quality
}{
	{0.05, Excellent},
	{0.10, Good},
	{0.15, Fair},
	{0.20, Poor},
}

// Classify maps an average error to a Quality. Every input maps to exactly
// one value; NaN and anything at or above 0.20 are VeryPoor.
func Classify(avg float64) Quality {
	if math.IsNaN(avg) {
		return VeryPoor
	}
	for _, b := range qualityBands {
		if avg < b.below {
			return b.quality
		}
	}
	return VeryPoor
}

func (q Quality) String() string {
	switch q {
	case Excellent:
		return "Excellent"
	case Good:
		return "Good"
	case Fair:
		return "Fair"
	case Poor:
		return "Poor"
	}
	return "Very Poor"
}

func (q Quality) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

func (q *Quality) UnmarshalText(b []byte) error {
	for c := Excellent; c <= VeryPoor; c++ {
		if c.String() == string(b) {
			*q = c
			return nil
		}
	}
	return fmt.Errorf("circularity: unknown quality %q", b)
}

// Color is the badge color the frontend uses for q.
func (q Quality) Color() string {
	switch q {
	case Excellent:
		return "#4CAF50"
	case Good:
		return "#8BC34A"
	case Fair:
		return "#FFC107"
	case Poor:
		return "#FF9800"
	}
	return "#F44336"
}
