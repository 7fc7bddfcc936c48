package gamepad

import "math"

type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Clamp limits v to [-1, 1]. NaN reads as 0.
func Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// ApplyDeadzone returns 0 if the value is within the deadzone threshold,
// otherwise the clamped value.
func ApplyDeadzone(v float64, threshold float64) float64 {
	if math.Abs(v) < threshold {
		return 0
	}
	return Clamp(v)
}

// StickPosition maps a raw axis pair to a display position. Each component is
// deadzone-filtered independently and then multiplied by scale, so scale is
// the radius of the drawing area. Positive Y points down.
func StickPosition(xRaw, yRaw, deadzone, scale float64) Vector {
	return Vector{
		X: ApplyDeadzone(xRaw, deadzone) * scale,
		Y: ApplyDeadzone(yRaw, deadzone) * scale,
	}
}

// StickActive reports whether either component leaves the deadzone.
func StickActive(x, y, deadzone float64) bool {
	return math.Abs(x) > deadzone || math.Abs(y) > deadzone
}

// NormalizeAxis converts a raw axis value (-32768..32767) to -1.0..1.0.
func NormalizeAxis(raw int16) float64 {
	return Clamp(float64(raw) / math.MaxInt16)
}

// NormalizeTrigger converts a raw trigger value to 0.0..1.0.
func NormalizeTrigger(raw int16, rawMin, rawMax int16) float64 {
	if rawMax == rawMin {
		return 0
	}
	return clampUnit((float64(raw) - float64(rawMin)) / (float64(rawMax) - float64(rawMin)))
}
