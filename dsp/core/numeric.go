package core

import "math"

// MaxLevel is the full-scale magnitude of a signed 16-bit sample.
const MaxLevel = 32768.0

// Int16 range as float64 for saturation.
const (
	MinInt16Sample = -32768.0
	MaxInt16Sample = 32767.0
)

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// SaturateInt16 converts x to int16 by truncating toward zero and then
// saturating to [-32768, 32767]. NaN maps to 0. Values never wrap.
func SaturateInt16(x float64) int16 {
	if math.IsNaN(x) {
		return 0
	}

	return int16(Clamp(math.Trunc(x), MinInt16Sample, MaxInt16Sample))
}

// QuantizeInt16 applies SaturateInt16 to every element of src and stores the
// result back into dst as float64. dst and src may alias.
func QuantizeInt16(dst, src []float64) {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = float64(SaturateInt16(src[i]))
	}
}

// LinearToDBFloor converts a linear value to dB (20*log10 convention) after
// raising it to floor. NaN and values below floor are treated as floor, so the
// result is always finite for floor > 0.
func LinearToDBFloor(linear, floor float64) float64 {
	if math.IsNaN(linear) || linear < floor {
		linear = floor
	}

	return 20 * math.Log10(linear)
}
