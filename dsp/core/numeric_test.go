package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSaturateInt16(t *testing.T) {
	tests := []struct {
		in   float64
		want int16
	}{
		{in: 0, want: 0},
		{in: 2000, want: 2000},
		{in: 1.9, want: 1},
		{in: -1.9, want: -1},
		{in: 32767.9, want: 32767},
		{in: 40000, want: 32767},
		{in: -32768, want: -32768},
		{in: -1e9, want: -32768},
		{in: math.Inf(1), want: 32767},
		{in: math.Inf(-1), want: -32768},
		{in: math.NaN(), want: 0},
	}

	for _, tt := range tests {
		if got := SaturateInt16(tt.in); got != tt.want {
			t.Fatalf("SaturateInt16(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestQuantizeInt16InPlace(t *testing.T) {
	buf := []float64{0.4, -0.4, 70000, -70000, 123.999}
	QuantizeInt16(buf, buf)

	want := []float64{0, 0, 32767, -32768, 123}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestLinearToDBFloor(t *testing.T) {
	if got := LinearToDBFloor(10, 1e-12); math.Abs(got-20) > 1e-12 {
		t.Fatalf("LinearToDBFloor(10) = %v, want 20", got)
	}

	for _, v := range []float64{0, -1, math.NaN(), 1e-300} {
		got := LinearToDBFloor(v, 1e-12)
		if !IsFinite(got) || math.Abs(got+240) > 1e-9 {
			t.Fatalf("LinearToDBFloor(%v) = %v, want -240", v, got)
		}
	}
}
