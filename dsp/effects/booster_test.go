package effects

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-effector/internal/testutil"
)

func TestBoosterScales(t *testing.T) {
	buf := []float64{1, -2, 0.5, 0}
	Booster{Gain: 4}.ProcessInPlace(buf)

	testutil.RequireSliceNearlyEqual(t, buf, []float64{4, -8, 2, 0}, 0)
}

func TestBoosterIsLinear(t *testing.T) {
	const gain = 6
	a := testutil.DeterministicNoise(1, 1000, 256)
	b := testutil.DeterministicNoise(2, 1000, 256)

	sum := make([]float64, len(a))
	for i := range sum {
		sum[i] = a[i] + b[i]
	}

	boost := Booster{Gain: gain}
	ga := make([]float64, len(a))
	gb := make([]float64, len(b))
	gsum := make([]float64, len(sum))
	for _, pair := range []struct{ dst, src []float64 }{{ga, a}, {gb, b}, {gsum, sum}} {
		if err := boost.Process(pair.dst, pair.src); err != nil {
			t.Fatalf("Process() error = %v", err)
		}
	}

	for i := range gsum {
		if diff := math.Abs(gsum[i] - (ga[i] + gb[i])); diff > 1e-9 {
			t.Fatalf("sample %d: boost(a+b)=%g boost(a)+boost(b)=%g", i, gsum[i], ga[i]+gb[i])
		}
	}
}

func TestBoosterProcessMatchesInPlace(t *testing.T) {
	in := testutil.DeterministicSine(1000, 44100, 0.7, 64)
	want := append([]float64(nil), in...)
	Booster{Gain: -2.5}.ProcessInPlace(want)

	got := make([]float64, len(in))
	if err := (Booster{Gain: -2.5}).Process(got, in); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestBoosterLengthMismatch(t *testing.T) {
	if err := (Booster{Gain: 1}).Process(make([]float64, 3), make([]float64, 4)); err == nil {
		t.Fatal("expected length error")
	}
}
