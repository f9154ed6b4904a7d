package effects

import (
	"fmt"

	"github.com/cwbudde/algo-effector/dsp/core"
)

// Distortion hard-clips samples to [-Threshold, +Threshold].
// A negative threshold behaves like zero.
type Distortion struct {
	Threshold float64
}

// ProcessSample clips one sample.
func (d Distortion) ProcessSample(x float64) float64 {
	t := max(d.Threshold, 0)
	return core.Clamp(x, -t, t)
}

// ProcessInPlace clips buf.
func (d Distortion) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = d.ProcessSample(x)
	}
}

// Process writes the clipped src into dst.
func (d Distortion) Process(dst, src []float64) error {
	if len(dst) != len(src) {
		return fmt.Errorf("distortion: dst length %d != src length %d", len(dst), len(src))
	}

	for i, x := range src {
		dst[i] = d.ProcessSample(x)
	}

	return nil
}
