package effects

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// Booster multiplies every sample by a constant gain.
//
// Booster is stateless; a zero value passes silence through.
type Booster struct {
	Gain float64
}

// ProcessInPlace scales buf by the gain.
func (b Booster) ProcessInPlace(buf []float64) {
	floats.Scale(b.Gain, buf)
}

// Process writes src scaled by the gain into dst.
func (b Booster) Process(dst, src []float64) error {
	if len(dst) != len(src) {
		return fmt.Errorf("booster: dst length %d != src length %d", len(dst), len(src))
	}

	vecmath.ScaleBlock(dst, src, b.Gain)

	return nil
}
