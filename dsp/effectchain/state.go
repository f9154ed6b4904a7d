package effectchain

import (
	"math"

	"github.com/cwbudde/algo-effector/dsp/core"
)

// Defaults for a freshly constructed chain.
const (
	DefaultPreBoosterGain      = 6.0
	DefaultPostBoosterGain     = 4.0
	DefaultDistortionThreshold = 0.2 * core.MaxLevel
	DefaultPhaserShift         = 0.5
)

// BoosterState configures a gain stage.
type BoosterState struct {
	Enabled bool    `yaml:"enabled"`
	Gain    float64 `yaml:"gain"`
}

// DistortionState configures the hard clipper. Threshold is in int16 sample
// units.
type DistortionState struct {
	Enabled   bool    `yaml:"enabled"`
	Threshold float64 `yaml:"threshold"`
}

// PhaserState configures the spectral phaser.
type PhaserState struct {
	Enabled bool    `yaml:"enabled"`
	Shift   float64 `yaml:"shift"`
}

// State is the full parameter set of the chain for one cycle.
type State struct {
	PreBooster  BoosterState    `yaml:"pre_booster"`
	Distortion  DistortionState `yaml:"distortion"`
	PostBooster BoosterState    `yaml:"post_booster"`
	Phaser      PhaserState     `yaml:"phaser"`
}

// DefaultState returns the start-up parameters: only the pre-booster is on.
func DefaultState() State {
	return State{
		PreBooster:  BoosterState{Enabled: true, Gain: DefaultPreBoosterGain},
		Distortion:  DistortionState{Threshold: DefaultDistortionThreshold},
		PostBooster: BoosterState{Gain: DefaultPostBoosterGain},
		Phaser:      PhaserState{Shift: DefaultPhaserShift},
	}
}

// Bypass returns s with every stage disabled and parameters kept.
func (s State) Bypass() State {
	s.PreBooster.Enabled = false
	s.Distortion.Enabled = false
	s.PostBooster.Enabled = false
	s.Phaser.Enabled = false
	return s
}

// Sanitized returns s with negative parameters raised to 0 and non-finite
// parameters replaced by the corresponding value from fallback.
func (s State) Sanitized(fallback State) State {
	s.PreBooster.Gain = sanitize(s.PreBooster.Gain, fallback.PreBooster.Gain)
	s.Distortion.Threshold = sanitize(s.Distortion.Threshold, fallback.Distortion.Threshold)
	s.PostBooster.Gain = sanitize(s.PostBooster.Gain, fallback.PostBooster.Gain)
	s.Phaser.Shift = sanitize(s.Phaser.Shift, fallback.Phaser.Shift)
	return s
}

func sanitize(v, fallback float64) float64 {
	if !core.IsFinite(v) {
		v = fallback
	}
	return core.Clamp(v, 0, math.Inf(1))
}
