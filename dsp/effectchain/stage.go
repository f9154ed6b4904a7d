package effectchain

import "github.com/cwbudde/algo-effector/dsp/effects"

// Stage is one step of the chain. Process reads its parameters from s and
// transforms block in place.
type Stage interface {
	Name() string
	Enabled(s State) bool
	Process(block []float64, s State, counter uint64) error
}

type preBoosterStage struct{}

func (preBoosterStage) Name() string         { return "pre_booster" }
func (preBoosterStage) Enabled(s State) bool { return s.PreBooster.Enabled }
func (preBoosterStage) Process(block []float64, s State, _ uint64) error {
	effects.Booster{Gain: s.PreBooster.Gain}.ProcessInPlace(block)
	return nil
}

type distortionStage struct{}

func (distortionStage) Name() string         { return "distortion" }
func (distortionStage) Enabled(s State) bool { return s.Distortion.Enabled }
func (distortionStage) Process(block []float64, s State, _ uint64) error {
	effects.Distortion{Threshold: s.Distortion.Threshold}.ProcessInPlace(block)
	return nil
}

type postBoosterStage struct{}

func (postBoosterStage) Name() string         { return "post_booster" }
func (postBoosterStage) Enabled(s State) bool { return s.PostBooster.Enabled }
func (postBoosterStage) Process(block []float64, s State, _ uint64) error {
	effects.Booster{Gain: s.PostBooster.Gain}.ProcessInPlace(block)
	return nil
}

type phaserStage struct {
	phaser *effects.Phaser
}

func (phaserStage) Name() string         { return "phaser" }
func (phaserStage) Enabled(s State) bool { return s.Phaser.Enabled }
func (p phaserStage) Process(block []float64, s State, counter uint64) error {
	return p.phaser.ProcessInPlace(block, s.Phaser.Shift, counter)
}
