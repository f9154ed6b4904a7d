package effectchain

import (
	"sync"
	"sync/atomic"
)

// Controls is the control surface for a chain. Setters may be called from any
// goroutine; Load returns an immutable snapshot.
//
// Out-of-range values are clamped: negative gain, threshold or shift becomes
// 0. NaN and infinite values are ignored and leave the parameter unchanged.
type Controls struct {
	mu    sync.Mutex // serialises read-modify-write updates
	state atomic.Pointer[State]
}

// NewControls returns Controls holding the sanitized initial state.
func NewControls(initial State) *Controls {
	c := &Controls{}
	s := initial.Sanitized(DefaultState())
	c.state.Store(&s)
	return c
}

// Load returns the current state snapshot.
func (c *Controls) Load() State {
	return *c.state.Load()
}

// Store replaces the whole state.
func (c *Controls) Store(s State) {
	c.update(func(cur *State) { *cur = s })
}

func (c *Controls) update(fn func(*State)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := *c.state.Load()
	fn(&next)
	next = next.Sanitized(*c.state.Load())
	c.state.Store(&next)
}

// SetPreBooster sets the pre-booster switch and gain.
func (c *Controls) SetPreBooster(enabled bool, gain float64) {
	c.update(func(s *State) {
		s.PreBooster.Enabled = enabled
		s.PreBooster.Gain = gain
	})
}

// SetPreBoosterEnabled toggles the pre-booster.
func (c *Controls) SetPreBoosterEnabled(enabled bool) {
	c.update(func(s *State) { s.PreBooster.Enabled = enabled })
}

// SetPreBoosterGain sets the pre-booster gain.
func (c *Controls) SetPreBoosterGain(gain float64) {
	c.update(func(s *State) { s.PreBooster.Gain = gain })
}

// SetDistortion sets the distortion switch and threshold.
func (c *Controls) SetDistortion(enabled bool, threshold float64) {
	c.update(func(s *State) {
		s.Distortion.Enabled = enabled
		s.Distortion.Threshold = threshold
	})
}

// SetDistortionEnabled toggles the distortion stage.
func (c *Controls) SetDistortionEnabled(enabled bool) {
	c.update(func(s *State) { s.Distortion.Enabled = enabled })
}

// SetDistortionThreshold sets the clip threshold in int16 sample units.
func (c *Controls) SetDistortionThreshold(threshold float64) {
	c.update(func(s *State) { s.Distortion.Threshold = threshold })
}

// SetPostBooster sets the post-booster switch and gain.
func (c *Controls) SetPostBooster(enabled bool, gain float64) {
	c.update(func(s *State) {
		s.PostBooster.Enabled = enabled
		s.PostBooster.Gain = gain
	})
}

// SetPostBoosterEnabled toggles the post-booster.
func (c *Controls) SetPostBoosterEnabled(enabled bool) {
	c.update(func(s *State) { s.PostBooster.Enabled = enabled })
}

// SetPostBoosterGain sets the post-booster gain.
func (c *Controls) SetPostBoosterGain(gain float64) {
	c.update(func(s *State) { s.PostBooster.Gain = gain })
}

// SetPhaser sets the phaser switch and shift.
func (c *Controls) SetPhaser(enabled bool, shift float64) {
	c.update(func(s *State) {
		s.Phaser.Enabled = enabled
		s.Phaser.Shift = shift
	})
}

// SetPhaserEnabled toggles the phaser.
func (c *Controls) SetPhaserEnabled(enabled bool) {
	c.update(func(s *State) { s.Phaser.Enabled = enabled })
}

// SetPhaserShift sets the phaser shift.
func (c *Controls) SetPhaserShift(shift float64) {
	c.update(func(s *State) { s.Phaser.Shift = shift })
}
