package effectchain

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-effector/dsp/core"
	"github.com/cwbudde/algo-effector/dsp/effects"
)

// ErrBlockLength is returned when a block does not match the chain's block
// size.
var ErrBlockLength = errors.New("effectchain: block length mismatch")

// Chain applies the enabled stages in fixed order and owns the phaser
// counter. Not safe for concurrent use.
type Chain struct {
	ctx     Context
	stages  []Stage
	counter uint64
}

// New builds a Chain for ctx.BlockSize-sample blocks.
func New(ctx Context) (*Chain, error) {
	if ctx.BlockSize <= 0 {
		return nil, fmt.Errorf("effectchain: block size must be > 0: %d", ctx.BlockSize)
	}

	opts := []effects.PhaserOption{effects.WithPhaserBackend(ctx.Backend)}
	if ctx.SweepCycles > 0 {
		opts = append(opts, effects.WithPhaserSweepCycles(ctx.SweepCycles))
	}

	phaser, err := effects.NewPhaser(ctx.BlockSize, opts...)
	if err != nil {
		return nil, fmt.Errorf("effectchain: %w", err)
	}

	return &Chain{
		ctx: ctx,
		stages: []Stage{
			preBoosterStage{},
			distortionStage{},
			postBoosterStage{},
			phaserStage{phaser: phaser},
		},
	}, nil
}

// Context returns the chain context.
func (c *Chain) Context() Context {
	return c.ctx
}

// Stages returns the stage names in processing order.
func (c *Chain) Stages() []string {
	names := make([]string, len(c.stages))
	for i, st := range c.stages {
		names[i] = st.Name()
	}
	return names
}

// Counter returns the number of processed blocks.
func (c *Chain) Counter() uint64 {
	return c.counter
}

// Reset rewinds the phaser counter.
func (c *Chain) Reset() {
	c.counter = 0
}

// Process runs the enabled stages over block in place, then quantises every
// sample to an int16 value. The counter advances once per call whether or
// not the phaser is enabled, including when a stage fails. Quantisation
// truncates toward zero, so an FFT round trip (the phaser at shift 0) can
// leave some samples 1 LSB closer to zero than the input.
func (c *Chain) Process(block []float64, s State) error {
	if len(block) != c.ctx.BlockSize {
		return fmt.Errorf("%w: %d != %d", ErrBlockLength, len(block), c.ctx.BlockSize)
	}

	counter := c.counter
	c.counter++

	for _, st := range c.stages {
		if !st.Enabled(s) {
			continue
		}
		if err := st.Process(block, s, counter); err != nil {
			return fmt.Errorf("effectchain: %s: %w", st.Name(), err)
		}
	}

	core.QuantizeInt16(block, block)

	return nil
}
