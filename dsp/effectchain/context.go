package effectchain

import "github.com/cwbudde/algo-effector/dsp/fft"

// Context provides the fixed environment a chain is built for.
type Context struct {
	SampleRate float64
	BlockSize  int

	// Backend selects the FFT implementation used by the phaser.
	Backend fft.Backend
	// SweepCycles is the phaser sweep period in cycles. Zero uses the
	// phaser's default.
	SweepCycles int
}
