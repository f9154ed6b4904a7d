package engine

import (
	"time"

	"github.com/cwbudde/algo-effector/stats/frequency"
	timestats "github.com/cwbudde/algo-effector/stats/time"
)

// Timings records how long each phase of a cycle took.
type Timings struct {
	Read    time.Duration
	Process time.Duration
	Write   time.Duration
	Analyze time.Duration
	Total   time.Duration
}

// Summary condenses a snapshot into display-ready figures.
type Summary struct {
	Levels   timestats.Stats        // processed block, dB relative to int16 full scale
	Session  timestats.SessionStats // all output since start
	Spectral frequency.Stats        // one-sided amplitude spectrum of the window

	// PitchHz is the cepstral pitch estimate, 0 when the window is silent.
	PitchHz        float64
	PitchQuefrency int
}

// Snapshot is the analysis result of one cycle. Its slices are owned by the
// snapshot and never modified after publication, except Frequencies which is
// shared by all snapshots of an engine and is read-only.
type Snapshot struct {
	Cycle   uint64 // 1-based count of completed cycles
	Counter uint64 // phaser counter after the cycle
	Timings Timings

	// Block is the processed mono block scaled to [-1, 1).
	Block []float64

	Frequencies []float64 // Hz per bin
	Amplitude   []float64
	Power       []float64
	Phase       []float64
	Cepstrum    []float64

	Summary Summary
}
