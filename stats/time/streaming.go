package time

import "math"

// Session accumulates level statistics across blocks for the lifetime of a
// stream. Not safe for concurrent use.
type Session struct {
	fullScale float64
	clipLevel float64

	n       int
	sumSq   float64
	peak    float64
	clipped int
}

// NewSession returns a Session. Samples with |x| >= clipLevel count as
// clipped; clipLevel <= 0 disables the count.
func NewSession(fullScale, clipLevel float64) *Session {
	return &Session{fullScale: fullScale, clipLevel: clipLevel}
}

// Update adds a block.
func (s *Session) Update(block []float64) {
	for _, x := range block {
		a := math.Abs(x)
		s.sumSq += x * x
		if a > s.peak {
			s.peak = a
		}
		if s.clipLevel > 0 && a >= s.clipLevel {
			s.clipped++
		}
	}
	s.n += len(block)
}

// SessionStats summarises everything seen since the last Reset.
type SessionStats struct {
	Samples int
	RMS     float64
	Peak    float64
	RMSdB   float64
	PeakdB  float64
	Clipped int
}

// Result returns the accumulated statistics.
func (s *Session) Result() SessionStats {
	if s.n == 0 {
		return SessionStats{RMSdB: math.Inf(-1), PeakdB: math.Inf(-1)}
	}

	rms := math.Sqrt(s.sumSq / float64(s.n))
	return SessionStats{
		Samples: s.n,
		RMS:     rms,
		Peak:    s.peak,
		RMSdB:   levelDB(rms, s.fullScale),
		PeakdB:  levelDB(s.peak, s.fullScale),
		Clipped: s.clipped,
	}
}

// Reset clears the accumulated data.
func (s *Session) Reset() {
	*s = Session{fullScale: s.fullScale, clipLevel: s.clipLevel}
}
