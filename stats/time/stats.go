// Package time computes level statistics of time-domain sample blocks.
package time

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats holds level statistics of one block.
type Stats struct {
	Length        int
	DC            float64 // mean
	RMS           float64
	Peak          float64 // max |x|
	RMSdB         float64 // relative to full scale
	PeakdB        float64 // relative to full scale
	CrestFactor   float64 // peak / RMS
	ZeroCrossings int
	Variance      float64
	Skewness      float64
	Kurtosis      float64 // excess
}

func levelDB(v, fullScale float64) float64 {
	if v <= 0 || fullScale <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v/fullScale)
}

func emptyStats() Stats {
	return Stats{RMSdB: math.Inf(-1), PeakdB: math.Inf(-1)}
}

// Calculate computes block statistics. dB levels are relative to fullScale;
// pass 1 for normalised samples.
func Calculate(signal []float64, fullScale float64) Stats {
	n := len(signal)
	if n == 0 {
		return emptyStats()
	}

	rms := RMS(signal)
	peak := Peak(signal)
	mean, variance := stat.PopMeanVariance(signal, nil)

	s := Stats{
		Length:        n,
		DC:            mean,
		RMS:           rms,
		Peak:          peak,
		RMSdB:         levelDB(rms, fullScale),
		PeakdB:        levelDB(peak, fullScale),
		ZeroCrossings: ZeroCrossings(signal),
		Variance:      variance,
	}
	if rms > 0 {
		s.CrestFactor = peak / rms
	}
	if n >= 4 && variance > 0 {
		s.Skewness = stat.Skew(signal, nil)
		s.Kurtosis = stat.ExKurtosis(signal, nil)
	}

	return s
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	return math.Sqrt(floats.Dot(signal, signal) / float64(len(signal)))
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	return math.Max(math.Abs(floats.Max(signal)), math.Abs(floats.Min(signal)))
}

// ZeroCrossings counts sign changes between consecutive samples.
func ZeroCrossings(signal []float64) int {
	var count int
	for i := 1; i < len(signal); i++ {
		if signal[i-1]*signal[i] < 0 {
			count++
		}
	}
	return count
}
