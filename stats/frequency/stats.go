// Package frequency computes shape descriptors of one-sided magnitude
// spectra.
//
// Magnitude slices run from DC to Nyquist inclusive (FFT size / 2 + 1 bins),
// so bin i sits at
//
//	f_i = i * sampleRate / (2 * (len(magnitude) - 1))
package frequency

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultRolloff is the energy fraction used by Calculate for Rolloff.
const DefaultRolloff = 0.85

// Stats holds frequency-domain statistics computed from a magnitude spectrum.
type Stats struct {
	BinCount int
	Energy   float64 // sum of squared magnitudes

	Dominant float64 // frequency of the largest bin above DC (Hz)
	Centroid float64 // Hz
	Spread   float64 // Hz
	Flatness float64 // 0..1
	Rolloff  float64 // Hz
}

// Calculate computes all descriptors from a linear magnitude spectrum.
func Calculate(magnitude []float64, sampleRate float64) Stats {
	n := len(magnitude)
	if n < 2 {
		return Stats{BinCount: n}
	}

	freqs := binFrequencies(n, sampleRate)
	s := Stats{
		BinCount: n,
		Energy:   floats.Dot(magnitude, magnitude),
		Dominant: Dominant(magnitude, sampleRate),
		Flatness: Flatness(magnitude),
	}
	if floats.Sum(magnitude) > 0 {
		s.Centroid, s.Spread = stat.PopMeanStdDev(freqs, magnitude)
	}
	s.Rolloff = rolloff(magnitude, freqs, DefaultRolloff, s.Energy)

	return s
}

// OneSided returns the DC..Nyquist half of a full-length spectrum.
func OneSided(full []float64) []float64 {
	if len(full) < 2 {
		return full
	}
	return full[:len(full)/2+1]
}

func binFrequencies(n int, sampleRate float64) []float64 {
	freqs := make([]float64, n)
	floats.Span(freqs, 0, sampleRate/2)
	return freqs
}

func binFreq(i int, sampleRate float64, binCount int) float64 {
	return float64(i) * sampleRate / float64(2*(binCount-1))
}

// Centroid returns the magnitude-weighted mean frequency in Hz.
func Centroid(magnitude []float64, sampleRate float64) float64 {
	if len(magnitude) < 2 || floats.Sum(magnitude) == 0 {
		return 0
	}
	return stat.Mean(binFrequencies(len(magnitude), sampleRate), magnitude)
}

// Dominant returns the frequency of the strongest bin, ignoring DC. Zero
// spectra report 0.
func Dominant(magnitude []float64, sampleRate float64) float64 {
	n := len(magnitude)
	if n < 2 {
		return 0
	}

	k := floats.MaxIdx(magnitude[1:]) + 1
	if magnitude[k] <= 0 {
		return 0
	}
	return binFreq(k, sampleRate, n)
}

// Flatness returns the spectral flatness (Wiener entropy) in the range 0..1,
// excluding the DC bin. Any zero bin makes the result 0.
func Flatness(magnitude []float64) float64 {
	if len(magnitude) < 2 {
		return 0
	}

	bins := magnitude[1:]
	mean := stat.Mean(bins, nil)
	if mean <= 0 || floats.Min(bins) <= 0 {
		return 0
	}

	return stat.GeometricMean(bins, nil) / mean
}

// Rolloff returns the frequency below which percent (0..1) of the spectral
// energy lies.
func Rolloff(magnitude []float64, sampleRate, percent float64) float64 {
	if len(magnitude) < 2 {
		return 0
	}
	return rolloff(magnitude, binFrequencies(len(magnitude), sampleRate), percent,
		floats.Dot(magnitude, magnitude))
}

func rolloff(magnitude, freqs []float64, percent, totalEnergy float64) float64 {
	if totalEnergy == 0 {
		return 0
	}

	threshold := percent * totalEnergy
	var cum float64
	for i, v := range magnitude {
		cum += v * v
		if cum >= threshold {
			return freqs[i]
		}
	}
	return freqs[len(freqs)-1]
}
