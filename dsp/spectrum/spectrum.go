package spectrum

import "math"

func split(in []complex128, re, im []float64) {
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}
}

func phaseInto(dst []float64, in []complex128) {
	for i, c := range in {
		p := math.Atan2(imag(c), real(c))
		if p == -math.Pi {
			p = math.Pi
		}
		dst[i] = p
	}
}

func reconstructInto(dst []complex128, amp, phase []float64) {
	for i := range amp {
		s, c := math.Sincos(phase[i])
		dst[i] = complex(amp[i]*c, amp[i]*s)
	}
}

// BinFrequencies returns the centre frequency in Hz of each of n FFT bins.
func BinFrequencies(n int, sampleRate float64) []float64 {
	if n <= 0 {
		return nil
	}

	out := make([]float64, n)
	step := sampleRate / float64(n)
	for k := range out {
		out[k] = float64(k) * step
	}

	return out
}
