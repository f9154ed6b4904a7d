package fft

import dspfft "github.com/mjibson/go-dsp/fft"

// goDSPTransformer allocates on every call; go-dsp has no plan API.
type goDSPTransformer struct {
	n int
}

func newGoDSP(n int) *goDSPTransformer {
	return &goDSPTransformer{n: n}
}

func (g *goDSPTransformer) Len() int         { return g.n }
func (g *goDSPTransformer) Backend() Backend { return BackendGoDSP }

func (g *goDSPTransformer) Forward(dst, src []complex128) error {
	if err := checkLen(g.n, dst, src); err != nil {
		return err
	}

	copy(dst, dspfft.FFT(src))

	return nil
}

func (g *goDSPTransformer) Inverse(dst, src []complex128) error {
	if err := checkLen(g.n, dst, src); err != nil {
		return err
	}

	copy(dst, dspfft.IFFT(src))

	return nil
}
