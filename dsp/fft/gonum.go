package fft

import "gonum.org/v1/gonum/dsp/fourier"

type gonumTransformer struct {
	n    int
	inv  float64
	cfft *fourier.CmplxFFT
}

func newGonum(n int) *gonumTransformer {
	return &gonumTransformer{
		n:    n,
		inv:  1 / float64(n),
		cfft: fourier.NewCmplxFFT(n),
	}
}

func (g *gonumTransformer) Len() int         { return g.n }
func (g *gonumTransformer) Backend() Backend { return BackendGonum }

func (g *gonumTransformer) Forward(dst, src []complex128) error {
	if err := checkLen(g.n, dst, src); err != nil {
		return err
	}

	g.cfft.Coefficients(dst, src)

	return nil
}

// Inverse scales by 1/N; gonum's Sequence is unnormalised.
func (g *gonumTransformer) Inverse(dst, src []complex128) error {
	if err := checkLen(g.n, dst, src); err != nil {
		return err
	}

	g.cfft.Sequence(dst, src)

	scale := complex(g.inv, 0)
	for i := range dst {
		dst[i] *= scale
	}

	return nil
}
