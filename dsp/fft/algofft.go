package fft

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
)

type algoTransformer struct {
	n    int
	plan *algofft.Plan[complex128]
}

func newAlgoFFT(n int) (*algoTransformer, error) {
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("fft: failed to create algofft plan: %w", err)
	}

	return &algoTransformer{n: n, plan: plan}, nil
}

func (a *algoTransformer) Len() int         { return a.n }
func (a *algoTransformer) Backend() Backend { return BackendAlgoFFT }

func (a *algoTransformer) Forward(dst, src []complex128) error {
	if err := checkLen(a.n, dst, src); err != nil {
		return err
	}

	if err := a.plan.Forward(dst, src); err != nil {
		return fmt.Errorf("fft: forward failed: %w", err)
	}

	return nil
}

func (a *algoTransformer) Inverse(dst, src []complex128) error {
	if err := checkLen(a.n, dst, src); err != nil {
		return err
	}

	if err := a.plan.Inverse(dst, src); err != nil {
		return fmt.Errorf("fft: inverse failed: %w", err)
	}

	return nil
}
