package effects_test

import (
	"fmt"

	"github.com/cwbudde/algo-effector/dsp/effects"
)

func ExampleDistortion() {
	buf := []float64{-9000, -100, 0, 100, 9000}
	effects.Booster{Gain: 2}.ProcessInPlace(buf)
	effects.Distortion{Threshold: 6553.6}.ProcessInPlace(buf)

	fmt.Println(buf)
	// Output:
	// [-6553.6 -200 0 200 6553.6]
}

func ExamplePhaser_ProcessInPlace() {
	phaser, err := effects.NewPhaser(4)
	if err != nil {
		fmt.Println("error")
		return
	}

	buf := []float64{1, 0, 0, 0}
	if err := phaser.ProcessInPlace(buf, 0, 0); err != nil {
		fmt.Println("error")
		return
	}

	fmt.Printf("len=%d\n", len(buf))
	// Output:
	// len=4
}
