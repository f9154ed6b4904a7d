package frequency_test

import (
	"fmt"

	"github.com/cwbudde/algo-effector/stats/frequency"
)

func ExampleCalculate() {
	mag := []float64{0, 0, 4, 0, 0}
	s := frequency.Calculate(mag, 800)
	fmt.Printf("dominant=%.0f centroid=%.0f\n", s.Dominant, s.Centroid)

	// Output:
	// dominant=200 centroid=200
}
