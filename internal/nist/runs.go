package nist

import (
	"math"

	"gotyche/domain/stats"
)

// Runs tests whether the number of runs of identical bits matches what a
// random sequence would produce
type Runs struct{}

func (r *Runs) Name() stats.TestName { return stats.TestRuns }

// Execute returns p = 0 without counting runs when the frequency
// prerequisite |π - ½| > 2/√n fails
func (r *Runs) Execute(bits []uint8) stats.Outcome {
	n := len(bits)
	if n == 0 {
		return stats.NotApplicable()
	}
	pi := float64(countOnes(bits)) / float64(n)
	tau := 2 / math.Sqrt(float64(n))
	if math.Abs(pi-0.5) > tau {
		return stats.Applicable(0)
	}
	variance := pi * (1 - pi)
	if variance == 0 {
		return stats.Applicable(0)
	}

	vObs := 1
	for i := 1; i < n; i++ {
		if bits[i] != bits[i-1] {
			vObs++
		}
	}
	nf := float64(n)
	num := math.Abs(float64(vObs) - 2*nf*variance)
	den := 2 * math.Sqrt(2*nf) * variance
	return stats.Applicable(math.Erfc(num / den))
}
