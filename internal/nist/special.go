package nist

import (
	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat"
)

// igamc is the upper regularized incomplete gamma function Q(a, x)
func igamc(a, x float64) float64 {
	if x <= 0 {
		return 1
	}
	return mathext.GammaIncRegComp(a, x)
}

// chiSquare compares observed counts to proportions of total
func chiSquare(observed, proportions []float64, total float64) float64 {
	expected := make([]float64, len(proportions))
	for i, p := range proportions {
		expected[i] = p * total
	}
	return stat.ChiSquare(observed, expected)
}

// ChiSquareUniformity returns Q(k/2, χ²/2) for counts spread over len(counts)
// equally likely bins. It is shared with the cross-stream aggregator.
func ChiSquareUniformity(counts []float64) float64 {
	total := 0.0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 1
	}
	proportions := make([]float64, len(counts))
	for i := range proportions {
		proportions[i] = 1 / float64(len(counts))
	}
	chi2 := chiSquare(counts, proportions, total)
	return igamc(float64(len(counts)-1)/2, chi2/2)
}

func countOnes(bits []uint8) int {
	ones := 0
	for _, b := range bits {
		ones += int(b)
	}
	return ones
}
