package nist

import (
	"math"

	"gotyche/domain/encoding"
)

// ReferenceTolerance is the accepted absolute error on reference p-values
const ReferenceTolerance = 1e-6

// ReferenceVector is a worked example from SP 800-22 with its expected p-value
type ReferenceVector struct {
	Name     string  `json:"name"`
	Test     Test    `json:"-"`
	TestName string  `json:"test"`
	Bits     string  `json:"bits"`
	Expected float64 `json:"expected"`
}

// SelfTestResult is the outcome of evaluating one reference vector
type SelfTestResult struct {
	Name     string  `json:"name"`
	Test     string  `json:"test"`
	Expected float64 `json:"expected"`
	Actual   float64 `json:"actual"`
	Passed   bool    `json:"passed"`
}

const (
	epsilon100 = "11001001000011111101101010100010001000010110100011" +
		"00001000110100110001001100011001100010100010111000"
	epsilon128 = "11001100000101010110110001001100111000000000001001" +
		"00110101010001000100111101011010000000110101111100" +
		"1100111001101101100010110010"
)

// ReferenceVectors lists the worked examples the battery must reproduce.
// The longest run value is recomputed from the published frequencies
// (4, 9, 3, 0); the printed 0.180609 is a rounding slip.
func ReferenceVectors() []ReferenceVector {
	vectors := []ReferenceVector{
		{Name: "monobit/epsilon10", Test: &Monobit{}, Bits: "1011010101", Expected: 0.527089},
		{Name: "monobit/epsilon100", Test: &Monobit{}, Bits: epsilon100, Expected: 0.109599},
		{Name: "block_frequency/M3", Test: &BlockFrequency{BlockSize: 3}, Bits: "0110011010", Expected: 0.801252},
		// the published ε100 example uses M=10; M=3 on the same bits gives 0.500122
		{Name: "block_frequency/M10", Test: &BlockFrequency{BlockSize: 10}, Bits: epsilon100, Expected: 0.706438},
		{Name: "runs/epsilon10", Test: &Runs{}, Bits: "1001101011", Expected: 0.147232},
		{Name: "runs/epsilon100", Test: &Runs{}, Bits: epsilon100, Expected: 0.500798},
		{Name: "longest_run/epsilon128", Test: &LongestRun{}, Bits: epsilon128, Expected: 0.180598},
		{Name: "matrix_rank/q3", Test: &MatrixRank{Size: 3, Method: RankGF2}, Bits: "01011001001010101101", Expected: 0.741948},
	}
	for i := range vectors {
		vectors[i].TestName = string(vectors[i].Test.Name())
	}
	return vectors
}

// SelfTest evaluates every reference vector
func SelfTest() []SelfTestResult {
	vectors := ReferenceVectors()
	results := make([]SelfTestResult, 0, len(vectors))
	for _, v := range vectors {
		outcome := v.Test.Execute(encoding.MustParseBits(v.Bits))
		actual := outcome.Sentinel()
		results = append(results, SelfTestResult{
			Name:     v.Name,
			Test:     v.TestName,
			Expected: v.Expected,
			Actual:   actual,
			Passed:   outcome.IsApplicable() && math.Abs(actual-v.Expected) <= ReferenceTolerance,
		})
	}
	return results
}

// SelfTestPassed reports whether every result matched
func SelfTestPassed(results []SelfTestResult) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
