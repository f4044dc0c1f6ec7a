package nist

import (
	"math"

	"gotyche/domain/stats"
)

// Monobit tests whether the proportion of ones is close to one half
type Monobit struct{}

func (m *Monobit) Name() stats.TestName { return stats.TestMonobit }

// Execute computes p = erfc(|S|/√(2n)) where S is the ±1 sum of the bits
func (m *Monobit) Execute(bits []uint8) stats.Outcome {
	n := len(bits)
	if n == 0 {
		return stats.NotApplicable()
	}
	sum := 2*countOnes(bits) - n
	sObs := math.Abs(float64(sum)) / math.Sqrt(float64(n))
	return stats.Applicable(math.Erfc(sObs / math.Sqrt2))
}

// BlockFrequency tests the proportion of ones within disjoint blocks of
// BlockSize bits; a trailing partial block is ignored
type BlockFrequency struct {
	BlockSize int
}

func (bf *BlockFrequency) Name() stats.TestName { return stats.TestBlockFrequency }

func (bf *BlockFrequency) Execute(bits []uint8) stats.Outcome {
	m := bf.BlockSize
	if m < 1 {
		return stats.NotApplicable()
	}
	blocks := len(bits) / m
	if blocks == 0 {
		return stats.NotApplicable()
	}

	sum := 0.0
	for i := 0; i < blocks; i++ {
		pi := float64(countOnes(bits[i*m:(i+1)*m])) / float64(m)
		sum += (pi - 0.5) * (pi - 0.5)
	}
	chi2 := 4 * float64(m) * sum
	return stats.Applicable(igamc(float64(blocks)/2, chi2/2))
}
