package nist

import (
	"gotyche/domain/stats"
)

// LongestRun tests the longest run of ones within blocks. Block size and
// category tables are chosen from the stream length.
type LongestRun struct{}

func (lr *LongestRun) Name() stats.TestName { return stats.TestLongestRun }

func (lr *LongestRun) Execute(bits []uint8) stats.Outcome {
	n := len(bits)
	if n < minLongestRunBits {
		return stats.NotApplicable()
	}
	table := tableFor(n)
	m := table.blockSize
	blocks := n / m
	if blocks == 0 {
		return stats.NotApplicable()
	}

	freq := make([]float64, len(table.boundaries))
	for i := 0; i < blocks; i++ {
		longest := longestRunOfOnes(bits[i*m : (i+1)*m])
		freq[category(longest, table.boundaries)]++
	}
	chi2 := chiSquare(freq, table.proportions, float64(blocks))
	return stats.Applicable(igamc(float64(table.k)/2, chi2/2))
}

func tableFor(n int) longestRunTable {
	for _, t := range longestRunTables {
		if t.maxBits == 0 || n < t.maxBits {
			return t
		}
	}
	return longestRunTables[len(longestRunTables)-1]
}

// category buckets a run length by the boundaries, saturating at both ends
func category(run int, boundaries []int) int {
	last := len(boundaries) - 1
	if run <= boundaries[0] {
		return 0
	}
	if run >= boundaries[last] {
		return last
	}
	return run - boundaries[0]
}

func longestRunOfOnes(block []uint8) int {
	longest, current := 0, 0
	for _, b := range block {
		if b == 1 {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}
	return longest
}
