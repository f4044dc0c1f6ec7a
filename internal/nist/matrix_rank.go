package nist

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"gotyche/domain/stats"
)

// MatrixRank tests linear dependence among fixed-length substrings by the
// rank distribution of disjoint Size×Size bit matrices
type MatrixRank struct {
	Size   int
	Method RankMethod
}

func (mr *MatrixRank) Name() stats.TestName { return stats.TestMatrixRank }

func (mr *MatrixRank) Execute(bits []uint8) stats.Outcome {
	q := mr.Size
	if q < 1 {
		return stats.NotApplicable()
	}
	cells := q * q
	matrices := len(bits) / cells
	if matrices == 0 {
		return stats.NotApplicable()
	}

	counts := make([]float64, 3)
	for i := 0; i < matrices; i++ {
		block := bits[i*cells : (i+1)*cells]
		var rank int
		if mr.Method == RankReal {
			rank = realRank(block, q)
		} else {
			rank = binaryRank(block, q)
		}
		switch rank {
		case q:
			counts[0]++
		case q - 1:
			counts[1]++
		default:
			counts[2]++
		}
	}
	chi2 := chiSquare(counts, matrixRankProportions, float64(matrices))
	return stats.Applicable(math.Exp(-chi2 / 2))
}

// binaryRank computes the rank over GF(2) of a row-major q×q matrix
func binaryRank(block []uint8, q int) int {
	rows := make([][]uint8, q)
	for r := range rows {
		rows[r] = append([]uint8(nil), block[r*q:(r+1)*q]...)
	}

	rank := 0
	for col := 0; col < q && rank < q; col++ {
		pivot := -1
		for r := rank; r < q; r++ {
			if rows[r][col] == 1 {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			continue
		}
		rows[rank], rows[pivot] = rows[pivot], rows[rank]
		for r := 0; r < q; r++ {
			if r != rank && rows[r][col] == 1 {
				for c := col; c < q; c++ {
					rows[r][c] ^= rows[rank][c]
				}
			}
		}
		rank++
	}
	return rank
}

// realRank computes the floating-point rank of a row-major q×q 0/1 matrix
func realRank(block []uint8, q int) int {
	data := make([]float64, len(block))
	for i, b := range block {
		data[i] = float64(b)
	}
	var svd mat.SVD
	if !svd.Factorize(mat.NewDense(q, q, data), mat.SVDNone) {
		return binaryRank(block, q)
	}
	return svd.Rank(1e-10)
}
