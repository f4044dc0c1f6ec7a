package nist

const (
	// DefaultCondition is the significance level below which a stream fails
	DefaultCondition = 0.01

	// DefaultBlockSize is M for the block frequency test
	DefaultBlockSize = 64

	// DefaultMatrixSize is q for the binary matrix rank test
	DefaultMatrixSize = 4

	// minLongestRunBits is the shortest stream the longest run test accepts
	minLongestRunBits = 128
)

// longestRunTable holds the block size, category boundaries and expected
// category proportions of the longest run test for one stream length range
type longestRunTable struct {
	maxBits     int // exclusive upper bound on stream length; 0 means unbounded
	blockSize   int
	k           int
	boundaries  []int
	proportions []float64
}

var longestRunTables = []longestRunTable{
	{
		maxBits:     6272,
		blockSize:   8,
		k:           3,
		boundaries:  []int{1, 2, 3, 4},
		proportions: []float64{0.2148, 0.3672, 0.2305, 0.1875},
	},
	{
		maxBits:     75000,
		blockSize:   128,
		k:           5,
		boundaries:  []int{4, 5, 6, 7, 8, 9},
		proportions: []float64{0.1174, 0.2430, 0.2494, 0.1752, 0.1027, 0.1124},
	},
	{
		blockSize:   10000,
		k:           6,
		boundaries:  []int{10, 11, 12, 13, 14, 15, 16},
		proportions: []float64{0.0882, 0.2092, 0.2483, 0.1933, 0.1208, 0.0675, 0.0727},
	},
}

// matrixRankProportions are the expected shares of full rank, rank q-1 and
// lower rank matrices
var matrixRankProportions = []float64{0.2888, 0.5776, 0.1336}
