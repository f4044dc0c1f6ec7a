// Package nist implements five tests from NIST SP 800-22 on bit streams.
package nist

import (
	"fmt"
	"strings"

	"gotyche/domain/core"
	"gotyche/domain/encoding"
	"gotyche/domain/stats"
)

// Test is the contract every battery test satisfies. Execute never fails:
// a stream too short for the test yields stats.NotApplicable().
type Test interface {
	Name() stats.TestName
	Execute(bits []uint8) stats.Outcome
}

// RankMethod selects how matrix rank is computed
type RankMethod string

const (
	// RankGF2 uses Gaussian elimination over the two-element field
	RankGF2 RankMethod = "gf2"
	// RankReal uses the floating-point rank of the 0/1 matrix
	RankReal RankMethod = "real"
)

// ParseRankMethod validates a rank method name
func ParseRankMethod(s string) (RankMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "gf2", "binary":
		return RankGF2, nil
	case "real", "svd":
		return RankReal, nil
	default:
		return "", fmt.Errorf("%w: %q", core.ErrUnknownRankMethod, s)
	}
}

// Config parameterizes the battery
type Config struct {
	// Condition is the significance threshold: a stream passes when p > Condition
	Condition  float64    `json:"condition"`
	BlockSize  int        `json:"block_size"`
	MatrixSize int        `json:"matrix_size"`
	RankMethod RankMethod `json:"rank_method"`
}

// DefaultConfig matches the reference experiment settings
func DefaultConfig() Config {
	return Config{
		Condition:  DefaultCondition,
		BlockSize:  DefaultBlockSize,
		MatrixSize: DefaultMatrixSize,
		RankMethod: RankGF2,
	}
}

// Validate checks the battery parameters
func (c Config) Validate() error {
	if c.Condition <= 0 || c.Condition >= 1 {
		return fmt.Errorf("%w: condition %g must be in (0,1)", core.ErrInvalidBattery, c.Condition)
	}
	if c.BlockSize < 1 {
		return fmt.Errorf("%w: block size %d must be positive", core.ErrInvalidBattery, c.BlockSize)
	}
	if c.MatrixSize < 2 {
		return fmt.Errorf("%w: matrix size %d must be at least 2", core.ErrInvalidBattery, c.MatrixSize)
	}
	_, err := ParseRankMethod(string(c.RankMethod))
	return err
}

// GetTest returns the configured implementation of one test
func GetTest(name stats.TestName, cfg Config) (Test, error) {
	switch name {
	case stats.TestMonobit:
		return &Monobit{}, nil
	case stats.TestBlockFrequency:
		return &BlockFrequency{BlockSize: cfg.BlockSize}, nil
	case stats.TestRuns:
		return &Runs{}, nil
	case stats.TestLongestRun:
		return &LongestRun{}, nil
	case stats.TestMatrixRank:
		method, err := ParseRankMethod(string(cfg.RankMethod))
		if err != nil {
			return nil, err
		}
		return &MatrixRank{Size: cfg.MatrixSize, Method: method}, nil
	default:
		return nil, fmt.Errorf("unknown test: %s", name)
	}
}

// Battery runs all five tests on a stream
type Battery struct {
	cfg   Config
	tests []Test
}

// NewBattery validates cfg and instantiates every test
func NewBattery(cfg Config) (*Battery, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Battery{cfg: cfg}
	for _, name := range stats.AllTests() {
		test, err := GetTest(name, cfg)
		if err != nil {
			return nil, err
		}
		b.tests = append(b.tests, test)
	}
	return b, nil
}

// Config returns the battery parameters
func (b *Battery) Config() Config {
	return b.cfg
}

// Run applies every test to one stream, in stats.AllTests order
func (b *Battery) Run(stream encoding.Stream) ([]stats.TestResult, error) {
	bits, err := stream.Bits()
	if err != nil {
		return nil, err
	}
	return b.RunBits(stream.Index, bits), nil
}

// RunBits applies every test to an already decoded bit slice
func (b *Battery) RunBits(streamIndex int, bits []uint8) []stats.TestResult {
	results := make([]stats.TestResult, 0, len(b.tests))
	for _, test := range b.tests {
		outcome := test.Execute(bits)
		results = append(results, stats.TestResult{
			Test:    test.Name(),
			Stream:  streamIndex,
			Outcome: outcome,
			Passed:  outcome.PassesAt(b.cfg.Condition),
		})
	}
	return results
}
