// Package generators produces reference series with known randomness
// properties, run through the battery next to real data for comparison.
package generators

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	mrand "math/rand/v2"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"gotyche/domain/core"
	"gotyche/domain/dataset"
)

// SamplesPerYear is the number of generated values per calendar year
const SamplesPerYear = 256

// Config configures the generators
type Config struct {
	Length int    `json:"length"`
	Seed   uint64 `json:"seed"`
	Low    int    `json:"low"`
	High   int    `json:"high"`
}

// DefaultConfig sizes the fixtures to span the given years
func DefaultConfig(span core.YearSpan) Config {
	return Config{
		Length: SamplesPerYear * span.Years(),
		Seed:   42,
		Low:    -250,
		High:   250,
	}
}

// Validate checks the generator bounds
func (c Config) Validate() error {
	if c.Length <= 0 {
		return fmt.Errorf("%w: fixture length %d", core.ErrEmptyDataset, c.Length)
	}
	if c.High <= c.Low {
		return fmt.Errorf("%w: high %d must exceed low %d", core.ErrInvalidPartition, c.High, c.Low)
	}
	return nil
}

// Generator draws seeded pseudo-random series
type Generator struct {
	config Config
	src    mrand.Source
}

// New creates a generator; the same seed always yields the same series
func New(config Config) *Generator {
	return &Generator{
		config: config,
		src:    mrand.NewPCG(config.Seed, config.Seed^0x5851f42d4c957f2d),
	}
}

// UniformIntegers draws integers uniformly from [Low, High)
func (g *Generator) UniformIntegers() []float64 {
	dist := distuv.Uniform{Min: float64(g.config.Low), Max: float64(g.config.High), Src: g.src}
	values := make([]float64, g.config.Length)
	for i := range values {
		values[i] = math.Floor(dist.Rand())
	}
	return values
}

// UniformFloats draws floats uniformly from [0, 1)
func (g *Generator) UniformFloats() []float64 {
	dist := distuv.Uniform{Min: 0, Max: 1, Src: g.src}
	values := make([]float64, g.config.Length)
	for i := range values {
		values[i] = dist.Rand()
	}
	return values
}

// CryptoIntegers draws integers uniformly from [low, high] using the
// operating system's secure random source
func CryptoIntegers(length, low, high int) ([]float64, error) {
	span := big.NewInt(int64(high - low + 1))
	values := make([]float64, length)
	for i := range values {
		n, err := rand.Int(rand.Reader, span)
		if err != nil {
			return nil, fmt.Errorf("crypto source: %w", err)
		}
		values[i] = float64(n.Int64() + int64(low))
	}
	return values, nil
}

// Deterministic returns the sawtooth (i mod 10)/10 shifted to zero mean,
// a series that is obviously not random
func Deterministic(length int) ([]float64, error) {
	values := make([]float64, length)
	for i := range values {
		values[i] = float64(i%10) / 10
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return nil, err
	}
	for i := range values {
		values[i] -= mean
	}
	return values, nil
}

// Fixture is a generated dataset plus the basis point scaling it is
// encoded with
type Fixture struct {
	Name             string           `json:"name"`
	Data             *dataset.Dataset `json:"-"`
	ScaleBasisPoints bool             `json:"scale_basis_points"`
}

// Fixtures returns the pseudo-random and deterministic comparison sets.
// Integers are already whole so they are encoded unscaled; the sawtooth
// lives in (-1, 1) and needs scaling.
func (g *Generator) Fixtures() ([]Fixture, error) {
	if err := g.config.Validate(); err != nil {
		return nil, err
	}

	prng, err := dataset.FromColumns("Mersenne", map[string][]float64{"Mersenne": g.UniformIntegers()})
	if err != nil {
		return nil, err
	}

	saw, err := Deterministic(g.config.Length)
	if err != nil {
		return nil, err
	}
	det, err := dataset.FromColumns("Deterministic", map[string][]float64{"Deterministic": saw})
	if err != nil {
		return nil, err
	}

	return []Fixture{
		{Name: "Mersenne", Data: prng, ScaleBasisPoints: false},
		{Name: "Deterministic", Data: det, ScaleBasisPoints: true},
	}, nil
}

// CryptoFixture returns a dataset of crypto-grade integers
func (g *Generator) CryptoFixture() (Fixture, error) {
	values, err := CryptoIntegers(g.config.Length, g.config.Low, g.config.High)
	if err != nil {
		return Fixture{}, err
	}
	ds, err := dataset.FromColumns("Crypto", map[string][]float64{"Crypto": values})
	if err != nil {
		return Fixture{}, err
	}
	return Fixture{Name: "Crypto", Data: ds}, nil
}
