// Package encoding holds the value types shared by the encoder and the test
// battery: encoding parameters, bit streams and stream batches.
package encoding

import (
	"fmt"
	"strings"

	"gotyche/domain/core"
)

// Method names an encoding strategy
type Method string

const (
	MethodDiscretize    Method = "discretize"
	MethodBasisPoint    Method = "convert basis point"
	MethodFloatingPoint Method = "convert floating point"
)

// ParseMethod accepts the canonical method names plus dashed/underscored
// short forms ("basis-point", "floating_point", ...)
func ParseMethod(s string) (Method, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", " ", "_", " ").Replace(normalized)
	switch normalized {
	case "discretize", "sign":
		return MethodDiscretize, nil
	case "convert basis point", "basis point", "bps":
		return MethodBasisPoint, nil
	case "convert floating point", "floating point", "float":
		return MethodFloatingPoint, nil
	default:
		return "", core.NewUnknownEncodingError(s)
	}
}

// PartitionMode selects how rows are split into streams
type PartitionMode string

const (
	PartitionIndependent        PartitionMode = "independent"
	PartitionForwardOverlapping PartitionMode = "forward-overlapping"
)

// ParsePartitionMode validates a partition mode name
func ParsePartitionMode(s string) (PartitionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "independent":
		return PartitionIndependent, nil
	case "forward-overlapping", "forward", "overlapping":
		return PartitionForwardOverlapping, nil
	default:
		return "", fmt.Errorf("%w: %q", core.ErrUnknownPartition, s)
	}
}

// Params configures one conversion of a dataset into a batch
type Params struct {
	Method Method        `json:"method"`
	Mode   PartitionMode `json:"mode"`
	Span   core.YearSpan `json:"span"`

	// YearsPerBlock sets the stream length in years. Ignored when StreamSize > 0.
	YearsPerBlock float64 `json:"years_per_block"`

	// StreamSize, when positive, switches to fixed-size streams of at least
	// StreamSize symbols and ignores Span/YearsPerBlock/Mode.
	StreamSize int `json:"stream_size,omitempty"`

	// ScaleBasisPoints multiplies values by 100 before basis point encoding
	ScaleBasisPoints bool `json:"scale_basis_points"`

	// FloatWidth is 32 or 64 for floating point encoding
	FloatWidth int `json:"float_width"`
}

// DefaultParams mirrors the reference experiment: discretized daily returns
// from 1950 to 2015 in independent five-year streams
func DefaultParams() Params {
	return Params{
		Method:           MethodDiscretize,
		Mode:             PartitionIndependent,
		Span:             core.YearSpan{Start: 1950, End: 2015},
		YearsPerBlock:    5,
		ScaleBasisPoints: true,
		FloatWidth:       64,
	}
}

// Validate checks that the parameters can describe at least one stream
func (p Params) Validate() error {
	if _, err := ParseMethod(string(p.Method)); err != nil {
		return err
	}
	if p.FloatWidth != 32 && p.FloatWidth != 64 {
		return core.NewPartitionError(fmt.Sprintf("float width must be 32 or 64, got %d", p.FloatWidth))
	}
	if p.StreamSize > 0 {
		return nil
	}
	if p.StreamSize < 0 {
		return core.NewPartitionError("stream size cannot be negative")
	}
	if _, err := ParsePartitionMode(string(p.Mode)); err != nil {
		return err
	}
	if !p.Span.Valid() {
		return core.NewPartitionError(fmt.Sprintf("end year %d must be after start year %d", p.Span.End, p.Span.Start))
	}
	if p.YearsPerBlock <= 0 {
		return core.NewPartitionError("years per block must be positive")
	}
	if p.YearsPerBlock > float64(p.Span.Years()) {
		return core.NewPartitionError(fmt.Sprintf("years per block %.2f exceeds span of %d years", p.YearsPerBlock, p.Span.Years()))
	}
	return nil
}

// String renders the parameters for logs and hashing
func (p Params) String() string {
	if p.StreamSize > 0 {
		return fmt.Sprintf("method=%s stream_size=%d scale=%t width=%d", p.Method, p.StreamSize, p.ScaleBasisPoints, p.FloatWidth)
	}
	return fmt.Sprintf("method=%s mode=%s span=%d-%d years_per_block=%g scale=%t width=%d",
		p.Method, p.Mode, p.Span.Start, p.Span.End, p.YearsPerBlock, p.ScaleBasisPoints, p.FloatWidth)
}
