package encoder

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gotyche/domain/core"
	"gotyche/domain/encoding"
)

// zeroSymbol is emitted for an exact zero by every strategy. It is two
// symbols long, so streams containing zeros are longer than their row count.
const zeroSymbol = "01"

// Strategy turns one value into its symbol string
type Strategy interface {
	Method() encoding.Method
	EncodeValue(v float64) (string, error)
}

// NewStrategy returns the strategy configured by params
func NewStrategy(params encoding.Params) (Strategy, error) {
	method, err := encoding.ParseMethod(string(params.Method))
	if err != nil {
		return nil, err
	}
	switch method {
	case encoding.MethodDiscretize:
		return Discretize{}, nil
	case encoding.MethodBasisPoint:
		return BasisPoint{Scale: params.ScaleBasisPoints}, nil
	case encoding.MethodFloatingPoint:
		if params.FloatWidth != 32 && params.FloatWidth != 64 {
			return nil, core.NewPartitionError(fmt.Sprintf("float width must be 32 or 64, got %d", params.FloatWidth))
		}
		return FloatingPoint{Width: params.FloatWidth}, nil
	default:
		return nil, core.NewUnknownEncodingError(string(params.Method))
	}
}

// Discretize keeps only the sign of each value
type Discretize struct{}

func (Discretize) Method() encoding.Method { return encoding.MethodDiscretize }

func (Discretize) EncodeValue(v float64) (string, error) {
	switch {
	case math.IsNaN(v):
		return "", core.ErrNonFinite
	case v > 0:
		return "1", nil
	case v < 0:
		return "0", nil
	default:
		return zeroSymbol, nil
	}
}

// BasisPoint encodes the value as a sign bit followed by the binary
// magnitude of its integer part, optionally after scaling by 100.
type BasisPoint struct {
	Scale bool
}

func (BasisPoint) Method() encoding.Method { return encoding.MethodBasisPoint }

func (b BasisPoint) EncodeValue(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", core.ErrNonFinite
	}
	if b.Scale {
		v *= 100
	}
	v = math.Trunc(v)
	if math.Abs(v) >= math.MaxInt64 {
		return "", fmt.Errorf("%w: %g does not fit in 64 bits", core.ErrNonFinite, v)
	}
	n := int64(v)
	switch {
	case n > 0:
		return "1" + strconv.FormatInt(n, 2), nil
	case n < 0:
		return "0" + flipBits(strconv.FormatInt(-n, 2)), nil
	default:
		return zeroSymbol, nil
	}
}

// FloatingPoint encodes the IEEE-754 pattern of the value with its sign bit
// replaced, complementing the magnitude bits of negatives so that v and -v
// map to mirror images.
type FloatingPoint struct {
	Width int
}

func (FloatingPoint) Method() encoding.Method { return encoding.MethodFloatingPoint }

func (f FloatingPoint) EncodeValue(v float64) (string, error) {
	if math.IsNaN(v) {
		return "", core.ErrNonFinite
	}
	if v == 0 {
		return zeroSymbol, nil
	}
	var pattern string
	if f.Width == 32 {
		pattern = fmt.Sprintf("%032b", math.Float32bits(float32(v)))
	} else {
		pattern = fmt.Sprintf("%064b", math.Float64bits(v))
	}
	magnitude := pattern[1:]
	if v > 0 {
		return "1" + magnitude, nil
	}
	return "0" + flipBits(magnitude), nil
}

func flipBits(bits string) string {
	var sb strings.Builder
	sb.Grow(len(bits))
	for i := 0; i < len(bits); i++ {
		if bits[i] == '0' {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
