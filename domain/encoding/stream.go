package encoding

import (
	"fmt"
	"unicode"

	"gotyche/domain/core"
)

// Stream is one symbol sequence derived from the row window
// [StartRow, EndRow) of a column
type Stream struct {
	Column   string `json:"column"`
	Index    int    `json:"index"`
	StartRow int    `json:"start_row"`
	EndRow   int    `json:"end_row"`
	Symbols  string `json:"symbols"`
}

// Len returns the number of symbols
func (s Stream) Len() int {
	return len(s.Symbols)
}

// Bits converts the symbols into a 0/1 slice
func (s Stream) Bits() ([]uint8, error) {
	bits := make([]uint8, len(s.Symbols))
	for i := 0; i < len(s.Symbols); i++ {
		switch s.Symbols[i] {
		case '0':
		case '1':
			bits[i] = 1
		default:
			return nil, fmt.Errorf("%w: %q at offset %d of %s stream %d", core.ErrInvalidSymbol, s.Symbols[i], i, s.Column, s.Index)
		}
	}
	return bits, nil
}

// ParseBits converts a literal such as "1100 1001" into bits. Whitespace is
// ignored so that long reference sequences can be wrapped.
func ParseBits(literal string) ([]uint8, error) {
	bits := make([]uint8, 0, len(literal))
	for i, r := range literal {
		switch {
		case r == '0':
			bits = append(bits, 0)
		case r == '1':
			bits = append(bits, 1)
		case unicode.IsSpace(r):
		default:
			return nil, fmt.Errorf("%w: %q at offset %d", core.ErrInvalidSymbol, r, i)
		}
	}
	return bits, nil
}

// MustParseBits is ParseBits for compile-time constants
func MustParseBits(literal string) []uint8 {
	bits, err := ParseBits(literal)
	if err != nil {
		panic(err)
	}
	return bits
}
