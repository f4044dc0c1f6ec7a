package core

import (
	"time"
)

// Timestamp represents a point in time with timezone awareness
type Timestamp time.Time

// Now returns the current timestamp
func Now() Timestamp {
	return Timestamp(time.Now())
}

// Time returns the underlying time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero checks if the timestamp is zero
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// JSON marshaling for Timestamp
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return time.Time(t).MarshalJSON()
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var tm time.Time
	if err := tm.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = Timestamp(tm)
	return nil
}

// YearSpan is a half-open range of calendar years [Start, End)
type YearSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Years returns the number of years covered by the span
func (s YearSpan) Years() int {
	return s.End - s.Start
}

// Valid reports whether the span covers at least one year
func (s YearSpan) Valid() bool {
	return s.End > s.Start
}
