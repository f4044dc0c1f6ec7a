package core

import (
	"errors"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDString tests ID string conversion
func TestIDString(t *testing.T) {
	id := ID("test-123")
	if id.String() != "test-123" {
		t.Errorf("Expected String() to return 'test-123', got '%s'", id.String())
	}
}

func TestRunID(t *testing.T) {
	id := NewRunID()
	if id.IsEmpty() {
		t.Error("Expected a non-empty run ID")
	}
	if id.String() != string(id) {
		t.Errorf("Expected String() to return %q, got %q", string(id), id.String())
	}
	if !RunID("").IsEmpty() {
		t.Error("Expected zero run ID to be empty")
	}
}

func TestHasherSeparatesParts(t *testing.T) {
	a := NewHasher()
	a.WriteString("ab")
	a.WriteString("c")

	b := NewHasher()
	b.WriteString("a")
	b.WriteString("bc")

	if a.Sum() == b.Sum() {
		t.Error("Expected different hashes for different part boundaries")
	}

	c := NewHasher()
	c.WriteString("ab")
	c.WriteString("c")
	if a.Sum() != c.Sum() {
		t.Error("Expected identical input to produce identical hashes")
	}
}

func TestErrorClassification(t *testing.T) {
	if !IsConfigurationError(NewUnknownEncodingError("bogus")) {
		t.Error("unknown encoding should be a configuration error")
	}
	if !IsInputError(NewColumnError("SPX", ErrNonFinite)) {
		t.Error("wrapped non-finite error should be an input error")
	}
	if !errors.Is(NewPartitionError("no rows"), ErrInvalidPartition) {
		t.Error("partition error should wrap ErrInvalidPartition")
	}
	if IsInputError(ErrUnknownEncoding) {
		t.Error("configuration error must not be classified as input error")
	}
}

func TestYearSpan(t *testing.T) {
	span := YearSpan{Start: 1950, End: 2015}
	if span.Years() != 65 {
		t.Errorf("Expected 65 years, got %d", span.Years())
	}
	if !span.Valid() {
		t.Error("Expected span to be valid")
	}
	if (YearSpan{Start: 2000, End: 2000}).Valid() {
		t.Error("Expected empty span to be invalid")
	}
}
