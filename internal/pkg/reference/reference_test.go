package reference

import (
	"strings"
	"testing"
)

func TestNewFormat(t *testing.T) {
	ref := New()

	parts := strings.Split(ref, "-")
	if len(parts) != 3 {
		t.Fatalf("expected 3 segments, got %d in %q", len(parts), ref)
	}
	if parts[0] != "TXN" {
		t.Fatalf("expected TXN prefix, got %q", parts[0])
	}
	if len(parts[2]) != randomLength {
		t.Fatalf("expected %d-char random suffix, got %q", randomLength, parts[2])
	}
}

func TestNewUniqueness(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 10000; i++ {
		ref := New()
		if _, dup := seen[ref]; dup {
			t.Fatalf("duplicate reference generated: %q", ref)
		}
		seen[ref] = struct{}{}
	}
}
