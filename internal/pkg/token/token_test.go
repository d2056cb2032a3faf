package token

import (
	"strings"
	"testing"
)

func TestNewActivationTokenShape(t *testing.T) {
	tok, err := NewActivationToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tok) != ActivationTokenLength {
		t.Fatalf("expected %d chars, got %d", ActivationTokenLength, len(tok))
	}
	for _, c := range tok {
		if !strings.ContainsRune(alphabet, c) {
			t.Fatalf("token contains character outside alphabet: %q", c)
		}
	}
}

func TestNewActivationTokenUsesWholeAlphabet(t *testing.T) {
	seen := make(map[rune]struct{})
	for i := 0; i < 500; i++ {
		tok, err := NewActivationToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, c := range tok {
			seen[c] = struct{}{}
		}
	}
	// 16000 uniform draws over 62 characters; a missing character means the
	// sampling is skewed, not bad luck.
	for _, c := range alphabet {
		if _, ok := seen[c]; !ok {
			t.Fatalf("character %q never generated", c)
		}
	}
}

func TestNewActivationTokenUniqueness(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		tok, err := NewActivationToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, dup := seen[tok]; dup {
			t.Fatalf("duplicate token generated: %q", tok)
		}
		seen[tok] = struct{}{}
	}
}
