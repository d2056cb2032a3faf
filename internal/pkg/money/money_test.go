package money

import (
	"errors"
	"testing"
)

func TestToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"1", 100},
		{"120.50", 12050},
		{"0.01", 1},
		{"-5.25", -525},
		{"1000000", 100000000},
	}
	for _, c := range cases {
		got, err := ToCents(c.in)
		if err != nil {
			t.Fatalf("ToCents(%q) returned error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ToCents(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestToCentsRejectsSubCent(t *testing.T) {
	if _, err := ToCents("0.001"); !errors.Is(err, ErrSubCent) {
		t.Fatalf("expected ErrSubCent, got %v", err)
	}
	if _, err := ToCents("10.505"); !errors.Is(err, ErrSubCent) {
		t.Fatalf("expected ErrSubCent, got %v", err)
	}
}

func TestToCentsRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "12,50", "1.2.3"} {
		if _, err := ToCents(in); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("ToCents(%q): expected ErrInvalidAmount, got %v", in, err)
		}
	}
}

func TestFromCents(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{12050, "120.50"},
		{-525, "-5.25"},
	}
	for _, c := range cases {
		if got := FromCents(c.in); got != c.want {
			t.Fatalf("FromCents(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 12345678} {
		got, err := ToCents(FromCents(cents))
		if err != nil {
			t.Fatalf("round trip %d: %v", cents, err)
		}
		if got != cents {
			t.Fatalf("round trip %d: got %d", cents, got)
		}
	}
}
