package interp

import "testing"

// TestFormatNumberMatchesECMAScriptNotationBoundaries exercises the
// Number::toString (ECMA-262 §6.1.6.1.20) notation boundaries that Go's
// strconv.FormatFloat('g', ...) gets wrong: exponent zero-padding and the
// decimal/exponential switchover points.
func TestFormatNumberMatchesECMAScriptNotationBoundaries(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{100, "100"},
		{123.456, "123.456"},
		{0.1, "0.1"},
		{0.00001, "0.00001"},   // 1e-5, still decimal notation (n > -6)
		{0.000001, "0.000001"}, // 1e-6, still decimal notation (n == -5, the last n > -6)
		{0.0000001, "1e-7"},    // 1e-7 switches to exponential, no zero-padding
		{1e21, "1e+21"},
		{1e20, "100000000000000000000"},
		{-1e-7, "-1e-7"},
		{-42, "-42"},
	}
	for _, c := range cases {
		got := formatNumber(c.in)
		if got != c.want {
			t.Errorf("formatNumber(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
