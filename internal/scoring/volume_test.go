package scoring

import "testing"

func TestParseCount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want float64
	}{
		{"2.5k", 2500},
		{"12K", 12000},
		{"1,234", 1234},
		{" 300 ", 300},
		{"4.5", 4.5},
		{"n/a", 0},
		{"", 0},
		{"...", 0},
	}

	for _, tc := range cases {
		if got := ParseCount(tc.raw); got != tc.want {
			t.Fatalf("ParseCount(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestVolumeQualityBounds(t *testing.T) {
	t.Parallel()

	inputs := []struct{ views, interactions string }{
		{"0", "0"},
		{"1", "0"},
		{"100", "20"},
		{"100000", "5000"},
		{"999999999999", "999999999"},
		{"garbage", "also garbage"},
	}

	for _, in := range inputs {
		q := VolumeQuality(in.views, in.interactions, DefaultVolumeOffset)
		if q < 0 || q > 10 {
			t.Fatalf("VolumeQuality(%q, %q) = %v, out of [0, 10]", in.views, in.interactions, q)
		}
	}
}

func TestVolumeQualityMonotonic(t *testing.T) {
	t.Parallel()

	views := []string{"0", "10", "100", "1000", "100000"}
	prev := -1.0
	for _, v := range views {
		q := VolumeQuality(v, "0", DefaultVolumeOffset)
		if q < prev {
			t.Fatalf("quality decreased at views=%s: %v < %v", v, q, prev)
		}
		prev = q
	}

	interactions := []string{"0", "5", "50", "5000"}
	prev = -1.0
	for _, i := range interactions {
		q := VolumeQuality("100", i, DefaultVolumeOffset)
		if q < prev {
			t.Fatalf("quality decreased at interactions=%s: %v < %v", i, q, prev)
		}
		prev = q
	}
}

func TestVolumeQualityKnownValue(t *testing.T) {
	t.Parallel()

	// views=990, interactions=0, offset=10: log10(1000)*1.5 = 4.5
	if got := VolumeQuality("990", "0", DefaultVolumeOffset); got != 4.5 {
		t.Fatalf("VolumeQuality(990, 0) = %v, want 4.5", got)
	}
}

func TestVolumeQualityUnparsableInputs(t *testing.T) {
	t.Parallel()

	// Unparsable counters coerce to 0, they do not fail.
	got := VolumeQuality("??", "??", DefaultVolumeOffset)
	want := VolumeQuality("0", "0", DefaultVolumeOffset)
	if got != want {
		t.Fatalf("unparsable inputs scored %v, want %v", got, want)
	}
}

func TestVolumeQualityDegenerateOffset(t *testing.T) {
	t.Parallel()

	// A zero offset with zero counters pushes log10 to -Inf; the fixed
	// fallback must come back instead.
	if got := VolumeQuality("0", "0", 0); got != 1.0 {
		t.Fatalf("degenerate input scored %v, want fallback 1.0", got)
	}
}
