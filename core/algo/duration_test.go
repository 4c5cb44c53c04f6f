package algo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"full long form", "7 d 15 h 9 m", 10989},
		{"compact form", "7d 15h 9m", 10989},
		{"no spaces", "1d2h3m", 1440 + 120 + 3},
		{"days only", "2d", 2880},
		{"hours and minutes", "3h 5m", 185},
		{"minutes only", "45 m", 45},
		{"uppercase units", "1D 1H", 1500},
		{"surrounding whitespace", "  4h  ", 240},
		{"empty", "", 0},
		{"whitespace only", "   ", 0},
		{"garbage", "soon", 0},
		{"wrong order", "5m 2h", 0},
		{"trailing text", "2d later", 0},
		{"dash placeholder", "-", 0},
		{"days overflow the total", "9223372036854775d", 0},
		{"days overflow an int", "99999999999999999999d 2h", 0},
		{"minutes push past the limit", "6405119470038038d 23h 59m", 0},
		{"large but representable", "1000000d", 1000000 * 1440},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDuration(tt.input))
		})
	}
}

func TestFormatDurationLong(t *testing.T) {
	tests := []struct {
		name    string
		minutes float64
		want    string
	}{
		{"zero", 0, "-"},
		{"negative", -5, "-"},
		{"nan", math.NaN(), "-"},
		{"minutes", 9, "0 d 0 h 9 m"},
		{"exact day", 1440, "1 d 0 h 0 m"},
		{"mixed", 10989, "7 d 15 h 9 m"},
		{"fractional rounds minutes", 61.4, "0 d 1 h 1 m"},
		{"no carry into hours", 59.6, "0 d 0 h 60 m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDurationLong(tt.minutes))
		})
	}
}

func TestFormatDurationShort(t *testing.T) {
	tests := []struct {
		name    string
		minutes float64
		want    string
	}{
		{"zero", 0, "0m"},
		{"negative", -1, "-"},
		{"nan", math.NaN(), "-"},
		{"sub-minute rounds to zero", 0.2, "0m"},
		{"minutes", 42, "42m"},
		{"hours only", 120, "2h"},
		{"days and minutes", 1445, "1d 5m"},
		{"scenario", 10989, "7d 15h 9m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDurationShort(tt.minutes))
		})
	}
}

func TestDurationRoundTrip(t *testing.T) {
	for _, m := range []int{0, 1, 59, 60, 61, 1439, 1440, 1441, 10989, 525600, 1000003} {
		assert.Equal(t, m, ParseDuration(FormatDurationLong(float64(m))), "long form of %d", m)
		assert.Equal(t, m, ParseDuration(FormatDurationShort(float64(m))), "short form of %d", m)
	}
}

// FuzzDurationRoundTrip checks that formatted non-negative minutes parse back unchanged.
func FuzzDurationRoundTrip(f *testing.F) {
	for _, seed := range []uint32{0, 1, 60, 1440, 10989} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, m uint32) {
		minutes := int(m)
		if got := ParseDuration(FormatDurationLong(float64(minutes))); got != minutes {
			t.Fatalf("long round trip of %d gave %d", minutes, got)
		}
		if got := ParseDuration(FormatDurationShort(float64(minutes))); got != minutes {
			t.Fatalf("short round trip of %d gave %d", minutes, got)
		}
	})
}

// FuzzParseDuration fuzzes ParseDuration with arbitrary text.
func FuzzParseDuration(f *testing.F) {
	for _, seed := range []string{"7 d 15 h 9 m", "3h", "", "abc", "99999999999999999999d"} {
		f.Add(seed)
	}

	f.Fuzz(func(_ *testing.T, input string) {
		// We don't assert on the result, just that it doesn't panic
		_ = ParseDuration(input)
	})
}
