package scoring

import (
	"math"
	"strconv"
	"strings"
)

// DefaultVolumeOffset keeps log10 away from non-positive input. Observed
// deployments run either 10 or 1; 10 is the documented default.
const DefaultVolumeOffset = 10

const volumeFallback = 1.0

// VolumeQuality computes the 0-10 engagement score from raw view and
// interaction counters: min(10, round10(log10(views + interactions*5 + offset) * 1.5)).
// It never fails; any degenerate intermediate yields the fixed fallback 1.0.
func VolumeQuality(views, interactions string, offset float64) float64 {
	v := ParseCount(views)
	i := ParseCount(interactions)

	quality := math.Log10(v+i*5+offset) * 1.5
	if math.IsNaN(quality) || math.IsInf(quality, 0) {
		return volumeFallback
	}

	quality = math.Round(quality*10) / 10
	if quality > 10 {
		return 10
	}
	if quality < 0 {
		return 0
	}
	return quality
}

// ParseCount coerces heterogeneous counter representations into a number.
// A k/K suffix expands x1000, all other non-digit non-dot characters are
// stripped ("1,234" parses as 1234), and unparsable values become 0.
func ParseCount(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	thousands := strings.HasSuffix(raw, "k") || strings.HasSuffix(raw, "K")

	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	if thousands {
		v *= 1000
	}
	return v
}
