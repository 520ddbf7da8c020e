package scoring

import (
	"strings"

	"github.com/dazhuang0717-violet/aiscore/internal/domain"
)

// Tier scores by precedence bucket; unmatched names score 3.
const (
	tier1Score  = 10
	tier2Score  = 8
	tier3Score  = 5
	tierNoMatch = 3
)

// TierList holds the parsed, normalized patterns per tier.
type TierList struct {
	tier1 []string
	tier2 []string
	tier3 []string
}

// ParseTiers splits each tier's raw pattern list on ASCII and full-width
// commas, trims, lowercases, and drops empty entries.
func ParseTiers(cfg domain.TierConfig) TierList {
	return TierList{
		tier1: splitPatterns(cfg.Tier1),
		tier2: splitPatterns(cfg.Tier2),
		tier3: splitPatterns(cfg.Tier3),
	}
}

// Score resolves the media tier score for a media name. Matching is substring
// containment against the normalized name, tier1 first: a name matching tier1
// never falls through to a lower tier.
func (t TierList) Score(mediaName string) float64 {
	name := strings.ToLower(strings.TrimSpace(mediaName))
	if name == "" {
		return tierNoMatch
	}

	for _, p := range t.tier1 {
		if strings.Contains(name, p) {
			return tier1Score
		}
	}
	for _, p := range t.tier2 {
		if strings.Contains(name, p) {
			return tier2Score
		}
	}
	for _, p := range t.tier3 {
		if strings.Contains(name, p) {
			return tier3Score
		}
	}
	return tierNoMatch
}

func splitPatterns(raw string) []string {
	raw = strings.ReplaceAll(raw, "，", ",")

	var patterns []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		patterns = append(patterns, part)
	}
	return patterns
}
