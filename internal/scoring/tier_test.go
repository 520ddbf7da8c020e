package scoring

import (
	"testing"

	"github.com/dazhuang0717-violet/aiscore/internal/domain"
)

func TestTierScorePrecedence(t *testing.T) {
	t.Parallel()

	// "daily" appears in both tier1 and tier3; tier1 must win.
	tiers := ParseTiers(domain.TierConfig{
		Tier1: "人民日报, daily",
		Tier2: "新华网",
		Tier3: "daily, blog",
	})

	if got := tiers.Score("China Daily"); got != 10 {
		t.Fatalf("tier1 overlap scored %v, want 10", got)
	}
}

func TestTierScoreFullWidthComma(t *testing.T) {
	t.Parallel()

	tiers := ParseTiers(domain.TierConfig{
		Tier2: "新华网，央视新闻",
	})

	if got := tiers.Score("央视新闻客户端"); got != 8 {
		t.Fatalf("full-width comma pattern scored %v, want 8", got)
	}
}

func TestTierScoreSubstringMatch(t *testing.T) {
	t.Parallel()

	tiers := ParseTiers(domain.TierConfig{Tier1: "sina"})

	if got := tiers.Score("  Sina Weibo  "); got != 10 {
		t.Fatalf("substring match scored %v, want 10", got)
	}
}

func TestTierScoreDefaults(t *testing.T) {
	t.Parallel()

	tiers := ParseTiers(domain.TierConfig{Tier1: "a", Tier2: "b", Tier3: "c"})

	if got := tiers.Score(""); got != 3 {
		t.Fatalf("empty media name scored %v, want 3", got)
	}
	if got := tiers.Score("xyz"); got != 3 {
		t.Fatalf("unmatched media name scored %v, want 3", got)
	}
}

func TestParseTiersDropsEmptyEntries(t *testing.T) {
	t.Parallel()

	// Empty entries would otherwise match every name via substring
	// containment.
	tiers := ParseTiers(domain.TierConfig{Tier1: " , ,, "})

	if got := tiers.Score("anything"); got != 3 {
		t.Fatalf("blank tier1 patterns scored %v, want 3", got)
	}
}
