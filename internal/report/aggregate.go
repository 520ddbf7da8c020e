package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dazhuang0717-violet/aiscore/internal/domain"
)

const topRankSize = 10

// Average returns the arithmetic mean of a numeric field across all records.
// ok is false when the set is empty or the field is not numeric.
func Average(results []domain.ResultRecord, field string) (mean float64, ok bool) {
	if len(results) == 0 {
		return 0, false
	}

	var sum float64
	for _, r := range results {
		_, num, numeric := r.Field(field)
		if !numeric {
			return 0, false
		}
		sum += num
	}
	return sum / float64(len(results)), true
}

// TopRanked returns the first n records by total score descending. The sort
// is stable: ties keep their original input order. The input slice is never
// mutated.
func TopRanked(results []domain.ResultRecord, n int) []domain.ResultRecord {
	ranked := make([]domain.ResultRecord, len(results))
	copy(ranked, results)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total() > ranked[j].Total()
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// Render produces the plain-text summary report: rubric averages, the fixed
// scoring formula, the top-10 ranking, and the full listing ordered by the
// sorter's default column.
func Render(results []domain.ResultRecord, sorter *Sorter) string {
	var b strings.Builder

	b.WriteString("Scoring rubric:\n")
	b.WriteString("  volume_total = 0.6 * volume_quality + 0.4 * tier_score\n")
	b.WriteString("  true_demand  = 0.6 * km_score + 0.4 * audience_precision_score\n")
	b.WriteString("  total_score  = 0.5 * true_demand + 0.2 * acquisition_score + 0.3 * volume_total\n\n")

	if len(results) == 0 {
		b.WriteString("No results.\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Rows scored: %d\n", len(results)))
	for _, field := range []string{
		"volume_quality", "tier_score", "km_score",
		"acquisition_score", "audience_precision_score", "total_score",
	} {
		if mean, ok := Average(results, field); ok {
			b.WriteString(fmt.Sprintf("  avg %-24s %.2f\n", field, mean))
		}
	}

	b.WriteString("\nTop entries:\n")
	for i, r := range TopRanked(results, topRankSize) {
		b.WriteString(fmt.Sprintf("  %2d. %-8s %s (%s)\n", i+1, r.TotalScore, r.Title, r.MediaName))
	}

	if sorter != nil {
		b.WriteString("\nAll rows by total score:\n")
		for _, r := range sorter.Sort(results, "total_score") {
			b.WriteString(fmt.Sprintf("  %-8s %-8s %-8s %s (%s) %s\n",
				r.TotalScore, r.TrueDemand, r.VolumeTotal, r.Title, r.MediaName, r.Comment))
		}
	}

	return b.String()
}
