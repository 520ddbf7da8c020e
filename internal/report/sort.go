package report

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/dazhuang0717-violet/aiscore/internal/domain"
)

// Sorter implements interactive column sorting: numeric fields compare
// numerically, string fields by locale collation. Selecting a new key sorts
// descending; selecting the current key again flips direction.
type Sorter struct {
	collator   *collate.Collator
	key        string
	descending bool
}

// NewSorter builds a sorter collating strings for the given locale, e.g. "zh".
func NewSorter(locale string) *Sorter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return &Sorter{collator: collate.New(tag)}
}

// Key reports the active sort key.
func (s *Sorter) Key() string { return s.key }

// Descending reports the active direction.
func (s *Sorter) Descending() bool { return s.descending }

// Sort orders a copy of the results by the given key. The canonical result
// list is never mutated.
func (s *Sorter) Sort(results []domain.ResultRecord, key string) []domain.ResultRecord {
	if key == s.key {
		s.descending = !s.descending
	} else {
		s.key = key
		s.descending = true
	}

	sorted := make([]domain.ResultRecord, len(results))
	copy(sorted, results)

	sort.SliceStable(sorted, func(i, j int) bool {
		if s.descending {
			return s.less(sorted[j], sorted[i])
		}
		return s.less(sorted[i], sorted[j])
	})

	return sorted
}

func (s *Sorter) less(a, b domain.ResultRecord) bool {
	aText, aNum, aNumeric := a.Field(s.key)
	bText, bNum, bNumeric := b.Field(s.key)

	if aNumeric && bNumeric {
		return aNum < bNum
	}
	return s.collator.CompareString(aText, bText) < 0
}
