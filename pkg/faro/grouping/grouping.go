// Package grouping clusters causes left unmatched by the rule table. Causes
// are visited in descending frequency order; each unplaced cause seeds a new
// group and absorbs every remaining cause whose keyword-set Jaccard
// similarity clears the threshold. Quadratic in distinct causes, which stay
// in the tens-to-hundreds range for real ticket batches.
package grouping

import (
	"sort"
	"strings"
	"unicode"

	"github.com/soportebi/faro/pkg/faro/keywords"
)

// maxLiteralName bounds group names built from raw cause text when no
// keywords survive extraction.
const maxLiteralName = 20

// Group is a named cluster of similar causes. Members keep the order in
// which they were absorbed, seed first.
type Group struct {
	Name    string
	Members []string
}

// Grouper clusters causes by keyword-set similarity.
type Grouper struct {
	extractor *keywords.Extractor
	threshold float64
}

// New creates a Grouper. The threshold is the minimum Jaccard similarity
// for two causes to share a group.
func New(extractor *keywords.Extractor, threshold float64) *Grouper {
	return &Grouper{extractor: extractor, threshold: threshold}
}

// Group clusters the given causes. The input order is the first-seen order
// of the causes; count supplies each cause's batch frequency. The result is
// deterministic: causes are processed by descending frequency with
// first-seen order as tie-break.
func (g *Grouper) Group(causes []string, count func(string) int) []Group {
	if len(causes) == 0 {
		return nil
	}

	ordered := make([]string, len(causes))
	copy(ordered, causes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return count(ordered[i]) > count(ordered[j])
	})

	sets := make(map[string]keywords.Set, len(ordered))
	for _, cause := range ordered {
		sets[cause] = g.extractor.Set(cause)
	}

	var groups []Group
	byName := make(map[string]int)
	placed := make(map[string]struct{}, len(ordered))

	for i, seed := range ordered {
		if _, done := placed[seed]; done {
			continue
		}
		placed[seed] = struct{}{}

		members := []string{seed}
		seedSet := sets[seed]

		// Empty keyword sets have zero similarity with everything and
		// always end up as singletons.
		if len(seedSet) > 0 {
			for _, other := range ordered[i+1:] {
				if _, done := placed[other]; done {
					continue
				}
				otherSet := sets[other]
				if len(otherSet) == 0 {
					continue
				}
				if keywords.Jaccard(seedSet, otherSet) >= g.threshold {
					members = append(members, other)
					placed[other] = struct{}{}
				}
			}
		}

		name := g.groupName(seed)
		if idx, exists := byName[name]; exists {
			// Distinct seeds can produce the same name; merge rather
			// than drop members so no cause is lost.
			groups[idx].Members = append(groups[idx].Members, members...)
			continue
		}
		byName[name] = len(groups)
		groups = append(groups, Group{Name: name, Members: members})
	}

	return groups
}

// groupName derives a group name from the seed cause's top keywords,
// falling back to a truncated literal when nothing survives extraction.
func (g *Grouper) groupName(seed string) string {
	kws := g.extractor.Extract(seed)
	switch {
	case len(kws) >= 2:
		return titleCase(kws[0]) + " " + titleCase(kws[1])
	case len(kws) == 1:
		return titleCase(kws[0])
	}

	runes := []rune(seed)
	if len(runes) > maxLiteralName {
		return string(runes[:maxLiteralName]) + "..."
	}
	return seed
}

func titleCase(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	var b strings.Builder
	b.WriteRune(unicode.ToUpper(runes[0]))
	b.WriteString(string(runes[1:]))
	return b.String()
}
