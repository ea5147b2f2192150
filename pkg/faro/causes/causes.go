// Package causes implements the cause-simplification pipeline: it collapses
// the free-text cause labels of a ticket batch into a bounded set of named
// categories and produces the cause→category mapping plus an analysis
// report.
//
// The pipeline runs the predefined rule table first over all distinct
// causes; only the unmatched remainder goes through similarity grouping.
// Categories over the configured maximum are consolidated into "Otros".
package causes

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/soportebi/faro/pkg/faro/grouping"
	"github.com/soportebi/faro/pkg/faro/impact"
	"github.com/soportebi/faro/pkg/faro/keywords"
	"github.com/soportebi/faro/pkg/faro/rules"
	"github.com/soportebi/faro/pkg/faro/ticket"
)

// OtherCategory collects low-frequency categories during consolidation.
const OtherCategory = "Otros"

// Unmapped labels causes a Mapping has never seen.
const Unmapped = "Sin Categorizar"

// topCauseLimit bounds the top-cause section of the report.
const topCauseLimit = 20

// Category is one consolidated bucket of causes. Member sets of the
// categories in a Result are disjoint and together cover every distinct
// input cause.
type Category struct {
	Name        string       `json:"name"`
	Members     []string     `json:"members"`
	Frequency   int          `json:"frequency"`
	Impact      impact.Level `json:"impact"`
	Description string       `json:"description"`
}

// Mapping assigns each distinct original cause to exactly one category name.
type Mapping map[string]string

// Lookup returns the category for a cause, or Unmapped when the cause was
// not part of the analyzed batch.
func (m Mapping) Lookup(cause string) string {
	if cat, ok := m[cause]; ok {
		return cat
	}
	return Unmapped
}

// Apply labels every ticket in a batch with its simplified category. It is
// a pure lookup: re-applying a mapping involves no further computation.
func (m Mapping) Apply(batch []ticket.Ticket) []string {
	labels := make([]string, len(batch))
	for i, t := range batch {
		labels[i] = m.Lookup(t.Cause)
	}
	return labels
}

// CategorySummary is the per-category section of the report.
type CategorySummary struct {
	Name        string       `json:"name"`
	Frequency   int          `json:"frequency"`
	Impact      impact.Level `json:"impact"`
	Description string       `json:"description"`
	MemberCount int          `json:"member_count"`
}

// TopCause is one entry of the report's most-frequent-causes section.
type TopCause struct {
	Cause     string       `json:"cause"`
	Frequency int          `json:"frequency"`
	Category  string       `json:"category"`
	Impact    impact.Level `json:"impact"`
}

// Report summarizes one simplification run.
type Report struct {
	OriginalCauseCount  int               `json:"original_cause_count"`
	CategoryCount       int               `json:"category_count"`
	ReductionPercentage float64           `json:"reduction_percentage"`
	Categories          []CategorySummary `json:"categories"`
	ImpactDistribution  map[string]int    `json:"impact_distribution"`
	TopCauses           []TopCause        `json:"top_causes"`
}

// MappingRow is one row of the exportable cause→category table, carrying
// the per-cause frequency and impact alongside the assignment.
type MappingRow struct {
	Cause     string       `json:"cause"`
	Category  string       `json:"category"`
	Frequency int          `json:"frequency"`
	Impact    impact.Level `json:"impact"`
}

// Result is the full output of one simplification run.
type Result struct {
	Categories []Category   `json:"categories"`
	Mapping    Mapping      `json:"mapping"`
	Rows       []MappingRow `json:"rows"`
	Report     Report       `json:"report"`
}

// Options configure a Simplifier. Zero-value fields fall back to the
// package defaults. SimilarityThreshold is a pointer so that an explicit 0
// (every pair of keyword-bearing causes groups together) stays
// distinguishable from unset; nil selects the 0.75 default.
type Options struct {
	Table               rules.Table
	Stopwords           []string
	SimilarityThreshold *float64
	MaxCategories       int
	ImpactThresholds    impact.Thresholds
	Logger              *slog.Logger
}

// Simplifier runs the cause-simplification pipeline. It holds only
// read-only configuration, so one instance can serve many batches.
type Simplifier struct {
	extractor *keywords.Extractor
	table     rules.Table
	grouper   *grouping.Grouper
	scorer    *impact.Scorer
	maxCats   int
	log       *slog.Logger
}

// NewSimplifier creates a Simplifier from options.
func NewSimplifier(opts Options) *Simplifier {
	if opts.Table == nil {
		opts.Table = rules.DefaultTable()
	}
	if opts.Stopwords == nil {
		opts.Stopwords = keywords.DefaultStopwords()
	}
	threshold := 0.75
	if opts.SimilarityThreshold != nil {
		threshold = *opts.SimilarityThreshold
	}
	if opts.MaxCategories == 0 {
		opts.MaxCategories = 15
	}
	if opts.ImpactThresholds == (impact.Thresholds{}) {
		opts.ImpactThresholds = impact.DefaultThresholds()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	extractor := keywords.NewExtractor(opts.Stopwords)
	return &Simplifier{
		extractor: extractor,
		table:     opts.Table,
		grouper:   grouping.New(extractor, threshold),
		scorer:    impact.NewScorer(opts.ImpactThresholds),
		maxCats:   opts.MaxCategories,
		log:       opts.Logger,
	}
}

// Simplify runs the full pipeline on a batch. The batch should be
// normalized (see ticket.Normalize); tickets with the unknown-cause
// sentinel are excluded. An empty batch yields an empty mapping and a
// zero-count report.
func (s *Simplifier) Simplify(batch []ticket.Ticket) Result {
	freq := ticket.CountCauses(batch)
	distinct := freq.Causes()

	if len(distinct) == 0 {
		s.log.Warn("no causes found in ticket batch")
		return Result{
			Mapping: Mapping{},
			Report:  Report{ImpactDistribution: emptyDistribution()},
		}
	}

	s.log.Info("simplifying causes", "distinct", len(distinct), "tickets", freq.Total())

	assigned, unmatched := s.table.Split(distinct)

	// Assemble categories: rule categories in table order, then
	// similarity groups of the remainder in creation order. A group whose
	// derived name collides with an existing category merges into it, so
	// member sets stay disjoint.
	var cats []Category
	index := make(map[string]int)
	add := func(name string, members ...string) {
		if i, ok := index[name]; ok {
			cats[i].Members = append(cats[i].Members, members...)
			return
		}
		index[name] = len(cats)
		cats = append(cats, Category{Name: name, Members: members})
	}

	for _, name := range s.table.Names() {
		var members []string
		for _, cause := range distinct {
			if assigned[cause] == name {
				members = append(members, cause)
			}
		}
		if len(members) > 0 {
			add(name, members...)
		}
	}
	for _, grp := range s.grouper.Group(unmatched, freq.Count) {
		add(grp.Name, grp.Members...)
	}

	for i := range cats {
		cats[i].Frequency = categoryFrequency(cats[i].Members, freq)
	}

	cats = consolidate(cats, s.maxCats, freq)

	// Impact per cause, then aggregated per category.
	byCause := ticket.GroupByCause(batch)
	causeImpact := make(map[string]impact.Level, len(distinct))
	for _, cause := range distinct {
		causeImpact[cause] = s.scorer.ScoreTickets(byCause[cause])
	}

	mapping := make(Mapping, len(distinct))
	for i := range cats {
		levels := make([]impact.Level, len(cats[i].Members))
		for j, member := range cats[i].Members {
			levels[j] = causeImpact[member]
			mapping[member] = cats[i].Name
		}
		cats[i].Impact = impact.Aggregate(levels)
		cats[i].Description = fmt.Sprintf("Agrupa %d causas relacionadas", len(cats[i].Members))
	}

	rows := make([]MappingRow, 0, len(distinct))
	for _, cause := range distinct {
		rows = append(rows, MappingRow{
			Cause:     cause,
			Category:  mapping[cause],
			Frequency: freq.Count(cause),
			Impact:    causeImpact[cause],
		})
	}

	report := buildReport(cats, mapping, causeImpact, freq)

	s.log.Info("simplification complete",
		"categories", len(cats),
		"reduction_percentage", report.ReductionPercentage)

	return Result{Categories: cats, Mapping: mapping, Rows: rows, Report: report}
}

func categoryFrequency(members []string, freq *ticket.FrequencyTable) int {
	total := 0
	for _, m := range members {
		total += freq.Count(m)
	}
	return total
}

// consolidate enforces the category bound: when more than max categories
// exist, the top max-1 by total frequency survive and the rest merge into
// OtherCategory. Sorting is stable so equal frequencies keep creation order.
func consolidate(cats []Category, max int, freq *ticket.FrequencyTable) []Category {
	if max <= 0 || len(cats) <= max {
		return cats
	}

	ranked := make([]Category, len(cats))
	copy(ranked, cats)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Frequency > ranked[j].Frequency
	})

	keep := make(map[string]struct{}, max-1)
	for _, cat := range ranked[:max-1] {
		keep[cat.Name] = struct{}{}
	}

	var out []Category
	var merged Category
	otherIdx := -1
	for _, cat := range cats {
		if _, ok := keep[cat.Name]; ok {
			if cat.Name == OtherCategory {
				otherIdx = len(out)
			}
			out = append(out, cat)
			continue
		}
		merged.Members = append(merged.Members, cat.Members...)
		merged.Frequency += cat.Frequency
	}
	if len(merged.Members) > 0 {
		if otherIdx < 0 {
			out = append(out, Category{Name: OtherCategory})
			otherIdx = len(out) - 1
		}
		out[otherIdx].Members = append(out[otherIdx].Members, merged.Members...)
		out[otherIdx].Frequency += merged.Frequency
	}
	return out
}

func buildReport(cats []Category, mapping Mapping, causeImpact map[string]impact.Level, freq *ticket.FrequencyTable) Report {
	original := freq.Len()
	report := Report{
		OriginalCauseCount: original,
		CategoryCount:      len(cats),
		ImpactDistribution: emptyDistribution(),
	}
	if original > 0 {
		report.ReductionPercentage = (1 - float64(len(cats))/float64(original)) * 100
	}

	for _, cat := range cats {
		report.Categories = append(report.Categories, CategorySummary{
			Name:        cat.Name,
			Frequency:   cat.Frequency,
			Impact:      cat.Impact,
			Description: cat.Description,
			MemberCount: len(cat.Members),
		})
		report.ImpactDistribution[cat.Impact.String()]++
	}

	top := freq.Causes()
	sort.SliceStable(top, func(i, j int) bool {
		return freq.Count(top[i]) > freq.Count(top[j])
	})
	if len(top) > topCauseLimit {
		top = top[:topCauseLimit]
	}
	for _, cause := range top {
		report.TopCauses = append(report.TopCauses, TopCause{
			Cause:     cause,
			Frequency: freq.Count(cause),
			Category:  mapping.Lookup(cause),
			Impact:    causeImpact[cause],
		})
	}

	return report
}

func emptyDistribution() map[string]int {
	return map[string]int{
		impact.High.String():   0,
		impact.Medium.String(): 0,
		impact.Low.String():    0,
	}
}
