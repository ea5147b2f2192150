// Package advisors diagnoses support-agent performance from ticket data.
// Each advisor gets resolution/escalation/time metrics, a rating, and —
// when the metrics match a known bad pattern — a problem diagnosis:
// over-escalation of solvable cases, a real capacity gap, or retention of
// cases that should have been escalated.
package advisors

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/soportebi/faro/pkg/faro/ticket"
)

// Rating buckets an advisor's overall performance.
type Rating string

const (
	RatingExcellent        Rating = "Excellent"
	RatingGood             Rating = "Good"
	RatingRegular          Rating = "Regular"
	RatingNeedsImprovement Rating = "NeedsImprovement"
)

// ProblemKind labels a diagnosed performance pattern.
type ProblemKind string

const (
	// ProblemTyping: high escalation with normal resolution time — the
	// advisor escalates cases they could likely resolve.
	ProblemTyping ProblemKind = "typing"
	// ProblemCapacity: low resolution rate and slow handling — a real
	// technical-skill gap.
	ProblemCapacity ProblemKind = "capacity"
	// ProblemRetention: almost no escalation yet very slow handling — the
	// advisor holds on to cases that should move up.
	ProblemRetention ProblemKind = "retention"
)

// Thresholds tune the analysis.
type Thresholds struct {
	TargetResolutionRate float64
	EscalationThreshold  float64
	WindowDays           int
}

// DefaultThresholds returns the operating targets: 75% resolution, 25%
// escalation ceiling, 30-day window.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TargetResolutionRate: 0.75,
		EscalationThreshold:  0.25,
		WindowDays:           30,
	}
}

// Performance holds one advisor's metrics over the analysis window.
type Performance struct {
	Advisor               string  `json:"advisor"`
	TotalCases            int     `json:"total_cases"`
	ResolvedCases         int     `json:"resolved_cases"`
	EscalatedCases        int     `json:"escalated_cases"`
	ResolutionRate        float64 `json:"resolution_rate"`
	EscalationRate        float64 `json:"escalation_rate"`
	MeanResolutionMinutes float64 `json:"mean_resolution_minutes"`
	FCRRate               float64 `json:"fcr_rate"`
}

// Rating buckets the advisor by resolution and FCR rates.
func (p Performance) Rating() Rating {
	switch {
	case p.ResolutionRate >= 0.85 && p.FCRRate >= 0.75:
		return RatingExcellent
	case p.ResolutionRate >= 0.75 && p.FCRRate >= 0.60:
		return RatingGood
	case p.ResolutionRate >= 0.60:
		return RatingRegular
	default:
		return RatingNeedsImprovement
	}
}

// NeedsReview reports whether the advisor falls below any review trigger.
func (p Performance) NeedsReview(t Thresholds) bool {
	return p.ResolutionRate < t.TargetResolutionRate ||
		p.EscalationRate > t.EscalationThreshold ||
		p.FCRRate < 0.60
}

// Diagnosis is one identified problem pattern.
type Diagnosis struct {
	Advisor               string      `json:"advisor"`
	Kind                  ProblemKind `json:"kind"`
	EscalationRate        float64     `json:"escalation_rate"`
	ResolutionRate        float64     `json:"resolution_rate"`
	MeanResolutionMinutes float64     `json:"mean_resolution_minutes"`
	Note                  string      `json:"note"`
}

// Recommendation is an action item derived from the diagnoses.
type Recommendation struct {
	Area     string   `json:"area"`
	Text     string   `json:"text"`
	Priority string   `json:"priority"`
	Advisors []string `json:"advisors,omitempty"`
}

// Averages are batch-wide means across advisors.
type Averages struct {
	ResolutionRate        float64 `json:"resolution_rate"`
	EscalationRate        float64 `json:"escalation_rate"`
	MeanResolutionMinutes float64 `json:"mean_resolution_minutes"`
	FCRRate               float64 `json:"fcr_rate"`
}

// Result is the full advisor analysis output.
type Result struct {
	WindowStart     time.Time        `json:"window_start"`
	WindowEnd       time.Time        `json:"window_end"`
	Performances    []Performance    `json:"performances"`
	Distribution    map[Rating]int   `json:"distribution"`
	Diagnoses       []Diagnosis      `json:"diagnoses"`
	Recommendations []Recommendation `json:"recommendations"`
	NeedsReview     []string         `json:"needs_review"`
	Averages        Averages         `json:"averages"`
	Hypothesis      Hypothesis       `json:"hypothesis"`
}

// Analyzer runs advisor performance analysis.
type Analyzer struct {
	thresholds Thresholds
	now        func() time.Time
	log        *slog.Logger
}

// NewAnalyzer creates an Analyzer. A nil now uses time.Now; a nil logger
// uses slog.Default().
func NewAnalyzer(t Thresholds, now func() time.Time, log *slog.Logger) *Analyzer {
	if t == (Thresholds{}) {
		t = DefaultThresholds()
	}
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &Analyzer{thresholds: t, now: now, log: log}
}

// Analyze computes per-advisor metrics over the window, classifies each
// advisor, and derives diagnoses and recommendations. An empty batch
// yields an empty Result.
func (a *Analyzer) Analyze(batch []ticket.Ticket) Result {
	end := a.now()
	start := end.AddDate(0, 0, -a.thresholds.WindowDays)

	res := Result{
		WindowStart:  start,
		WindowEnd:    end,
		Distribution: make(map[Rating]int),
	}

	byAdvisor := make(map[string][]ticket.Ticket)
	var order []string
	for _, t := range batch {
		if t.Advisor == "" {
			continue
		}
		if !t.CreatedAt.IsZero() && t.CreatedAt.Before(start) {
			continue
		}
		if _, seen := byAdvisor[t.Advisor]; !seen {
			order = append(order, t.Advisor)
		}
		byAdvisor[t.Advisor] = append(byAdvisor[t.Advisor], t)
	}
	sort.Strings(order)

	for _, advisor := range order {
		perf := computePerformance(advisor, byAdvisor[advisor])
		res.Performances = append(res.Performances, perf)
		res.Distribution[perf.Rating()]++
		if perf.NeedsReview(a.thresholds) {
			res.NeedsReview = append(res.NeedsReview, advisor)
		}
		if d, ok := a.diagnose(perf); ok {
			res.Diagnoses = append(res.Diagnoses, d)
		}
	}

	res.Averages = averages(res.Performances)
	res.Hypothesis = ValidateResolutionHypothesis(res.Performances)
	res.Recommendations = a.recommend(res)

	a.log.Info("advisor analysis complete",
		"advisors", len(res.Performances),
		"needs_review", len(res.NeedsReview),
		"diagnoses", len(res.Diagnoses))

	return res
}

func computePerformance(advisor string, cases []ticket.Ticket) Performance {
	p := Performance{Advisor: advisor, TotalCases: len(cases)}

	var totalMinutes, resolvedWithTime, fcr int
	for _, t := range cases {
		if t.Resolved() {
			p.ResolvedCases++
			if t.ResolutionMinutes > 0 {
				totalMinutes += t.ResolutionMinutes
				resolvedWithTime++
			}
			if !t.Reopened && !t.Escalated() {
				fcr++
			}
		}
		if t.Escalated() {
			p.EscalatedCases++
		}
	}

	if p.TotalCases > 0 {
		total := float64(p.TotalCases)
		p.ResolutionRate = float64(p.ResolvedCases) / total
		p.EscalationRate = float64(p.EscalatedCases) / total
		p.FCRRate = float64(fcr) / total
	}
	if resolvedWithTime > 0 {
		p.MeanResolutionMinutes = float64(totalMinutes) / float64(resolvedWithTime)
	}
	return p
}

// diagnose matches an advisor's metrics against the known bad patterns.
// At most one pattern applies, checked from most to least actionable.
func (a *Analyzer) diagnose(p Performance) (Diagnosis, bool) {
	d := Diagnosis{
		Advisor:               p.Advisor,
		EscalationRate:        p.EscalationRate,
		ResolutionRate:        p.ResolutionRate,
		MeanResolutionMinutes: p.MeanResolutionMinutes,
	}
	switch {
	case p.EscalationRate > a.thresholds.EscalationThreshold && p.MeanResolutionMinutes < 240:
		d.Kind = ProblemTyping
		d.Note = "escalates cases that resolution speed suggests could be handled directly"
	case p.ResolutionRate < a.thresholds.TargetResolutionRate && p.MeanResolutionMinutes > 360:
		d.Kind = ProblemCapacity
		d.Note = "low resolution rate with slow handling; technical training needed"
	case p.EscalationRate < 0.05 && p.MeanResolutionMinutes > 480:
		d.Kind = ProblemRetention
		d.Note = "retains complex cases that should be escalated"
	default:
		return Diagnosis{}, false
	}
	return d, true
}

func averages(perfs []Performance) Averages {
	if len(perfs) == 0 {
		return Averages{}
	}
	var avg Averages
	for _, p := range perfs {
		avg.ResolutionRate += p.ResolutionRate
		avg.EscalationRate += p.EscalationRate
		avg.MeanResolutionMinutes += p.MeanResolutionMinutes
		avg.FCRRate += p.FCRRate
	}
	n := float64(len(perfs))
	avg.ResolutionRate /= n
	avg.EscalationRate /= n
	avg.MeanResolutionMinutes /= n
	avg.FCRRate /= n
	return avg
}

func (a *Analyzer) recommend(res Result) []Recommendation {
	var recs []Recommendation

	if len(res.Performances) == 0 {
		return recs
	}

	if res.Averages.ResolutionRate < a.thresholds.TargetResolutionRate {
		recs = append(recs, Recommendation{
			Area:     "training",
			Priority: "high",
			Text: fmt.Sprintf("mean resolution rate %.1f%% is below the %.0f%% target; run a technical training program",
				res.Averages.ResolutionRate*100, a.thresholds.TargetResolutionRate*100),
		})
	}
	if res.Averages.EscalationRate > a.thresholds.EscalationThreshold {
		recs = append(recs, Recommendation{
			Area:     "process",
			Priority: "medium",
			Text: fmt.Sprintf("mean escalation rate %.1f%% exceeds the %.0f%% ceiling; review escalation criteria",
				res.Averages.EscalationRate*100, a.thresholds.EscalationThreshold*100),
		})
	}

	byKind := make(map[ProblemKind][]string)
	for _, d := range res.Diagnoses {
		byKind[d.Kind] = append(byKind[d.Kind], d.Advisor)
	}
	if names := byKind[ProblemTyping]; len(names) > 0 {
		recs = append(recs, Recommendation{
			Area:     "typing",
			Priority: "high",
			Text:     fmt.Sprintf("%d advisors over-escalate solvable cases; train on complexity assessment", len(names)),
			Advisors: capNames(names),
		})
	}
	if names := byKind[ProblemCapacity]; len(names) > 0 {
		recs = append(recs, Recommendation{
			Area:     "capacity",
			Priority: "high",
			Text:     fmt.Sprintf("%d advisors need specialized technical training", len(names)),
			Advisors: capNames(names),
		})
	}
	if names := byKind[ProblemRetention]; len(names) > 0 {
		recs = append(recs, Recommendation{
			Area:     "case management",
			Priority: "medium",
			Text:     fmt.Sprintf("%d advisors retain complex cases; train on when to escalate", len(names)),
			Advisors: capNames(names),
		})
	}

	return recs
}

// capNames bounds a recommendation's advisor list to the first five.
func capNames(names []string) []string {
	if len(names) > 5 {
		return names[:5]
	}
	return names
}
