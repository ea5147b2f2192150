package advisors

import (
	"fmt"
	"testing"
	"time"

	"github.com/soportebi/faro/pkg/faro/ticket"
)

func fixedNow() time.Time {
	return time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
}

// advisorCases synthesizes a case load with the given resolved/escalated
// counts and resolution time, created inside the analysis window.
func advisorCases(advisor string, total, resolved, escalated, minutes int) []ticket.Ticket {
	created := fixedNow().AddDate(0, 0, -5)
	batch := make([]ticket.Ticket, total)
	for i := range batch {
		tk := ticket.Ticket{
			ID:        fmt.Sprintf("%s-%03d", advisor, i),
			Advisor:   advisor,
			Cause:     "causa generica",
			CreatedAt: created,
			Status:    ticket.StatusOpen,
		}
		if i < resolved {
			tk.Status = ticket.StatusResolved
			tk.ResolutionMinutes = minutes
		}
		if i < escalated {
			tk.EscalatedArea = "Nivel 2"
		}
		batch[i] = tk
	}
	return batch
}

func TestComputePerformance(t *testing.T) {
	cases := advisorCases("Ana", 10, 8, 2, 120)

	p := computePerformance("Ana", cases)

	if p.TotalCases != 10 || p.ResolvedCases != 8 || p.EscalatedCases != 2 {
		t.Fatalf("counts = %d/%d/%d, want 10/8/2", p.TotalCases, p.ResolvedCases, p.EscalatedCases)
	}
	if p.ResolutionRate != 0.8 || p.EscalationRate != 0.2 {
		t.Errorf("rates = %v/%v, want 0.8/0.2", p.ResolutionRate, p.EscalationRate)
	}
	if p.MeanResolutionMinutes != 120 {
		t.Errorf("MeanResolutionMinutes = %v, want 120", p.MeanResolutionMinutes)
	}
	// 6 of 8 resolved cases were neither reopened nor escalated
	if p.FCRRate != 0.6 {
		t.Errorf("FCRRate = %v, want 0.6", p.FCRRate)
	}
}

func TestRating(t *testing.T) {
	cases := []struct {
		resolution, fcr float64
		want            Rating
	}{
		{0.90, 0.80, RatingExcellent},
		{0.80, 0.65, RatingGood},
		{0.85, 0.50, RatingRegular},
		{0.65, 0.60, RatingRegular},
		{0.50, 0.40, RatingNeedsImprovement},
	}
	for _, tc := range cases {
		p := Performance{ResolutionRate: tc.resolution, FCRRate: tc.fcr}
		if got := p.Rating(); got != tc.want {
			t.Errorf("Rating(res=%v fcr=%v) = %v, want %v", tc.resolution, tc.fcr, got, tc.want)
		}
	}
}

func TestDiagnoseTyping(t *testing.T) {
	a := NewAnalyzer(DefaultThresholds(), fixedNow, nil)

	// fast but escalates a third of everything
	p := Performance{Advisor: "Luis", EscalationRate: 0.35, ResolutionRate: 0.80, MeanResolutionMinutes: 90}
	d, ok := a.diagnose(p)
	if !ok || d.Kind != ProblemTyping {
		t.Errorf("diagnose = %+v, %v; want typing", d, ok)
	}
}

func TestDiagnoseCapacity(t *testing.T) {
	a := NewAnalyzer(DefaultThresholds(), fixedNow, nil)

	p := Performance{Advisor: "Marta", EscalationRate: 0.10, ResolutionRate: 0.50, MeanResolutionMinutes: 400}
	d, ok := a.diagnose(p)
	if !ok || d.Kind != ProblemCapacity {
		t.Errorf("diagnose = %+v, %v; want capacity", d, ok)
	}
}

func TestDiagnoseRetention(t *testing.T) {
	a := NewAnalyzer(DefaultThresholds(), fixedNow, nil)

	p := Performance{Advisor: "Pedro", EscalationRate: 0.02, ResolutionRate: 0.80, MeanResolutionMinutes: 520}
	d, ok := a.diagnose(p)
	if !ok || d.Kind != ProblemRetention {
		t.Errorf("diagnose = %+v, %v; want retention", d, ok)
	}
}

func TestDiagnoseHealthy(t *testing.T) {
	a := NewAnalyzer(DefaultThresholds(), fixedNow, nil)

	p := Performance{Advisor: "Sofia", EscalationRate: 0.10, ResolutionRate: 0.90, MeanResolutionMinutes: 150}
	if d, ok := a.diagnose(p); ok {
		t.Errorf("healthy advisor diagnosed: %+v", d)
	}
}

func TestAnalyzeWindowFilter(t *testing.T) {
	a := NewAnalyzer(DefaultThresholds(), fixedNow, nil)

	batch := advisorCases("Ana", 5, 5, 0, 60)
	stale := ticket.Ticket{
		ID:        "OLD-1",
		Advisor:   "Viejo",
		Cause:     "causa vieja",
		CreatedAt: fixedNow().AddDate(0, 0, -60),
		Status:    ticket.StatusResolved,
	}
	batch = append(batch, stale)

	res := a.Analyze(batch)

	if len(res.Performances) != 1 || res.Performances[0].Advisor != "Ana" {
		t.Errorf("window filter failed: %+v", res.Performances)
	}
	if !res.WindowStart.Equal(fixedNow().AddDate(0, 0, -30)) {
		t.Errorf("WindowStart = %v, want 30 days back", res.WindowStart)
	}
}

func TestAnalyzeSortsAdvisors(t *testing.T) {
	a := NewAnalyzer(DefaultThresholds(), fixedNow, nil)

	batch := advisorCases("Zoe", 3, 3, 0, 60)
	batch = append(batch, advisorCases("Ana", 3, 3, 0, 60)...)
	batch = append(batch, advisorCases("Luis", 3, 3, 0, 60)...)

	res := a.Analyze(batch)

	want := []string{"Ana", "Luis", "Zoe"}
	for i, w := range want {
		if res.Performances[i].Advisor != w {
			t.Errorf("Performances[%d] = %q, want %q", i, res.Performances[i].Advisor, w)
		}
	}
}

func TestAnalyzeNeedsReviewAndRecommendations(t *testing.T) {
	a := NewAnalyzer(DefaultThresholds(), fixedNow, nil)

	// resolution 2/10 with slow handling: capacity pattern, below target
	batch := advisorCases("Lento", 10, 2, 0, 500)
	res := a.Analyze(batch)

	if len(res.NeedsReview) != 1 || res.NeedsReview[0] != "Lento" {
		t.Fatalf("NeedsReview = %v, want [Lento]", res.NeedsReview)
	}
	if len(res.Diagnoses) != 1 || res.Diagnoses[0].Kind != ProblemCapacity {
		t.Fatalf("Diagnoses = %+v, want one capacity diagnosis", res.Diagnoses)
	}

	var areas []string
	for _, r := range res.Recommendations {
		areas = append(areas, r.Area)
	}
	// average resolution below target plus the capacity diagnosis
	if len(areas) < 2 {
		t.Errorf("Recommendations = %v, want training and capacity items", areas)
	}
}

func TestAnalyzeEmptyBatch(t *testing.T) {
	a := NewAnalyzer(DefaultThresholds(), fixedNow, nil)

	res := a.Analyze(nil)
	if len(res.Performances) != 0 || len(res.Recommendations) != 0 {
		t.Errorf("unexpected result for empty batch: %+v", res)
	}
}

func TestAnalyzeIncludesHypothesis(t *testing.T) {
	a := NewAnalyzer(DefaultThresholds(), fixedNow, nil)

	batch := append(
		advisorCases("Baja", 10, 2, 0, 100),
		advisorCases("Media", 10, 3, 0, 100)...,
	)
	res := a.Analyze(batch)

	h := res.Hypothesis
	if !h.Confirmed {
		t.Errorf("mean resolution 0.25 should confirm the hypothesis: %+v", h)
	}
	if h.Below25 != 1 || h.Between25And50 != 1 {
		t.Errorf("buckets = %+v, want Below25:1 Between25And50:1", h)
	}
	if h.Conclusion == "" {
		t.Error("hypothesis conclusion missing from analysis result")
	}
}

func TestValidateResolutionHypothesis(t *testing.T) {
	perfs := []Performance{
		{ResolutionRate: 0.20},
		{ResolutionRate: 0.30},
		{ResolutionRate: 0.25},
	}

	h := ValidateResolutionHypothesis(perfs)
	if !h.Confirmed {
		t.Errorf("mean 0.25 should confirm the hypothesis: %+v", h)
	}
	if h.Below25 != 1 || h.Between25And50 != 2 {
		t.Errorf("buckets = %+v, want Below25:1 Between25And50:2", h)
	}

	h = ValidateResolutionHypothesis([]Performance{{ResolutionRate: 0.80}, {ResolutionRate: 0.90}})
	if h.Confirmed {
		t.Errorf("mean 0.85 should not confirm the hypothesis: %+v", h)
	}
	if h.Above75 != 2 {
		t.Errorf("Above75 = %d, want 2", h.Above75)
	}

	if got := ValidateResolutionHypothesis(nil); got.Confirmed || got.MeanResolutionRate != 0 {
		t.Errorf("empty input should yield the zero Hypothesis: %+v", got)
	}
}
