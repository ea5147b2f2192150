package kpi

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/soportebi/faro/pkg/faro/ticket"
)

func fixedNow() time.Time {
	return time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestSummarizeRates(t *testing.T) {
	c := &Calculator{Now: fixedNow}

	batch := ticket.Normalize([]ticket.Ticket{
		{Status: ticket.StatusResolved, ResolutionMinutes: 100, Cause: "a"},
		{Status: ticket.StatusClosed, ResolutionMinutes: 200, Cause: "a", Reopened: true},
		{Status: ticket.StatusResolved, ResolutionMinutes: 300, Cause: "b", EscalatedArea: "Nivel 2"},
		{Status: ticket.StatusOpen, Cause: "b"},
	})

	s := c.Summarize(batch, nil, nil)

	if s.TotalTickets != 4 {
		t.Fatalf("TotalTickets = %d, want 4", s.TotalTickets)
	}
	approx(t, "ResolutionRate", s.ResolutionRate, 0.75)
	approx(t, "EscalationRate", s.EscalationRate, 0.25)
	// only the first ticket is resolved, not reopened and not escalated
	approx(t, "FCRRate", s.FCRRate, 0.25)
	approx(t, "MTTRMinutes", s.MTTRMinutes, 200)
	approx(t, "MedianResolutionMinutes", s.MedianResolutionMinutes, 200)
	approx(t, "AHTMinutes", s.AHTMinutes, 200)

	if !s.GeneratedAt.Equal(fixedNow()) {
		t.Errorf("GeneratedAt = %v, want injected clock", s.GeneratedAt)
	}
}

func TestSummarizeVIPSplit(t *testing.T) {
	c := &Calculator{Now: fixedNow}

	batch := []ticket.Ticket{{VIP: true, Cause: "a"}, {Cause: "b"}, {Cause: "c"}}
	s := c.Summarize(ticket.Normalize(batch), nil, nil)

	if s.VIPTickets != 1 || s.RegularTickets != 2 {
		t.Errorf("VIP split = %d/%d, want 1/2", s.VIPTickets, s.RegularTickets)
	}
}

func TestNetPromoterScore(t *testing.T) {
	surveys := []SurveyResponse{
		{Score: 10}, {Score: 9}, // promoters
		{Score: 8}, {Score: 7}, // passives
		{Score: 6}, {Score: 0}, // detractors
	}

	nps, n := netPromoterScore(surveys)
	if n != 6 {
		t.Errorf("responses = %d, want 6", n)
	}
	// 2/6 promoters minus 2/6 detractors = 0
	approx(t, "NPS", nps, 0)

	nps, _ = netPromoterScore([]SurveyResponse{{Score: 10}, {Score: 10}, {Score: 3}, {Score: 8}})
	approx(t, "NPS", nps, 25)

	if nps, n := netPromoterScore(nil); nps != 0 || n != 0 {
		t.Errorf("empty surveys: nps=%v n=%d, want zeros", nps, n)
	}
}

func TestAbandonmentRate(t *testing.T) {
	calls := []CallRecord{
		{Received: 80, Abandoned: 8},
		{Received: 20, Abandoned: 2},
	}
	approx(t, "AbandonmentRate", abandonmentRate(calls), 0.10)
	approx(t, "AbandonmentRate empty", abandonmentRate(nil), 0)
}

func TestTopCausesOrderingAndLimit(t *testing.T) {
	counts := map[string]int{
		"c01": 1, "c02": 1, "c03": 1, "c04": 1, "c05": 1, "c06": 1,
		"c07": 1, "c08": 1, "c09": 1, "c10": 1, "c11": 1,
		"frecuente": 9,
	}

	top := topCauses(counts)
	if len(top) != 10 {
		t.Fatalf("got %d causes, want the top-10 cap", len(top))
	}
	if top[0].Cause != "frecuente" || top[0].Count != 9 {
		t.Errorf("top[0] = %+v, want frecuente x9", top[0])
	}
	// ties break alphabetically for a deterministic report
	if top[1].Cause != "c01" || top[2].Cause != "c02" {
		t.Errorf("tie order wrong: %+v", top[1:3])
	}
}

func TestEscalationByProduct(t *testing.T) {
	c := &Calculator{Now: fixedNow}

	batch := ticket.Normalize([]ticket.Ticket{
		{Product: "Fibra", Status: ticket.StatusEscalated, Cause: "a"},
		{Product: "Fibra", Status: ticket.StatusResolved, Cause: "a"},
		{Product: "TV", Status: ticket.StatusResolved, Cause: "b"},
	})

	s := c.Summarize(batch, nil, nil)

	want := []ProductRate{
		{Product: "Fibra", Rate: 0.5, Tickets: 2},
		{Product: "TV", Rate: 0, Tickets: 1},
	}
	if diff := cmp.Diff(want, s.EscalationByProduct); diff != "" {
		t.Errorf("EscalationByProduct mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeEmptyBatch(t *testing.T) {
	c := NewCalculator()

	s := c.Summarize(nil, nil, nil)
	if s.TotalTickets != 0 || s.ResolutionRate != 0 || s.MTTRMinutes != 0 {
		t.Errorf("unexpected summary for empty batch: %+v", s)
	}
}

func TestSummarizeExcludesUnknownCauses(t *testing.T) {
	c := &Calculator{Now: fixedNow}

	batch := ticket.Normalize([]ticket.Ticket{
		{Cause: ""}, {Cause: "Internet lento"},
	})

	s := c.Summarize(batch, nil, nil)
	if len(s.TopCauses) != 1 || s.TopCauses[0].Cause != "Internet lento" {
		t.Errorf("TopCauses = %+v, want only the known cause", s.TopCauses)
	}
}
