// Package kpi computes the standard call-center indicators from a ticket
// batch plus optional call-volume and satisfaction-survey records: FCR,
// MTTR, AHT, NPS, escalation and abandonment rates, and the top-cause /
// top-customer breakdowns that feed the executive summary.
package kpi

import (
	"log/slog"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/soportebi/faro/pkg/faro/ticket"
)

// CallRecord is one day's switchboard volume for an advisor queue.
type CallRecord struct {
	Advisor   string    `json:"advisor"`
	Date      time.Time `json:"date"`
	Received  int       `json:"received"`
	Abandoned int       `json:"abandoned"`
}

// SurveyResponse is one post-contact satisfaction answer on the 0-10
// NPS scale.
type SurveyResponse struct {
	Date    time.Time `json:"date"`
	Product string    `json:"product"`
	Segment string    `json:"segment"`
	Advisor string    `json:"advisor,omitempty"`
	Score   int       `json:"score"`
}

// CauseCount pairs a cause with its ticket count.
type CauseCount struct {
	Cause string `json:"cause"`
	Count int    `json:"count"`
}

// CustomerCount pairs a customer with their ticket count.
type CustomerCount struct {
	CustomerID string `json:"customer_id"`
	Count      int    `json:"count"`
}

// ProductRate pairs a product with its escalation rate.
type ProductRate struct {
	Product string  `json:"product"`
	Rate    float64 `json:"rate"`
	Tickets int     `json:"tickets"`
}

// Summary is the consolidated KPI report for one batch.
type Summary struct {
	GeneratedAt    time.Time `json:"generated_at"`
	TotalTickets   int       `json:"total_tickets"`
	VIPTickets     int       `json:"vip_tickets"`
	RegularTickets int       `json:"regular_tickets"`

	ResolutionRate float64 `json:"resolution_rate"`
	EscalationRate float64 `json:"escalation_rate"`
	FCRRate        float64 `json:"fcr_rate"`

	MTTRMinutes             float64 `json:"mttr_minutes"`
	MedianResolutionMinutes float64 `json:"median_resolution_minutes"`
	P90ResolutionMinutes    float64 `json:"p90_resolution_minutes"`
	AHTMinutes              float64 `json:"aht_minutes"`

	NPS             float64 `json:"nps"`
	SurveyResponses int     `json:"survey_responses"`
	AbandonmentRate float64 `json:"abandonment_rate"`

	TopCauses           []CauseCount    `json:"top_causes"`
	TopCustomers        []CustomerCount `json:"top_customers"`
	EscalationByProduct []ProductRate   `json:"escalation_by_product"`
}

// topLimit bounds the top-cause and top-customer sections.
const topLimit = 10

// Calculator computes KPI summaries. Now is injectable for tests; nil
// logger means slog.Default().
type Calculator struct {
	Now func() time.Time
	Log *slog.Logger
}

// NewCalculator returns a Calculator with real time and the default logger.
func NewCalculator() *Calculator {
	return &Calculator{Now: time.Now, Log: slog.Default()}
}

// Summarize computes the full KPI summary. Empty inputs yield zero-valued
// metrics, never an error.
func (c *Calculator) Summarize(batch []ticket.Ticket, calls []CallRecord, surveys []SurveyResponse) Summary {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	log := c.Log
	if log == nil {
		log = slog.Default()
	}

	s := Summary{
		GeneratedAt:  now(),
		TotalTickets: len(batch),
	}

	var resolved, escalated, fcr int
	var resolutionMinutes []float64
	causeCounts := make(map[string]int)
	customerCounts := make(map[string]int)
	productTotals := make(map[string]int)
	productEscalated := make(map[string]int)

	for _, t := range batch {
		if t.VIP {
			s.VIPTickets++
		} else {
			s.RegularTickets++
		}
		if t.Resolved() {
			resolved++
			if t.ResolutionMinutes > 0 {
				resolutionMinutes = append(resolutionMinutes, float64(t.ResolutionMinutes))
			}
			if !t.Reopened && !t.Escalated() {
				fcr++
			}
		}
		if t.Escalated() {
			escalated++
		}
		if t.Cause != ticket.CauseUnknown {
			causeCounts[t.Cause]++
		}
		if t.CustomerID != "" {
			customerCounts[t.CustomerID]++
		}
		if t.Product != "" {
			productTotals[t.Product]++
			if t.Escalated() {
				productEscalated[t.Product]++
			}
		}
	}

	if s.TotalTickets > 0 {
		total := float64(s.TotalTickets)
		s.ResolutionRate = float64(resolved) / total
		s.EscalationRate = float64(escalated) / total
		s.FCRRate = float64(fcr) / total
	}

	if len(resolutionMinutes) > 0 {
		// stats only errors on empty input, which is guarded here.
		s.MTTRMinutes, _ = stats.Mean(resolutionMinutes)
		s.MedianResolutionMinutes, _ = stats.Median(resolutionMinutes)
		s.P90ResolutionMinutes, _ = stats.Percentile(resolutionMinutes, 90)
		// Handle time per case is approximated by resolution time: the
		// ticketing export carries no hold/after-call splits.
		s.AHTMinutes = s.MTTRMinutes
	}

	s.NPS, s.SurveyResponses = netPromoterScore(surveys)
	s.AbandonmentRate = abandonmentRate(calls)

	s.TopCauses = topCauses(causeCounts)
	s.TopCustomers = topCustomers(customerCounts)
	s.EscalationByProduct = escalationByProduct(productTotals, productEscalated)

	log.Info("kpi summary computed",
		"tickets", s.TotalTickets,
		"fcr", s.FCRRate,
		"mttr_minutes", s.MTTRMinutes,
		"nps", s.NPS)

	return s
}

// netPromoterScore computes promoters% minus detractors% on the standard
// 0-10 scale (9-10 promote, 0-6 detract).
func netPromoterScore(surveys []SurveyResponse) (float64, int) {
	if len(surveys) == 0 {
		return 0, 0
	}
	var promoters, detractors int
	for _, r := range surveys {
		switch {
		case r.Score >= 9:
			promoters++
		case r.Score <= 6:
			detractors++
		}
	}
	total := float64(len(surveys))
	return (float64(promoters)/total - float64(detractors)/total) * 100, len(surveys)
}

func abandonmentRate(calls []CallRecord) float64 {
	var received, abandoned int
	for _, c := range calls {
		received += c.Received
		abandoned += c.Abandoned
	}
	if received == 0 {
		return 0
	}
	return float64(abandoned) / float64(received)
}

func topCauses(counts map[string]int) []CauseCount {
	out := make([]CauseCount, 0, len(counts))
	for cause, n := range counts {
		out = append(out, CauseCount{Cause: cause, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Cause < out[j].Cause
	})
	if len(out) > topLimit {
		out = out[:topLimit]
	}
	return out
}

func topCustomers(counts map[string]int) []CustomerCount {
	out := make([]CustomerCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, CustomerCount{CustomerID: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].CustomerID < out[j].CustomerID
	})
	if len(out) > topLimit {
		out = out[:topLimit]
	}
	return out
}

func escalationByProduct(totals, escalated map[string]int) []ProductRate {
	out := make([]ProductRate, 0, len(totals))
	for product, n := range totals {
		out = append(out, ProductRate{
			Product: product,
			Rate:    float64(escalated[product]) / float64(n),
			Tickets: n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rate != out[j].Rate {
			return out[i].Rate > out[j].Rate
		}
		return out[i].Product < out[j].Product
	})
	return out
}
