package advisors

// Hypothesis is the result of checking whether the batch confirms the
// "only a quarter of cases resolve in time" suspicion: a mean resolution
// rate at or below 30% points at mis-typing in the ticketing tool rather
// than a pure capacity problem.
type Hypothesis struct {
	MeanResolutionRate float64 `json:"mean_resolution_rate"`
	Below25            int     `json:"below_25"`
	Between25And50     int     `json:"between_25_and_50"`
	Between50And75     int     `json:"between_50_and_75"`
	Above75            int     `json:"above_75"`
	Confirmed          bool    `json:"confirmed"`
	Conclusion         string  `json:"conclusion"`
}

// ValidateResolutionHypothesis buckets advisors by resolution rate and
// checks the low-resolution hypothesis against the batch mean.
func ValidateResolutionHypothesis(perfs []Performance) Hypothesis {
	if len(perfs) == 0 {
		return Hypothesis{}
	}

	var h Hypothesis
	var sum float64
	for _, p := range perfs {
		sum += p.ResolutionRate
		switch {
		case p.ResolutionRate < 0.25:
			h.Below25++
		case p.ResolutionRate < 0.50:
			h.Between25And50++
		case p.ResolutionRate < 0.75:
			h.Between50And75++
		default:
			h.Above75++
		}
	}
	h.MeanResolutionRate = sum / float64(len(perfs))
	h.Confirmed = h.MeanResolutionRate <= 0.30
	if h.Confirmed {
		h.Conclusion = "confirms a typing problem: review case classification criteria"
	} else {
		h.Conclusion = "points at resolution capacity: intensify technical training"
	}
	return h
}
