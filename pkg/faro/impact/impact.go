// Package impact grades causes and categories by operational severity from
// escalation rate, mean resolution time and reopen rate.
package impact

import (
	"encoding/json"
	"fmt"

	"github.com/soportebi/faro/pkg/faro/ticket"
)

// Level is an impact grade.
type Level int

const (
	Low Level = iota + 1
	Medium
	High
)

// String implements fmt.Stringer.
func (l Level) String() string {
	switch l {
	case High:
		return "High"
	case Medium:
		return "Medium"
	default:
		return "Low"
	}
}

// MarshalJSON encodes the level as its string form.
func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes the string form.
func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel converts the string form back to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "High":
		return High, nil
	case "Medium":
		return Medium, nil
	case "Low":
		return Low, nil
	}
	return 0, fmt.Errorf("unknown impact level %q", s)
}

// Thresholds are the per-cause grading cutoffs. A cause is High when ANY
// high cutoff is exceeded, Medium when any medium cutoff is, else Low.
type Thresholds struct {
	HighEscalation          float64
	MediumEscalation        float64
	HighResolutionMinutes   float64
	MediumResolutionMinutes float64
	HighReopen              float64
	MediumReopen            float64
}

// DefaultThresholds returns the standard cutoffs: escalation over 30%/15%,
// resolution over 8h/4h, reopens over 20%/10%.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HighEscalation:          0.30,
		MediumEscalation:        0.15,
		HighResolutionMinutes:   480,
		MediumResolutionMinutes: 240,
		HighReopen:              0.20,
		MediumReopen:            0.10,
	}
}

// Scorer grades ticket subsets and aggregates member grades per category.
type Scorer struct {
	thresholds Thresholds
}

// NewScorer creates a Scorer with the given thresholds.
func NewScorer(t Thresholds) *Scorer {
	return &Scorer{thresholds: t}
}

// ScoreTickets grades one cause from its ticket subset. An empty subset
// grades Low rather than erroring.
func (s *Scorer) ScoreTickets(subset []ticket.Ticket) Level {
	if len(subset) == 0 {
		return Low
	}

	var escalated, reopened int
	var totalMinutes, resolvedCount int
	for _, t := range subset {
		if t.Escalated() {
			escalated++
		}
		if t.Reopened {
			reopened++
		}
		if t.ResolutionMinutes > 0 {
			totalMinutes += t.ResolutionMinutes
			resolvedCount++
		}
	}

	n := float64(len(subset))
	escalationRate := float64(escalated) / n
	reopenRate := float64(reopened) / n
	var meanResolution float64
	if resolvedCount > 0 {
		meanResolution = float64(totalMinutes) / float64(resolvedCount)
	}

	th := s.thresholds
	switch {
	case escalationRate > th.HighEscalation ||
		meanResolution > th.HighResolutionMinutes ||
		reopenRate > th.HighReopen:
		return High
	case escalationRate > th.MediumEscalation ||
		meanResolution > th.MediumResolutionMinutes ||
		reopenRate > th.MediumReopen:
		return Medium
	default:
		return Low
	}
}

// Aggregate grades a category from its member grades: mean numeric score
// (High=3, Medium=2, Low=1) of at least 2.5 is High, at least 1.5 Medium,
// otherwise Low. No members grades Low.
func Aggregate(levels []Level) Level {
	if len(levels) == 0 {
		return Low
	}
	sum := 0
	for _, l := range levels {
		sum += int(l)
	}
	mean := float64(sum) / float64(len(levels))
	switch {
	case mean >= 2.5:
		return High
	case mean >= 1.5:
		return Medium
	default:
		return Low
	}
}
