package ticket

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a ticket. Values mirror the labels used
// by the upstream ticketing tool, which reports in Spanish.
type Status string

const (
	StatusOpen       Status = "Abierto"
	StatusInProgress Status = "En Progreso"
	StatusEscalated  Status = "Escalado"
	StatusResolved   Status = "Resuelto"
	StatusClosed     Status = "Cerrado"
	StatusReopened   Status = "Reaperturado"
)

// CauseUnknown is the sentinel assigned to tickets whose cause field arrived
// empty or missing. Tickets carrying it are excluded from cause analysis.
const CauseUnknown = "(desconocida)"

// Ticket is one customer-service case.
type Ticket struct {
	ID                string    `json:"ticket_id"`
	Advisor           string    `json:"advisor"`
	Product           string    `json:"product"`
	Segment           string    `json:"segment"`
	CreatedAt         time.Time `json:"created_at"`
	ResolvedAt        time.Time `json:"resolved_at,omitzero"`
	Status            Status    `json:"status"`
	Cause             string    `json:"cause"`
	EscalatedArea     string    `json:"escalated_area,omitempty"`
	VIP               bool      `json:"vip"`
	Reopened          bool      `json:"reopened"`
	ResolutionMinutes int       `json:"resolution_minutes"`
	CustomerID        string    `json:"customer_id"`
	Description       string    `json:"description,omitempty"`
	Priority          string    `json:"priority,omitempty"`
}

// Escalated reports whether the ticket was handed to another area.
func (t Ticket) Escalated() bool {
	return t.EscalatedArea != "" || t.Status == StatusEscalated
}

// Resolved reports whether the ticket reached a terminal resolved state.
func (t Ticket) Resolved() bool {
	return t.Status == StatusResolved || t.Status == StatusClosed
}

// Normalize returns a copy of the batch with cause fields trimmed and
// empty causes replaced by the CauseUnknown sentinel. All downstream
// analysis runs on normalized batches, so missing-value handling lives
// here instead of in each stage.
func Normalize(batch []Ticket) []Ticket {
	out := make([]Ticket, len(batch))
	for i, t := range batch {
		t.Cause = strings.TrimSpace(t.Cause)
		if t.Cause == "" {
			t.Cause = CauseUnknown
		}
		out[i] = t
	}
	return out
}
