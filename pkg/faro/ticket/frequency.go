package ticket

// FrequencyTable counts how often each distinct cause string occurs in a
// batch. Keys are case-sensitive and keep their original form. Distinct
// causes remember their first-seen batch position so that every downstream
// sort has a deterministic tie-break.
type FrequencyTable struct {
	counts map[string]int
	order  []string
}

// CountCauses tabulates the batch's cause column. Tickets carrying the
// CauseUnknown sentinel are skipped.
func CountCauses(batch []Ticket) *FrequencyTable {
	ft := &FrequencyTable{counts: make(map[string]int)}
	for _, t := range batch {
		if t.Cause == CauseUnknown {
			continue
		}
		if _, seen := ft.counts[t.Cause]; !seen {
			ft.order = append(ft.order, t.Cause)
		}
		ft.counts[t.Cause]++
	}
	return ft
}

// Count returns the occurrence count for a cause, zero if absent.
func (ft *FrequencyTable) Count(cause string) int {
	return ft.counts[cause]
}

// Causes returns the distinct causes in first-seen order.
func (ft *FrequencyTable) Causes() []string {
	out := make([]string, len(ft.order))
	copy(out, ft.order)
	return out
}

// Len returns the number of distinct causes.
func (ft *FrequencyTable) Len() int { return len(ft.order) }

// Total returns the number of counted tickets.
func (ft *FrequencyTable) Total() int {
	sum := 0
	for _, c := range ft.counts {
		sum += c
	}
	return sum
}

// GroupByCause partitions a batch by cause string, preserving batch order
// inside each subset. The CauseUnknown sentinel is excluded.
func GroupByCause(batch []Ticket) map[string][]Ticket {
	groups := make(map[string][]Ticket)
	for _, t := range batch {
		if t.Cause == CauseUnknown {
			continue
		}
		groups[t.Cause] = append(groups[t.Cause], t)
	}
	return groups
}
