package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/soportebi/faro/pkg/faro/kpi"
	"github.com/soportebi/faro/pkg/faro/ticket"
)

// WriteTickets writes a ticket batch as CSV, round-trippable through
// LoadTickets. Used by the sample-data generator and test fixtures.
func WriteTickets(path string, batch []ticket.Ticket) error {
	return writeCSV(path, []string{
		"ticket_id", "advisor", "product", "segment", "created_at",
		"resolved_at", "status", "cause", "escalated_area", "vip",
		"reopened", "resolution_minutes", "customer_id", "description",
		"priority",
	}, len(batch), func(i int) []string {
		t := batch[i]
		return []string{
			t.ID, t.Advisor, t.Product, t.Segment,
			formatTime(t.CreatedAt), formatTime(t.ResolvedAt),
			string(t.Status), t.Cause, t.EscalatedArea,
			formatBool(t.VIP), formatBool(t.Reopened),
			strconv.Itoa(t.ResolutionMinutes),
			t.CustomerID, t.Description, t.Priority,
		}
	})
}

// WriteCalls writes call-volume records as CSV.
func WriteCalls(path string, calls []kpi.CallRecord) error {
	return writeCSV(path, []string{"advisor", "date", "received", "abandoned"},
		len(calls), func(i int) []string {
			c := calls[i]
			return []string{
				c.Advisor, formatTime(c.Date),
				strconv.Itoa(c.Received), strconv.Itoa(c.Abandoned),
			}
		})
}

// WriteSurveys writes survey responses as CSV.
func WriteSurveys(path string, surveys []kpi.SurveyResponse) error {
	return writeCSV(path, []string{"date", "product", "segment", "advisor", "score"},
		len(surveys), func(i int) []string {
			r := surveys[i]
			return []string{
				formatTime(r.Date), r.Product, r.Segment, r.Advisor,
				strconv.Itoa(r.Score),
			}
		})
}

func writeCSV(path string, header []string, n int, row func(int) []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write %q header: %w", path, err)
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			return fmt.Errorf("write %q row %d: %w", path, i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %q: %w", path, err)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
