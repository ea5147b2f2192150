package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/soportebi/faro/pkg/faro/internalerr"
	"github.com/soportebi/faro/pkg/faro/kpi"
	"github.com/soportebi/faro/pkg/faro/ticket"
)

// LoadTickets parses a ticket batch from a CSV export. Expected columns
// (by header name, order-independent): ticket_id, advisor, product,
// segment, created_at, resolved_at, status, cause, escalated_area, vip,
// reopened, resolution_minutes, customer_id, description, priority.
// Blank causes are tolerated; ticket.Normalize handles them downstream.
func LoadTickets(path string) ([]ticket.Ticket, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read %q: %w: empty csv", path, internalerr.ErrInvalidInput)
		}
		return nil, fmt.Errorf("read %q header: %w", path, err)
	}
	idx := headerIndex(header)

	var batch []ticket.Ticket
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %q line %d: %w", path, line+1, err)
		}
		line++

		t := ticket.Ticket{
			ID:            field(record, idx, "ticket_id"),
			Advisor:       field(record, idx, "advisor"),
			Product:       field(record, idx, "product"),
			Segment:       field(record, idx, "segment"),
			Status:        ticket.Status(field(record, idx, "status")),
			Cause:         stripMarkup(field(record, idx, "cause")),
			EscalatedArea: field(record, idx, "escalated_area"),
			VIP:           parseBool(field(record, idx, "vip")),
			Reopened:      parseBool(field(record, idx, "reopened")),
			CustomerID:    field(record, idx, "customer_id"),
			Description:   stripMarkup(field(record, idx, "description")),
			Priority:      field(record, idx, "priority"),
		}
		if v := field(record, idx, "resolution_minutes"); v != "" {
			if t.ResolutionMinutes, err = strconv.Atoi(v); err != nil {
				return nil, fmt.Errorf("parse %q line %d: resolution_minutes: %w: %v", path, line, internalerr.ErrInvalidInput, err)
			}
		}
		if t.CreatedAt, err = parseTime(field(record, idx, "created_at")); err != nil {
			return nil, fmt.Errorf("parse %q line %d: created_at: %w", path, line, err)
		}
		if t.ResolvedAt, err = parseTime(field(record, idx, "resolved_at")); err != nil {
			return nil, fmt.Errorf("parse %q line %d: resolved_at: %w", path, line, err)
		}

		batch = append(batch, t)
	}

	return batch, nil
}

// LoadCalls parses switchboard volume records. Columns: advisor, date,
// received, abandoned.
func LoadCalls(path string) ([]kpi.CallRecord, error) {
	rows, idx, err := readAll(path)
	if err != nil {
		return nil, err
	}

	var calls []kpi.CallRecord
	for i, record := range rows {
		c := kpi.CallRecord{Advisor: field(record, idx, "advisor")}
		if c.Date, err = parseTime(field(record, idx, "date")); err != nil {
			return nil, fmt.Errorf("parse %q line %d: date: %w", path, i+2, err)
		}
		if v := field(record, idx, "received"); v != "" {
			if c.Received, err = strconv.Atoi(v); err != nil {
				return nil, fmt.Errorf("parse %q line %d: received: %w: %v", path, i+2, internalerr.ErrInvalidInput, err)
			}
		}
		if v := field(record, idx, "abandoned"); v != "" {
			if c.Abandoned, err = strconv.Atoi(v); err != nil {
				return nil, fmt.Errorf("parse %q line %d: abandoned: %w: %v", path, i+2, internalerr.ErrInvalidInput, err)
			}
		}
		calls = append(calls, c)
	}
	return calls, nil
}

// LoadSurveys parses NPS survey responses. Columns: date, product,
// segment, advisor, score.
func LoadSurveys(path string) ([]kpi.SurveyResponse, error) {
	rows, idx, err := readAll(path)
	if err != nil {
		return nil, err
	}

	var surveys []kpi.SurveyResponse
	for i, record := range rows {
		r := kpi.SurveyResponse{
			Product: field(record, idx, "product"),
			Segment: field(record, idx, "segment"),
			Advisor: field(record, idx, "advisor"),
		}
		if r.Date, err = parseTime(field(record, idx, "date")); err != nil {
			return nil, fmt.Errorf("parse %q line %d: date: %w", path, i+2, err)
		}
		if v := field(record, idx, "score"); v != "" {
			if r.Score, err = strconv.Atoi(v); err != nil {
				return nil, fmt.Errorf("parse %q line %d: score: %w: %v", path, i+2, internalerr.ErrInvalidInput, err)
			}
		}
		surveys = append(surveys, r)
	}
	return surveys, nil
}

func readAll(path string) ([][]string, map[string]int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("read %q: %w: empty csv", path, internalerr.ErrInvalidInput)
		}
		return nil, nil, fmt.Errorf("read %q header: %w", path, err)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %q: %w", path, err)
	}
	return rows, headerIndex(header), nil
}

// parseTime parses a date column; empty values yield the zero time.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized time %q", internalerr.ErrInvalidInput, s)
}
