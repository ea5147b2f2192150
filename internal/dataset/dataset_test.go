package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/soportebi/faro/pkg/faro/internalerr"
	"github.com/soportebi/faro/pkg/faro/ticket"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStripMarkup(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Internet lento", "Internet lento"},
		{"  con espacios  ", "con espacios"},
		{"<p>Internet <b>lento</b></p>", "Internet lento"},
		{"<div><span>Cobro</span> duplicado</div>", "Cobro duplicado"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := stripMarkup(tc.in); got != tc.want {
			t.Errorf("stripMarkup(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLoadTickets(t *testing.T) {
	path := writeFile(t, "tickets.csv",
		"ticket_id,advisor,product,segment,created_at,resolved_at,status,cause,escalated_area,vip,reopened,resolution_minutes,customer_id,description,priority\n"+
			"T001,Ana,Fibra,Hogar,2025-03-01T09:00:00Z,2025-03-01T11:00:00Z,Resuelto,Internet lento,,si,false,120,C001,<p>sin conexión</p>,alta\n"+
			"T002,Luis,TV,Hogar,2025-03-02T10:00:00Z,,Abierto,,,no,no,,C002,,\n")

	batch, err := LoadTickets(path)
	if err != nil {
		t.Fatalf("LoadTickets: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("got %d tickets, want 2", len(batch))
	}

	first := batch[0]
	if first.ID != "T001" || first.Advisor != "Ana" || first.Cause != "Internet lento" {
		t.Errorf("first ticket wrong: %+v", first)
	}
	if !first.VIP || first.Reopened {
		t.Errorf("bool parsing wrong: vip=%v reopened=%v", first.VIP, first.Reopened)
	}
	if first.ResolutionMinutes != 120 {
		t.Errorf("ResolutionMinutes = %d, want 120", first.ResolutionMinutes)
	}
	if first.Description != "sin conexión" {
		t.Errorf("markup not stripped from description: %q", first.Description)
	}
	if !first.CreatedAt.Equal(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("CreatedAt = %v", first.CreatedAt)
	}

	second := batch[1]
	if second.Cause != "" || !second.ResolvedAt.IsZero() || second.ResolutionMinutes != 0 {
		t.Errorf("optional fields wrong: %+v", second)
	}
}

func TestLoadTicketsReorderedColumns(t *testing.T) {
	path := writeFile(t, "tickets.csv",
		"cause,Status,ticket_id\nInternet lento,Resuelto,T001\n")

	batch, err := LoadTickets(path)
	if err != nil {
		t.Fatalf("LoadTickets: %v", err)
	}
	if batch[0].ID != "T001" || batch[0].Cause != "Internet lento" {
		t.Errorf("header-indexed load failed: %+v", batch[0])
	}
	if batch[0].Status != ticket.StatusResolved {
		t.Errorf("Status = %q, want Resuelto", batch[0].Status)
	}
}

func TestLoadTicketsBadNumber(t *testing.T) {
	path := writeFile(t, "tickets.csv",
		"ticket_id,resolution_minutes\nT001,muchos\n")

	_, err := LoadTickets(path)
	if err == nil {
		t.Fatal("expected error for non-numeric resolution_minutes")
	}
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput in the chain", err)
	}
}

func TestLoadTicketsBadDate(t *testing.T) {
	path := writeFile(t, "tickets.csv",
		"ticket_id,created_at\nT001,ayer\n")

	_, err := LoadTickets(path)
	if err == nil {
		t.Fatal("expected error for unparseable created_at")
	}
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput in the chain", err)
	}
}

func TestLoadTicketsEmptyFile(t *testing.T) {
	path := writeFile(t, "tickets.csv", "")

	_, err := LoadTickets(path)
	if err == nil {
		t.Fatal("expected error for empty csv")
	}
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput in the chain", err)
	}
}

func TestLoadCallsAndSurveys(t *testing.T) {
	calls, err := LoadCalls(writeFile(t, "calls.csv",
		"advisor,date,received,abandoned\nAna,2025-03-01,80,8\n"))
	if err != nil {
		t.Fatalf("LoadCalls: %v", err)
	}
	if calls[0].Advisor != "Ana" || calls[0].Received != 80 || calls[0].Abandoned != 8 {
		t.Errorf("call record wrong: %+v", calls[0])
	}

	surveys, err := LoadSurveys(writeFile(t, "surveys.csv",
		"date,product,segment,advisor,score\n2025-03-01,Fibra,Hogar,Ana,9\n"))
	if err != nil {
		t.Fatalf("LoadSurveys: %v", err)
	}
	if surveys[0].Score != 9 || surveys[0].Product != "Fibra" {
		t.Errorf("survey wrong: %+v", surveys[0])
	}
}

func TestTicketRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.csv")

	in := []ticket.Ticket{
		{
			ID: "T001", Advisor: "Ana", Product: "Fibra", Segment: "Hogar",
			CreatedAt:  time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
			ResolvedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
			Status:     ticket.StatusResolved, Cause: "Internet lento",
			VIP: true, ResolutionMinutes: 180, CustomerID: "C001",
		},
		{
			ID: "T002", Advisor: "Luis", Product: "TV", Segment: "Empresa",
			CreatedAt: time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC),
			Status:    ticket.StatusEscalated, Cause: "Sin señal",
			EscalatedArea: "Nivel 2", Reopened: true, CustomerID: "C002",
		},
	}

	if err := WriteTickets(path, in); err != nil {
		t.Fatalf("WriteTickets: %v", err)
	}
	out, err := LoadTickets(path)
	if err != nil {
		t.Fatalf("LoadTickets: %v", err)
	}

	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-in +out):\n%s", diff)
	}
}
