// Package store defines persistence for analysis runs. Each run records
// the cause mapping, the consolidated categories and the serialized
// reports under a ULID, so past simplifications can be listed and their
// mappings re-applied to new batches.
package store

import (
	"context"
	"time"
)

// Store persists and retrieves analysis runs.
type Store interface {
	Close() error

	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	ListRuns(ctx context.Context, limit int) ([]RunInfo, error)
	GetMapping(ctx context.Context, runID string) (map[string]string, error)
}

// Run is one persisted analysis run.
type Run struct {
	ID             string
	CreatedAt      time.Time
	TicketCount    int
	OriginalCauses int
	CategoryCount  int
	ReportJSON     string
	SummaryJSON    string // optional KPI summary
	ConfigJSON     string // config snapshot the run was produced with
	Categories     []Category
	Mappings       []Mapping
}

// Category is one persisted category row.
type Category struct {
	Name        string
	Frequency   int
	Impact      string
	Description string
}

// Mapping is one persisted cause→category row.
type Mapping struct {
	Cause     string
	Category  string
	Frequency int
	Impact    string
}

// RunInfo is the listing view of a run.
type RunInfo struct {
	ID             string
	CreatedAt      time.Time
	TicketCount    int
	OriginalCauses int
	CategoryCount  int
}
