// Package faro is a batch analysis engine for customer-service operational
// data. It simplifies free-text ticket causes into a bounded category set,
// computes the standard call-center KPIs, and diagnoses advisor
// performance, optionally persisting each run.
package faro

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/soportebi/faro/pkg/faro/advisors"
	"github.com/soportebi/faro/pkg/faro/causes"
	"github.com/soportebi/faro/pkg/faro/config"
	"github.com/soportebi/faro/pkg/faro/kpi"
	"github.com/soportebi/faro/pkg/faro/store"
	"github.com/soportebi/faro/pkg/faro/ticket"
)

// Engine is the analysis facade wiring the pipeline components.
type Engine struct {
	cfg        config.Config
	store      store.Store
	log        *slog.Logger
	simplifier *causes.Simplifier
	calc       *kpi.Calculator
	advisors   *advisors.Analyzer
	now        func() time.Time
	entropy    *ulid.MonotonicEntropy
}

// Options configures an Engine. Store is optional; a nil Logger means
// slog.Default(); a nil Now means time.Now. A zero Config falls back to
// config.Default().
type Options struct {
	Config config.Config
	Store  store.Store
	Logger *slog.Logger
	Now    func() time.Time
}

// New creates an Engine with the given dependencies.
func New(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Config.Causes.MaxCategories == 0 {
		opts.Config = config.Default()
	}

	cfg := opts.Config
	return &Engine{
		cfg:   cfg,
		store: opts.Store,
		log:   opts.Logger,
		now:   opts.Now,
		simplifier: causes.NewSimplifier(causes.Options{
			Table:               cfg.Table(),
			Stopwords:           cfg.Causes.Stopwords,
			SimilarityThreshold: &cfg.Causes.SimilarityThreshold,
			MaxCategories:       cfg.Causes.MaxCategories,
			Logger:              opts.Logger,
		}),
		calc: &kpi.Calculator{Now: opts.Now, Log: opts.Logger},
		advisors: advisors.NewAnalyzer(advisors.Thresholds{
			TargetResolutionRate: cfg.Advisors.TargetResolutionRate,
			EscalationThreshold:  cfg.Advisors.EscalationThreshold,
			WindowDays:           cfg.Advisors.PerformanceWindowDays,
		}, opts.Now, opts.Logger),
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Close releases the underlying store, if any.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// SimplifyCauses normalizes a batch and runs the cause-simplification
// pipeline on it.
func (e *Engine) SimplifyCauses(batch []ticket.Ticket) causes.Result {
	return e.simplifier.Simplify(ticket.Normalize(batch))
}

// KPISummary computes the consolidated KPI summary for a batch plus
// optional call and survey records.
func (e *Engine) KPISummary(batch []ticket.Ticket, calls []kpi.CallRecord, surveys []kpi.SurveyResponse) kpi.Summary {
	return e.calc.Summarize(ticket.Normalize(batch), calls, surveys)
}

// AnalyzeAdvisors runs the advisor performance analysis on a batch.
func (e *Engine) AnalyzeAdvisors(batch []ticket.Ticket) advisors.Result {
	return e.advisors.Analyze(ticket.Normalize(batch))
}

// SaveRun persists a simplification result (and optionally a KPI summary)
// under a fresh ULID, returning the run ID. It errors when the Engine has
// no store.
func (e *Engine) SaveRun(ctx context.Context, ticketCount int, res causes.Result, summary *kpi.Summary) (string, error) {
	if e.store == nil {
		return "", fmt.Errorf("no store configured")
	}

	reportJSON, err := json.Marshal(res.Report)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	var summaryJSON []byte
	if summary != nil {
		if summaryJSON, err = json.Marshal(summary); err != nil {
			return "", fmt.Errorf("marshal summary: %w", err)
		}
	}
	configJSON, err := json.Marshal(e.cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}

	now := e.now()
	run := store.Run{
		ID:             ulid.MustNew(ulid.Timestamp(now), e.entropy).String(),
		CreatedAt:      now,
		TicketCount:    ticketCount,
		OriginalCauses: res.Report.OriginalCauseCount,
		CategoryCount:  res.Report.CategoryCount,
		ReportJSON:     string(reportJSON),
		SummaryJSON:    string(summaryJSON),
		ConfigJSON:     string(configJSON),
	}

	for _, cat := range res.Categories {
		run.Categories = append(run.Categories, store.Category{
			Name:        cat.Name,
			Frequency:   cat.Frequency,
			Impact:      cat.Impact.String(),
			Description: cat.Description,
		})
	}
	for _, row := range res.Rows {
		run.Mappings = append(run.Mappings, store.Mapping{
			Cause:     row.Cause,
			Category:  row.Category,
			Frequency: row.Frequency,
			Impact:    row.Impact.String(),
		})
	}

	if err := e.store.SaveRun(ctx, run); err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}
	e.log.Info("run saved", "id", run.ID, "categories", run.CategoryCount)
	return run.ID, nil
}
