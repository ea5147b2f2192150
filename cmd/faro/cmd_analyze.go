package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soportebi/faro/internal/dataset"
	"github.com/soportebi/faro/internal/logging"
	"github.com/soportebi/faro/pkg/faro"
	"github.com/soportebi/faro/pkg/faro/store/sqlite"
)

var (
	analyzeTickets string
	analyzeDB      string
	analyzeOut     string
	analyzeKPIs    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Simplify free-text causes into a bounded category set",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New("analyze")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		batch, err := dataset.LoadTickets(analyzeTickets)
		if err != nil {
			return fmt.Errorf("load tickets: %w", err)
		}

		opts := faro.Options{Config: cfg, Logger: log}
		if analyzeDB != "" {
			st, err := sqlite.Open(cmd.Context(), analyzeDB)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			opts.Store = st
		}
		engine := faro.New(opts)
		defer engine.Close()

		res := engine.SimplifyCauses(batch)

		if analyzeDB != "" {
			var id string
			if analyzeKPIs {
				summary := engine.KPISummary(batch, nil, nil)
				id, err = engine.SaveRun(cmd.Context(), len(batch), res, &summary)
			} else {
				id, err = engine.SaveRun(cmd.Context(), len(batch), res, nil)
			}
			if err != nil {
				return err
			}
			log.Info("persisted analysis run", "id", id, "db", analyzeDB)
		}

		return emitJSON(analyzeOut, res.Report)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeTickets, "tickets", "", "ticket CSV export (required)")
	analyzeCmd.Flags().StringVar(&analyzeDB, "db", "", "SQLite database to persist the run into")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "output", "o", "", "write the report JSON to a file instead of stdout")
	analyzeCmd.Flags().BoolVar(&analyzeKPIs, "with-kpis", false, "also compute and persist the KPI summary")
	analyzeCmd.MarkFlagRequired("tickets")
}
