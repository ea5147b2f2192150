package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soportebi/faro/internal/dataset"
	"github.com/soportebi/faro/internal/logging"
	"github.com/soportebi/faro/pkg/faro"
	"github.com/soportebi/faro/pkg/faro/kpi"
)

var (
	kpisTickets string
	kpisCalls   string
	kpisSurveys string
	kpisOut     string
)

var kpisCmd = &cobra.Command{
	Use:   "kpis",
	Short: "Compute the consolidated call-center KPI summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		batch, err := dataset.LoadTickets(kpisTickets)
		if err != nil {
			return fmt.Errorf("load tickets: %w", err)
		}

		var calls []kpi.CallRecord
		if kpisCalls != "" {
			if calls, err = dataset.LoadCalls(kpisCalls); err != nil {
				return fmt.Errorf("load calls: %w", err)
			}
		}
		var surveys []kpi.SurveyResponse
		if kpisSurveys != "" {
			if surveys, err = dataset.LoadSurveys(kpisSurveys); err != nil {
				return fmt.Errorf("load surveys: %w", err)
			}
		}

		engine := faro.New(faro.Options{Config: cfg, Logger: logging.New("kpis")})
		defer engine.Close()

		summary := engine.KPISummary(batch, calls, surveys)
		return emitJSON(kpisOut, summary)
	},
}

func init() {
	kpisCmd.Flags().StringVar(&kpisTickets, "tickets", "", "ticket CSV export (required)")
	kpisCmd.Flags().StringVar(&kpisCalls, "calls", "", "call record CSV export")
	kpisCmd.Flags().StringVar(&kpisSurveys, "surveys", "", "survey response CSV export")
	kpisCmd.Flags().StringVarP(&kpisOut, "output", "o", "", "write the summary JSON to a file instead of stdout")
	kpisCmd.MarkFlagRequired("tickets")
}
