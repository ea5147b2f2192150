package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soportebi/faro/internal/dataset"
	"github.com/soportebi/faro/internal/logging"
	"github.com/soportebi/faro/pkg/faro"
)

var (
	advisorsTickets string
	advisorsOut     string
)

var advisorsCmd = &cobra.Command{
	Use:   "advisors",
	Short: "Diagnose advisor performance over the configured window",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		batch, err := dataset.LoadTickets(advisorsTickets)
		if err != nil {
			return fmt.Errorf("load tickets: %w", err)
		}

		engine := faro.New(faro.Options{Config: cfg, Logger: logging.New("advisors")})
		defer engine.Close()

		res := engine.AnalyzeAdvisors(batch)
		return emitJSON(advisorsOut, res)
	},
}

func init() {
	advisorsCmd.Flags().StringVar(&advisorsTickets, "tickets", "", "ticket CSV export (required)")
	advisorsCmd.Flags().StringVarP(&advisorsOut, "output", "o", "", "write the result JSON to a file instead of stdout")
	advisorsCmd.MarkFlagRequired("tickets")
}
