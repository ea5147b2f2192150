package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/soportebi/faro/internal/dataset"
	"github.com/soportebi/faro/internal/logging"
	"github.com/soportebi/faro/internal/sample"
)

var (
	sampleOut     string
	sampleTickets int
	sampleDays    int
	sampleSeed    int64
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate a reproducible sample dataset for demos and testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(sampleOut, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}

		batch := sample.Generate(sampleSeed, sampleTickets, sampleDays, time.Now())

		if err := dataset.WriteTickets(filepath.Join(sampleOut, "tickets.csv"), batch.Tickets); err != nil {
			return fmt.Errorf("write tickets: %w", err)
		}
		if err := dataset.WriteCalls(filepath.Join(sampleOut, "calls.csv"), batch.Calls); err != nil {
			return fmt.Errorf("write calls: %w", err)
		}
		if err := dataset.WriteSurveys(filepath.Join(sampleOut, "surveys.csv"), batch.Surveys); err != nil {
			return fmt.Errorf("write surveys: %w", err)
		}

		logging.New("sample").Info("sample dataset written",
			"dir", sampleOut,
			"tickets", len(batch.Tickets),
			"calls", len(batch.Calls),
			"surveys", len(batch.Surveys))
		return nil
	},
}

func init() {
	sampleCmd.Flags().StringVar(&sampleOut, "out", "sample_data", "output directory")
	sampleCmd.Flags().IntVar(&sampleTickets, "tickets", 2000, "number of tickets to generate")
	sampleCmd.Flags().IntVar(&sampleDays, "days", 30, "calendar span of the dataset in days")
	sampleCmd.Flags().Int64Var(&sampleSeed, "seed", 42, "random seed, same seed gives the same dataset")
}
