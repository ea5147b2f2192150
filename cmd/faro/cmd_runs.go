package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soportebi/faro/pkg/faro/store/sqlite"
)

var (
	runsDB    string
	runsLimit int
	runsShow  string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List or inspect persisted analysis runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := sqlite.Open(cmd.Context(), runsDB)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		if runsShow != "" {
			run, ok, err := st.GetRun(cmd.Context(), runsShow)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("run %q not found", runsShow)
			}
			return emitJSON("", run)
		}

		infos, err := st.ListRuns(cmd.Context(), runsLimit)
		if err != nil {
			return err
		}
		return emitJSON("", infos)
	},
}

func init() {
	runsCmd.Flags().StringVar(&runsDB, "db", "", "SQLite database (required)")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum number of runs to list")
	runsCmd.Flags().StringVar(&runsShow, "show", "", "show the full run with the given ID")
	runsCmd.MarkFlagRequired("db")
}
