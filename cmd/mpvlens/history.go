package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyClear bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print or clear the console history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer store.Close()

		out := cmd.OutOrStdout()
		if historyClear {
			if err := store.ClearHistory(); err != nil {
				return err
			}
			fmt.Fprintln(out, "History cleared.")
			return nil
		}

		lines, err := store.LoadHistory(cfg.HistoryLimit)
		if err != nil {
			return err
		}
		for i, line := range lines {
			fmt.Fprintf(out, "%d: %s\n", i, line)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete all stored history")
	rootCmd.AddCommand(historyCmd)
}
