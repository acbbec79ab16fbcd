/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/langbridge/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the run audit log",
	Long:  `List, summarise, and clear the SQLite audit log of pipeline runs.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistoryStore()
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		if len(runs) == 0 {
			fmt.Println("No recorded runs.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tLANG\tSTATUS\tSTEP\tMS\tTEXT")
		for _, r := range runs {
			status := "approved"
			switch {
			case r.ErrorKind != "":
				status = r.ErrorKind
			case !r.Approved:
				status = "blocked: " + strings.Join(r.Categories, ",")
			}

			snippet := r.InputText
			if len(snippet) > 40 {
				snippet = snippet[:37] + "..."
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
				r.CreatedAt.Format("2006-01-02 15:04"), r.LangCode,
				status, r.Step, r.DurationMS, snippet)
		}
		return w.Flush()
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show audit log statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistoryStore()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		fmt.Printf("Total runs: %d\n", stats.Total)
		fmt.Printf("Approved:   %d\n", stats.Approved)
		fmt.Printf("Blocked:    %d\n", stats.Blocked)
		fmt.Printf("Failed:     %d\n", stats.Failed)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistoryStore()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.Clear(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Printf("Cleared %d runs from the audit log.\n", n)
		return nil
	},
}

// openHistoryStore opens the audit store, requiring --db to be set.
func openHistoryStore() (*store.Store, error) {
	db, err := openStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if db == nil {
		return nil, fmt.Errorf("no database configured: pass --db or set it in the config file")
	}
	return db, nil
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum runs to list (0 for all)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyClearCmd)
}
