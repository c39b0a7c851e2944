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
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/polytran/internal/store"
	"github.com/valpere/polytran/internal/translator"
)

var cacheFilter struct {
	service   string
	operation string
}

func openStore() (*store.Store, error) {
	db, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func filter() store.Filter {
	return store.Filter{
		Service:   cacheFilter.service,
		Operation: translator.Operation(cacheFilter.operation),
	}
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the persistent result store",
	Long:  `List, inspect, and clear the SQLite store that keeps operation results between runs.`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored results",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.List(cmd.Context(), filter())
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No stored results.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSERVICE\tOPERATION\tHITS\tLAST USED\tPAYLOAD")
		for _, e := range entries {
			snippet := []rune(e.Payload)
			if len(snippet) > 50 {
				snippet = append(snippet[:47], []rune("...")...)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
				e.ID, e.Service, e.Operation, e.Hits,
				e.LastUsed.Format("2006-01-02 15:04"), string(snippet))
		}
		return w.Flush()
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Total entries: %d\n", stats.TotalEntries)
		fmt.Fprintf(out, "Total hits:    %d\n", stats.TotalHits)
		for _, service := range slices.Sorted(maps.Keys(stats.ByService)) {
			fmt.Fprintf(out, "  %-12s %d\n", service, stats.ByService[service])
		}
		for _, op := range translator.Operations {
			if n := stats.ByOperation[op]; n > 0 {
				fmt.Fprintf(out, "  %-14s %d\n", op, n)
			}
		}
		return nil
	},
}

var cacheDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored result by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry: %s\n", args[0])
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove stored results",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.Clear(cmd.Context(), filter())
		if err != nil {
			return fmt.Errorf("failed to clear store: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d stored results.\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheListCmd, cacheStatsCmd, cacheDeleteCmd, cacheClearCmd)

	for _, c := range []*cobra.Command{cacheListCmd, cacheClearCmd} {
		c.Flags().StringVar(&cacheFilter.service, "service", "", "Only entries of this backend")
		c.Flags().StringVar(&cacheFilter.operation, "op", "", "Only entries of this operation")
	}
}
