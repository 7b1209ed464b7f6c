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
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var cacheStatsJSON bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the translation cache and usage counters",
	Long:  `Show usage statistics, clear cached translations and reset usage counters.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show usage statistics and the most translated texts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, st, err := openBroker(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := b.Stats(ctx)
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		out := cmd.OutOrStdout()
		if cacheStatsJSON {
			return printJSON(out, stats)
		}

		fmt.Fprintf(out, "Unique texts:        %d\n", stats.UniqueTexts)
		fmt.Fprintf(out, "Total translations:  %d\n", stats.TotalTranslations)
		fmt.Fprintf(out, "Cached translations: %d\n", stats.CachedTranslations)

		if len(stats.Top) == 0 {
			fmt.Fprintf(out, "\nNo translations yet for %s.\n", stats.TargetLanguage)
			return nil
		}

		fmt.Fprintf(out, "\nMost translated (%s):\n", stats.TargetLanguage)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "COUNT\tTEXT")
		for _, e := range stats.Top {
			snippet := []rune(e.Text)
			if len(snippet) > 50 {
				snippet = append(snippet[:47], []rune("...")...)
			}
			fmt.Fprintf(w, "%d\t%s\n", e.Count, string(snippet))
		}
		return w.Flush()
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached translations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, st, err := openBroker(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := b.ClearCache(ctx); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Translation cache cleared.")
		return nil
	},
}

var cacheResetCountersCmd = &cobra.Command{
	Use:   "reset-counters",
	Short: "Reset the usage counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, st, err := openBroker(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := b.ResetCounters(ctx); err != nil {
			return fmt.Errorf("failed to reset counters: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Usage counters reset.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)

	cacheStatsCmd.Flags().BoolVar(&cacheStatsJSON, "json", false, "Print statistics as JSON")

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheResetCountersCmd)
}
