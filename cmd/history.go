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

	"github.com/spf13/cobra"
)

var historyJSON bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear the latest rewrites",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the latest rewrites, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, st, err := openBroker(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		entries, err := b.History(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if historyJSON {
			return printJSON(out, entries)
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "No rewrite history.")
			return nil
		}

		for i, e := range entries {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "[%s] %s, %s\n", e.Timestamp.Local().Format("2006-01-02 15:04"), e.Platform, e.Language)
			fmt.Fprintf(out, "  original:  %s\n", e.OriginalText)
			fmt.Fprintf(out, "  rewritten: %s\n", e.RewrittenText)
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all rewrite history",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, st, err := openBroker(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := b.ClearHistory(ctx); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Rewrite history cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyListCmd.Flags().BoolVar(&historyJSON, "json", false, "Print entries as JSON")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
}
