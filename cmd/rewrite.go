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

	"github.com/valpere/bettertext/internal/broker"
)

var (
	rewritePlatform string
	rewriteLang     string
	rewriteJSON     bool
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [text...]",
	Short: "Rewrite text in three tone-adjusted variants",
	Long: `Rewrites the given text (or stdin) three ways: formal for Outlook emails,
casual for Teams chats. Platform and language default to the
"rewriterPlatform" and "rewriterLanguage" settings.

Each successful rewrite is added to the history (see "bettertext history").`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readText(cmd, args)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		b, st, err := openBroker(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		resp := b.Handle(ctx, broker.Request{
			Action:         broker.ActionRewriteText,
			Text:           text,
			Platform:       rewritePlatform,
			TargetLanguage: rewriteLang,
		})
		if rewriteJSON {
			return printJSON(cmd.OutOrStdout(), resp)
		}
		if err := responseError(resp); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i, r := range resp.Rewrites {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "Option %d:\n%s\n", i+1, r)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rewriteCmd)

	rewriteCmd.Flags().StringVarP(&rewritePlatform, "platform", "p", "", "Target platform: outlook or teams")
	rewriteCmd.Flags().StringVarP(&rewriteLang, "lang", "l", "", "Output language code")
	rewriteCmd.Flags().BoolVar(&rewriteJSON, "json", false, "Print the raw reply message as JSON")
}
