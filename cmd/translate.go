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
	"github.com/spf13/cobra"

	"github.com/valpere/bettertext/internal/broker"
)

var translateJSON bool

var translateCmd = &cobra.Command{
	Use:   "translate [text...]",
	Short: "Translate text into the configured target language",
	Long: `Translates the given text (or stdin) with the configured provider and
prints the translation with two example sentences.

A repeated request for the same text and target language is served from the
translation cache unless "cacheTranslations" is off.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readText(cmd, args)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		b, st, err := openTranslator(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		resp := b.Handle(ctx, broker.Request{Action: broker.ActionTextSelected, Text: text})
		if translateJSON {
			return printJSON(cmd.OutOrStdout(), resp)
		}
		if err := responseError(resp); err != nil {
			return err
		}
		printTranslation(cmd.OutOrStdout(), resp.Translation, resp.FromCache)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().BoolVar(&translateJSON, "json", false, "Print the raw reply message as JSON")
}
