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
	"github.com/valpere/bettertext/internal/settings"
)

var (
	testProvider string
	testAPIKey   string
	testModel    string
	testTarget   string
)

var testCmd = &cobra.Command{
	Use:   "test [text...]",
	Short: "Check API credentials with a one-off translation",
	Long: `Translates a sample text with the given credentials before they are saved.
Flags left empty fall back to the saved settings. Nothing is cached or
counted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := "Hello, how are you?"
		if len(args) > 0 {
			var err error
			if text, err = readText(cmd, args); err != nil {
				return err
			}
		}

		ctx := cmd.Context()
		b, st, err := openBroker(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		s, err := settings.Load(ctx, st)
		if err != nil {
			return err
		}
		if testProvider != "" {
			id, err := settings.ParseProviderID(testProvider)
			if err != nil {
				return err
			}
			s.APIProvider = id
		}
		creds := s.Credentials()

		req := broker.Request{
			Action:         broker.ActionTestTranslation,
			Text:           text,
			APIProvider:    string(creds.Provider),
			APIKey:         firstNonEmpty(testAPIKey, creds.APIKey),
			Model:          firstNonEmpty(testModel, creds.Model),
			TargetLanguage: firstNonEmpty(testTarget, s.TargetLanguage),
		}

		resp := b.Handle(ctx, req)
		if err := responseError(resp); err != nil {
			return fmt.Errorf("test failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Test successful! Translation: %s\n", resp.Translation.Text)
		return nil
	},
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	rootCmd.AddCommand(testCmd)

	testCmd.Flags().StringVar(&testProvider, "provider", "", "API provider: openai or deepseek")
	testCmd.Flags().StringVar(&testAPIKey, "api-key", "", "API key to test")
	testCmd.Flags().StringVar(&testModel, "model", "", "Model to test")
	testCmd.Flags().StringVarP(&testTarget, "target", "t", "", "Target language code")
}
