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
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/bettertext/internal/history"
	"github.com/valpere/bettertext/internal/provider"
	"github.com/valpere/bettertext/internal/settings"
	"github.com/valpere/bettertext/internal/usage"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and edit the stored user settings",
	Long: `Settings are stored under the same keys the browser extension used:

  apiProvider         openai | deepseek
  apiKey, model       legacy credentials, used when the provider-specific ones are empty
  openaiApiKey, openaiModel, openaiBaseUrl
  deepseekApiKey, deepseekModel, deepseekBaseUrl
  targetLanguage      e.g. zh-CN, fr, ja (default zh-CN)
  autoDetectLanguage  true | false
  cacheTranslations   true | false
  modifierClick       off | auto | ctrl | alt | shift, optionally ",nosmart"
  rewriterPlatform    outlook | teams
  rewriterLanguage    e.g. en`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings with API keys masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		s, err := settings.Load(ctx, st)
		if err != nil {
			return err
		}

		mc := s.ModifierClick
		rows := [][2]string{
			{settings.KeyAPIProvider, string(s.APIProvider)},
			{settings.KeyAPIKey, settings.Mask(s.APIKey)},
			{settings.KeyModel, s.Model},
			{settings.KeyOpenAIAPIKey, settings.Mask(s.OpenAIAPIKey)},
			{settings.KeyOpenAIModel, s.OpenAIModel},
			{settings.KeyOpenAIBaseURL, s.OpenAIBaseURL},
			{settings.KeyDeepSeekAPIKey, settings.Mask(s.DeepSeekAPIKey)},
			{settings.KeyDeepSeekModel, s.DeepSeekModel},
			{settings.KeyDeepSeekBaseURL, s.DeepSeekBaseURL},
			{settings.KeyTargetLanguage, fmt.Sprintf("%s (%s)", s.TargetLanguage, provider.LanguageName(s.TargetLanguage))},
			{settings.KeyAutoDetectLanguage, fmt.Sprint(s.AutoDetectLanguage)},
			{settings.KeyCacheTranslations, fmt.Sprint(s.CacheTranslations)},
			{settings.KeyModifierClick, fmt.Sprintf("enabled=%v preferred=%s smart=%v (resolves to %s here)",
				mc.Enabled, mc.PreferredModifier, mc.SmartCrossPlatform, mc.Resolve(runtime.GOOS))},
			{settings.KeyRewriterPlatform, s.RewriterPlatform},
			{settings.KeyRewriterLanguage, s.RewriterLanguage},
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\n", r[0], r[1])
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if err := s.Validate(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "\nWarning: %v\n", err)
		}
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		key, value := args[0], args[1]
		if err := settings.SetValue(ctx, st, key, value); err != nil {
			return err
		}
		if settings.IsSecret(key) {
			value = settings.Mask(value)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove all settings; cache, counters and history are kept",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := settings.Reset(ctx, st); err != nil {
			return fmt.Errorf("failed to reset settings: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Settings reset to defaults.")
		return nil
	},
}

var settingsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a chrome.storage.local JSON export",
	Long: `Copies every known key of a chrome.storage.local export (a single JSON
object) into the settings store, including the translation cache, counters
and rewrite history. Unknown keys are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		var dump map[string]json.RawMessage
		if err := json.Unmarshal(data, &dump); err != nil {
			return fmt.Errorf("failed to parse export: %w", err)
		}

		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		known := make(map[string]bool)
		for _, k := range importableKeys() {
			known[k] = true
		}

		var imported, skipped []string
		for key, raw := range dump {
			if !known[key] {
				skipped = append(skipped, key)
				continue
			}
			if err := st.Set(ctx, key, raw); err != nil {
				return fmt.Errorf("failed to import %s: %w", key, err)
			}
			imported = append(imported, key)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d keys.\n", len(imported))
		if len(skipped) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Skipped unknown keys: %s\n", strings.Join(skipped, ", "))
		}
		return nil
	},
}

var exportReveal bool

var settingsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print every stored key as one chrome.storage-style JSON object",
	Long: `Prints the whole settings store, including cache, counters and history, in
the format "settings import" reads. API keys are masked unless --reveal is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		all, err := st.All(ctx)
		if err != nil {
			return fmt.Errorf("failed to read settings store: %w", err)
		}

		if !exportReveal {
			for key, raw := range all {
				if !settings.IsSecret(key) {
					continue
				}
				var secret string
				if err := json.Unmarshal(raw, &secret); err != nil {
					continue
				}
				masked, _ := json.Marshal(settings.Mask(secret))
				all[key] = masked
			}
		}
		return printJSON(cmd.OutOrStdout(), all)
	},
}

func importableKeys() []string {
	return append(settings.Keys(),
		usage.KeyTranslationCache,
		usage.KeyTranslationCounters,
		history.KeyRewriteHistory,
		settings.KeyLastSelectedText,
	)
}

func init() {
	rootCmd.AddCommand(settingsCmd)

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsImportCmd)
	settingsCmd.AddCommand(settingsExportCmd)

	settingsExportCmd.Flags().BoolVar(&exportReveal, "reveal", false, "Print API keys unmasked")
}
