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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/bettertext/internal"
	"github.com/valpere/bettertext/internal/broker"
	"github.com/valpere/bettertext/internal/detector"
	"github.com/valpere/bettertext/internal/store"
	"github.com/valpere/bettertext/internal/validator"
)

// newDetector loads the lingua language models, which takes a while.
var newDetector = detector.New

// storeConfig reads the store.* keys one by one so that values bound to
// flags are seen; UnmarshalKey on the parent key skips them.
func storeConfig() store.Config {
	return store.Config{
		Driver: viper.GetString("store.driver"),
		Path:   viper.GetString("store.path"),
		Redis: store.RedisConfig{
			Addr:     viper.GetString("store.redis.addr"),
			Password: viper.GetString("store.redis.password"),
			DB:       viper.GetInt("store.redis.db"),
			Prefix:   viper.GetString("store.redis.prefix"),
		},
	}
}

// openStore opens the settings store described by the store.* config keys.
func openStore(ctx context.Context) (store.Store, error) {
	cfg := storeConfig()
	if cfg.Driver == "" || cfg.Driver == "sqlite" {
		if dir := filepath.Dir(cfg.Path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings store: %w", err)
	}
	return st, nil
}

// openBroker opens the store and a broker with its usage state loaded. The
// caller must close the returned store.
func openBroker(ctx context.Context, opts ...broker.Option) (*broker.Broker, store.Store, error) {
	st, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	b := broker.New(st, append([]broker.Option{broker.WithLogger(logger)}, opts...)...)
	if err := b.Load(ctx); err != nil {
		st.Close()
		return nil, nil, err
	}
	return b, st, nil
}

// openTranslator is openBroker with source-language detection and the
// output-language check, for commands that call a provider.
func openTranslator(ctx context.Context) (*broker.Broker, store.Store, error) {
	det := newDetector()
	return openBroker(ctx,
		broker.WithDetector(det),
		broker.WithChecker(validator.New(det)),
	)
}

// readText joins args, or reads stdin when there are none.
func readText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("no text given: pass it as arguments or on stdin")
	}
	return text, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTranslation(w io.Writer, t *internal.Translation, fromCache bool) {
	fmt.Fprintln(w, t.Text)
	if len(t.Examples) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Examples:")
		for _, ex := range t.Examples {
			fmt.Fprintf(w, "  - %s\n    %s\n", ex.Source, ex.Target)
		}
	}
	if fromCache {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "(from cache)")
	}
}

// responseError turns a failed broker reply into an error for RunE.
func responseError(resp broker.Response) error {
	if resp.Status == broker.StatusError {
		return fmt.Errorf("%s", resp.Message)
	}
	if resp.Success != nil && !*resp.Success {
		return fmt.Errorf("%s", resp.Error)
	}
	return nil
}
