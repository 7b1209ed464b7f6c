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
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "0.1.0"

var (
	cfgFile   string
	configErr error
	logger    = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "bettertext",
	Short: "Translate and rewrite text with LLM chat APIs",
	Long: `A CLI application that translates selected text and rewrites messages in a
formal (Outlook) or casual (Teams) tone using an OpenAI or DeepSeek chat API.

Translations are cached and counted; the five latest rewrites are kept.
Settings live in the settings store (SQLite by default, Redis optionally).

Use "bettertext settings set apiProvider openai" and friends to configure,
then "bettertext translate" or "bettertext serve".`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}

		var err error
		logger, err = newLogger(viper.GetString("log.level"))
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("Using config file", zap.String("path", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default is $HOME/.bettertext.yaml)")
	flags.String("store", "sqlite", "Settings store: sqlite, redis or memory")
	flags.String("db", "./data/bettertext.db", "SQLite database path")
	flags.String("redis-addr", "localhost:6379", "Redis address when --store=redis")
	flags.String("log-level", "warn", "Log level: debug, info, warn or error")

	_ = viper.BindPFlag("store.driver", flags.Lookup("store"))
	_ = viper.BindPFlag("store.path", flags.Lookup("db"))
	_ = viper.BindPFlag("store.redis.addr", flags.Lookup("redis-addr"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))

	viper.SetDefault("store.redis.prefix", "bettertext:")
}

// initConfig reads the config file and BETTERTEXT_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".bettertext")
	}

	viper.SetEnvPrefix("BETTERTEXT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			configErr = fmt.Errorf("failed to read config: %w", err)
		}
	}
}

// newLogger builds a console logger for debug and a JSON one otherwise.
// Both write to stderr so command output stays clean.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	config := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(lvl)
	return config.Build()
}
