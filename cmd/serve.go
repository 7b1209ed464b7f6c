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
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/bettertext/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the message endpoint over HTTP",
	Long: `Starts an HTTP server accepting the extension's message protocol:

  POST /v1/messages   {"action":"textSelected","text":"..."}
                      {"action":"rewriteText","text":"...","platform":"teams","targetLanguage":"en"}
                      {"action":"testTranslation","text":"...","apiProvider":"...","apiKey":"...","model":"...","targetLanguage":"..."}
  GET  /v1/stats      usage statistics
  GET  /v1/history    latest rewrites
  GET  /healthz

Message handling is rate limited per client address.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		cfg := serverConfig()
		if cfg.RPS < 0 || (cfg.RPS > 0 && cfg.Burst < 1) {
			return fmt.Errorf("invalid server config: rps %v, burst %d", cfg.RPS, cfg.Burst)
		}

		b, st, err := openTranslator(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		return server.New(b, cfg, logger).Run(ctx)
	},
}

// serverConfig reads the server.* keys, including the serve flags bound to
// them.
func serverConfig() server.Config {
	return server.Config{
		Addr:  viper.GetString("server.addr"),
		RPS:   viper.GetFloat64("server.rps"),
		Burst: viper.GetInt("server.burst"),
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", server.DefaultAddr, "Listen address")
	serveCmd.Flags().Float64("rps", server.DefaultRPS, "Messages per second allowed per client (0 disables limiting)")
	serveCmd.Flags().Int("burst", server.DefaultBurst, "Message burst allowed per client")

	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.rps", serveCmd.Flags().Lookup("rps"))
	_ = viper.BindPFlag("server.burst", serveCmd.Flags().Lookup("burst"))
}
