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
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/valpere/polytran/internal/config"
	"github.com/valpere/polytran/internal/logging"
)

var version = "0.3.0"

var (
	configFile string
	envFile    string
	logLevel   string
	dbPath     string
	noCache    bool

	cfg    *config.Config
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "polytran",
	Short: "CLI multi-backend translator",
	Long: `A CLI application that runs text operations (translation, transliteration,
spell checking, language detection, examples, dictionary lookups and
text-to-speech) on one backend, or races a request across several.

Supported backends: google, mymemory, systran, ollama, openrouter, amazon,
marian, lingua.

Settings come from polytran.yaml, POLYTRAN_* environment variables and .env.
Use "polytran translate --help" for translation options.`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(config.Options{ConfigFile: configFile, EnvFile: envFile})
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel = logLevel
		}
		if cmd.Flags().Changed("db") {
			loaded.DBPath = dbPath
		}
		if cmd.Flags().Changed("no-cache") {
			loaded.NoCache = noCache
		}
		if err := loaded.Validate(); err != nil {
			return err
		}

		l, err := logging.New(loaded.Env, loaded.LogLevel)
		if err != nil {
			return err
		}
		cfg, logger = loaded, l
		return nil
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ./polytran.yaml or ~/.config/polytran/polytran.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to the .env file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "./data/polytran.db", "Database path for the persistent result store")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Disable the persistent result store")
}
