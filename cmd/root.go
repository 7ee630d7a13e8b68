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
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/valpere/scriptran/internal/apierr"
	"github.com/valpere/scriptran/internal/config"
	"github.com/valpere/scriptran/internal/logging"
)

var version = "0.1.0"

var (
	configFile string
	envFile    string

	cfg    *config.Config
	logger *zap.SugaredLogger
)

// flagKeys maps CLI flag names to the config keys they override.
var flagKeys = map[string]string{
	"log-level":       "log_level",
	"store":           "store_path",
	"provider":        "provider",
	"region":          "azure.region",
	"credentials":     "google.credentials",
	"project":         "google.project_id",
	"max-attempts":    "poll.max_attempts",
	"poll-delay":      "poll.delay",
	"timeout":         "operation_timeout",
	"validate-output": "validate_output",
}

var rootCmd = &cobra.Command{
	Use:   "scriptran",
	Short: "Handwriting recognition and translation CLI",
	Long: `A CLI client for Azure AI Translator and the Computer Vision Read API.

Recognize handwritten text in JPEG or PNG images, translate text into one of
ten target languages, or do both in one step.

Credentials are read from SCRIPTRAN_* environment variables, a .env file or
scriptran.yaml. Use "scriptran <command> --help" for details.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(envFile); err != nil {
			return err
		}

		v := config.New()
		if err := config.ReadFile(v, configFile); err != nil {
			return err
		}
		if err := bindFlags(v, cmd.Flags()); err != nil {
			return err
		}

		loaded, err := config.Load(v)
		if err != nil {
			return err
		}

		l, err := logging.New(loaded.LogLevel)
		if err != nil {
			return err
		}

		cfg = loaded
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// bindFlags binds every flag of the running command that has a config key.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, apierr.UserMessage(err))
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ./scriptran.yaml or ~/.config/scriptran/scriptran.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment variables from this file (default ./.env if present)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("store", "", "SQLite path for translation memory and recognition history (disabled if empty)")
}
