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
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var version = "0.1.0"

var (
	cfgFile string
	verbose bool
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "langbridge",
	Short: "Multilingual content bridge with safety moderation",
	Long: `A CLI application that accepts text in any language, translates it to
English, moderates it for safety, and returns the approved content in the
user's original language.

Pipeline stages: validate, detect language, translate in, moderate, translate out.

Supported language services: Google Translate, Ollama (LLM), local detection.
Moderation uses an OpenAI-compatible chat completion endpoint.

Use "langbridge process --help" for processing options.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = buildLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.langbridge.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.PersistentFlags().String("service", "google", "language service: google, ollama, local")
	rootCmd.PersistentFlags().String("credentials", "", "path to Google Cloud credentials")
	rootCmd.PersistentFlags().String("ollama-url", "http://localhost:11434", "Ollama base URL")
	rootCmd.PersistentFlags().StringSlice("ollama-models", nil, "Ollama models to rotate (default list used if empty)")
	rootCmd.PersistentFlags().String("openai-key", "", "OpenAI API key for moderation")
	rootCmd.PersistentFlags().String("openai-model", "", "moderation model (default gpt-4o-mini)")
	rootCmd.PersistentFlags().String("openai-url", "", "OpenAI-compatible base URL for moderation")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path for the run audit log (empty disables)")

	for _, key := range []string{
		"service", "credentials", "ollama-url", "ollama-models",
		"openai-key", "openai-model", "openai-url", "db",
	} {
		_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key))
	}
}

// initConfig reads in the config file and environment variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".langbridge")
	}

	viper.SetEnvPrefix("LANGBRIDGE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// buildLogger returns a production logger writing to stderr so command
// output on stdout stays clean. Verbose mode lowers the level to debug.
func buildLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// defaultDBPath expands the --db flag value, defaulting relative paths
// against the working directory.
func defaultDBPath(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
