// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the extract-documents CLI. Running it
// with no arguments extracts every file in ./documents to ./output.
package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/extract-documents/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd extracts text from a folder of documents.
var rootCmd = &cobra.Command{
	Use:   "extract-documents",
	Short: "Extract text from a folder of documents",
	Long: `extract-documents walks an input folder, sends each file to an
Unstructured partitioning service (HTTP API or container image), and writes
the text of the returned elements to <output>/<name>.txt.

A file that fails is reported and skipped; the rest of the batch continues.
With no flags the input folder is ./documents and the output folder ./output.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(viper.GetBool(keyVerbose))

		s, err := secrets.Load(secrets.Dir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
	RunE: runExtract,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./extract-documents.yaml or ~/.config/extract-documents/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	mustBind(keyVerbose, rootCmd.PersistentFlags().Lookup("verbose"))

	addExtractFlags(rootCmd)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("extract-documents")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "extract-documents"))
		}
	}

	viper.SetEnvPrefix("EXTRACT_DOCUMENTS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Debug().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	}
}

// setupLogging sends human-readable logs to stderr; stdout carries the
// progress transcript.
func setupLogging(verbose bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("extract-documents failed")
		os.Exit(1)
	}
}
