// Package main is the entry point for the reqmatch CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reqmatch/reqmatch"
	"github.com/reqmatch/reqmatch/internal/config"
	"github.com/reqmatch/reqmatch/internal/log"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reqmatch",
		Short: "Match capability requirements against a product feature catalog",
		Long: `Reqmatch splits requirement documents into items, embeds each item with
the configured provider, and scores them against indexed catalog features.

Environment variables (RM_ prefix, .env supported):
  RM_DB_URL             Database URL (default: sqlite://reqmatch.db)
  RM_LOG_LEVEL          DEBUG, INFO, WARN, ERROR (default: INFO)
  RM_LOG_FORMAT         pretty, json (default: pretty)
  RM_SECRET_KEY         Passphrase for credential encryption at rest
  RM_MATCHED_THRESHOLD  Matched classification threshold (default: 0.85)
  RM_DEFAULT_THRESHOLD  Partial classification threshold (default: 0.75)
  RM_MATCH_LIMIT        Candidates kept per item (default: 5)
  RM_BATCH_SIZE         Texts per embedding API call (default: 10)
  RM_ENCODE_WORKERS     Concurrent encode batches (default: 4)
  RM_ITEM_MAX_CHARS     Item text budget before encoding (default: 300)`,
	}

	cmd.PersistentFlags().String("env-file", "", "Path to .env file (default: .env in current directory)")

	cmd.AddCommand(submitCmd())
	cmd.AddCommand(listCmd())
	cmd.AddCommand(runCmd())
	cmd.AddCommand(resultsCmd())
	cmd.AddCommand(statsCmd())
	cmd.AddCommand(indexCmd())
	cmd.AddCommand(providerCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// newClient loads configuration and opens a client. The caller must Close it.
func newClient(cmd *cobra.Command) (*reqmatch.Client, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := log.Configure(cfg)
	return reqmatch.New(
		reqmatch.WithConfig(cfg),
		reqmatch.WithLogger(logger),
	)
}
