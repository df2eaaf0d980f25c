package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kurihiro0119/portfolio-manifest/internal/collector"
	"github.com/kurihiro0119/portfolio-manifest/internal/config"
	"github.com/kurihiro0119/portfolio-manifest/internal/logging"
	"github.com/kurihiro0119/portfolio-manifest/internal/storage"
	"github.com/kurihiro0119/portfolio-manifest/internal/storage/postgres"
	"github.com/kurihiro0119/portfolio-manifest/internal/storage/sqlite"
)

var (
	owner   string
	outPath string
)

var rootCmd = &cobra.Command{
	Use:   "portfolio-manifest",
	Short: "Generate a portfolio manifest from GitHub repositories",
	Long: `A CLI tool that turns the public repositories of a GitHub account into
a JSON manifest for a portfolio site.

Each non-fork repository becomes one project with its description, topics,
homepage, plain-text README and a cover image taken from the README or the
repository's social preview.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGenerate,
}

func init() {
	rootCmd.Flags().StringVar(&owner, "owner", config.DefaultOwner, "GitHub account whose repositories are listed")
	rootCmd.Flags().StringVar(&outPath, "out", config.DefaultOutput, "path of the manifest file to write")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func getStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageType {
	case "postgres":
		return postgres.NewPostgresStorage(cfg.PostgresURL)
	default:
		return sqlite.NewSQLiteStorage(cfg.SQLitePath)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(cfg.LogLevel)

	coll, err := collector.NewGitHubCollector(collector.Options{
		Token:  cfg.GitHubToken,
		APIURL: cfg.GitHubAPIURL,
		WebURL: cfg.GitHubWebURL,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize collector: %w", err)
	}

	g := &generator{
		collector: coll,
		logger:    logger,
		out:       cmd.OutOrStdout(),
		progress:  cmd.ErrOrStderr(),
	}

	if cfg.HasStorage() {
		store, err := getStorage(cfg)
		if err != nil {
			logger.Warn("mirror storage unavailable", "type", cfg.StorageType, "error", err)
		} else {
			defer store.Close()
			g.store = store
		}
	}

	return g.run(context.Background(), owner, outPath)
}
