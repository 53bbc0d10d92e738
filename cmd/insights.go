package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/naka-gawa/repo-insights/internal/domain"
	"github.com/naka-gawa/repo-insights/internal/render"
	"github.com/spf13/cobra"
)

var insightsCmd = &cobra.Command{
	Use:   "insights OWNER/REPO",
	Short: "Computes aliveness and contribution outcome metrics for one repository",
	Long:  `Fetches one repository's activity from the GitHub GraphQL API in a single query and prints both metric sets as JSON or as a table.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := domain.ParseRepository(args[0])
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		if format != "json" && format != "table" {
			return fmt.Errorf("invalid --format %q: want json or table", format)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// Default: discard all logs.
		logger := newLogger(os.Stderr, cfg.Verbose, nil)
		if cfg.GitHubToken == "" {
			return errMissingToken
		}

		aggregator, closeStores, err := newAggregator(cmd.Context(), cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}
		defer func() { _ = closeStores() }()

		insights, freshness, err := aggregator.Insights(cmd.Context(), repo)
		if err != nil {
			return err
		}
		logger.Debug("insights computed", "repository", repo.String(), "cache", freshness)

		out := cmd.OutOrStdout()
		if format == "table" {
			return render.Insights(out, repo, insights)
		}
		jsonData, err := json.MarshalIndent(insights, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results to JSON: %w", err)
		}
		_, err = fmt.Fprintln(out, string(jsonData))
		return err
	},
}

func init() {
	rootCmd.AddCommand(insightsCmd)
	insightsCmd.Flags().StringP("format", "f", "json", "Output format: json or table")
}
