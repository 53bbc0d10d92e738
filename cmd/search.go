package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/naka-gawa/repo-insights/internal/domain"
	"github.com/naka-gawa/repo-insights/internal/gateway"
	"github.com/naka-gawa/repo-insights/internal/render"
	"github.com/naka-gawa/repo-insights/internal/usecase"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Searches GitHub repositories",
	Long:  `Searches repositories by name and description. Without a search term it lists popular repositories.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		q := domain.SearchQuery{}
		q.Search, _ = cmd.Flags().GetString("search")
		q.Language, _ = cmd.Flags().GetString("language")
		q.Sort, _ = cmd.Flags().GetString("sort")
		q.Page, _ = cmd.Flags().GetInt("page")
		format, _ := cmd.Flags().GetString("format")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(os.Stderr, cfg.Verbose, nil)

		// Search works unauthenticated, with a lower rate limit.
		githubGateway, err := gateway.NewGitHubGateway(cfg.GitHubToken, logger)
		if err != nil {
			return fmt.Errorf("failed to create GitHub gateway: %w", err)
		}
		result, err := usecase.NewAggregator(githubGateway, usecase.NoStores(), logger).Search(cmd.Context(), q)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if format == "json" {
			jsonData, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal results to JSON: %w", err)
			}
			_, err = fmt.Fprintln(out, string(jsonData))
			return err
		}
		return render.Projects(out, result)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringP("search", "s", "", "Search term matched against name and description")
	searchCmd.Flags().StringP("language", "l", "", "Restrict to a primary language")
	searchCmd.Flags().String("sort", "stars", "Sort by stars, forks or updated")
	searchCmd.Flags().IntP("page", "p", 1, "Result page")
	searchCmd.Flags().StringP("format", "f", "table", "Output format: table or json")
}
