// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/naka-gawa/repo-insights/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "repo-insights",
	Short: "Repository health metrics from the GitHub API.",
	Long: `repo-insights computes repository health signals from the GitHub API:
aliveness (commit recency and velocity, bus factor, release cadence, issue churn)
and contribution outcomes (PR acceptance, response and merge latency, external share).
Run it as an HTTP service with "serve" or query a single repository with "insights".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return config.Init(viper.GetViper(), viper.GetString("config"))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default .repo-insights.yaml)")
	rootCmd.PersistentFlags().String("cache", string(config.MemoryBackend), "Cache backend: memory or redis or none")
	rootCmd.PersistentFlags().String("cache-ttl", "5m", "How long computed metrics are served from cache")
	rootCmd.PersistentFlags().String("redis-addr", "localhost:6379", "Redis address when --cache=redis")
	rootCmd.PersistentFlags().String("redis-password", "", "Redis password when --cache=redis")
	rootCmd.PersistentFlags().Int("redis-db", 0, "Redis database when --cache=redis")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding root flags: %v\n", err)
		os.Exit(1)
	}
}
