package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/retain-io/retain/internal/logging"
)

var (
	logLevel string
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "retain",
	Short: "Identifier preservation for synthesized infrastructure",
	Long: `Retain rewrites synthesized infrastructure resource trees so that
stateful resources keep their deployed identifiers, repairs every
cross-resource reference, and reports the replacement risk of anything
left unmapped.

A changed identifier means destroy-and-recreate. For a database or a
bucket that is data loss; retain exists so it never happens by accident.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.Init(logLevel)
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(mapCmd)
	rootCmd.AddCommand(driftCmd)
	rootCmd.AddCommand(adoptCmd)
	rootCmd.AddCommand(versionCmd)
}
