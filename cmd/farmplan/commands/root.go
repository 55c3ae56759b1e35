package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	jsonOutput bool
)

// Execute runs the root command.
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "farmplan",
		Short: "Farmplan - Agricultural Planning Optimization Engine",
		Long: `Farmplan turns a declarative farm description into a day-indexed
planting and labor schedule via integer constraint programming,
optimized in lexicographic stages (profit first, then dispersion,
within a locked tolerance of the prior stage).

Features:
  - Plan validation with structural and semantic checks
  - Synchronous and asynchronous optimization
  - In-process and durable (SQLite + queue) job backends
  - Admission policy enforcement (OPA/rego)`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "service config file path (CUE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newOptimizeCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newJobCommand())

	return rootCmd
}
