package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openfroyo/farmplan/pkg/domain"
	"github.com/openfroyo/farmplan/pkg/planner"
)

func newOptimizeCommand() *cobra.Command {
	var (
		timeout   time.Duration
		outFile   string
		showDiag  bool
	)

	cmd := &cobra.Command{
		Use:   "optimize <plan.json>",
		Short: "Run a plan through the lexicographic optimizer locally",
		Long: `Validate a plan input file and run it through the full lexicographic
stage sequence (profit, then dispersion within tolerance) on the
calling process, printing the resulting schedule as JSON. This does
not touch the job API or any durable backend; it is the single-shot
equivalent of POST /v1/optimize for local testing.`,
		Example: `  farmplan optimize farm.json
  farmplan optimize --timeout 30s --out schedule.json farm.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadPlanFile(args[0])
			if err != nil {
				return err
			}
			if issues, err := domain.ValidatePlan(plan); err != nil {
				return err
			} else if len(issues) > 0 {
				for _, issue := range issues {
					fmt.Printf("FAIL  %s: %s\n", issue.Field, issue.Message)
				}
				return fmt.Errorf("%d validation issue(s) found", len(issues))
			}
			domain.NormalizeUnits(plan)

			result := planner.Run(plan, planner.Options{SolveBudget: timeout})

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal result: %w", err)
			}

			if outFile != "" {
				if err := writeFile(outFile, out); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", outFile)
			} else {
				fmt.Println(string(out))
			}

			if showDiag {
				for _, d := range result.Diagnostics {
					fmt.Printf("DIAG  %s\n", d)
				}
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-stage solve wall-clock budget")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write result JSON to this file instead of stdout")
	cmd.Flags().BoolVar(&showDiag, "diagnostics", false, "print diagnostics/warnings after the result")

	return cmd
}
