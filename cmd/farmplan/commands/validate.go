package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openfroyo/farmplan/pkg/domain"
	"github.com/openfroyo/farmplan/pkg/policy"
)

func newValidateCommand() *cobra.Command {
	var skipPolicy bool

	cmd := &cobra.Command{
		Use:   "validate <plan.json>",
		Short: "Validate a plan input file",
		Long: `Validate a plan input file against structural schema and semantic
cross-referential invariants, then (unless --skip-policy) against the
built-in admission policies.`,
		Example: `  farmplan validate farm.json
  farmplan validate --skip-policy farm.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadPlanFile(args[0])
			if err != nil {
				return err
			}

			issues, err := domain.ValidatePlan(plan)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			if len(issues) > 0 {
				for _, issue := range issues {
					fmt.Printf("FAIL  %s: %s\n", issue.Field, issue.Message)
				}
				return fmt.Errorf("%d validation issue(s) found", len(issues))
			}
			fmt.Println("OK    structural and semantic validation passed")

			domain.NormalizeUnits(plan)

			if skipPolicy {
				return nil
			}

			engine, err := policy.NewEngine(log.Logger)
			if err != nil {
				return fmt.Errorf("failed to build policy engine: %w", err)
			}
			result, err := engine.Evaluate(cmd.Context(), plan)
			if err != nil {
				return fmt.Errorf("policy evaluation failed: %w", err)
			}
			for _, v := range result.Violations {
				fmt.Printf("POLICY %s: %s\n", v.Policy, v.Message)
			}
			for _, w := range result.Warnings {
				fmt.Printf("WARN   %s: %s\n", w.Policy, w.Message)
			}
			if !result.Allowed {
				return fmt.Errorf("plan rejected by admission policy")
			}
			fmt.Println("OK    admission policy passed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipPolicy, "skip-policy", false, "skip admission policy evaluation")

	return cmd
}

func loadPlanFile(path string) (*domain.PlanInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var plan domain.PlanInput
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &plan, nil
}
