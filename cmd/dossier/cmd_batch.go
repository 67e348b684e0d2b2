package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dossier/internal/batch"
)

var batchContinueOnError bool

// batchCmd executes every run of a plan file in order.
var batchCmd = &cobra.Command{
	Use:   "batch <plan.yaml>",
	Short: "Run multiple generations from a plan file",
	Long: `Execute a YAML plan of generations sequentially. Each run names its
own output directory and parameters:

  runs:
    - output: out/dental
      industry: dentistry
      role: office manager
      language: ja
      date_start: 2025-01-01
      date_end: 2025-03-31`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := batch.Load(args[0])
		if err != nil {
			return err
		}
		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}

		var failed int
		for i, run := range plan.Runs {
			o, err := run.Overrides()
			if err != nil {
				return fmt.Errorf("run %d: %w", i+1, err)
			}
			logger.Info("batch run starting", "run", i+1, "of", len(plan.Runs), "output", run.Output)
			if err := a.generate(cmd.Context(), run.Output, o, true); err != nil {
				if !batchContinueOnError {
					return fmt.Errorf("run %d (%s): %w", i+1, run.Output, err)
				}
				failed++
				logger.Error("batch run failed", "run", i+1, "output", run.Output, "error", err)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d runs failed", failed, len(plan.Runs))
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().BoolVar(&batchContinueOnError, "continue-on-error", false, "Keep going when a run fails")
	rootCmd.AddCommand(batchCmd)
}
