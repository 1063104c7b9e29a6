// internal/cli/run.go
package qagredo

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/tohyewhong/qagredo-local/internal/pipeline"
	"github.com/tohyewhong/qagredo-local/internal/report"
)

// runCmd processes the configured input file end to end: question
// generation, answer generation, grounding verification and grading.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate and verify QA pairs for the configured documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		result, err := pipeline.New(*cfg).Run(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), report.Render(result))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
