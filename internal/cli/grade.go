// internal/cli/grade.go
package qagredo

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tohyewhong/qagredo-local/internal/pipeline"
	"github.com/tohyewhong/qagredo-local/internal/report"
)

// loadRunResult reads a persisted results.json back into memory.
func loadRunResult(path string) (*pipeline.RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results file: %w", err)
	}
	var run pipeline.RunResult
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("parsing results file %s: %w", path, err)
	}
	return &run, nil
}

// gradeCmd recomputes grading summaries for a saved run from its
// stored verification results, without calling any model.
var gradeCmd = &cobra.Command{
	Use:   "grade <results.json>",
	Short: "Re-grade a saved run from its stored verification results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := loadRunResult(args[0])
		if err != nil {
			return err
		}
		pipeline.Regrade(run)
		fmt.Fprint(cmd.OutOrStdout(), report.Render(run))

		if out, _ := cmd.Flags().GetString("out"); out != "" {
			encoded, err := json.MarshalIndent(run, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding regraded results: %w", err)
			}
			if err := os.WriteFile(out, encoded, 0o644); err != nil {
				return fmt.Errorf("writing regraded results: %w", err)
			}
		}
		return nil
	},
}

func init() {
	gradeCmd.Flags().String("out", "", "write the regraded results to this file")
	rootCmd.AddCommand(gradeCmd)
}
