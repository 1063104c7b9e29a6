// internal/cli/report.go
package qagredo

import (
	"github.com/spf13/cobra"

	"github.com/tohyewhong/qagredo-local/internal/report"
)

// reportCmd pages a saved run's grading report in an interactive
// viewer.
var reportCmd = &cobra.Command{
	Use:   "report <results.json>",
	Short: "Browse a saved run's grading report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := loadRunResult(args[0])
		if err != nil {
			return err
		}
		return report.View(run)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
