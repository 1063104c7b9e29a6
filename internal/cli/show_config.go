// internal/cli/show_config.go
package qagredo

import (
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// showCmd groups read-only inspection commands.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show application state",
}

// showConfigCmd displays the effective configuration after file and
// flag merging.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON config is loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := GetConfig()
		out := cmd.OutOrStdout()

		if file := viper.ConfigFileUsed(); file != "" {
			fmt.Fprintf(out, "Config file: %s\n\n", file)
		}
		if DebugEnabled() {
			pp.Println(cfg)
			return
		}

		fmt.Fprintln(out, "Current configuration:")
		fmt.Fprintf(out, "  Generator:        %s (%s)\n", cfg.LLM.Model, cfg.LLM.BaseURL)
		fmt.Fprintf(out, "  Judge:            %s (%s)\n", cfg.Judge.Model, cfg.Judge.BaseURL)
		fmt.Fprintf(out, "  Embeddings:       %s (%s)\n", cfg.Embedding.Model, cfg.Embedding.URL)
		fmt.Fprintf(out, "  Grounding Method: %s\n", cfg.Grounding.SelectedMethod())
		fmt.Fprintf(out, "  Similarity:       %.2f\n", cfg.Grounding.Similarity())
		fmt.Fprintf(out, "  Min Confidence:   %.2f\n", cfg.Grounding.Confidence())
		fmt.Fprintf(out, "  Questions:        %d per document\n", cfg.Questions.Target())
		fmt.Fprintf(out, "  Input File:       %s\n", cfg.Run.InputFile)
		fmt.Fprintf(out, "  Output Path:      %s\n", cfg.Run.OutputPath())
		fmt.Fprintf(out, "  Parallelism:      %d\n", cfg.Run.Workers())
		fmt.Fprintf(out, "  Debug:            %v\n", cfg.Debug)
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
	rootCmd.AddCommand(showCmd)
}
