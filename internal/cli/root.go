// internal/cli/root.go
package qagredo

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tohyewhong/qagredo-local/internal/appconfig"
	"github.com/tohyewhong/qagredo-local/internal/logging"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "qagredo",
	Short: "qagredo — generate QA pairs from documents and verify them against the source",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ensureConfigRead()

		cfg, err := appconfig.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg.ConfigPath = cfgFile

		// Flags win over file values for the handful of scalars
		// exposed on the command line.
		if viper.GetBool("debug") {
			cfg.Debug = true
		}
		if v := viper.GetString("logFile"); v != "" {
			cfg.LogFile = v
		}
		if v := viper.GetString("input"); v != "" {
			cfg.Run.InputFile = v
		}
		if v := viper.GetInt("numDocuments"); v > 0 {
			cfg.Run.NumDocuments = v
		}
		if v := viper.GetString("method"); v != "" {
			cfg.Grounding.Method = v
		}
		currentConfig = &cfg

		if err := logging.Init(cfg.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config/config.json", "config file (e.g., config/config.json)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")
	rootCmd.PersistentFlags().String("input", "", "input documents file (.json or .jsonl)")
	rootCmd.PersistentFlags().Int("numDocuments", 0, "limit the number of documents processed (0 = all)")
	rootCmd.PersistentFlags().String("method", "", "grounding method: semantic, keyword, judge, or hybrid")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
	_ = viper.BindPFlag("input", rootCmd.PersistentFlags().Lookup("input"))
	_ = viper.BindPFlag("numDocuments", rootCmd.PersistentFlags().Lookup("numDocuments"))
	_ = viper.BindPFlag("method", rootCmd.PersistentFlags().Lookup("method"))
}

// initConfig points viper at the config file so flag defaults can fall
// back to file values.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigRead loads the config into viper; a missing file is fine
// because appconfig.Load reports that case with a better message.
func ensureConfigRead() {
	_ = viper.ReadInConfig()
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
