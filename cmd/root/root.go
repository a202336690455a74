// Package root contains the root command for the application
package root

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"vimpact/hlt-csv/internal/config"
	"vimpact/hlt-csv/internal/fileutils"
	"vimpact/hlt-csv/internal/logging"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the loaded application configuration
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "hlt-csv",
		Short: "Convert a payroll accounting export to a general-journal import file.",
		Long: `hlt-csv converts a Huldt & Lillevik payroll accounting export plus the
detailed payroll report into an import-ready Maconomy general journal,
applying the organization's VAT and invoiceable-expense reclassification
rules along the way.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to hlt-csv!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			Log = config.ConfigureLogging()
			fileutils.SetLogger(Log)

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Failed to load configuration: %v", err)
			}
			Cfg = cfg
		},
	}

	// SharedFlags are the common flags accessible to all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
}

// GetLogrusAdapter returns the shared logger wrapped in the logging interface
func GetLogrusAdapter() logging.Logger {
	return logging.NewLogrusAdapterFromLogger(Log)
}

// Exit terminates the process with a failure code. Split out so commands
// share one exit path.
func Exit() {
	os.Exit(1)
}
