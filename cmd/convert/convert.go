// Package convert handles the payroll-to-journal conversion command
package convert

import (
	"github.com/spf13/cobra"

	"vimpact/hlt-csv/cmd/root"
	"vimpact/hlt-csv/internal/pipeline"
)

var (
	mappingFile  string
	snapshotFile string
	period       string
)

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a payroll accounting export to the journal import format",
	Long: `Convert the fixed-width payroll accounting export and the detailed payroll
report into the general-journal import document (CSV, or XLSX when the
output path ends in .xlsx).`,
	Run: convertFunc,
}

func init() {
	Cmd.Flags().StringVar(&mappingFile, "mapping", "", "Mapping workbook (account/task/project flags)")
	Cmd.Flags().StringVar(&snapshotFile, "mapping-snapshot", "", "Mapping YAML snapshot to use or create")
	Cmd.Flags().StringVar(&period, "period", "", "Accounting period as yyyymm (default: current month)")
}

func convertFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogrusAdapter()
	root.Log.Info("Convert command called")

	cfg := root.Cfg
	if root.SharedFlags.Input != "" {
		cfg.Files.Ledger = root.SharedFlags.Input
	}
	if root.SharedFlags.Output != "" {
		cfg.Files.Output = root.SharedFlags.Output
	}
	if mappingFile != "" {
		cfg.Files.Mapping = mappingFile
	}
	if snapshotFile != "" {
		cfg.Files.MappingSnapshot = snapshotFile
	}
	if period != "" {
		cfg.Files.Period = period
	}

	summary, err := pipeline.Run(cfg, logger)
	if err != nil {
		logger.WithError(err).Error("Conversion failed")
		root.Exit()
		return
	}

	root.Log.Infof("Journal written to %s (%d entries, debit %s / credit %s)",
		summary.OutputFile, summary.Entries,
		summary.TotalDebit.StringFixed(2), summary.TotalCredit.StringFixed(2))
}
