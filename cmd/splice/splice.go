// Package splice handles the payroll report reconciliation command
package splice

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"vimpact/hlt-csv/cmd/root"
	"vimpact/hlt-csv/internal/expense"
	"vimpact/hlt-csv/internal/fileutils"
)

var (
	accountFile string
	detailFile  string
)

// Cmd represents the splice command
var Cmd = &cobra.Command{
	Use:   "splice",
	Short: "Splice the two payroll report workbooks into one overview",
	Long: `Combine the per-account cost-carrier report and the detailed report into a
single reconciliation workbook with derived join columns.`,
	Run: spliceFunc,
}

func init() {
	Cmd.Flags().StringVar(&accountFile, "account-report", "", "Per-account payroll report workbook")
	Cmd.Flags().StringVar(&detailFile, "detail-report", "", "Detailed payroll report workbook")
}

func spliceFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogrusAdapter()
	cfg := root.Cfg

	account := accountFile
	if account == "" {
		account = cfg.AccountReportPath()
	}
	detail := detailFile
	if detail == "" {
		detail = cfg.ReportPath()
	}
	output := root.SharedFlags.Output
	if output == "" {
		name := fmt.Sprintf("splice %s.xlsx", time.Now().Format("02.01.2006"))
		output = filepath.Join(cfg.DownloadsDir(), name)
	}

	for _, path := range []string{account, detail} {
		if fileutils.FileInUse(path) {
			root.Log.Errorf("File %s is in use by another application. Please close it first.", path)
			root.Exit()
			return
		}
	}

	if err := expense.Splice(account, detail, output, logger); err != nil {
		logger.WithError(err).Error("Splice failed")
		root.Exit()
		return
	}
	root.Log.Infof("Spliced workbook written to %s", output)
}
