// Package pipeline wires the conversion stages into one sequential run:
// parse, enrich, resolve, reclassify, assemble, write. The run owns the
// in-memory record table exclusively from start to finish; re-running on
// unchanged inputs produces a byte-identical document.
package pipeline

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"vimpact/hlt-csv/internal/config"
	"vimpact/hlt-csv/internal/expense"
	"vimpact/hlt-csv/internal/fileutils"
	"vimpact/hlt-csv/internal/hltparser"
	"vimpact/hlt-csv/internal/logging"
	"vimpact/hlt-csv/internal/maconomy"
	"vimpact/hlt-csv/internal/mapping"
	"vimpact/hlt-csv/internal/models"
	"vimpact/hlt-csv/internal/parsererror"
	"vimpact/hlt-csv/internal/rules"
)

// Summary reports what one run did.
type Summary struct {
	RunID          string
	LinesRead      int
	LinesSkipped   int
	Entries        int
	Synthesized    int
	ZeroSuppressed int
	TotalDebit     decimal.Decimal
	TotalCredit    decimal.Decimal
	OutputFile     string
}

// Run executes the full conversion. It aborts before stage 1 when a source
// file is missing or locked, recovers record-level problems by skip-and-warn,
// and fails loudly rather than write an unbalanced document.
func Run(cfg *config.Config, logger logging.Logger) (*Summary, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	now := time.Now()
	runID := uuid.NewString()
	log := logger.WithField(logging.FieldRunID, runID)

	ledgerPath := cfg.LedgerPath(now)
	reportPath := cfg.ReportPath()
	outputPath := cfg.OutputPath(now)

	for _, path := range []string{ledgerPath, reportPath} {
		if err := checkSource(path); err != nil {
			return nil, err
		}
	}

	// Stage 1: ledger export.
	log.Info("Parsing payroll accounting export",
		logging.Field{Key: logging.FieldStage, Value: "parse"},
		logging.Field{Key: logging.FieldInputFile, Value: ledgerPath})
	ledgerFile, err := os.Open(ledgerPath) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return nil, &parsererror.SourceError{Path: ledgerPath, Reason: "cannot open ledger export", Err: err}
	}
	parsed, err := hltparser.Parse(ledgerFile, hltparser.Options{
		DimensionStripAccountBelow: cfg.Rules.DimensionStripAccountBelow,
	}, log)
	if cerr := ledgerFile.Close(); cerr != nil {
		log.WithError(cerr).Warn("Failed to close ledger export")
	}
	if err != nil {
		return nil, err
	}

	// Stage 2: expense text enrichment.
	log.Info("Enriching entry texts",
		logging.Field{Key: logging.FieldStage, Value: "enrich"},
		logging.Field{Key: logging.FieldInputFile, Value: reportPath})
	reportSet, err := expense.LoadWorkbook(reportPath, expense.Options{
		Columns: expense.Columns{
			Text:       cfg.Columns.Report.Text,
			ExternalID: cfg.Columns.Report.ExternalID,
			WageType:   cfg.Columns.Report.WageType,
			Employee:   cfg.Columns.Report.Employee,
		},
		AdvanceWageTypePrefix: cfg.Rules.AdvanceWageTypePrefix,
	}, log)
	if err != nil {
		return nil, err
	}
	entries := expense.Enrich(parsed.Entries, reportSet, cfg.Rules.PayrollMarker, log)

	// Stage 3: mapping resolver, built once for the run.
	log.Info("Loading mapping dataset",
		logging.Field{Key: logging.FieldStage, Value: "mapping"})
	resolver, err := loadResolver(cfg, log)
	if err != nil {
		return nil, err
	}
	attachTasks(entries, resolver)

	// Stage 4: reclassification.
	log.Info("Applying reclassification policy",
		logging.Field{Key: logging.FieldStage, Value: "rules"})
	engine := rules.NewEngine(cfg.RulesPolicy(), resolver, log)
	entries, synthesized, err := engine.Apply(entries)
	if err != nil {
		return nil, err
	}

	// Stage 5: assembly and output.
	log.Info("Assembling import document",
		logging.Field{Key: logging.FieldStage, Value: "assemble"})
	doc := maconomy.Assemble(entries, log)
	if !doc.Balanced() {
		return nil, fmt.Errorf("import document is unbalanced: debit %s vs credit %s",
			doc.TotalDebit.StringFixed(2), doc.TotalCredit.StringFixed(2))
	}

	preamble := maconomy.DefaultPreamble(cfg.Files.Organization)
	if maconomy.IsWorkbookPath(outputPath) {
		err = maconomy.WriteWorkbook(doc, outputPath, preamble, log)
	} else {
		err = maconomy.WriteCSV(doc, outputPath, preamble, cfg.Delimiter(), log)
	}
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:          runID,
		LinesRead:      parsed.LinesRead,
		LinesSkipped:   parsed.LinesSkipped,
		Entries:        len(doc.Entries),
		Synthesized:    synthesized,
		ZeroSuppressed: doc.ZeroSuppressed,
		TotalDebit:     doc.TotalDebit,
		TotalCredit:    doc.TotalCredit,
		OutputFile:     outputPath,
	}
	log.Info("Conversion completed",
		logging.Field{Key: logging.FieldOutputFile, Value: summary.OutputFile},
		logging.Field{Key: logging.FieldCount, Value: summary.Entries},
		logging.Field{Key: "synthesized", Value: summary.Synthesized},
		logging.Field{Key: "zero_suppressed", Value: summary.ZeroSuppressed},
		logging.Field{Key: "skipped_lines", Value: summary.LinesSkipped})
	return summary, nil
}

// loadResolver prefers a YAML snapshot when one is configured and present,
// falling back to the workbook export. A freshly loaded workbook is saved
// back to the snapshot path so the run can be replayed later.
func loadResolver(cfg *config.Config, log logging.Logger) (*mapping.Resolver, error) {
	snapshot := cfg.Files.MappingSnapshot
	if snapshot != "" && fileutils.FileExists(snapshot) {
		rows, err := mapping.LoadSnapshot(snapshot)
		if err != nil {
			return nil, err
		}
		log.Info("Mapping loaded from snapshot",
			logging.Field{Key: logging.FieldFile, Value: snapshot},
			logging.Field{Key: logging.FieldCount, Value: len(rows)})
		return mapping.NewResolver(rows), nil
	}

	rows, err := mapping.LoadWorkbook(cfg.MappingPath(), mapping.Columns{
		Account:    cfg.Columns.Mapping.Account,
		Task:       cfg.Columns.Mapping.Task,
		Towards:    cfg.Columns.Mapping.Towards,
		Assignment: cfg.Columns.Mapping.Assignment,
		ProjectVAT: cfg.Columns.Mapping.ProjectVAT,
	}, log)
	if err != nil {
		return nil, err
	}
	if snapshot != "" {
		if err := mapping.SaveSnapshot(snapshot, rows); err != nil {
			log.WithError(err).Warn("Failed to save mapping snapshot")
		}
	}
	return mapping.NewResolver(rows), nil
}

// attachTasks sets the derived task on entries that carry a project; entries
// without a project never get a task.
func attachTasks(entries []models.LedgerEntry, resolver *mapping.Resolver) {
	for i := range entries {
		if !entries[i].HasProject() {
			entries[i].Task = ""
			continue
		}
		if task, ok := resolver.TaskForAccount(entries[i].Account); ok {
			entries[i].Task = task
		}
	}
}

// checkSource verifies a source file exists and is not held open by another
// application before the pipeline starts.
func checkSource(path string) error {
	if !fileutils.FileExists(path) {
		return &parsererror.SourceError{Path: path, Reason: "file not found"}
	}
	if fileutils.FileInUse(path) {
		return &parsererror.SourceError{Path: path, Reason: "file is in use by another application"}
	}
	return nil
}
