// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"vimpact/hlt-csv/internal/dateutils"
	"vimpact/hlt-csv/internal/fileutils"
	"vimpact/hlt-csv/internal/rules"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Files struct {
		// Organization is the company's registration number; together with
		// the accounting period it derives the default export file name.
		Organization    string `mapstructure:"organization" yaml:"organization"`
		Period          string `mapstructure:"period" yaml:"period"` // yyyymm, empty = current month
		Downloads       string `mapstructure:"downloads" yaml:"downloads"`
		Ledger          string `mapstructure:"ledger" yaml:"ledger"`
		Report          string `mapstructure:"report" yaml:"report"`
		AccountReport   string `mapstructure:"account_report" yaml:"account_report"`
		Mapping         string `mapstructure:"mapping" yaml:"mapping"`
		MappingSnapshot string `mapstructure:"mapping_snapshot" yaml:"mapping_snapshot"`
		Output          string `mapstructure:"output" yaml:"output"`
	} `mapstructure:"files" yaml:"files"`

	Columns struct {
		Report struct {
			Text       string `mapstructure:"text" yaml:"text"`
			ExternalID string `mapstructure:"external_id" yaml:"external_id"`
			WageType   string `mapstructure:"wage_type" yaml:"wage_type"`
			Employee   string `mapstructure:"employee" yaml:"employee"`
		} `mapstructure:"report" yaml:"report"`
		Mapping struct {
			Account    string `mapstructure:"account" yaml:"account"`
			Task       string `mapstructure:"task" yaml:"task"`
			Towards    string `mapstructure:"towards" yaml:"towards"`
			Assignment string `mapstructure:"assignment" yaml:"assignment"`
			ProjectVAT string `mapstructure:"project_vat" yaml:"project_vat"`
		} `mapstructure:"mapping" yaml:"mapping"`
	} `mapstructure:"columns" yaml:"columns"`

	Rules struct {
		DimensionStripAccountBelow int          `mapstructure:"dimension_strip_account_below" yaml:"dimension_strip_account_below"`
		PayrollMarker              string       `mapstructure:"payroll_marker" yaml:"payroll_marker"`
		AdvanceWageTypePrefix      string       `mapstructure:"advance_wage_type_prefix" yaml:"advance_wage_type_prefix"`
		RealProjectThreshold       int          `mapstructure:"real_project_threshold" yaml:"real_project_threshold"`
		Bands                      []rules.Band `mapstructure:"bands" yaml:"bands"`
	} `mapstructure:"rules" yaml:"rules"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then an optional config file, then HLT_* environment variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.hlt-csv")
	v.AddConfigPath(".hlt-csv")
	v.AddConfigPath(".")

	v.SetEnvPrefix("HLT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Continue with defaults and env vars; a broken config file
			// should not block a payroll run.
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("files.organization", "971274190")
	v.SetDefault("files.period", "")
	v.SetDefault("files.downloads", "")
	v.SetDefault("files.report", "Transaksjoner, detaljert.xlsx")
	v.SetDefault("files.account_report", "Transaksjoner per konto og kostnadsbærer.xlsx")
	v.SetDefault("files.mapping", "mapping.xlsx")
	v.SetDefault("files.mapping_snapshot", "")

	v.SetDefault("columns.report.text", "Tekst")
	v.SetDefault("columns.report.external_id", "Reiseregning ID")
	v.SetDefault("columns.report.wage_type", "Lønnsart")
	v.SetDefault("columns.report.employee", "Ansattnummer")
	v.SetDefault("columns.mapping.account", "Account")
	v.SetDefault("columns.mapping.task", "Task")
	v.SetDefault("columns.mapping.towards", "Towards")
	v.SetDefault("columns.mapping.assignment", "Assignment")
	v.SetDefault("columns.mapping.project_vat", "Project_VAT")

	v.SetDefault("rules.dimension_strip_account_below", 5900)
	v.SetDefault("rules.payroll_marker", "Payroll")
	v.SetDefault("rules.advance_wage_type_prefix", "13120")
	v.SetDefault("rules.real_project_threshold", 30000)
}

func validateConfig(config *Config) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(config.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}
	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("csv delimiter must be a single character, got %q", config.CSV.Delimiter)
	}
	if config.Rules.RealProjectThreshold < 0 {
		return fmt.Errorf("real_project_threshold must not be negative")
	}
	for _, b := range config.Rules.Bands {
		if b.Low > b.High {
			return fmt.Errorf("band %d-%d has inverted bounds", b.Low, b.High)
		}
		if b.Action == rules.ActionOffset && b.Reversal == 0 {
			return fmt.Errorf("offset band %d-%d has no reversal account", b.Low, b.High)
		}
	}
	return nil
}

// Delimiter returns the CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	if c.CSV.Delimiter == "" {
		return ','
	}
	return []rune(c.CSV.Delimiter)[0]
}

// Period returns the configured accounting period, defaulting to the current
// month.
func (c *Config) PeriodOrCurrent(now time.Time) string {
	if c.Files.Period != "" {
		return c.Files.Period
	}
	return dateutils.CurrentPeriod(now)
}

// DownloadsDir returns the configured export directory, defaulting to the
// user's Downloads folder where the payroll system drops its files.
func (c *Config) DownloadsDir() string {
	if c.Files.Downloads != "" {
		return c.Files.Downloads
	}
	return fileutils.HomeDownloadsDir()
}

// LedgerPath resolves the payroll accounting export path. Explicit overrides
// win; otherwise the name is derived from the organization id and period.
func (c *Config) LedgerPath(now time.Time) string {
	if c.Files.Ledger != "" {
		return c.Files.Ledger
	}
	name := fmt.Sprintf("HLTrans_%s_%s.HLT", c.Files.Organization, c.PeriodOrCurrent(now))
	return filepath.Join(c.DownloadsDir(), name)
}

// ReportPath resolves the detailed payroll report path.
func (c *Config) ReportPath() string {
	return c.inDownloads(c.Files.Report)
}

// AccountReportPath resolves the per-account payroll report path.
func (c *Config) AccountReportPath() string {
	return c.inDownloads(c.Files.AccountReport)
}

// MappingPath resolves the mapping workbook path.
func (c *Config) MappingPath() string {
	return c.Files.Mapping
}

// OutputPath resolves the import document path, derived from the period when
// not set explicitly.
func (c *Config) OutputPath(now time.Time) string {
	if c.Files.Output != "" {
		return c.Files.Output
	}
	name := fmt.Sprintf("journal_%s.csv", c.PeriodOrCurrent(now))
	return filepath.Join(c.DownloadsDir(), name)
}

// RulesPolicy returns the configured reclassification policy.
func (c *Config) RulesPolicy() rules.Policy {
	policy := rules.Policy{
		RealProjectThreshold: c.Rules.RealProjectThreshold,
		Bands:                c.Rules.Bands,
	}
	if len(policy.Bands) == 0 {
		policy.Bands = rules.DefaultBands()
	}
	return policy
}

func (c *Config) inDownloads(name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	return filepath.Join(c.DownloadsDir(), name)
}
