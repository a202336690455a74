package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vimpact/hlt-csv/internal/rules"
)

func baseConfig() *Config {
	cfg := &Config{}
	cfg.Log.Level = "info"
	cfg.CSV.Delimiter = ","
	cfg.Files.Organization = "971274190"
	cfg.Files.Downloads = "/data/downloads"
	cfg.Files.Report = "Transaksjoner, detaljert.xlsx"
	cfg.Files.Mapping = "mapping.xlsx"
	return cfg
}

func TestDelimiter(t *testing.T) {
	cfg := baseConfig()
	assert.Equal(t, ',', cfg.Delimiter())

	cfg.CSV.Delimiter = ";"
	assert.Equal(t, ';', cfg.Delimiter())

	cfg.CSV.Delimiter = ""
	assert.Equal(t, ',', cfg.Delimiter())
}

func TestPeriodOrCurrent(t *testing.T) {
	cfg := baseConfig()
	now := time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "202411", cfg.PeriodOrCurrent(now))

	cfg.Files.Period = "202410"
	assert.Equal(t, "202410", cfg.PeriodOrCurrent(now))
}

func TestLedgerPath(t *testing.T) {
	cfg := baseConfig()
	now := time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t,
		filepath.Join("/data/downloads", "HLTrans_971274190_202411.HLT"),
		cfg.LedgerPath(now))

	cfg.Files.Ledger = "/explicit/export.HLT"
	assert.Equal(t, "/explicit/export.HLT", cfg.LedgerPath(now))
}

func TestReportPathResolution(t *testing.T) {
	cfg := baseConfig()
	// Bare file names resolve into the downloads directory.
	assert.Equal(t,
		filepath.Join("/data/downloads", "Transaksjoner, detaljert.xlsx"),
		cfg.ReportPath())

	// Paths with separators are taken verbatim.
	cfg.Files.Report = "/explicit/report.xlsx"
	assert.Equal(t, "/explicit/report.xlsx", cfg.ReportPath())
}

func TestOutputPath(t *testing.T) {
	cfg := baseConfig()
	now := time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t,
		filepath.Join("/data/downloads", "journal_202411.csv"),
		cfg.OutputPath(now))

	cfg.Files.Output = "/explicit/journal.csv"
	assert.Equal(t, "/explicit/journal.csv", cfg.OutputPath(now))
}

func TestRulesPolicyDefaultsBands(t *testing.T) {
	cfg := baseConfig()
	cfg.Rules.RealProjectThreshold = 30000

	policy := cfg.RulesPolicy()
	assert.Equal(t, 30000, policy.RealProjectThreshold)
	assert.Equal(t, rules.DefaultBands(), policy.Bands)

	custom := []rules.Band{{Low: 5000, High: 5999, Action: rules.ActionSubstitute,
		Holding: map[string]int{"ordinary": 4753}}}
	cfg.Rules.Bands = custom
	assert.Equal(t, custom, cfg.RulesPolicy().Bands)
}

func TestValidateConfig(t *testing.T) {
	cfg := baseConfig()
	require.NoError(t, validateConfig(cfg))

	bad := baseConfig()
	bad.Log.Level = "noisy"
	assert.Error(t, validateConfig(bad))

	bad = baseConfig()
	bad.CSV.Delimiter = ";;"
	assert.Error(t, validateConfig(bad))

	bad = baseConfig()
	bad.Rules.RealProjectThreshold = -1
	assert.Error(t, validateConfig(bad))

	bad = baseConfig()
	bad.Rules.Bands = []rules.Band{{Low: 6000, High: 5000}}
	assert.Error(t, validateConfig(bad))

	bad = baseConfig()
	bad.Rules.Bands = []rules.Band{{Low: 7000, High: 7169, Action: rules.ActionOffset}}
	assert.Error(t, validateConfig(bad), "offset band without reversal account")
}

func TestInitializeConfigDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ",", cfg.CSV.Delimiter)
	assert.Equal(t, "971274190", cfg.Files.Organization)
	assert.Equal(t, "Tekst", cfg.Columns.Report.Text)
	assert.Equal(t, "Reiseregning ID", cfg.Columns.Report.ExternalID)
	assert.Equal(t, "Account", cfg.Columns.Mapping.Account)
	assert.Equal(t, 5900, cfg.Rules.DimensionStripAccountBelow)
	assert.Equal(t, "Payroll", cfg.Rules.PayrollMarker)
	assert.Equal(t, "13120", cfg.Rules.AdvanceWageTypePrefix)
	assert.Equal(t, 30000, cfg.Rules.RealProjectThreshold)
}

func TestInitializeConfigEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HLT_LOG_LEVEL", "debug")

	cfg, err := InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}
