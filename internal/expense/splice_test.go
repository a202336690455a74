package expense

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSplice(t *testing.T) {
	dir := t.TempDir()

	accountPath := filepath.Join(dir, "account.xlsx")
	writeReportWorkbook(t, accountPath, [][]interface{}{
		{"Transaksjoner per konto og kostnadsbærer"},
		{""},
		{"Periode", "Ansatt", "", "Debet", "", "Kontostreng", "Avdeling", "Prosjekt", "Kampanje"},
		{"202411", "118", "", "1234.56", "", "71401000", "200 Administration", "4000012345", "118999"},
	})

	detailPath := filepath.Join(dir, "detail.xlsx")
	writeReportWorkbook(t, detailPath, [][]interface{}{
		{"Transaksjoner, detaljert"},
		{""},
		{"Ansatt", "Lønnsart", "", "Beløp", "Tekst", "Reiseregning ID"},
		{"118", "14000", "", "1234.56", "Taxi receipt", "42"},
		{"119", "14000", "", "99.00", "Hotel", "43"},
	})

	outputPath := filepath.Join(dir, "spliced.xlsx")
	require.NoError(t, Splice(accountPath, detailPath, outputPath, testLogger()))

	f, err := excelize.OpenFile(outputPath)
	require.NoError(t, err)
	defer f.Close()
	grid, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)

	// Header plus the longer of the two data blocks.
	require.Len(t, grid, 3)
	assert.Equal(t, "Period", grid[0][0])
	assert.Equal(t, "ClaimID", grid[0][13])

	row := grid[1]
	assert.Equal(t, "202411", row[0])
	assert.Equal(t, "118", row[1])
	assert.Equal(t, "1234.56", row[2])
	assert.Equal(t, "71401000", row[3])
	// Derived join keys.
	assert.Equal(t, "7140", row[7])   // account prefix
	assert.Equal(t, "40000", row[8])  // project prefix
	assert.Equal(t, "200", row[9])    // department token
	assert.Equal(t, "118", row[10])   // employee prefix
	// Detail columns spliced alongside.
	assert.Equal(t, "1234.56", row[11])
	assert.Equal(t, "Taxi receipt", row[12])
	assert.Equal(t, "42", row[13])

	// Second detail row has no per-account counterpart.
	row = grid[2]
	assert.Equal(t, "Hotel", row[12])
	assert.Equal(t, "43", row[13])
}

func TestSpliceMissingInput(t *testing.T) {
	dir := t.TempDir()
	err := Splice(
		filepath.Join(dir, "absent.xlsx"),
		filepath.Join(dir, "also-absent.xlsx"),
		filepath.Join(dir, "out.xlsx"),
		testLogger(),
	)
	assert.Error(t, err)
}

func TestPrefixAndFirstToken(t *testing.T) {
	assert.Equal(t, "7140", prefix("71401000", 4))
	assert.Equal(t, "714", prefix("714", 4))
	assert.Equal(t, "", prefix("", 4))
	// Character cut, not byte cut: multibyte letters must survive intact.
	assert.Equal(t, "Øko", prefix("Økonomi", 3))
	assert.Equal(t, "Øk", prefix("Økonomiavdelingen", 2))
	assert.Equal(t, "200", firstToken("200 Administration"))
	assert.Equal(t, "", firstToken("   "))
}
