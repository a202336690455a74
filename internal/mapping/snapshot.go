package mapping

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"vimpact/hlt-csv/internal/parsererror"
)

// snapshotFile is the on-disk YAML shape of a mapping snapshot.
type snapshotFile struct {
	Rows []Row `yaml:"rows"`
}

// LoadSnapshot reads a mapping dataset from a YAML snapshot, the offline
// alternative to the workbook export. The snapshot is written by a previous
// run and lets the pipeline be replayed against the exact same mapping state.
func LoadSnapshot(path string) ([]Row, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return nil, &parsererror.MappingError{Path: path, Err: err}
	}
	var file snapshotFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &parsererror.MappingError{Path: path, Err: err}
	}
	return file.Rows, nil
}

// SaveSnapshot writes the dataset back to a YAML snapshot.
func SaveSnapshot(path string, rows []Row) error {
	data, err := yaml.Marshal(snapshotFile{Rows: rows})
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0600)
}
