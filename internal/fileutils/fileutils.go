// Package fileutils provides common file operations used throughout the application.
package fileutils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// FileInUse reports whether a file is locked by another application, using an
// exclusive read-write open as the probe. Spreadsheets left open in Excel are
// the usual offender. A missing file is not "in use".
func FileInUse(filePath string) bool {
	if !FileExists(filePath) {
		return false
	}
	f, err := os.OpenFile(filePath, os.O_RDWR, 0)
	if err != nil {
		log.WithField("file", filePath).Warn("File appears to be in use by another application")
		return true
	}
	if err := f.Close(); err != nil {
		log.WithError(err).Warn("Failed to close file after probe")
	}
	return false
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	info, err := os.Stat(dirPath)
	if err == nil && info.IsDir() {
		return nil
	}
	if err := os.MkdirAll(dirPath, 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// ReadFile reads the entire contents of a file
func ReadFile(filePath string) ([]byte, error) {
	if !FileExists(filePath) {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}
	data, err := os.ReadFile(filePath) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// HomeDownloadsDir returns the user's Downloads directory, where the payroll
// system drops its exports by default.
func HomeDownloadsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}
