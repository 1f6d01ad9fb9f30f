// utils/file.go
package utils

import (
	"os"
	"path/filepath"
)

const defaultExportDir = "exports"

// ExportDir returns the local directory settlement reports are written to when
// R2 is not configured.
func ExportDir() string {
	if dir := os.Getenv("EXPORT_DIR"); dir != "" {
		return dir
	}
	return defaultExportDir
}

// EnsureExportDir creates the export directory if it doesn't exist.
func EnsureExportDir() error {
	return os.MkdirAll(ExportDir(), os.ModePerm)
}

// SaveReportLocally writes a settlement report into the export directory and
// returns the path it was written to.
func SaveReportLocally(filename string, body []byte) (string, error) {
	path := filepath.Join(ExportDir(), filename)
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
