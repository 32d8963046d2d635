package input

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileSource reads rows from a set of local CSV files, preserving file order
// and row order within each file.
type FileSource struct {
	paths  []string
	logger *slog.Logger
}

// NewFileSource creates a FileSource over the given CSV file paths.
func NewFileSource(paths []string, logger *slog.Logger) *FileSource {
	return &FileSource{
		paths:  paths,
		logger: logger.With("component", "file_source"),
	}
}

// Rows reads every file in order and concatenates their non-empty rows.
// A file that cannot be read fails the whole call; partial input would skew
// the batch totals silently.
func (fs *FileSource) Rows(ctx context.Context) ([]RawRow, error) {
	var rows []RawRow
	for _, path := range fs.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fileRows, err := ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		fs.logger.Debug("Read input file.", "path", path, "rows", len(fileRows))
		rows = append(rows, fileRows...)
	}
	return rows, nil
}

// ReadFile parses a single CSV file into raw rows, dropping fully empty rows.
func ReadFile(path string) ([]RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readRows(f)
}

func readRows(r io.Reader) ([]RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows may have any number of fields

	var rows []RawRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv parse error: %w", err)
		}
		if isEmptyRecord(record) {
			continue
		}
		rows = append(rows, RawRow{Fields: record})
	}
	return rows, nil
}

func isEmptyRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// CountRows returns the number of non-empty rows across the given files.
// Files that cannot be read are skipped with a warning so a bad path does not
// block the pre-run total.
func CountRows(paths []string, logger *slog.Logger) int {
	total := 0
	for _, path := range paths {
		rows, err := ReadFile(path)
		if err != nil {
			logger.Warn("Could not count rows in file.", "path", path, "error", err)
			continue
		}
		total += len(rows)
	}
	return total
}

// ScanDirectory scans a directory for .csv files, optionally recursing into
// subdirectories.
func ScanDirectory(dirPath string, recursive bool) ([]string, error) {
	info, err := os.Stat(dirPath)
	if err != nil {
		return nil, fmt.Errorf("cannot access directory %s: %w", dirPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dirPath)
	}

	var csvFiles []string
	if recursive {
		err = filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil // continue walking
			}
			if !info.IsDir() && strings.HasSuffix(strings.ToLower(info.Name()), ".csv") {
				csvFiles = append(csvFiles, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error scanning directory: %w", err)
		}
	} else {
		entries, err := os.ReadDir(dirPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", dirPath, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(strings.ToLower(entry.Name()), ".csv") {
				csvFiles = append(csvFiles, filepath.Join(dirPath, entry.Name()))
			}
		}
	}

	return csvFiles, nil
}
