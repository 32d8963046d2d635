package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tracertea/commentflow/internal/input"
)

var (
	infoDir       string
	infoRecursive bool
)

var infoCmd = &cobra.Command{
	Use:   "info [file...]",
	Short: "Display information about comment export files",
	Long: `Display information about comment CSV export files without resolving
anything. This command provides quick insight into row counts and how many
rows are too short to process.

Examples:
  commentflow info comments.csv
  commentflow info part1.csv part2.csv
  commentflow info -d ./exports/
  commentflow info -d ./exports/ -r`,
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	fmt.Printf("Comment Export File Information\n")
	fmt.Printf("===============================\n\n")

	filePaths := args
	if infoDir != "" {
		scanned, err := input.ScanDirectory(infoDir, infoRecursive)
		if err != nil {
			return fmt.Errorf("failed to scan directory: %v", err)
		}
		if len(scanned) == 0 {
			return fmt.Errorf("no .csv files found in directory: %s", infoDir)
		}
		filePaths = append(filePaths, scanned...)
	}

	if len(filePaths) == 0 {
		return fmt.Errorf("no input files specified")
	}

	totalRows := 0
	totalMalformed := 0
	successfulFiles := 0

	for i, filePath := range filePaths {
		fmt.Printf("File %d/%d: %s\n", i+1, len(filePaths), filePath)

		rows, err := input.ReadFile(filePath)
		if err != nil {
			fmt.Printf("  Error: %v\n\n", err)
			continue
		}

		malformed := 0
		for _, row := range rows {
			if row.Malformed() {
				malformed++
			}
		}

		fmt.Printf("  Rows: %d\n", len(rows))
		if malformed > 0 {
			fmt.Printf("  Malformed (fewer than two fields): %d\n", malformed)
		}
		fmt.Println()

		totalRows += len(rows)
		totalMalformed += malformed
		successfulFiles++
	}

	if successfulFiles > 0 {
		fmt.Printf("Summary\n")
		fmt.Printf("=======\n")
		fmt.Printf("Files readable: %d/%d\n", successfulFiles, len(filePaths))
		fmt.Printf("Total rows: %d\n", totalRows)
		fmt.Printf("Resolvable rows: %d\n", totalRows-totalMalformed)
	}

	return nil
}

func init() {
	infoCmd.Flags().StringVarP(&infoDir, "input-dir", "d", "", "Directory containing CSV files")
	infoCmd.Flags().BoolVarP(&infoRecursive, "recursive", "r", false, "Scan directory recursively")
}
