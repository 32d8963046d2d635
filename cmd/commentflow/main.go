package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"
	commit  = "dev"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "commentflow",
	Short: "YouTube Comment Analyzer",
	Long: `commentflow resolves saved YouTube comment references against the YouTube
Data API and aggregates statistics over the resolved set.

It reads CSV exports where each row carries a comment reference (a watch URL
with an lc= parameter, or a bare comment ID) and a timestamp, resolves every
comment one at a time (thread lookup with single-comment fallback and
parent-chain video resolution), tracks failures for an optional retry pass,
and reports the most-liked, most-replied, and oldest comments.

Examples:
  commentflow analyze -i comments.csv
  commentflow analyze -d ./exports/ --retry -o results.json
  commentflow analyze --s3-bucket my-exports --s3-prefix comments/ --s3-region us-east-1
  commentflow info comments.csv
  commentflow version`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("commentflow v%s\n", version)
		fmt.Println("Use 'commentflow --help' for available commands")
		fmt.Println("Use 'commentflow analyze --help' for analysis options")
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
