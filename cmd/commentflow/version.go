package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long:  `Display detailed version information including build details and runtime information.`,
	Run:   runVersion,
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Printf("commentflow\n")
	fmt.Printf("===========\n\n")

	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", commit)
	fmt.Printf("Build Date: %s\n", date)
	fmt.Printf("Go Version: %s\n", runtime.Version())
	fmt.Printf("Platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)

	fmt.Printf("\nFeatures:\n")
	fmt.Printf("  ✓ Watch-URL and bare-ID comment reference parsing\n")
	fmt.Printf("  ✓ Thread lookup with single-comment fallback\n")
	fmt.Printf("  ✓ Parent-chain video resolution for nested replies\n")
	fmt.Printf("  ✓ Retry pass over failed rows\n")
	fmt.Printf("  ✓ Live progress with ETA and API latency\n")
	fmt.Printf("  ✓ Multiple export formats (JSON, JSONL, CSV, text)\n")
	fmt.Printf("  ✓ Local and S3 CSV input\n")
}
