package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"bakeset/internal/bundle"
	"bakeset/internal/serverset"
)

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// printBundleReport renders a serverless build report: a per-asset table when
// stdout is a terminal, plain key=value lines otherwise.
func printBundleReport(out io.Writer, report *bundle.Report) {
	if stdoutIsTerminal() {
		rows := make([][]string, 0, len(report.Assets))
		for _, item := range report.Assets {
			detail := item.LocalURL
			if item.Error != "" {
				detail = item.Error
			}
			rows = append(rows, []string{item.Path, string(item.Outcome), detail})
		}
		fmt.Fprintln(out, renderTable([]string{"Asset", "Outcome", "Local URL"}, rows))
	} else {
		for _, item := range report.Assets {
			fmt.Fprintf(out, "asset=%s outcome=%s", item.Path, item.Outcome)
			if item.LocalURL != "" {
				fmt.Fprintf(out, " url=%s", item.LocalURL)
			}
			if item.Error != "" {
				fmt.Fprintf(out, " error=%q", item.Error)
			}
			fmt.Fprintln(out)
		}
	}

	fmt.Fprintf(out, "Build %s: %d baked, %d cached, %d copied, %d failed\n",
		report.BuildID, report.Baked, report.Cached, report.Copied, report.Failed)
	fmt.Fprintf(out, "Entities: %d rewritten of %d, %d reference(s) unmapped\n",
		report.Rewritten, report.Entities, len(report.Missing))
	for _, url := range report.Missing {
		fmt.Fprintf(out, "  unmapped: %s\n", url)
	}
	fmt.Fprintf(out, "Completed in %s\n", report.Elapsed.Round(time.Millisecond))
}

// printSyncResult renders a content-set build summary.
func printSyncResult(out io.Writer, result *serverset.Result) {
	fmt.Fprintf(out, "Content set written to %s\n", result.OutputDir)
	fmt.Fprintf(out, "Assets: %d processed, %d baked, %d bake failure(s)\n",
		result.Assets, result.Baked, result.BakeFailed)
	fmt.Fprintf(out, "Map: %d entries (%d duplicate(s), %d overwrite(s))\n",
		result.MapEntries, result.Duplicates, result.Overwrites)
	fmt.Fprintf(out, "Completed in %s\n", result.Elapsed.Round(time.Millisecond))
}
