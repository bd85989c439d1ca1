package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scandelta/api/internal/app"
	"github.com/scandelta/api/pkg/domain/dataset"
	"github.com/scandelta/api/pkg/domain/session"
	"github.com/scandelta/api/pkg/parsers/sarif"
)

var (
	flagLabels   []string
	flagMinLevel string
	flagSheet    string
	flagFormat   string
	flagOutput   string
)

var compareCmd = &cobra.Command{
	Use:   "compare <report.sarif> [report2.sarif [report3.sarif]]",
	Short: "Compare SARIF reports and print the result",
	Long: `Compare parses the given SARIF reports, groups their findings by CWE
weakness category, and prints per-category counts. With two or three
reports it also prints consecutive deltas and overlap percentages.`,
	Args: cobra.RangeArgs(1, session.MaxSlots),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringSliceVarP(&flagLabels, "label", "l", nil, "Label for each report, in order (defaults to file name)")
	compareCmd.Flags().StringVar(&flagMinLevel, "min-level", "", "Drop findings below this severity: none, note, info, warning, error")
	compareCmd.Flags().StringVarP(&flagSheet, "sheet", "s", app.SheetComparison, "Sheet to print: comparison or rules")
	compareCmd.Flags().StringVarP(&flagFormat, "format", "f", "csv", "Output format: csv or json")
	compareCmd.Flags().StringVarP(&flagOutput, "output", "o", "-", "Output file, or - for stdout")
}

func runCompare(cmd *cobra.Command, args []string) error {
	if flagFormat != "csv" && flagFormat != "json" {
		return fmt.Errorf("unknown format %q, want csv or json", flagFormat)
	}
	if !app.ValidSheet(flagSheet) {
		return fmt.Errorf("unknown sheet %q, want %s or %s", flagSheet, app.SheetComparison, app.SheetRules)
	}
	if flagMinLevel != "" && !dataset.NormalizeLevel(flagMinLevel).IsValid() {
		return fmt.Errorf("unknown severity level %q", flagMinLevel)
	}

	parser := sarif.NewParser(&sarif.Options{
		MinLevel: sarif.Level(strings.ToLower(flagMinLevel)),
	})

	sess := session.New()
	for i, path := range args {
		log, err := parser.ParseFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		label := filepath.Base(path)
		if i < len(flagLabels) {
			label = flagLabels[i]
		}

		if err := sess.PutDataset(i, sarif.ToDataset(log, label)); err != nil {
			return err
		}
	}

	snapshot := app.ComputeSnapshot(sess)

	out := cmd.OutOrStdout()
	if flagOutput != "" && flagOutput != "-" {
		f, err := os.Create(flagOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if flagFormat == "json" {
		return writeJSON(out, snapshot)
	}

	return app.NewExportService().WriteSheet(out, snapshot, flagSheet)
}

func writeJSON(w io.Writer, snapshot *app.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snapshot)
}
