package app

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/scandelta/api/internal/metrics"
)

// Export sheet names.
const (
	SheetComparison = "comparison"
	SheetRules      = "rules"
)

// ValidSheet reports whether a sheet name is exportable.
func ValidSheet(sheet string) bool {
	return sheet == SheetComparison || sheet == SheetRules
}

// ExportService serializes snapshots into tabular CSV output.
// Both sheets are rendered from a single snapshot, so exported row counts and
// averages always describe the same set of datasets.
type ExportService struct{}

// NewExportService creates a new ExportService.
func NewExportService() *ExportService {
	return &ExportService{}
}

// WriteSheet writes the named sheet of a snapshot as CSV.
func (s *ExportService) WriteSheet(w io.Writer, snapshot *Snapshot, sheet string) error {
	switch sheet {
	case SheetComparison:
		return s.WriteComparison(w, snapshot)
	case SheetRules:
		return s.WriteRules(w, snapshot)
	default:
		return fmt.Errorf("unknown export sheet: %s", sheet)
	}
}

// WriteComparison writes the per-category comparison sheet: one row per
// weakness category with counts, deltas and baseline overlaps, followed by
// the average-overlap footer row.
func (s *ExportService) WriteComparison(w io.Writer, snapshot *Snapshot) error {
	cw := csv.NewWriter(w)

	n := len(snapshot.Datasets)

	header := []string{"category"}
	for _, info := range snapshot.Datasets {
		header = append(header, datasetLabel(info))
	}
	for i := 0; i < n-1; i++ {
		header = append(header, fmt.Sprintf("delta %d-%d", i+1, i+2))
	}
	for i := 0; i < n-1; i++ {
		header = append(header, fmt.Sprintf("overlap 1-%d %%", i+2))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range snapshot.Comparison.Rows {
		record := []string{string(row.Category)}
		for _, count := range row.Findings {
			record = append(record, strconv.Itoa(count))
		}
		for _, delta := range row.Deltas {
			record = append(record, strconv.Itoa(delta))
		}
		for _, overlap := range row.Overlaps {
			record = append(record, formatPercent(overlap))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	if n > 1 {
		footer := []string{"average overlap"}
		for range snapshot.Datasets {
			footer = append(footer, "")
		}
		for i := 0; i < n-1; i++ {
			footer = append(footer, "")
		}
		for _, avg := range snapshot.Comparison.AverageOverlaps {
			footer = append(footer, formatPercent(avg))
		}
		if err := cw.Write(footer); err != nil {
			return fmt.Errorf("failed to write footer: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	metrics.ExportsTotal.WithLabelValues(SheetComparison).Inc()
	return nil
}

// WriteRules writes the per-rule summary sheet: every rule of every dataset,
// categorized or not.
func (s *ExportService) WriteRules(w io.Writer, snapshot *Snapshot) error {
	cw := csv.NewWriter(w)

	header := []string{"dataset", "rule", "category", "tags", "findings", "severity"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, summaries := range snapshot.Rules {
		label := datasetLabel(snapshot.Datasets[i])
		for _, rule := range summaries.Rules {
			record := []string{
				label,
				rule.RuleID,
				string(rule.Category),
				strings.Join(rule.Tags, ";"),
				strconv.Itoa(rule.FindingCount),
				string(rule.Level),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	metrics.ExportsTotal.WithLabelValues(SheetRules).Inc()
	return nil
}

// formatPercent renders an overlap percentage with one decimal place.
func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
