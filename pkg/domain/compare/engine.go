// Package compare computes cross-dataset comparison metrics over aggregated
// findings: per-category counts, consecutive-pair deltas, and baseline
// overlap percentages.
//
// The comparison policy is baseline-relative: dataset 0 is the fixed baseline
// and every later dataset is compared against it, never pairwise among all.
// Dataset order is caller-supplied and fixed for one computation.
package compare

import (
	"sort"

	"github.com/scandelta/api/pkg/domain/category"
	"github.com/scandelta/api/pkg/domain/dataset"
)

// Row is one weakness category's cross-dataset view.
type Row struct {
	Category category.Category `json:"category"`

	// Findings holds the finding count per dataset, 0 when the category has
	// no findings in that dataset.
	Findings []int `json:"findings"`

	// Deltas holds count[i+1] - count[i] for each consecutive dataset pair.
	Deltas []int `json:"deltas"`

	// Overlaps holds the overlap percentage of dataset 0 against dataset
	// i+1, in [0, 100].
	Overlaps []float64 `json:"overlaps"`
}

// Result is the full comparison output for one snapshot of datasets.
type Result struct {
	// Rows covers the union of all datasets' category keys, sorted
	// lexicographically by category string.
	Rows []Row `json:"rows"`

	// AverageOverlaps holds, per pairing index, the arithmetic mean of that
	// pairing's overlap across all rows. Zero when there are no rows.
	AverageOverlaps []float64 `json:"average_overlaps"`
}

// Overlap computes the overlap percentage between two finding counts:
// min/max * 100. Both counts zero is defined as 0, not 100: a category
// absent from both datasets must not report as fully overlapping.
func Overlap(a, b int) float64 {
	if a == 0 && b == 0 {
		return 0
	}

	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	return float64(lo) / float64(hi) * 100
}

// Compare computes comparison rows over 1–3 aggregated datasets.
//
// It is a pure function of its inputs: recomputation on an unchanged dataset
// set yields identical output, and no combination of well-typed inputs
// produces an error.
func Compare(aggs []*category.Aggregation) Result {
	n := len(aggs)
	if n == 0 {
		return Result{Rows: []Row{}, AverageOverlaps: []float64{}}
	}

	categories := unionCategories(aggs)

	rows := make([]Row, 0, len(categories))
	overlapSums := make([]float64, n-1)

	for _, cat := range categories {
		row := Row{
			Category: cat,
			Findings: make([]int, n),
			Deltas:   make([]int, n-1),
			Overlaps: make([]float64, n-1),
		}

		for i, agg := range aggs {
			row.Findings[i] = agg.Count(cat)
		}

		for i := 0; i < n-1; i++ {
			row.Deltas[i] = row.Findings[i+1] - row.Findings[i]
			row.Overlaps[i] = Overlap(row.Findings[0], row.Findings[i+1])
			overlapSums[i] += row.Overlaps[i]
		}

		rows = append(rows, row)
	}

	averages := make([]float64, n-1)
	if len(rows) > 0 {
		for i := range averages {
			averages[i] = overlapSums[i] / float64(len(rows))
		}
	}

	return Result{
		Rows:            rows,
		AverageOverlaps: averages,
	}
}

// unionCategories returns the union of all aggregations' category keys,
// sorted lexicographically.
func unionCategories(aggs []*category.Aggregation) []category.Category {
	seen := make(map[category.Category]bool)
	var union []category.Category

	for _, agg := range aggs {
		for _, cat := range agg.Categories() {
			if !seen[cat] {
				seen[cat] = true
				union = append(union, cat)
			}
		}
	}

	sort.Slice(union, func(i, j int) bool {
		return union[i] < union[j]
	})

	return union
}

// RuleSummary is one rule's flattened per-dataset view: every rule appears
// here, categorized or not.
type RuleSummary struct {
	RuleID string `json:"rule_id"`

	// Category is empty for rules without a resolvable weakness category.
	Category category.Category `json:"category,omitempty"`

	Tags         []string      `json:"tags,omitempty"`
	FindingCount int           `json:"finding_count"`
	Level        dataset.Level `json:"level"`
}

// SummarizeRules flattens one dataset into per-rule summaries, in the finding
// store's rule iteration order. A rule group's severity is the effective
// severity of its first finding.
func SummarizeRules(ds *dataset.Dataset) []RuleSummary {
	store := ds.Store()
	summaries := make([]RuleSummary, 0, store.GroupCount())

	for _, ruleID := range store.RuleIDs() {
		findings := store.Group(ruleID)

		summary := RuleSummary{
			RuleID:       ruleID,
			FindingCount: len(findings),
			Level:        dataset.LevelNone,
		}

		if cat, ok := category.Resolve(ds, ruleID); ok {
			summary.Category = cat
		}
		if rule, ok := ds.RuleByID(ruleID); ok {
			summary.Tags = rule.Tags
		}
		if len(findings) > 0 {
			summary.Level = ds.EffectiveLevel(findings[0])
		}

		summaries = append(summaries, summary)
	}

	return summaries
}
