package compare_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scandelta/api/pkg/domain/category"
	"github.com/scandelta/api/pkg/domain/compare"
	"github.com/scandelta/api/pkg/domain/dataset"
)

func TestOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b int
		want float64
	}{
		{"both zero is zero, not full overlap", 0, 0, 0},
		{"half overlap", 4, 2, 50.0},
		{"identical counts", 3, 3, 100.0},
		{"one side empty", 0, 5, 0.0},
		{"delta baseline larger", 8, 5, 62.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, compare.Overlap(tt.a, tt.b), 1e-9)
		})
	}

	t.Run("symmetric in magnitude", func(t *testing.T) {
		assert.Equal(t, compare.Overlap(4, 2), compare.Overlap(2, 4))
		assert.Equal(t, compare.Overlap(7, 7), compare.Overlap(7, 7))
	})

	t.Run("bounded to [0,100]", func(t *testing.T) {
		pairs := [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1000}, {1000, 1}, {500, 500}}
		for _, p := range pairs {
			v := compare.Overlap(p[0], p[1])
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 100.0)
		}
	})
}

// buildDataset creates a dataset where each rule carries one category tag and
// produces the given number of findings.
func buildDataset(label string, rules map[string]struct {
	Tag   string
	Count int
}) *dataset.Dataset {
	var findings []dataset.Finding
	var meta []dataset.Rule

	for id, r := range rules {
		meta = append(meta, dataset.Rule{ID: id, Tags: []string{r.Tag}})
		for i := 0; i < r.Count; i++ {
			findings = append(findings, dataset.Finding{RuleID: id})
		}
	}

	return dataset.New(label, findings, meta)
}

func TestCompare(t *testing.T) {
	t.Run("no aggregations yields empty result", func(t *testing.T) {
		result := compare.Compare(nil)
		assert.Empty(t, result.Rows)
		assert.Empty(t, result.AverageOverlaps)
	})

	t.Run("single dataset has no deltas or overlaps", func(t *testing.T) {
		ds := buildDataset("a", map[string]struct {
			Tag   string
			Count int
		}{
			"R1": {"CWE-79", 2},
		})

		result := compare.Compare([]*category.Aggregation{category.Aggregate(ds)})

		require.Len(t, result.Rows, 1)
		assert.Equal(t, []int{2}, result.Rows[0].Findings)
		assert.Empty(t, result.Rows[0].Deltas)
		assert.Empty(t, result.Rows[0].Overlaps)
		assert.Empty(t, result.AverageOverlaps)
	})

	t.Run("delta sign convention", func(t *testing.T) {
		up := buildDataset("a", map[string]struct {
			Tag   string
			Count int
		}{"R1": {"CWE-20", 5}})
		down := buildDataset("b", map[string]struct {
			Tag   string
			Count int
		}{"R2": {"CWE-20", 8}})

		result := compare.Compare([]*category.Aggregation{
			category.Aggregate(up),
			category.Aggregate(down),
		})
		require.Len(t, result.Rows, 1)
		assert.Equal(t, []int{3}, result.Rows[0].Deltas)

		reversed := compare.Compare([]*category.Aggregation{
			category.Aggregate(down),
			category.Aggregate(up),
		})
		assert.Equal(t, []int{-3}, reversed.Rows[0].Deltas)
	})

	t.Run("rows cover sorted union of categories", func(t *testing.T) {
		a := buildDataset("a", map[string]struct {
			Tag   string
			Count int
		}{
			"R1": {"CWE-89", 1},
			"R2": {"CWE-352", 2},
		})
		b := buildDataset("b", map[string]struct {
			Tag   string
			Count int
		}{
			"R3": {"CWE-79", 4},
		})

		result := compare.Compare([]*category.Aggregation{
			category.Aggregate(a),
			category.Aggregate(b),
		})

		require.Len(t, result.Rows, 3)
		assert.Equal(t, category.Category("CWE-352"), result.Rows[0].Category)
		assert.Equal(t, category.Category("CWE-79"), result.Rows[1].Category)
		assert.Equal(t, category.Category("CWE-89"), result.Rows[2].Category)

		// CWE-79 is absent from the first dataset.
		assert.Equal(t, []int{0, 4}, result.Rows[1].Findings)
	})

	t.Run("three datasets end to end", func(t *testing.T) {
		one := buildDataset("a", map[string]struct {
			Tag   string
			Count int
		}{"R1": {"CWE-79", 2}})
		two := buildDataset("b", map[string]struct {
			Tag   string
			Count int
		}{"R2": {"CWE-79", 3}})
		three := dataset.New("c", nil, nil)

		result := compare.Compare([]*category.Aggregation{
			category.Aggregate(one),
			category.Aggregate(two),
			category.Aggregate(three),
		})

		require.Len(t, result.Rows, 1)
		row := result.Rows[0]

		assert.Equal(t, category.Category("CWE-79"), row.Category)
		assert.Equal(t, []int{2, 3, 0}, row.Findings)
		assert.Equal(t, []int{1, -3}, row.Deltas)

		require.Len(t, row.Overlaps, 2)
		assert.InDelta(t, 66.666, row.Overlaps[0], 0.001)
		assert.InDelta(t, 0, row.Overlaps[1], 1e-9)

		require.Len(t, result.AverageOverlaps, 2)
		assert.InDelta(t, 66.666, result.AverageOverlaps[0], 0.001)
		assert.InDelta(t, 0, result.AverageOverlaps[1], 1e-9)
	})

	t.Run("average overlap over mixed rows", func(t *testing.T) {
		// Three categories with baseline overlaps 100, 0, 50.
		a := buildDataset("a", map[string]struct {
			Tag   string
			Count int
		}{
			"R1": {"CWE-20", 3},
			"R2": {"CWE-79", 2},
			"R3": {"CWE-89", 4},
		})
		b := buildDataset("b", map[string]struct {
			Tag   string
			Count int
		}{
			"Q1": {"CWE-20", 3},
			"Q3": {"CWE-89", 2},
		})

		result := compare.Compare([]*category.Aggregation{
			category.Aggregate(a),
			category.Aggregate(b),
		})

		require.Len(t, result.Rows, 3)
		require.Len(t, result.AverageOverlaps, 1)
		assert.InDelta(t, 50.0, result.AverageOverlaps[0], 1e-9)
	})

	t.Run("idempotent over unchanged inputs", func(t *testing.T) {
		aggs := []*category.Aggregation{
			category.Aggregate(buildDataset("a", map[string]struct {
				Tag   string
				Count int
			}{
				"R1": {"CWE-79", 2},
				"R2": {"CWE-89", 5},
			})),
			category.Aggregate(buildDataset("b", map[string]struct {
				Tag   string
				Count int
			}{
				"R1": {"CWE-89", 1},
			})),
		}

		first := compare.Compare(aggs)
		second := compare.Compare(aggs)
		assert.Equal(t, first, second)
	})
}

func TestSummarizeRules(t *testing.T) {
	ds := dataset.New("run-a",
		[]dataset.Finding{
			{RuleID: "R1", Level: "error"},
			{RuleID: "R1"},
			{RuleID: "R2"},
			{RuleID: "R3"},
		},
		[]dataset.Rule{
			{ID: "R1", Tags: []string{"security", "CWE-79"}},
			{ID: "R2", DefaultLevel: "warning", Tags: []string{"style"}},
		},
	)

	summaries := compare.SummarizeRules(ds)
	require.Len(t, summaries, 3)

	t.Run("categorized rule", func(t *testing.T) {
		s := summaries[0]
		assert.Equal(t, "R1", s.RuleID)
		assert.Equal(t, category.Category("CWE-79"), s.Category)
		assert.Equal(t, []string{"security", "CWE-79"}, s.Tags)
		assert.Equal(t, 2, s.FindingCount)
		assert.Equal(t, dataset.LevelError, s.Level)
	})

	t.Run("uncategorized rule still appears", func(t *testing.T) {
		s := summaries[1]
		assert.Equal(t, "R2", s.RuleID)
		assert.Empty(t, s.Category)
		assert.Equal(t, 1, s.FindingCount)
		assert.Equal(t, dataset.LevelWarning, s.Level)
	})

	t.Run("rule without metadata defaults to none", func(t *testing.T) {
		s := summaries[2]
		assert.Equal(t, "R3", s.RuleID)
		assert.Empty(t, s.Tags)
		assert.Equal(t, dataset.LevelNone, s.Level)
	})
}
