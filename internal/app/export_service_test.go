package app

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scandelta/api/pkg/domain/compare"
	"github.com/scandelta/api/pkg/domain/shared"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		SessionID:   shared.NewID(),
		GeneratedAt: time.Now().UTC(),
		Datasets: []DatasetInfo{
			{Slot: 0, Label: "before", FindingCount: 5, RuleCount: 2},
			{Slot: 1, Label: "after", FindingCount: 3, RuleCount: 1},
		},
		Comparison: compare.Result{
			Rows: []compare.Row{
				{
					Category: "CWE-79",
					Findings: []int{4, 2},
					Deltas:   []int{-2},
					Overlaps: []float64{50},
				},
				{
					Category: "CWE-89",
					Findings: []int{1, 1},
					Deltas:   []int{0},
					Overlaps: []float64{100},
				},
			},
			AverageOverlaps: []float64{75},
		},
		Rules: []DatasetRuleSummaries{
			{
				Slot:  0,
				Label: "before",
				Rules: []compare.RuleSummary{
					{RuleID: "RULE001", Category: "CWE-79", Tags: []string{"security", "CWE-79"}, FindingCount: 4, Level: "error"},
					{RuleID: "RULE003", Tags: []string{"style"}, FindingCount: 1, Level: "note"},
				},
			},
			{
				Slot:  1,
				Label: "after",
				Rules: []compare.RuleSummary{
					{RuleID: "RULE002", Category: "CWE-89", Tags: []string{"CWE-89"}, FindingCount: 3, Level: "warning"},
				},
			},
		},
	}
}

func TestExportService_WriteComparison(t *testing.T) {
	var sb strings.Builder
	err := NewExportService().WriteComparison(&sb, testSnapshot())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "category,before,after,delta 1-2,overlap 1-2 %", lines[0])
	assert.Equal(t, "CWE-79,4,2,-2,50.0", lines[1])
	assert.Equal(t, "CWE-89,1,1,0,100.0", lines[2])
	assert.Equal(t, "average overlap,,,,75.0", lines[3])
}

func TestExportService_WriteComparisonSingleDataset(t *testing.T) {
	snapshot := testSnapshot()
	snapshot.Datasets = snapshot.Datasets[:1]
	snapshot.Comparison = compare.Result{
		Rows: []compare.Row{
			{Category: "CWE-79", Findings: []int{4}},
		},
	}

	var sb strings.Builder
	err := NewExportService().WriteComparison(&sb, snapshot)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	// No delta or overlap columns, no footer.
	require.Len(t, lines, 2)
	assert.Equal(t, "category,before", lines[0])
	assert.Equal(t, "CWE-79,4", lines[1])
}

func TestExportService_WriteRules(t *testing.T) {
	var sb strings.Builder
	err := NewExportService().WriteRules(&sb, testSnapshot())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "dataset,rule,category,tags,findings,severity", lines[0])
	assert.Equal(t, "before,RULE001,CWE-79,security;CWE-79,4,error", lines[1])
	assert.Equal(t, "before,RULE003,,style,1,note", lines[2])
	assert.Equal(t, "after,RULE002,CWE-89,CWE-89,3,warning", lines[3])
}

func TestExportService_WriteSheet(t *testing.T) {
	svc := NewExportService()
	snapshot := testSnapshot()

	t.Run("comparison", func(t *testing.T) {
		var sb strings.Builder
		require.NoError(t, svc.WriteSheet(&sb, snapshot, SheetComparison))
		assert.True(t, strings.HasPrefix(sb.String(), "category,"))
	})

	t.Run("rules", func(t *testing.T) {
		var sb strings.Builder
		require.NoError(t, svc.WriteSheet(&sb, snapshot, SheetRules))
		assert.True(t, strings.HasPrefix(sb.String(), "dataset,"))
	})

	t.Run("unknown sheet", func(t *testing.T) {
		var sb strings.Builder
		err := svc.WriteSheet(&sb, snapshot, "pivot")
		assert.Error(t, err)
	})
}

func TestValidSheet(t *testing.T) {
	assert.True(t, ValidSheet(SheetComparison))
	assert.True(t, ValidSheet(SheetRules))
	assert.False(t, ValidSheet(""))
	assert.False(t, ValidSheet("Comparison"))
}
