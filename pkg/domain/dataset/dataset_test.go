package dataset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scandelta/api/pkg/domain/dataset"
)

func TestNewStore_Grouping(t *testing.T) {
	t.Run("groups preserve relative order", func(t *testing.T) {
		findings := []dataset.Finding{
			{RuleID: "R1", Message: "first"},
			{RuleID: "R2", Message: "second"},
			{RuleID: "R1", Message: "third"},
			{RuleID: "R2", Message: "fourth"},
			{RuleID: "R1", Message: "fifth"},
		}

		store := dataset.NewStore(findings)

		require.Equal(t, []string{"R1", "R2"}, store.RuleIDs())

		r1 := store.Group("R1")
		require.Len(t, r1, 3)
		assert.Equal(t, "first", r1[0].Message)
		assert.Equal(t, "third", r1[1].Message)
		assert.Equal(t, "fifth", r1[2].Message)

		r2 := store.Group("R2")
		require.Len(t, r2, 2)
		assert.Equal(t, "second", r2[0].Message)
		assert.Equal(t, "fourth", r2[1].Message)
	})

	t.Run("partition: group sizes sum to input count", func(t *testing.T) {
		findings := []dataset.Finding{
			{RuleID: "A"}, {RuleID: "B"}, {RuleID: "A"},
			{RuleID: ""}, {RuleID: "C"}, {RuleID: "A"},
		}

		store := dataset.NewStore(findings)

		assert.Equal(t, len(findings), store.TotalFindings())

		sum := 0
		for _, id := range store.RuleIDs() {
			sum += len(store.Group(id))
		}
		assert.Equal(t, len(findings), sum)
	})

	t.Run("empty rule id is its own group", func(t *testing.T) {
		findings := []dataset.Finding{
			{RuleID: "", Message: "orphan one"},
			{RuleID: "R1", Message: "normal"},
			{RuleID: "", Message: "orphan two"},
		}

		store := dataset.NewStore(findings)

		require.Equal(t, 2, store.GroupCount())
		orphans := store.Group("")
		require.Len(t, orphans, 2)
		assert.Equal(t, "orphan one", orphans[0].Message)
	})

	t.Run("unknown rule id returns nil group", func(t *testing.T) {
		store := dataset.NewStore(nil)
		assert.Nil(t, store.Group("missing"))
		assert.Equal(t, 0, store.TotalFindings())
	})
}

func TestNormalizeLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want dataset.Level
	}{
		{"ERROR", dataset.LevelError},
		{"Warning", dataset.LevelWarning},
		{"note", dataset.LevelNote},
		{"INFO", dataset.LevelInfo},
		{" error ", dataset.LevelError},
		{"", dataset.Level("")},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, dataset.NormalizeLevel(tt.raw))
		})
	}
}

func TestNew_NormalizesAtBoundary(t *testing.T) {
	ds := dataset.New("run-a",
		[]dataset.Finding{{RuleID: "R1", Level: "ERROR"}},
		[]dataset.Rule{{ID: "R1", DefaultLevel: "Warning"}},
	)

	assert.Equal(t, dataset.LevelError, ds.Findings[0].Level)
	assert.Equal(t, dataset.LevelWarning, ds.Rules[0].DefaultLevel)
}

func TestDataset_EffectiveLevel(t *testing.T) {
	ds := dataset.New("run-a",
		[]dataset.Finding{
			{RuleID: "R1", Level: "error"},
			{RuleID: "R1"},
			{RuleID: "R2"},
			{RuleID: "R3"},
		},
		[]dataset.Rule{
			{ID: "R1", DefaultLevel: "warning"},
			{ID: "R2"},
		},
	)

	t.Run("finding level wins", func(t *testing.T) {
		assert.Equal(t, dataset.LevelError, ds.EffectiveLevel(ds.Findings[0]))
	})

	t.Run("falls back to rule default", func(t *testing.T) {
		assert.Equal(t, dataset.LevelWarning, ds.EffectiveLevel(ds.Findings[1]))
	})

	t.Run("falls back to none without rule default", func(t *testing.T) {
		assert.Equal(t, dataset.LevelNone, ds.EffectiveLevel(ds.Findings[2]))
	})

	t.Run("falls back to none without rule metadata", func(t *testing.T) {
		assert.Equal(t, dataset.LevelNone, ds.EffectiveLevel(ds.Findings[3]))
	})
}

func TestDataset_RuleByID(t *testing.T) {
	ds := dataset.New("", nil, []dataset.Rule{
		{ID: "R1", Tags: []string{"security"}},
	})

	rule, ok := ds.RuleByID("R1")
	require.True(t, ok)
	assert.Equal(t, []string{"security"}, rule.Tags)

	_, ok = ds.RuleByID("R9")
	assert.False(t, ok)
}
