package category_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scandelta/api/pkg/domain/category"
	"github.com/scandelta/api/pkg/domain/dataset"
)

func TestFromTag(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want category.Category
		ok   bool
	}{
		{"dash separator", "CWE-79", "CWE-79", true},
		{"colon separator", "CWE:79", "CWE-79", true},
		{"trailing text after digits", "CWE-89-sql-injection", "CWE-89", true},
		{"prefix without digits", "CWE-injection", "", false},
		{"colon prefix without digits", "CWE:", "", false},
		{"lowercase prefix not matched", "cwe-79", "", false},
		{"unrelated tag", "security", "", false},
		{"embedded, not at start", "external/CWE-79", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := category.FromTag(tt.tag)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newDataset(rules ...dataset.Rule) *dataset.Dataset {
	return dataset.New("test", nil, rules)
}

func TestResolve(t *testing.T) {
	t.Run("resolves category from tags", func(t *testing.T) {
		ds := newDataset(dataset.Rule{
			ID:   "R1",
			Tags: []string{"security", "CWE-79", "xss"},
		})

		cat, ok := category.Resolve(ds, "R1")
		require.True(t, ok)
		assert.Equal(t, category.Category("CWE-79"), cat)
	})

	t.Run("first category tag wins", func(t *testing.T) {
		ds := newDataset(dataset.Rule{
			ID:   "R1",
			Tags: []string{"CWE-89", "CWE-79"},
		})

		cat, ok := category.Resolve(ds, "R1")
		require.True(t, ok)
		assert.Equal(t, category.Category("CWE-89"), cat)
	})

	t.Run("malformed first category tag yields none", func(t *testing.T) {
		// The first CWE-prefixed tag is selected before digit extraction, so
		// a malformed one is not skipped in favor of a later well-formed tag.
		ds := newDataset(dataset.Rule{
			ID:   "R1",
			Tags: []string{"CWE-injection", "CWE-79"},
		})

		_, ok := category.Resolve(ds, "R1")
		assert.False(t, ok)
	})

	t.Run("rule without tags has no category", func(t *testing.T) {
		ds := newDataset(dataset.Rule{ID: "R1"})

		_, ok := category.Resolve(ds, "R1")
		assert.False(t, ok)
	})

	t.Run("absent rule has no category", func(t *testing.T) {
		ds := newDataset()

		_, ok := category.Resolve(ds, "R1")
		assert.False(t, ok)
	})
}
