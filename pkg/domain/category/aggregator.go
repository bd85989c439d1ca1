package category

import (
	"github.com/scandelta/api/pkg/domain/dataset"
)

// RuleGroup is one rule's findings contributing to a category.
type RuleGroup struct {
	RuleID   string            `json:"rule_id"`
	Findings []dataset.Finding `json:"findings"`
}

// Aggregation groups one dataset's rule-level finding groups by weakness
// category. Rules without a resolvable category are absent; they stay visible
// only in per-rule summaries.
type Aggregation struct {
	order  []Category
	groups map[Category][]RuleGroup
}

// Aggregate builds a category aggregation for one dataset.
// Rule groups within a category follow the finding store's rule iteration
// order.
func Aggregate(ds *dataset.Dataset) *Aggregation {
	agg := &Aggregation{
		groups: make(map[Category][]RuleGroup),
	}

	store := ds.Store()
	for _, ruleID := range store.RuleIDs() {
		cat, ok := Resolve(ds, ruleID)
		if !ok {
			continue
		}

		if _, seen := agg.groups[cat]; !seen {
			agg.order = append(agg.order, cat)
		}
		agg.groups[cat] = append(agg.groups[cat], RuleGroup{
			RuleID:   ruleID,
			Findings: store.Group(ruleID),
		})
	}

	return agg
}

// Categories returns the category keys in first-seen order.
func (a *Aggregation) Categories() []Category {
	return a.order
}

// Groups returns the rule groups for a category, or nil if the category has
// no findings in this dataset.
func (a *Aggregation) Groups(cat Category) []RuleGroup {
	return a.groups[cat]
}

// Count returns the total finding count for a category: the sum of its rule
// group sizes. Zero for a category absent from this dataset.
func (a *Aggregation) Count(cat Category) int {
	count := 0
	for _, g := range a.groups[cat] {
		count += len(g.Findings)
	}
	return count
}
