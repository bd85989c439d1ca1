package dataset

// Store is a rule-ID-keyed partition of one dataset's findings.
//
// Every finding belongs to exactly one group, each group preserves the
// findings' original relative order, and groups iterate in first-seen rule
// order. A finding with an empty rule ID is grouped under the empty string
// like any other key.
type Store struct {
	order  []string
	groups map[string][]Finding
}

// NewStore groups an ordered finding sequence by rule ID.
func NewStore(findings []Finding) *Store {
	s := &Store{
		groups: make(map[string][]Finding),
	}

	for _, f := range findings {
		if _, seen := s.groups[f.RuleID]; !seen {
			s.order = append(s.order, f.RuleID)
		}
		s.groups[f.RuleID] = append(s.groups[f.RuleID], f)
	}

	return s
}

// RuleIDs returns the group keys in first-seen order.
func (s *Store) RuleIDs() []string {
	return s.order
}

// Group returns the findings for a rule ID, in original order.
// Returns nil for an unknown rule ID.
func (s *Store) Group(ruleID string) []Finding {
	return s.groups[ruleID]
}

// GroupCount returns the number of distinct rule groups.
func (s *Store) GroupCount() int {
	return len(s.order)
}

// TotalFindings returns the total finding count across all groups.
func (s *Store) TotalFindings() int {
	total := 0
	for _, findings := range s.groups {
		total += len(findings)
	}
	return total
}
