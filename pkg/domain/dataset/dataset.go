// Package dataset models one ingested static-analysis result set: its
// findings, its rule metadata, and the grouping of findings by rule.
//
// Datasets are independent namespaces. The same rule ID in two datasets need
// not denote the same rule, so rule metadata is owned per dataset and never
// merged across them.
package dataset

import "strings"

// Level represents the severity level of a finding or rule.
type Level string

const (
	LevelNone    Level = "none"
	LevelNote    Level = "note"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// IsValid checks if the level is a known severity value.
func (l Level) IsValid() bool {
	switch l {
	case LevelNone, LevelNote, LevelInfo, LevelWarning, LevelError, "":
		return true
	default:
		return false
	}
}

// AllLevels returns the known severity levels in ascending order.
func AllLevels() []Level {
	return []Level{LevelNone, LevelNote, LevelInfo, LevelWarning, LevelError}
}

// NormalizeLevel lowercases a raw level string. Severity comparisons are
// case-insensitive at every consumer, so normalization happens once here at
// the ingestion boundary instead. An empty string stays empty, meaning
// "absent" rather than "none".
func NormalizeLevel(raw string) Level {
	return Level(strings.ToLower(strings.TrimSpace(raw)))
}

// Location is a physical location a finding points at.
type Location struct {
	FilePath    string `json:"file_path,omitempty"`
	StartLine   int    `json:"start_line,omitempty"`
	StartColumn int    `json:"start_column,omitempty"`
	EndLine     int    `json:"end_line,omitempty"`
	EndColumn   int    `json:"end_column,omitempty"`
}

// Finding is one reported static-analysis issue instance.
type Finding struct {
	RuleID    string     `json:"rule_id"`
	Message   string     `json:"message"`
	Locations []Location `json:"locations,omitempty"`

	// Level is the finding's own severity. Empty means the finding did not
	// carry one and the rule's default applies.
	Level Level `json:"level,omitempty"`
}

// Rule is metadata for a finding-producing check within one dataset's tool.
type Rule struct {
	ID string `json:"id"`

	// DefaultLevel is the rule's default severity, used when a finding has
	// no level of its own. Empty means no default.
	DefaultLevel Level `json:"default_level,omitempty"`

	// Tags is the rule's free-text tag list, scanned for weakness-category
	// markers by the category resolver.
	Tags []string `json:"tags,omitempty"`
}

// Dataset is one ingested analysis run: an ordered finding list plus the
// rule metadata of the tool that produced it.
type Dataset struct {
	Label    string    `json:"label,omitempty"`
	Findings []Finding `json:"findings"`
	Rules    []Rule    `json:"rules,omitempty"`
}

// New builds a Dataset from raw findings and rules, normalizing all level
// strings at this boundary.
func New(label string, findings []Finding, rules []Rule) *Dataset {
	normalized := make([]Finding, len(findings))
	for i, f := range findings {
		f.Level = NormalizeLevel(string(f.Level))
		normalized[i] = f
	}

	normalizedRules := make([]Rule, len(rules))
	for i, r := range rules {
		r.DefaultLevel = NormalizeLevel(string(r.DefaultLevel))
		normalizedRules[i] = r
	}

	return &Dataset{
		Label:    label,
		Findings: normalized,
		Rules:    normalizedRules,
	}
}

// Clone returns a deep copy of the dataset. Mutating the copy's findings,
// rules, or their inner slices leaves the original untouched.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{Label: d.Label}

	if d.Findings != nil {
		out.Findings = make([]Finding, len(d.Findings))
		for i, f := range d.Findings {
			if f.Locations != nil {
				f.Locations = append([]Location(nil), f.Locations...)
			}
			out.Findings[i] = f
		}
	}

	if d.Rules != nil {
		out.Rules = make([]Rule, len(d.Rules))
		for i, r := range d.Rules {
			if r.Tags != nil {
				r.Tags = append([]string(nil), r.Tags...)
			}
			out.Rules[i] = r
		}
	}

	return out
}

// Store groups the dataset's findings by rule ID.
// The grouping is recomputed from the source findings on every call, keeping
// derived state from outliving a dataset mutation.
func (d *Dataset) Store() *Store {
	return NewStore(d.Findings)
}

// RuleByID looks up rule metadata by ID. Returns false if the dataset has no
// metadata for that rule.
func (d *Dataset) RuleByID(id string) (Rule, bool) {
	for _, r := range d.Rules {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// EffectiveLevel resolves a finding's severity: the finding's own level if
// present, otherwise the rule's default, otherwise "none".
func (d *Dataset) EffectiveLevel(f Finding) Level {
	if f.Level != "" {
		return f.Level
	}
	if rule, ok := d.RuleByID(f.RuleID); ok && rule.DefaultLevel != "" {
		return rule.DefaultLevel
	}
	return LevelNone
}
