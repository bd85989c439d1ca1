// Package category derives weakness categories (CWE identifiers) from rule
// metadata and groups a dataset's findings by them.
package category

import (
	"regexp"
	"strings"

	"github.com/scandelta/api/pkg/domain/dataset"
)

// Category is a normalized weakness category identifier, e.g. "CWE-79".
type Category string

// cwePattern extracts the digit run from a category tag. The prefix match is
// case-sensitive: tool taxonomies emit "CWE" uppercase and lowercase variants
// denote something else.
var cwePattern = regexp.MustCompile(`^CWE[-:](\d+)`)

// FromTag normalizes a single rule tag to a Category.
// Returns false when the tag does not carry a CWE marker, or carries one with
// no digit run after the separator.
func FromTag(tag string) (Category, bool) {
	m := cwePattern.FindStringSubmatch(tag)
	if m == nil {
		return "", false
	}
	return Category("CWE-" + m[1]), true
}

// hasCWEPrefix reports whether a tag begins with a CWE marker, well-formed
// or not.
func hasCWEPrefix(tag string) bool {
	return strings.HasPrefix(tag, "CWE-") || strings.HasPrefix(tag, "CWE:")
}

// Resolve returns the weakness category for a rule ID within one dataset.
//
// Tags are scanned in list order and the first tag carrying the CWE prefix is
// selected; multiple category-like tags are resolved by that order, never
// reported as a conflict. A selected tag with no digit run after the
// separator means the rule has no category. An absent rule likewise resolves
// to no category.
func Resolve(ds *dataset.Dataset, ruleID string) (Category, bool) {
	rule, ok := ds.RuleByID(ruleID)
	if !ok {
		return "", false
	}

	for _, tag := range rule.Tags {
		if !hasCWEPrefix(tag) {
			continue
		}
		return FromTag(tag)
	}

	return "", false
}
