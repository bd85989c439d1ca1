package sarif

import (
	"github.com/scandelta/api/pkg/domain/dataset"
)

// ToDataset converts a parsed SARIF log into a dataset.
//
// Results from all runs are flattened in document order. Rule metadata is
// collected from every run's driver; when the same rule ID appears in more
// than one run, the first descriptor wins.
func ToDataset(log *Log, label string) *dataset.Dataset {
	var findings []dataset.Finding
	var rules []dataset.Rule
	seenRules := make(map[string]bool)

	for _, run := range log.Runs {
		for _, descriptor := range run.Tool.Driver.Rules {
			if seenRules[descriptor.ID] {
				continue
			}
			seenRules[descriptor.ID] = true
			rules = append(rules, toRule(descriptor))
		}

		for _, result := range run.Results {
			findings = append(findings, toFinding(result))
		}
	}

	return dataset.New(label, findings, rules)
}

func toRule(descriptor ReportingDescriptor) dataset.Rule {
	rule := dataset.Rule{
		ID:   descriptor.ID,
		Tags: descriptor.Properties.Tags(),
	}
	if descriptor.DefaultConfiguration != nil {
		rule.DefaultLevel = dataset.Level(descriptor.DefaultConfiguration.Level)
	}
	return rule
}

func toFinding(result Result) dataset.Finding {
	finding := dataset.Finding{
		RuleID:  result.RuleID,
		Message: result.Message.Text,
		Level:   dataset.Level(result.Level),
	}

	for _, loc := range result.Locations {
		if loc.PhysicalLocation == nil {
			continue
		}

		converted := dataset.Location{}
		if loc.PhysicalLocation.ArtifactLocation != nil {
			converted.FilePath = loc.PhysicalLocation.ArtifactLocation.URI
		}
		if region := loc.PhysicalLocation.Region; region != nil {
			converted.StartLine = region.StartLine
			converted.StartColumn = region.StartColumn
			converted.EndLine = region.EndLine
			converted.EndColumn = region.EndColumn
		}
		finding.Locations = append(finding.Locations, converted)
	}

	return finding
}
