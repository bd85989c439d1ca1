// Package sarif provides types and a parser for SARIF (Static Analysis
// Results Interchange Format) v2.1.0 documents, reduced to the subset of the
// standard this service consumes.
// Specification: https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html
package sarif

// Log represents the root SARIF log object.
type Log struct {
	Version string `json:"version"`
	Schema  string `json:"$schema,omitempty"`
	Runs    []Run  `json:"runs"`
}

// Run represents a single run of an analysis tool.
type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results,omitempty"`
}

// Tool describes the analysis tool that produced the results.
type Tool struct {
	Driver ToolComponent `json:"driver"`
}

// ToolComponent represents a component of an analysis tool.
type ToolComponent struct {
	Name    string                `json:"name"`
	Version string                `json:"version,omitempty"`
	Rules   []ReportingDescriptor `json:"rules,omitempty"`
}

// ReportingDescriptor describes a rule produced by a tool.
type ReportingDescriptor struct {
	ID                   string                  `json:"id"`
	Name                 string                  `json:"name,omitempty"`
	DefaultConfiguration *ReportingConfiguration `json:"defaultConfiguration,omitempty"`
	Properties           Properties              `json:"properties,omitempty"`
}

// ReportingConfiguration specifies the default configuration for a rule.
type ReportingConfiguration struct {
	Enabled bool  `json:"enabled,omitempty"`
	Level   Level `json:"level,omitempty"`
}

// Result represents a single result from the analysis.
type Result struct {
	RuleID       string        `json:"ruleId,omitempty"`
	Level        Level         `json:"level,omitempty"`
	Message      Message       `json:"message"`
	Locations    []Location    `json:"locations,omitempty"`
	Suppressions []Suppression `json:"suppressions,omitempty"`
}

// Message represents a message to the user.
type Message struct {
	Text string `json:"text,omitempty"`
	ID   string `json:"id,omitempty"`
}

// Location represents a location in an artifact.
type Location struct {
	PhysicalLocation *PhysicalLocation `json:"physicalLocation,omitempty"`
}

// PhysicalLocation represents a physical location in an artifact.
type PhysicalLocation struct {
	ArtifactLocation *ArtifactLocation `json:"artifactLocation,omitempty"`
	Region           *Region           `json:"region,omitempty"`
}

// ArtifactLocation represents the location of an artifact.
type ArtifactLocation struct {
	URI string `json:"uri,omitempty"`
}

// Region represents a region within an artifact.
type Region struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// Suppression represents a suppression of a result.
type Suppression struct {
	Kind          string `json:"kind"`
	Justification string `json:"justification,omitempty"`
}

// Properties is a property bag for custom properties.
type Properties map[string]any

// Tags extracts the "tags" string list from a property bag.
// Non-string entries are skipped.
func (p Properties) Tags() []string {
	raw, ok := p["tags"].([]any)
	if !ok {
		return nil
	}

	tags := make([]string, 0, len(raw))
	for _, entry := range raw {
		if s, ok := entry.(string); ok {
			tags = append(tags, s)
		}
	}
	return tags
}

// Level represents the severity level of a result. "info" is not part of
// the SARIF 2.1.0 level set but some tools emit it; it is accepted and
// ranked between note and warning.
type Level string

const (
	LevelNone    Level = "none"
	LevelNote    Level = "note"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// IsValid checks if the level is valid.
func (l Level) IsValid() bool {
	switch l {
	case LevelNone, LevelNote, LevelInfo, LevelWarning, LevelError, "":
		return true
	default:
		return false
	}
}
