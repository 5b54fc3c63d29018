// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Severity ranks findings. Only SeverityWarning marks a real mismatch;
// SeverityInfo is used for claims the checker could not verify.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Rank orders severities for threshold comparisons. Unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 1
	case SeverityWarning:
		return 2
	}
	return 0
}

// AtLeast reports whether s is as severe as threshold.
func (s Severity) AtLeast(threshold Severity) bool {
	return threshold.Rank() > 0 && s.Rank() >= threshold.Rank()
}

// Finding is a single consistency-check result.
type Finding struct {
	Path         string   `json:"path" yaml:"path"`
	SectionTitle string   `json:"section" yaml:"section"`
	BlockIndex   int      `json:"block_index" yaml:"block_index"`
	Line         int      `json:"line" yaml:"line"`
	Severity     Severity `json:"severity" yaml:"severity"`

	// Rule names the check that produced the finding
	// (e.g. "success-claim-on-error").
	Rule    string `json:"rule" yaml:"rule"`
	Message string `json:"message" yaml:"message"`
}

// CheckResult is the outcome of checking one document.
type CheckResult struct {
	Path     string    `json:"path" yaml:"path"`
	Findings []Finding `json:"findings" yaml:"findings"`

	// Error records a fatal extraction failure. Empty on success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Count returns how many findings are at or above threshold.
func (r CheckResult) Count(threshold Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity.AtLeast(threshold) {
			n++
		}
	}
	return n
}
