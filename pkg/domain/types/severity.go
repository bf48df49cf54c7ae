package types

import "github.com/m-mizutani/goerr/v2"

// Severity grades a penalty clause
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Validate checks if the Severity is a known grade
func (s Severity) Validate() error {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return nil
	}
	return goerr.New("unknown severity", goerr.V("severity", s))
}

// String returns the string representation of Severity
func (s Severity) String() string {
	return string(s)
}
