package classifier

import (
	"context"

	"github.com/secmon-lab/kiken/pkg/domain/model"
)

// Service classifies free-text work descriptions against the closed
// vocabularies of the safety dataset. Implementations are untrusted with
// respect to vocabulary conformance: every result is post-filtered against
// the supplied vocabulary and anything else is silently discarded.
type Service interface {
	// AccidentTypes picks the accident types most likely to occur during the
	// described work, drawn from the fixed catalog
	AccidentTypes(ctx context.Context, description string, catalog []model.AccidentType) ([]model.AccidentType, error)

	// RiskElements picks the most dangerous-looking risk elements from the
	// fixed vocabulary
	RiskElements(ctx context.Context, description string, vocabulary []string) ([]string, error)

	// Industries maps a natural-language industry description to the closest
	// standard industry names
	Industries(ctx context.Context, description string, vocabulary []string) ([]string, error)

	// FilterHazardItems keeps only the hazard items directly related to the
	// described work. Candidates are already known to be linked to the
	// identified risk elements.
	FilterHazardItems(ctx context.Context, description string, riskElements, hazardItems []string) ([]string, error)
}

// Result caps per operation
const (
	DefaultMaxAccidentTypes = 3
	DefaultMaxRiskElements  = 2
	DefaultMaxIndustries    = 2
)

// accidentTypeResponse is the structured output for accident type
// classification
type accidentTypeResponse struct {
	AccidentTypes []selectedAccidentType `json:"accident_types"`
}

type selectedAccidentType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// nameListResponse is the structured output for the name-only
// classifications (risk elements, industries, hazard item filtering)
type nameListResponse struct {
	Names []string `json:"names"`
}
