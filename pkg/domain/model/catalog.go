package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kiken/pkg/domain/types"
)

// AccidentType is one entry of the fixed industrial-accident category
// catalog. The classifier may only choose from this closed set.
type AccidentType struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Examples    []string `json:"examples"`
	Frequency   string   `json:"frequency"`
}

// Validate checks if the AccidentType has a usable shape
func (a AccidentType) Validate() error {
	if a.ID <= 0 {
		return goerr.New("accident type ID must be positive", goerr.V("id", a.ID))
	}
	if a.Name == "" {
		return goerr.New("accident type name is required", goerr.V("id", a.ID))
	}
	return nil
}

// AccidentVideoSet is the pool of illustrative video URLs for one accident
// type, keyed by the accident type ID
type AccidentVideoSet struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Videos     []string `json:"videos"`
	VideoCount int      `json:"video_count"`
}

// AccidentCase is one real incident record, tagged with the accident type it
// illustrates
type AccidentCase struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Industry       string `json:"industry"`
	Description    string `json:"description"`
	AccidentType   string `json:"accident_type"`
	AccidentTypeID int    `json:"accident_type_id"`
	OriginalType   string `json:"original_type"`
}

// PenaltyClause is one legal penalty provision with the situations it
// applies to
type PenaltyClause struct {
	ID                   int            `json:"id"`
	Title                string         `json:"title"`
	Article              string         `json:"article"`
	Summary              string         `json:"summary"`
	FullText             string         `json:"full_text"`
	Severity             types.Severity `json:"severity"`
	ApplicableSituations []string       `json:"applicable_situations"`
	Exemptions           []string       `json:"exemptions"`
}

// Validate checks if the PenaltyClause has a usable shape
func (p PenaltyClause) Validate() error {
	if p.ID <= 0 {
		return goerr.New("penalty clause ID must be positive", goerr.V("id", p.ID))
	}
	if p.Title == "" {
		return goerr.New("penalty clause title is required", goerr.V("id", p.ID))
	}
	if err := p.Severity.Validate(); err != nil {
		return goerr.Wrap(err, "invalid penalty clause severity", goerr.V("id", p.ID))
	}
	return nil
}
