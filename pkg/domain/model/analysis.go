package model

import "github.com/google/uuid"

// AnalysisID identifies one analysis run, mainly for log correlation
type AnalysisID string

// NewAnalysisID generates a time-ordered AnalysisID
func NewAnalysisID() AnalysisID {
	return AnalysisID(uuid.Must(uuid.NewV7()).String())
}

// String returns the string representation of AnalysisID
func (a AnalysisID) String() string {
	return string(a)
}

// SelectedVideo is one sampled video with the accident type it illustrates
type SelectedVideo struct {
	URL      string `json:"url"`
	TypeName string `json:"type_name"`
	Index    int    `json:"index"`
}

// AnalysisDebug records the intermediate values of each analysis step
type AnalysisDebug struct {
	ClassifiedIndustries []string `json:"classified_industries"`
	IndustryIDs          []int    `json:"industry_ids"`
	ClassifiedRisks      []string `json:"classified_risks"`
	RiskIDs              []int    `json:"risk_ids"`
	HazardItemIDs        []int    `json:"hazard_item_ids"`
	HazardItemNames      []string `json:"hazard_item_names"`
	FilteredHazardItems  []string `json:"filtered_hazard_items"`
	ActionIDs            []int    `json:"action_ids"`
}

// AnalysisResult is the full outcome of one advisory analysis
type AnalysisResult struct {
	ID AnalysisID `json:"id"`

	AccidentTypes []AccidentType  `json:"accident_types"`
	Videos        []SelectedVideo `json:"videos"`
	Cases         []AccidentCase  `json:"cases"`
	Penalties     []PenaltyClause `json:"penalties"`

	SelectedIndustries   []string     `json:"selected_industries"`
	SelectedRiskElements []string     `json:"selected_risk_elements"`
	RelevantHazardItems  []string     `json:"relevant_hazard_items"`
	RecommendedActions   []MasterItem `json:"recommended_actions"`
	FullMatches          []FullMatch  `json:"full_matches"`

	// IndustryMatched reports whether the industry conjunct was applied to
	// the countermeasure join. When the industry description resolves to no
	// known industry, the join falls back to the two-key form.
	IndustryMatched bool `json:"industry_matched"`

	Debug *AnalysisDebug `json:"debug,omitempty"`
}
