package model

import "github.com/m-mizutani/goerr/v2"

// Relationship is one fact row of the flat join table: a concrete
// co-occurrence of one item from each of the six master tables. It is the
// only many-to-many join surface; all cross-entity queries are conjunctive
// filters over these rows.
type Relationship struct {
	RowID            int `json:"row_id"`
	IndustryID       int `json:"industry_id"`
	WorkProcessID    int `json:"work_process_id"`
	RiskFactorID     int `json:"risk_factor_id"`
	RiskElementID    int `json:"risk_element_id"`
	HazardItemID     int `json:"hazard_item_id"`
	CountermeasureID int `json:"countermeasure_id"`
}

// Validate checks if the Relationship row has a usable shape. It does not
// verify that the foreign keys resolve: rows with dangling keys are kept and
// silently excluded from full-match results instead.
func (r Relationship) Validate() error {
	if r.IndustryID <= 0 || r.WorkProcessID <= 0 || r.RiskFactorID <= 0 ||
		r.RiskElementID <= 0 || r.HazardItemID <= 0 || r.CountermeasureID <= 0 {
		return goerr.New("relationship row has non-positive foreign key", goerr.V("row_id", r.RowID))
	}
	return nil
}
