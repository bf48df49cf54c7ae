package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kiken/pkg/domain/types"
)

// Dataset is the immutable snapshot of the six master tables and the
// relationship table. It is assembled once by the loader and never mutated;
// all lookup methods are pure and safe for concurrent use.
type Dataset struct {
	riskElements    MasterTable
	hazardItems     MasterTable
	countermeasures MasterTable
	industries      MasterTable
	workProcesses   MasterTable
	riskFactors     MasterTable
	relationships   []Relationship
}

// NewDataset assembles a snapshot from the already-validated tables and
// relationship rows
func NewDataset(tables map[types.Table]MasterTable, relationships []Relationship) (*Dataset, error) {
	d := &Dataset{
		relationships: make([]Relationship, len(relationships)),
	}
	copy(d.relationships, relationships)

	for _, t := range types.AllTables() {
		table, ok := tables[t]
		if !ok {
			return nil, goerr.New("missing master table", goerr.V("table", t))
		}
		switch t {
		case types.TableRiskElement:
			d.riskElements = table
		case types.TableHazardItem:
			d.hazardItems = table
		case types.TableCountermeasure:
			d.countermeasures = table
		case types.TableIndustry:
			d.industries = table
		case types.TableWorkProcess:
			d.workProcesses = table
		case types.TableRiskFactor:
			d.riskFactors = table
		}
	}

	return d, nil
}

// Table returns the master table identified by t
func (d *Dataset) Table(t types.Table) MasterTable {
	switch t {
	case types.TableRiskElement:
		return d.riskElements
	case types.TableHazardItem:
		return d.hazardItems
	case types.TableCountermeasure:
		return d.countermeasures
	case types.TableIndustry:
		return d.industries
	case types.TableWorkProcess:
		return d.workProcesses
	case types.TableRiskFactor:
		return d.riskFactors
	}
	return MasterTable{}
}

// RelationshipCount returns the number of relationship rows in the snapshot
func (d *Dataset) RelationshipCount() int {
	return len(d.relationships)
}

// RiskElementNames returns the closed vocabulary of risk element names in
// source order
func (d *Dataset) RiskElementNames() []string {
	return d.riskElements.Names()
}

// IndustryNames returns the closed vocabulary of industry names in source
// order
func (d *Dataset) IndustryNames() []string {
	return d.industries.Names()
}

// IDsByNames resolves names to IDs in the given table by exact match. Names
// with no match are silently skipped, so the result may be shorter than the
// input. Output order follows input order and duplicates are kept.
func (d *Dataset) IDsByNames(table types.Table, names []string) []int {
	t := d.Table(table)
	ids := make([]int, 0, len(names))
	for _, name := range names {
		if id, ok := t.IDByName(name); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// NamesByIDs resolves IDs to names in the given table. IDs with no matching
// item are silently dropped.
func (d *Dataset) NamesByIDs(table types.Table, ids []int) []string {
	t := d.Table(table)
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if item, ok := t.ByID(id); ok {
			names = append(names, item.Name)
		}
	}
	return names
}

// HazardItemIDsByRiskIDs collects the hazard item IDs of every relationship
// row whose risk element ID is in riskIDs. Each ID appears once, in
// first-seen relationship order.
func (d *Dataset) HazardItemIDsByRiskIDs(riskIDs []int) []int {
	risks := newIDSet(riskIDs)

	var ids []int
	seen := map[int]struct{}{}
	for _, rel := range d.relationships {
		if !risks.has(rel.RiskElementID) {
			continue
		}
		if _, ok := seen[rel.HazardItemID]; ok {
			continue
		}
		seen[rel.HazardItemID] = struct{}{}
		ids = append(ids, rel.HazardItemID)
	}
	return ids
}

// CountermeasuresByConditions returns the countermeasures of every
// relationship row matching both the risk element and hazard item
// conditions. Each countermeasure appears once, in first-seen order; IDs
// without a resolvable master item are dropped.
func (d *Dataset) CountermeasuresByConditions(riskIDs, hazardItemIDs []int) []MasterItem {
	return d.countermeasuresByFilter(riskIDs, hazardItemIDs, nil)
}

// CountermeasuresByConditionsWithIndustry is CountermeasuresByConditions
// with an additional conjunct on the industry ID
func (d *Dataset) CountermeasuresByConditionsWithIndustry(riskIDs, hazardItemIDs, industryIDs []int) []MasterItem {
	return d.countermeasuresByFilter(riskIDs, hazardItemIDs, industryIDs)
}

func (d *Dataset) countermeasuresByFilter(riskIDs, hazardItemIDs, industryIDs []int) []MasterItem {
	risks := newIDSet(riskIDs)
	hazards := newIDSet(hazardItemIDs)
	industries := newIDSet(industryIDs)

	var items []MasterItem
	seen := map[int]struct{}{}
	for _, rel := range d.relationships {
		if !risks.has(rel.RiskElementID) || !hazards.has(rel.HazardItemID) {
			continue
		}
		if industryIDs != nil && !industries.has(rel.IndustryID) {
			continue
		}
		if _, ok := seen[rel.CountermeasureID]; ok {
			continue
		}
		seen[rel.CountermeasureID] = struct{}{}
		if item, ok := d.countermeasures.ByID(rel.CountermeasureID); ok {
			items = append(items, item)
		}
	}
	return items
}

// FullMatch is a relationship row with all six foreign keys resolved to
// their master items
type FullMatch struct {
	RiskElement    MasterItem `json:"risk_element"`
	HazardItem     MasterItem `json:"hazard_item"`
	Countermeasure MasterItem `json:"countermeasure"`
	Industry       MasterItem `json:"industry"`
	WorkProcess    MasterItem `json:"work_process"`
	RiskFactor     MasterItem `json:"risk_factor"`
}

// FullMatches returns one resolved row per relationship row satisfying the
// risk element, hazard item and countermeasure conditions. Rows where any of
// the six foreign keys does not resolve are excluded. Results follow
// relationship iteration order and are not deduplicated.
func (d *Dataset) FullMatches(riskIDs, hazardItemIDs, actionIDs []int) []FullMatch {
	return d.fullMatches(nil, riskIDs, hazardItemIDs, actionIDs)
}

// FullMatchesWithIndustry is FullMatches with an additional conjunct on the
// industry ID
func (d *Dataset) FullMatchesWithIndustry(industryIDs, riskIDs, hazardItemIDs, actionIDs []int) []FullMatch {
	return d.fullMatches(industryIDs, riskIDs, hazardItemIDs, actionIDs)
}

func (d *Dataset) fullMatches(industryIDs, riskIDs, hazardItemIDs, actionIDs []int) []FullMatch {
	risks := newIDSet(riskIDs)
	hazards := newIDSet(hazardItemIDs)
	actions := newIDSet(actionIDs)
	industries := newIDSet(industryIDs)

	var results []FullMatch
	for _, rel := range d.relationships {
		if !risks.has(rel.RiskElementID) || !hazards.has(rel.HazardItemID) || !actions.has(rel.CountermeasureID) {
			continue
		}
		if industryIDs != nil && !industries.has(rel.IndustryID) {
			continue
		}

		m, ok := d.resolve(rel)
		if !ok {
			continue
		}
		results = append(results, m)
	}
	return results
}

// resolve maps all six foreign keys of a relationship row to master items.
// It reports false if any key has no matching item.
func (d *Dataset) resolve(rel Relationship) (FullMatch, bool) {
	var m FullMatch
	var ok bool

	if m.RiskElement, ok = d.riskElements.ByID(rel.RiskElementID); !ok {
		return FullMatch{}, false
	}
	if m.HazardItem, ok = d.hazardItems.ByID(rel.HazardItemID); !ok {
		return FullMatch{}, false
	}
	if m.Countermeasure, ok = d.countermeasures.ByID(rel.CountermeasureID); !ok {
		return FullMatch{}, false
	}
	if m.Industry, ok = d.industries.ByID(rel.IndustryID); !ok {
		return FullMatch{}, false
	}
	if m.WorkProcess, ok = d.workProcesses.ByID(rel.WorkProcessID); !ok {
		return FullMatch{}, false
	}
	if m.RiskFactor, ok = d.riskFactors.ByID(rel.RiskFactorID); !ok {
		return FullMatch{}, false
	}
	return m, true
}

// idSet is a membership filter over IDs. An empty set matches nothing, so a
// conjunction over an empty key set always yields an empty result.
type idSet map[int]struct{}

func newIDSet(ids []int) idSet {
	s := make(idSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s idSet) has(id int) bool {
	_, ok := s[id]
	return ok
}
