package types

import "github.com/m-mizutani/goerr/v2"

// Table identifies one of the six master tables of the safety dataset
type Table string

const (
	TableRiskElement    Table = "risk_element"
	TableHazardItem     Table = "hazard_item"
	TableCountermeasure Table = "countermeasure"
	TableIndustry       Table = "industry"
	TableWorkProcess    Table = "work_process"
	TableRiskFactor     Table = "risk_factor"
)

// AllTables returns every master table identifier
func AllTables() []Table {
	return []Table{
		TableRiskElement,
		TableHazardItem,
		TableCountermeasure,
		TableIndustry,
		TableWorkProcess,
		TableRiskFactor,
	}
}

// Validate checks if the Table is one of the known master tables
func (t Table) Validate() error {
	switch t {
	case TableRiskElement, TableHazardItem, TableCountermeasure,
		TableIndustry, TableWorkProcess, TableRiskFactor:
		return nil
	}
	return goerr.New("unknown master table", goerr.V("table", t))
}

// String returns the string representation of Table
func (t Table) String() string {
	return string(t)
}
