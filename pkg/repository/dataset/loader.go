package dataset

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kiken/pkg/domain/interfaces"
	"github.com/secmon-lab/kiken/pkg/domain/model"
	"github.com/secmon-lab/kiken/pkg/domain/types"
	"github.com/secmon-lab/kiken/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// Logical resource names resolved by a Source
const (
	ResourceRelationships = "relationships.json"
	ResourceAccidentTypes = "accident_types.json"
	ResourceVideos        = "accident_videos.json"
	ResourceCases         = "accident_cases.json"
	ResourcePenalties     = "penalty_clauses.json"
)

// masterResources maps each master table to its resource name
var masterResources = map[types.Table]string{
	types.TableRiskElement:    "master_risk_element.json",
	types.TableHazardItem:     "master_hazard_item.json",
	types.TableCountermeasure: "master_countermeasure.json",
	types.TableIndustry:       "master_industry.json",
	types.TableWorkProcess:    "master_work_process.json",
	types.TableRiskFactor:     "master_risk_factor.json",
}

// Loader fetches and assembles the safety dataset and its side catalogs.
// The seven-resource snapshot is loaded atomically: all fetches and parses
// must succeed or the whole load fails with ErrLoadFailed. A successful load
// is cached for the process lifetime; Reset discards the cache for tests.
type Loader struct {
	source interfaces.Source

	mu            sync.Mutex
	dataset       *model.Dataset
	accidentTypes []model.AccidentType
	videos        []model.AccidentVideoSet
	cases         []model.AccidentCase
	penalties     []model.PenaltyClause
}

// New creates a Loader reading from the given source
func New(source interfaces.Source) *Loader {
	return &Loader{source: source}
}

// Load returns the dataset snapshot, fetching the seven resources
// concurrently on first use. Concurrent callers share a single fetch.
func (l *Loader) Load(ctx context.Context) (*model.Dataset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.dataset != nil {
		return l.dataset, nil
	}

	var relationships []model.Relationship
	tables := make(map[types.Table]model.MasterTable, len(masterResources))
	var tablesMu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)

	for table, name := range masterResources {
		eg.Go(func() error {
			loaded, err := l.loadMasterTable(egCtx, name)
			if err != nil {
				return goerr.Wrap(err, "failed to load master table",
					goerr.V("table", table),
					goerr.V("resource", name),
				)
			}
			tablesMu.Lock()
			tables[table] = loaded
			tablesMu.Unlock()
			return nil
		})
	}

	eg.Go(func() error {
		loaded, err := l.loadRelationships(egCtx)
		if err != nil {
			return goerr.Wrap(err, "failed to load relationships")
		}
		relationships = loaded
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, goerr.Wrap(ErrLoadFailed, err.Error())
	}

	dataset, err := model.NewDataset(tables, relationships)
	if err != nil {
		return nil, goerr.Wrap(ErrLoadFailed, err.Error())
	}

	logging.From(ctx).Info("safety dataset loaded",
		"relationships", dataset.RelationshipCount(),
		"risk_elements", dataset.Table(types.TableRiskElement).Len(),
		"industries", dataset.Table(types.TableIndustry).Len(),
	)

	l.dataset = dataset
	return l.dataset, nil
}

// Reset discards all cached data so the next call loads again
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dataset = nil
	l.accidentTypes = nil
	l.videos = nil
	l.cases = nil
	l.penalties = nil
}

func (l *Loader) loadMasterTable(ctx context.Context, name string) (model.MasterTable, error) {
	data, err := l.source.Fetch(ctx, name)
	if err != nil {
		return model.MasterTable{}, err
	}

	var items []model.MasterItem
	if err := json.Unmarshal(data, &items); err != nil {
		return model.MasterTable{}, goerr.Wrap(err, "failed to parse master table JSON")
	}

	return model.NewMasterTable(items)
}

func (l *Loader) loadRelationships(ctx context.Context) ([]model.Relationship, error) {
	data, err := l.source.Fetch(ctx, ResourceRelationships)
	if err != nil {
		return nil, err
	}

	var rows []model.Relationship
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, goerr.Wrap(err, "failed to parse relationships JSON")
	}

	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid relationship row")
		}
	}

	return rows, nil
}

// AccidentTypes returns the accident type catalog, loading and caching it on
// first use
func (l *Loader) AccidentTypes(ctx context.Context) ([]model.AccidentType, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.accidentTypes != nil {
		return l.accidentTypes, nil
	}

	data, err := l.source.Fetch(ctx, ResourceAccidentTypes)
	if err != nil {
		return nil, goerr.Wrap(ErrLoadFailed, "failed to fetch accident type catalog", goerr.V("cause", err.Error()))
	}

	var catalog []model.AccidentType
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, goerr.Wrap(ErrLoadFailed, "failed to parse accident type catalog", goerr.V("cause", err.Error()))
	}
	for _, t := range catalog {
		if err := t.Validate(); err != nil {
			return nil, goerr.Wrap(ErrLoadFailed, "invalid accident type entry", goerr.V("cause", err.Error()))
		}
	}

	l.accidentTypes = catalog
	return l.accidentTypes, nil
}

// AccidentVideos returns the per-type video pools, loading and caching them
// on first use
func (l *Loader) AccidentVideos(ctx context.Context) ([]model.AccidentVideoSet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.videos != nil {
		return l.videos, nil
	}

	data, err := l.source.Fetch(ctx, ResourceVideos)
	if err != nil {
		return nil, goerr.Wrap(ErrLoadFailed, "failed to fetch accident video catalog", goerr.V("cause", err.Error()))
	}

	var sets []model.AccidentVideoSet
	if err := json.Unmarshal(data, &sets); err != nil {
		return nil, goerr.Wrap(ErrLoadFailed, "failed to parse accident video catalog", goerr.V("cause", err.Error()))
	}

	l.videos = sets
	return l.videos, nil
}

// AccidentCases returns the incident case catalog, loading and caching it on
// first use
func (l *Loader) AccidentCases(ctx context.Context) ([]model.AccidentCase, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cases != nil {
		return l.cases, nil
	}

	data, err := l.source.Fetch(ctx, ResourceCases)
	if err != nil {
		return nil, goerr.Wrap(ErrLoadFailed, "failed to fetch accident case catalog", goerr.V("cause", err.Error()))
	}

	var cases []model.AccidentCase
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, goerr.Wrap(ErrLoadFailed, "failed to parse accident case catalog", goerr.V("cause", err.Error()))
	}

	l.cases = cases
	return l.cases, nil
}

// PenaltyClauses returns the penalty clause catalog, loading and caching it
// on first use
func (l *Loader) PenaltyClauses(ctx context.Context) ([]model.PenaltyClause, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.penalties != nil {
		return l.penalties, nil
	}

	data, err := l.source.Fetch(ctx, ResourcePenalties)
	if err != nil {
		return nil, goerr.Wrap(ErrLoadFailed, "failed to fetch penalty clause catalog", goerr.V("cause", err.Error()))
	}

	var clauses []model.PenaltyClause
	if err := json.Unmarshal(data, &clauses); err != nil {
		return nil, goerr.Wrap(ErrLoadFailed, "failed to parse penalty clause catalog", goerr.V("cause", err.Error()))
	}
	for _, c := range clauses {
		if err := c.Validate(); err != nil {
			return nil, goerr.Wrap(ErrLoadFailed, "invalid penalty clause", goerr.V("cause", err.Error()))
		}
	}

	l.penalties = clauses
	return l.penalties, nil
}
