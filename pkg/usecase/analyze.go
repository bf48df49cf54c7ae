package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kiken/pkg/domain/model"
	"github.com/secmon-lab/kiken/pkg/domain/types"
	"github.com/secmon-lab/kiken/pkg/repository/dataset"
	"github.com/secmon-lab/kiken/pkg/service/classifier"
	"github.com/secmon-lab/kiken/pkg/service/sampler"
	"github.com/secmon-lab/kiken/pkg/utils/logging"
)

// AnalyzeInput describes one advisory request
type AnalyzeInput struct {
	// Description is the free-text work description (required)
	Description string
	// Industry is an optional natural-language industry description. When
	// present, the relational matching chain is run as well.
	Industry string
	// Debug records intermediate step values in the result
	Debug bool
}

// AnalyzeUseCase runs the advisory analysis: classify the work description
// against the fixed vocabularies, join the relational dataset, and sample
// illustrative material
type AnalyzeUseCase struct {
	loader     *dataset.Loader
	classifier classifier.Service
	sampler    *sampler.Sampler
}

// NewAnalyzeUseCase creates a new AnalyzeUseCase
func NewAnalyzeUseCase(loader *dataset.Loader, cls classifier.Service, smp *sampler.Sampler) *AnalyzeUseCase {
	return &AnalyzeUseCase{
		loader:     loader,
		classifier: cls,
		sampler:    smp,
	}
}

// Analyze runs one advisory analysis
func (uc *AnalyzeUseCase) Analyze(ctx context.Context, input AnalyzeInput) (*model.AnalysisResult, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, ErrEmptyDescription
	}

	logger := logging.From(ctx)
	result := &model.AnalysisResult{
		ID: model.NewAnalysisID(),
	}
	if input.Debug {
		result.Debug = &model.AnalysisDebug{}
	}

	logger.Info("starting analysis", "analysis_id", result.ID)

	catalog, err := uc.loader.AccidentTypes(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load accident type catalog")
	}

	accidentTypes, err := uc.classifier.AccidentTypes(ctx, input.Description, catalog)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to classify accident types")
	}
	if len(accidentTypes) == 0 {
		return nil, ErrNoClassificationResult
	}
	result.AccidentTypes = accidentTypes

	typeNames := make([]string, len(accidentTypes))
	for i, t := range accidentTypes {
		typeNames[i] = t.Name
	}
	logger.Info("accident types identified", "analysis_id", result.ID, "types", typeNames)

	if err := uc.attachIllustrations(ctx, result); err != nil {
		return nil, err
	}

	if input.Industry != "" {
		if err := uc.matchRelations(ctx, input, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// attachIllustrations samples videos and cases for the identified accident
// types and collects the penalty clauses mentioning them
func (uc *AnalyzeUseCase) attachIllustrations(ctx context.Context, result *model.AnalysisResult) error {
	videoSets, err := uc.loader.AccidentVideos(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load accident video catalog")
	}
	result.Videos = uc.sampler.Videos(result.AccidentTypes, videoSets)

	cases, err := uc.loader.AccidentCases(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load accident case catalog")
	}
	result.Cases = uc.sampler.Cases(result.AccidentTypes, cases)

	clauses, err := uc.loader.PenaltyClauses(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load penalty clause catalog")
	}
	result.Penalties = matchPenalties(clauses, result.AccidentTypes)

	return nil
}

// matchRelations runs the relational matching chain: industry and risk
// element classification, hazard item traversal and LLM filtering, and the
// countermeasure and full-match joins
func (uc *AnalyzeUseCase) matchRelations(ctx context.Context, input AnalyzeInput, result *model.AnalysisResult) error {
	logger := logging.From(ctx)

	data, err := uc.loader.Load(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load safety dataset")
	}

	industries, err := uc.classifier.Industries(ctx, input.Industry, data.IndustryNames())
	if err != nil {
		return goerr.Wrap(err, "failed to classify industries")
	}
	industryIDs := data.IDsByNames(types.TableIndustry, industries)
	result.SelectedIndustries = industries

	risks, err := uc.classifier.RiskElements(ctx, input.Description, data.RiskElementNames())
	if err != nil {
		return goerr.Wrap(err, "failed to classify risk elements")
	}
	riskIDs := data.IDsByNames(types.TableRiskElement, risks)
	result.SelectedRiskElements = risks

	hazardItemIDs := data.HazardItemIDsByRiskIDs(riskIDs)
	hazardItemNames := data.NamesByIDs(types.TableHazardItem, hazardItemIDs)

	relevant := hazardItemNames
	if len(hazardItemNames) > 0 {
		filtered, err := uc.classifier.FilterHazardItems(ctx, input.Description, risks, hazardItemNames)
		if err != nil {
			return goerr.Wrap(err, "failed to filter hazard items")
		}
		if len(filtered) > 0 {
			relevant = filtered
		}
	}
	result.RelevantHazardItems = relevant
	relevantIDs := data.IDsByNames(types.TableHazardItem, relevant)

	// Apply the industry conjunct only when the description resolved to a
	// known industry; otherwise fall back to the two-key join
	var actions []model.MasterItem
	if len(industryIDs) > 0 {
		actions = data.CountermeasuresByConditionsWithIndustry(riskIDs, relevantIDs, industryIDs)
		result.IndustryMatched = true
	}
	if len(actions) == 0 {
		actions = data.CountermeasuresByConditions(riskIDs, relevantIDs)
		result.IndustryMatched = false
	}
	result.RecommendedActions = actions

	actionIDs := make([]int, len(actions))
	for i, a := range actions {
		actionIDs[i] = a.ID
	}

	if result.IndustryMatched {
		result.FullMatches = data.FullMatchesWithIndustry(industryIDs, riskIDs, relevantIDs, actionIDs)
	} else {
		result.FullMatches = data.FullMatches(riskIDs, relevantIDs, actionIDs)
	}

	logger.Info("relational matching completed",
		"analysis_id", result.ID,
		"industry_matched", result.IndustryMatched,
		"actions", len(actions),
		"full_matches", len(result.FullMatches),
	)

	if result.Debug != nil {
		result.Debug.ClassifiedIndustries = industries
		result.Debug.IndustryIDs = industryIDs
		result.Debug.ClassifiedRisks = risks
		result.Debug.RiskIDs = riskIDs
		result.Debug.HazardItemIDs = hazardItemIDs
		result.Debug.HazardItemNames = hazardItemNames
		result.Debug.FilteredHazardItems = relevant
		result.Debug.ActionIDs = actionIDs
	}

	return nil
}

// matchPenalties returns the clauses whose applicable situations mention any
// of the identified accident types
func matchPenalties(clauses []model.PenaltyClause, accidentTypes []model.AccidentType) []model.PenaltyClause {
	var matched []model.PenaltyClause
	for _, clause := range clauses {
		if penaltyApplies(clause, accidentTypes) {
			matched = append(matched, clause)
		}
	}
	return matched
}

func penaltyApplies(clause model.PenaltyClause, accidentTypes []model.AccidentType) bool {
	for _, situation := range clause.ApplicableSituations {
		for _, t := range accidentTypes {
			if strings.Contains(situation, t.Name) || strings.Contains(t.Name, situation) {
				return true
			}
		}
	}
	return false
}
