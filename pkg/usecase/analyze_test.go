package usecase_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kiken/pkg/domain/model"
	"github.com/secmon-lab/kiken/pkg/repository/dataset"
	"github.com/secmon-lab/kiken/pkg/service/sampler"
	"github.com/secmon-lab/kiken/pkg/usecase"
)

// memorySource serves dataset resources from memory
type memorySource struct {
	files map[string]string
}

func (s *memorySource) Fetch(ctx context.Context, name string) ([]byte, error) {
	data, ok := s.files[name]
	if !ok {
		return nil, errors.New("no such resource: " + name)
	}
	return []byte(data), nil
}

func newTestLoader() *dataset.Loader {
	return dataset.New(&memorySource{files: map[string]string{
		"master_risk_element.json":   `[{"id":1,"name":"감전(안전전압초과)"},{"id":2,"name":"추락"}]`,
		"master_hazard_item.json":    `[{"id":10,"name":"노출된 배선"},{"id":11,"name":"이동식 사다리"}]`,
		"master_countermeasure.json": `[{"id":100,"name":"절연장치 설치"},{"id":101,"name":"절연 보호구 착용"}]`,
		"master_industry.json":       `[{"id":1000,"name":"건설업"},{"id":1001,"name":"제조업"}]`,
		"master_work_process.json":   `[{"id":2000,"name":"전기 설비 작업"}]`,
		"master_risk_factor.json":    `[{"id":3000,"name":"전기"}]`,
		"relationships.json": `[` +
			`{"row_id":1,"industry_id":1000,"work_process_id":2000,"risk_factor_id":3000,"risk_element_id":1,"hazard_item_id":10,"countermeasure_id":100},` +
			`{"row_id":2,"industry_id":1001,"work_process_id":2000,"risk_factor_id":3000,"risk_element_id":1,"hazard_item_id":10,"countermeasure_id":101}]`,
		"accident_types.json": `[` +
			`{"id":1,"name":"떨어짐 (추락)","description":"높은 곳에서 떨어짐","frequency":"high"},` +
			`{"id":2,"name":"감전","description":"전기에 의한 상해","frequency":"medium"}]`,
		"accident_videos.json": `[{"id":2,"name":"감전","videos":["e1","e2","e3"],"video_count":3}]`,
		"accident_cases.json": `[` +
			`{"id":1,"title":"배전반 감전 사고","accident_type":"감전","accident_type_id":2},` +
			`{"id":2,"title":"사다리 추락 사고","accident_type":"떨어짐 (추락)","accident_type_id":1}]`,
		"penalty_clauses.json": `[` +
			`{"id":1,"title":"안전조치 위반","article":"제38조","severity":"high","applicable_situations":["감전"]},` +
			`{"id":2,"title":"보건조치 위반","article":"제39조","severity":"medium","applicable_situations":["질식"]}]`,
	}})
}

// mockClassifier is a scripted classifier for testing
type mockClassifier struct {
	accidentTypesFn     func(ctx context.Context, description string, catalog []model.AccidentType) ([]model.AccidentType, error)
	riskElementsFn      func(ctx context.Context, description string, vocabulary []string) ([]string, error)
	industriesFn        func(ctx context.Context, description string, vocabulary []string) ([]string, error)
	filterHazardItemsFn func(ctx context.Context, description string, riskElements, hazardItems []string) ([]string, error)
}

func (m *mockClassifier) AccidentTypes(ctx context.Context, description string, catalog []model.AccidentType) ([]model.AccidentType, error) {
	if m.accidentTypesFn != nil {
		return m.accidentTypesFn(ctx, description, catalog)
	}
	return catalog[1:2], nil
}

func (m *mockClassifier) RiskElements(ctx context.Context, description string, vocabulary []string) ([]string, error) {
	if m.riskElementsFn != nil {
		return m.riskElementsFn(ctx, description, vocabulary)
	}
	return []string{"감전(안전전압초과)"}, nil
}

func (m *mockClassifier) Industries(ctx context.Context, description string, vocabulary []string) ([]string, error) {
	if m.industriesFn != nil {
		return m.industriesFn(ctx, description, vocabulary)
	}
	return []string{"건설업"}, nil
}

func (m *mockClassifier) FilterHazardItems(ctx context.Context, description string, riskElements, hazardItems []string) ([]string, error) {
	if m.filterHazardItemsFn != nil {
		return m.filterHazardItemsFn(ctx, description, riskElements, hazardItems)
	}
	return hazardItems, nil
}

func newTestUseCases(cls *mockClassifier) *usecase.UseCases {
	smp := sampler.New(sampler.WithRand(rand.New(rand.NewSource(1))))
	return usecase.New(newTestLoader(), cls, usecase.WithSampler(smp))
}

func TestAnalyze_RequiresDescription(t *testing.T) {
	uc := newTestUseCases(&mockClassifier{})

	for _, description := range []string{"", "   ", "\n\t"} {
		_, err := uc.Analyze.Analyze(context.Background(), usecase.AnalyzeInput{Description: description})
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrEmptyDescription)).True()
	}
}

func TestAnalyze_NoClassificationResult(t *testing.T) {
	cls := &mockClassifier{
		accidentTypesFn: func(ctx context.Context, description string, catalog []model.AccidentType) ([]model.AccidentType, error) {
			return nil, nil
		},
	}
	uc := newTestUseCases(cls)

	_, err := uc.Analyze.Analyze(context.Background(), usecase.AnalyzeInput{Description: "사무 작업"})
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, usecase.ErrNoClassificationResult)).True()
}

func TestAnalyze_WithoutIndustry(t *testing.T) {
	uc := newTestUseCases(&mockClassifier{})

	result, err := uc.Analyze.Analyze(context.Background(), usecase.AnalyzeInput{
		Description: "배전반 점검 작업",
	})
	gt.NoError(t, err).Required()

	gt.Value(t, result.ID.String()).NotEqual("")
	gt.Array(t, result.AccidentTypes).Length(1)
	gt.Value(t, result.AccidentTypes[0].Name).Equal("감전")

	// Two of the three videos of the pool, tagged with the type
	gt.Array(t, result.Videos).Length(2)
	gt.Value(t, result.Videos[0].TypeName).Equal("감전")
	gt.Value(t, result.Videos[0].Index).Equal(1)

	// Only the case tagged with the identified type
	gt.Array(t, result.Cases).Length(1)
	gt.Value(t, result.Cases[0].Title).Equal("배전반 감전 사고")

	// Only the clause mentioning the identified type
	gt.Array(t, result.Penalties).Length(1)
	gt.Value(t, result.Penalties[0].Title).Equal("안전조치 위반")

	// No industry, no relational matching
	gt.Array(t, result.RecommendedActions).Length(0)
	gt.Array(t, result.FullMatches).Length(0)
	gt.Bool(t, result.IndustryMatched).False()
	gt.Value(t, result.Debug).Nil()
}

func TestAnalyze_WithIndustry(t *testing.T) {
	uc := newTestUseCases(&mockClassifier{})

	result, err := uc.Analyze.Analyze(context.Background(), usecase.AnalyzeInput{
		Description: "배전반 점검 작업",
		Industry:    "아파트 건설 현장",
	})
	gt.NoError(t, err).Required()

	gt.Value(t, result.SelectedIndustries).Equal([]string{"건설업"})
	gt.Value(t, result.SelectedRiskElements).Equal([]string{"감전(안전전압초과)"})
	gt.Value(t, result.RelevantHazardItems).Equal([]string{"노출된 배선"})

	// The industry conjunct keeps only the construction-industry row
	gt.Bool(t, result.IndustryMatched).True()
	gt.Array(t, result.RecommendedActions).Length(1)
	gt.Value(t, result.RecommendedActions[0].Name).Equal("절연장치 설치")

	gt.Array(t, result.FullMatches).Length(1)
	gt.Value(t, result.FullMatches[0].Industry.Name).Equal("건설업")
	gt.Value(t, result.FullMatches[0].WorkProcess.Name).Equal("전기 설비 작업")
}

func TestAnalyze_IndustryFallback(t *testing.T) {
	cls := &mockClassifier{
		industriesFn: func(ctx context.Context, description string, vocabulary []string) ([]string, error) {
			// Nothing in the vocabulary matched the description
			return nil, nil
		},
	}
	uc := newTestUseCases(cls)

	result, err := uc.Analyze.Analyze(context.Background(), usecase.AnalyzeInput{
		Description: "배전반 점검 작업",
		Industry:    "우주 산업",
	})
	gt.NoError(t, err).Required()

	// Without a resolved industry the two-key join is used and both
	// countermeasures qualify
	gt.Bool(t, result.IndustryMatched).False()
	gt.Array(t, result.RecommendedActions).Length(2)
	gt.Array(t, result.FullMatches).Length(2)
}

func TestAnalyze_HazardFilterFallback(t *testing.T) {
	cls := &mockClassifier{
		filterHazardItemsFn: func(ctx context.Context, description string, riskElements, hazardItems []string) ([]string, error) {
			// The filter dropped everything; the unfiltered list is kept
			return nil, nil
		},
	}
	uc := newTestUseCases(cls)

	result, err := uc.Analyze.Analyze(context.Background(), usecase.AnalyzeInput{
		Description: "배전반 점검 작업",
		Industry:    "아파트 건설 현장",
	})
	gt.NoError(t, err).Required()

	gt.Value(t, result.RelevantHazardItems).Equal([]string{"노출된 배선"})
	gt.Array(t, result.RecommendedActions).Length(1)
}

func TestAnalyze_NoRelationRows(t *testing.T) {
	cls := &mockClassifier{
		riskElementsFn: func(ctx context.Context, description string, vocabulary []string) ([]string, error) {
			// This risk element has no relationship rows
			return []string{"추락"}, nil
		},
	}
	uc := newTestUseCases(cls)

	result, err := uc.Analyze.Analyze(context.Background(), usecase.AnalyzeInput{
		Description: "사다리 작업",
		Industry:    "아파트 건설 현장",
	})
	gt.NoError(t, err).Required()

	gt.Array(t, result.RelevantHazardItems).Length(0)
	gt.Array(t, result.RecommendedActions).Length(0)
	gt.Array(t, result.FullMatches).Length(0)
	gt.Bool(t, result.IndustryMatched).False()
}

func TestAnalyze_Debug(t *testing.T) {
	uc := newTestUseCases(&mockClassifier{})

	result, err := uc.Analyze.Analyze(context.Background(), usecase.AnalyzeInput{
		Description: "배전반 점검 작업",
		Industry:    "아파트 건설 현장",
		Debug:       true,
	})
	gt.NoError(t, err).Required()
	gt.Value(t, result.Debug).NotNil()

	gt.Value(t, result.Debug.ClassifiedIndustries).Equal([]string{"건설업"})
	gt.Value(t, result.Debug.IndustryIDs).Equal([]int{1000})
	gt.Value(t, result.Debug.ClassifiedRisks).Equal([]string{"감전(안전전압초과)"})
	gt.Value(t, result.Debug.RiskIDs).Equal([]int{1})
	gt.Value(t, result.Debug.HazardItemIDs).Equal([]int{10})
	gt.Value(t, result.Debug.HazardItemNames).Equal([]string{"노출된 배선"})
	gt.Value(t, result.Debug.FilteredHazardItems).Equal([]string{"노출된 배선"})
	gt.Value(t, result.Debug.ActionIDs).Equal([]int{100})
}
