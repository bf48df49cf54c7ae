package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/secmon-lab/kiken/pkg/controller/http"
	"github.com/secmon-lab/kiken/pkg/domain/model"
	"github.com/secmon-lab/kiken/pkg/repository/dataset"
	"github.com/secmon-lab/kiken/pkg/service/sampler"
	"github.com/secmon-lab/kiken/pkg/usecase"
)

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

func testLoader() *dataset.Loader {
	return dataset.New(&memorySource{files: map[string]string{
		"master_risk_element.json":   `[{"id":1,"name":"감전(안전전압초과)"}]`,
		"master_hazard_item.json":    `[{"id":10,"name":"노출된 배선"}]`,
		"master_countermeasure.json": `[{"id":100,"name":"절연장치 설치"}]`,
		"master_industry.json":       `[{"id":1000,"name":"건설업"}]`,
		"master_work_process.json":   `[{"id":2000,"name":"전기 설비 작업"}]`,
		"master_risk_factor.json":    `[{"id":3000,"name":"전기"}]`,
		"relationships.json": `[{"row_id":1,"industry_id":1000,"work_process_id":2000,"risk_factor_id":3000,` +
			`"risk_element_id":1,"hazard_item_id":10,"countermeasure_id":100}]`,
		"accident_types.json":  `[{"id":2,"name":"감전","description":"전기에 의한 상해"}]`,
		"accident_videos.json": `[{"id":2,"name":"감전","videos":["e1","e2"],"video_count":2}]`,
		"accident_cases.json":  `[{"id":1,"title":"배전반 감전 사고","accident_type":"감전","accident_type_id":2}]`,
		"penalty_clauses.json": `[{"id":1,"title":"안전조치 위반","severity":"high","applicable_situations":["감전"]}]`,
	}})
}

// stubClassifier answers with the whole catalog and passes vocabularies
// through unchanged
type stubClassifier struct {
	accidentTypesFn func(ctx context.Context, description string, catalog []model.AccidentType) ([]model.AccidentType, error)
}

func (s *stubClassifier) AccidentTypes(ctx context.Context, description string, catalog []model.AccidentType) ([]model.AccidentType, error) {
	if s.accidentTypesFn != nil {
		return s.accidentTypesFn(ctx, description, catalog)
	}
	return catalog, nil
}

func (s *stubClassifier) RiskElements(ctx context.Context, description string, vocabulary []string) ([]string, error) {
	return vocabulary, nil
}

func (s *stubClassifier) Industries(ctx context.Context, description string, vocabulary []string) ([]string, error) {
	return vocabulary, nil
}

func (s *stubClassifier) FilterHazardItems(ctx context.Context, description string, riskElements, hazardItems []string) ([]string, error) {
	return hazardItems, nil
}

func newTestServer(cls *stubClassifier) *httpctrl.Server {
	loader := testLoader()
	smp := sampler.New(sampler.WithRand(rand.New(rand.NewSource(1))))
	uc := usecase.New(loader, cls, usecase.WithSampler(smp))
	return httpctrl.New(uc, loader)
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(&stubClassifier{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, rec.Body.String()).Equal("OK")
}

func TestServer_Analyze(t *testing.T) {
	t.Run("returns the analysis result", func(t *testing.T) {
		srv := newTestServer(&stubClassifier{})

		body := `{"description":"배전반 점검 작업","industry":"아파트 건설 현장"}`
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString(body)))

		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, rec.Header().Get("Content-Type")).Equal("application/json")

		var result model.AnalysisResult
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result)).Required()

		gt.Array(t, result.AccidentTypes).Length(1)
		gt.Value(t, result.AccidentTypes[0].Name).Equal("감전")
		gt.Bool(t, result.IndustryMatched).True()
		gt.Array(t, result.RecommendedActions).Length(1)
		gt.Array(t, result.FullMatches).Length(1)
		gt.Value(t, result.Debug).Nil()
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		srv := newTestServer(&stubClassifier{})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString("{")))

		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("rejects empty description", func(t *testing.T) {
		srv := newTestServer(&stubClassifier{})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString(`{"description":"  "}`)))

		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("reports unclassifiable descriptions", func(t *testing.T) {
		srv := newTestServer(&stubClassifier{
			accidentTypesFn: func(ctx context.Context, description string, catalog []model.AccidentType) ([]model.AccidentType, error) {
				return nil, nil
			},
		})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString(`{"description":"사무 작업"}`)))

		gt.Value(t, rec.Code).Equal(http.StatusUnprocessableEntity)
	})

	t.Run("reports classification failures as bad gateway", func(t *testing.T) {
		srv := newTestServer(&stubClassifier{
			accidentTypesFn: func(ctx context.Context, description string, catalog []model.AccidentType) ([]model.AccidentType, error) {
				return nil, errors.New("model unavailable")
			},
		})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString(`{"description":"작업"}`)))

		gt.Value(t, rec.Code).Equal(http.StatusBadGateway)
	})
}

func TestServer_AccidentTypes(t *testing.T) {
	srv := newTestServer(&stubClassifier{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/accident-types", nil))

	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var catalog []model.AccidentType
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &catalog)).Required()
	gt.Array(t, catalog).Length(1)
	gt.Value(t, catalog[0].Name).Equal("감전")
}

func TestServer_DatasetStats(t *testing.T) {
	srv := newTestServer(&stubClassifier{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dataset/stats", nil))

	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var stats map[string]int
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats)).Required()
	gt.Value(t, stats["relationships"]).Equal(1)
	gt.Value(t, stats["risk_element"]).Equal(1)
	gt.Value(t, stats["industry"]).Equal(1)
}

func TestServer_DatasetUnavailable(t *testing.T) {
	loader := dataset.New(&memorySource{files: map[string]string{}})
	uc := usecase.New(loader, &stubClassifier{})
	srv := httpctrl.New(uc, loader)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dataset/stats", nil))
	gt.Value(t, rec.Code).Equal(http.StatusServiceUnavailable)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/accident-types", nil))
	gt.Value(t, rec.Code).Equal(http.StatusServiceUnavailable)
}
