package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	cohortdomain "github.com/smallbiznis/megaline/internal/cohort/domain"
	"github.com/smallbiznis/megaline/internal/config"
	obsmetrics "github.com/smallbiznis/megaline/internal/observability/metrics"
	plandomain "github.com/smallbiznis/megaline/internal/plan/domain"
	ratingdomain "github.com/smallbiznis/megaline/internal/rating/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type ratingStub struct {
	report *ratingdomain.BillingReport
	rows   []ratingdomain.BilledUsage
}

func (s *ratingStub) RunBilling(ctx context.Context) (*ratingdomain.BillingReport, error) {
	return s.report, nil
}

func (s *ratingStub) ListBilled(ctx context.Context, filter ratingdomain.BilledFilter) ([]ratingdomain.BilledUsage, error) {
	return s.rows, nil
}

type cohortStub struct {
	comparison *cohortdomain.Comparison
	err        error
}

func (s *cohortStub) ComparePlans(ctx context.Context, a, b string) (*cohortdomain.Comparison, error) {
	return s.comparison, s.err
}

func (s *cohortStub) CompareRegions(ctx context.Context, pattern string) (*cohortdomain.Comparison, error) {
	return s.comparison, s.err
}

func (s *cohortStub) PlanMonthlyAverages(ctx context.Context) ([]cohortdomain.PlanMonthStat, error) {
	return nil, s.err
}

type catalogStub struct{}

func (catalogStub) Resolve(ctx context.Context, userID int64) (plandomain.Resolution, error) {
	return plandomain.Resolution{}, nil
}

func (catalogStub) Plans(ctx context.Context) ([]plandomain.Plan, error) {
	return []plandomain.Plan{{PlanID: "surf"}}, nil
}

func newTestServer(rating ratingdomain.Service, cohort cohortdomain.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := NewEngine(obsmetrics.New())
	NewServer(ServerParams{
		Gin:       engine,
		Cfg:       config.Config{},
		Log:       zap.NewNop(),
		RatingSvc: rating,
		CohortSvc: cohort,
		Catalog:   catalogStub{},
	})
	return engine
}

func TestRunBillingEndpoint(t *testing.T) {
	engine := newTestServer(
		&ratingStub{report: &ratingdomain.BillingReport{BatchID: "1", UserMonths: 3, Billed: 3}},
		&cohortStub{},
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/billing/run", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var report ratingdomain.BillingReport
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 3, report.Billed)
}

func TestRunBillingEndpointReportsFaults(t *testing.T) {
	engine := newTestServer(
		&ratingStub{report: &ratingdomain.BillingReport{
			BatchID:    "1",
			UserMonths: 3,
			Billed:     2,
			FaultCount: 1,
			Faults:     []ratingdomain.Fault{{Key: "2000/2018-07", Reason: "unknown_user"}},
		}},
		&cohortStub{},
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/billing/run", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMultiStatus, rec.Code)
}

func TestCohortEndpointInsufficientSample(t *testing.T) {
	engine := newTestServer(
		&ratingStub{},
		&cohortStub{err: cohortdomain.ErrInsufficientSample},
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/cohorts/plans", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHealthz(t *testing.T) {
	engine := newTestServer(&ratingStub{}, &cohortStub{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
