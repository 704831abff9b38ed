package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chemgps/app"
	"chemgps/domain/result"
	apperrors "chemgps/internal/errors"
	"chemgps/internal/metrics"
	"chemgps/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const table = "x1,x2,x3\n1,2,3\n4,5,6\n7,8,9\n"

func newTestServer(t *testing.T) (*Server, *testkit.TestKit) {
	t.Helper()
	kit := testkit.NewTestKit()
	kit.Register("projects/two.yaml", testkit.TwoModelProject())

	rec := metrics.NewRecorder()
	base := *kit.Options()
	base.Results = result.MaskOf(result.TPS)
	return NewServer(app.NewPredictionService(kit.Engine, rec), rec, base, "projects", nil), kit
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(RequestIDHeader))
}

func TestListResults(t *testing.T) {
	s, _ := newTestServer(t)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/results", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var entries []result.Entry
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&entries))
	assert.Equal(t, result.Entries(), entries)
}

func TestPredictPlain(t *testing.T) {
	s, kit := newTestServer(t)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/predict?project=two.yaml", strings.NewReader(table)))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "2", rr.Header().Get("X-Models-Predicted"))
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
	// two score columns of three observations each
	assert.Equal(t, 2, strings.Count(rr.Body.String(), "\t\n"))
	assert.Zero(t, kit.Engine.OpenProjects())
}

func TestPredictXMLWithResults(t *testing.T) {
	s, _ := newTestServer(t)
	rr := httptest.NewRecorder()
	url := "/api/predict?project=two.yaml&format=xml&verbose=true&results=tcvsedfps,ypredps"
	s.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, url, strings.NewReader(table)))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/xml", rr.Header().Get("Content-Type"))
	body := rr.Body.String()
	assert.Contains(t, body, `<result generator="chemgps"`)
	assert.Contains(t, body, `name="tcvsedfps"`)
	assert.Contains(t, body, `name="ypredps"`)
}

func TestPredictBadRequests(t *testing.T) {
	s, _ := newTestServer(t)
	for _, url := range []string{
		"/api/predict",
		"/api/predict?project=two.yaml&format=json",
		"/api/predict?project=two.yaml&verbose=maybe",
		"/api/predict?project=two.yaml&results=nope",
	} {
		t.Run(url, func(t *testing.T) {
			rr := httptest.NewRecorder()
			s.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, url, strings.NewReader(table)))
			assert.Equal(t, http.StatusBadRequest, rr.Code)

			var body errorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, apperrors.CodeInvalidInput, body.Code)
			assert.Equal(t, rr.Header().Get(RequestIDHeader), body.RequestID)
		})
	}
}

func TestPredictEmptyBody(t *testing.T) {
	s, _ := newTestServer(t)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/predict?project=two.yaml", strings.NewReader("x1\n")))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPredictUnknownProject(t *testing.T) {
	s, _ := newTestServer(t)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/predict?project=../../etc/none.yaml", strings.NewReader(table)))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPredictWaitsForEngine(t *testing.T) {
	s, _ := newTestServer(t)
	require.NoError(t, s.engine.Acquire(context.Background(), 1))
	defer s.engine.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/predict?project=two.yaml", strings.NewReader(table)).WithContext(ctx)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	s.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/predict?project=two.yaml", strings.NewReader(table)))

	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "chemgps_session_loads_total")
}

func TestProjectPathStaysInDirectory(t *testing.T) {
	s := &Server{projectDir: "projects"}
	assert.Equal(t, "projects/etc/passwd", s.projectPath("../../etc/passwd"))
	assert.Equal(t, "projects/two.yaml", s.projectPath("two.yaml"))
}
