package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/recognizers/internal/profile"
	"github.com/hrygo/recognizers/plugin/recognizer"
	apierrors "github.com/hrygo/recognizers/server/internal/errors"
	"github.com/hrygo/recognizers/server/internal/observability"
	"github.com/hrygo/recognizers/store"
	storetest "github.com/hrygo/recognizers/store/test"
)

var refTime = time.Date(2026, 1, 27, 10, 0, 0, 0, time.UTC)

type testServer struct {
	echo    *echo.Echo
	service *APIV1Service
}

func newTestServer(t *testing.T, withHistory bool, mutate ...func(*profile.Profile)) *testServer {
	t.Helper()
	p := &profile.Profile{
		Mode:           "dev",
		DefaultCulture: "en-us",
		Timezone:       "UTC",
		Concurrency:    2,
		RateLimit:      0,
		RateBurst:      1,
	}
	for _, m := range mutate {
		m(p)
	}
	rec, err := recognizer.NewService(recognizer.Options{DefaultCulture: p.DefaultCulture, Concurrency: p.Concurrency})
	require.NoError(t, err)

	var st *store.Store
	if withHistory {
		st = storetest.NewTestingStore(context.Background(), t)
	}
	svc := NewAPIV1Service(p, rec, st, observability.NewMetrics())
	svc.now = func() time.Time { return refTime }

	e := echo.New()
	svc.RegisterRoutes(e)
	return &testServer{echo: e, service: svc}
}

func (ts *testServer) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	ts.echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestRecognize(t *testing.T) {
	ts := newTestServer(t, true)
	rec := ts.do(t, http.MethodPost, "/api/v1/recognize",
		`{"text": "The call lasted 5 hours and cost 30 dollars, about 3 days ago."}`,
		HeaderRequestID, "req-42")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "req-42", rec.Header().Get(HeaderRequestID))

	resp := decode[RecognizeResponse](t, rec)
	assert.Equal(t, "req-42", resp.RequestID)
	assert.Equal(t, "en-us", resp.Culture)
	assert.True(t, resp.Reference.Equal(refTime))
	require.Len(t, resp.Outcomes, 3)
	assert.Equal(t, "5 hours", resp.Outcomes[0].Text)
	assert.Equal(t, "PT5H", resp.Outcomes[0].TimexStr)
	assert.Equal(t, "30 dollars", resp.Outcomes[1].Text)
	assert.Equal(t, "about 3 days ago", resp.Outcomes[2].Text)
	require.NotNil(t, resp.Outcomes[2].Value)
	assert.Equal(t, "approx", resp.Outcomes[2].Value.FutureResolution["Mod"])

	// History was persisted under the request ID.
	rec = ts.do(t, http.MethodGet, "/api/v1/recognitions?request_id=req-42", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	history := decode[ListRecognitionsResponse](t, rec)
	require.Len(t, history.Recognitions, 3)
	var categories []string
	for _, r := range history.Recognitions {
		categories = append(categories, r.Category)
		assert.Equal(t, "en-us", r.Culture)
	}
	assert.ElementsMatch(t, []string{"duration", "currency", "datetime"}, categories)

	rec = ts.do(t, http.MethodGet, "/api/v1/recognitions?category=datetime", "")
	require.Equal(t, http.StatusOK, rec.Code)
	history = decode[ListRecognitionsResponse](t, rec)
	require.Len(t, history.Recognitions, 1)
	assert.Equal(t, "approx", history.Recognitions[0].Modifier)
}

func TestRecognize_ReferenceAndCulture(t *testing.T) {
	ts := newTestServer(t, false)
	rec := ts.do(t, http.MethodPost, "/api/v1/recognize",
		`{"culture": "pt_BR", "text": "3 dias atrás", "reference": "2026-03-10T08:00:00", "timezone": "America/Sao_Paulo"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[RecognizeResponse](t, rec)
	assert.Equal(t, "pt-br", resp.Culture)
	require.Len(t, resp.Outcomes, 1)
	assert.Equal(t, "2026-03-07T08:00:00", resp.Outcomes[0].TimexStr)
}

func TestRecognize_Errors(t *testing.T) {
	ts := newTestServer(t, false)
	tests := []struct {
		name   string
		body   string
		status int
		code   apierrors.ErrorCode
	}{
		{"malformed", `{"text":`, http.StatusBadRequest, apierrors.ErrCodeInvalidArgument},
		{"missing text", `{"culture": "en-us"}`, http.StatusBadRequest, apierrors.ErrCodeInvalidArgument},
		{"bad timezone", `{"text": "5 hours", "timezone": "Mars/Base"}`, http.StatusBadRequest, apierrors.ErrCodeInvalidArgument},
		{"bad reference", `{"text": "5 hours", "reference": "yesterday"}`, http.StatusBadRequest, apierrors.ErrCodeInvalidArgument},
		{"culture", `{"text": "5 hours", "culture": "xx-yy"}`, http.StatusBadRequest, apierrors.ErrCodeUnsupportedCulture},
		{"filter", `{"text": "5 hours", "filter": "category =="}`, http.StatusBadRequest, apierrors.ErrCodeInvalidFilter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/api/v1/recognize", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			resp := decode[ErrorResponse](t, rec)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestRecognize_Filter(t *testing.T) {
	ts := newTestServer(t, false)
	rec := ts.do(t, http.MethodPost, "/api/v1/recognize",
		`{"text": "5 hours and 10 euros", "filter": "category == \"currency\""}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[RecognizeResponse](t, rec)
	require.Len(t, resp.Outcomes, 1)
	assert.Equal(t, "10 euros", resp.Outcomes[0].Text)
	assert.Equal(t, "10 Euro", resp.Outcomes[0].TimexStr)
}

func TestRecognizeBatch(t *testing.T) {
	ts := newTestServer(t, false)
	rec := ts.do(t, http.MethodPost, "/api/v1/recognize/batch", `{"documents": [
		{"text": "2days"},
		{"text": "meia hora", "culture": "pt-br"},
		{"text": "nothing to see"}
	]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[BatchRecognizeResponse](t, rec)
	require.Len(t, resp.Results, 3)
	assert.Equal(t, "P2D", resp.Results[0].Outcomes[0].TimexStr)
	assert.Equal(t, "pt-br", resp.Results[1].Culture)
	assert.Equal(t, "PT0.5H", resp.Results[1].Outcomes[0].TimexStr)
	assert.Empty(t, resp.Results[2].Outcomes)

	rec = ts.do(t, http.MethodPost, "/api/v1/recognize/batch", `{"documents": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecognizeMarkdown(t *testing.T) {
	ts := newTestServer(t, false)
	body, err := json.Marshal(RecognizeRequest{Text: "# Plan\n\nBake for **2 hours**.\n\n```\nsleep 10 minutes\n```\n"})
	require.NoError(t, err)
	rec := ts.do(t, http.MethodPost, "/api/v1/recognize/markdown", string(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[RecognizeResponse](t, rec)
	require.Len(t, resp.Outcomes, 1)
	assert.Equal(t, "2 hours", resp.Outcomes[0].Text)
}

func TestListCultures(t *testing.T) {
	ts := newTestServer(t, false, func(p *profile.Profile) { p.DefaultCulture = "pt-br" })
	rec := ts.do(t, http.MethodGet, "/api/v1/cultures", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[ListCulturesResponse](t, rec)
	assert.Equal(t, []CultureResponse{
		{Code: "en-us", Name: "English"},
		{Code: "pt-br", Name: "Portuguese", Default: true},
	}, resp.Cultures)
}

func TestListRecognitions_Disabled(t *testing.T) {
	ts := newTestServer(t, false)
	rec := ts.do(t, http.MethodGet, "/api/v1/recognitions", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, apierrors.ErrCodeUnavailable, decode[ErrorResponse](t, rec).Code)
}

func TestRecognitionStats(t *testing.T) {
	ts := newTestServer(t, true)
	rec := ts.do(t, http.MethodPost, "/api/v1/recognize", `{"text": "5 hours and 2days for 10 euros"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/v1/recognitions/stats", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[RecognitionStatsResponse](t, rec)
	assert.Equal(t, int64(3), resp.Total)
	assert.Equal(t, int64(3), resp.LastDay)
	assert.Equal(t, map[string]int64{"duration": 2, "currency": 1}, resp.ByCategory)
	assert.Equal(t, map[string]int64{"en-us": 3}, resp.ByCulture)
	assert.NotZero(t, resp.LastRecognitionTs)

	ts = newTestServer(t, false)
	rec = ts.do(t, http.MethodGet, "/api/v1/recognitions/stats", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListRecognitions_InvalidQuery(t *testing.T) {
	ts := newTestServer(t, true)
	rec := ts.do(t, http.MethodGet, "/api/v1/recognitions?category=weather", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = ts.do(t, http.MethodGet, "/api/v1/recognitions?limit=1000", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, false, func(p *profile.Profile) {
		p.RateLimit = 0.001
		p.RateBurst = 1
	})
	rec := ts.do(t, http.MethodGet, "/api/v1/cultures", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodGet, "/api/v1/cultures", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, apierrors.ErrCodeRateLimitExceeded, decode[ErrorResponse](t, rec).Code)
}
