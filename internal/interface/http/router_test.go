package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-intents/internal/domain/intent"
	"github.com/yanqian/faq-intents/internal/infra/config"
	apperrors "github.com/yanqian/faq-intents/pkg/errors"
)

func TestRouter_AssignSuccess(t *testing.T) {
	run := intent.Run{
		ID:     "run-1",
		Corpus: "civic",
		Mode:   intent.ModeStable,
		Assignments: []intent.Assignment{
			{Row: 0, Question: "How do I register to vote?", Intent: "how_do_i_register_to", Source: intent.SourceWide},
		},
	}
	svc := &stubService{
		assignFn: func(_ context.Context, req intent.Request) (intent.Run, error) {
			require.Equal(t, "civic", req.Corpus)
			require.Equal(t, intent.ModeCounter, req.Mode)
			require.Equal(t, []intent.QuestionInput{{Question: "How do I register to vote?", Answer: "Online."}}, req.Questions)
			return run, nil
		},
	}

	body := `{"corpus":"civic","mode":"counter","questions":[{"question":"How do I register to vote?","answer":"Online."}]}`
	recorder := performRequest(http.MethodPost, "/api/v1/intents", body, newRouterUnderTest(t, svc, defaultTestConfig()))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got intent.Run
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, run, got)
}

func TestRouter_AssignInvalidJSON(t *testing.T) {
	recorder := performRequest(http.MethodPost, "/api/v1/intents", `{"questions":"nope"}`, newRouterUnderTest(t, &stubService{}, defaultTestConfig()))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.NotEmpty(t, errBody["error"]["message"])
}

func TestRouter_AssignMapsServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "invalid input", err: apperrors.Wrap("invalid_input", "questions cannot be empty", nil), status: http.StatusBadRequest, code: "invalid_input"},
		{name: "corpus error", err: apperrors.Wrap("corpus_error", "intents are not unique", nil), status: http.StatusUnprocessableEntity, code: "corpus_error"},
		{name: "storage failure", err: apperrors.Wrap("intent_error", "failed to persist run", io.ErrUnexpectedEOF), status: http.StatusInternalServerError, code: "intent_failed"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubService{
				assignFn: func(context.Context, intent.Request) (intent.Run, error) { return intent.Run{}, tc.err },
			}
			recorder := performRequest(http.MethodPost, "/api/v1/intents", `{"questions":[]}`, newRouterUnderTest(t, svc, defaultTestConfig()))
			require.Equal(t, tc.status, recorder.Code)
			require.Equal(t, tc.code, decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
		})
	}
}

func TestRouter_Export(t *testing.T) {
	svc := &stubService{
		exportFn: func(_ context.Context, req intent.Request) (intent.ExportResult, error) {
			return intent.ExportResult{
				Run:       intent.Run{ID: "run-2", Corpus: req.Corpus},
				Artifacts: []intent.StoredArtifact{{Key: "faq/run-2/domain.yml", Size: 6}},
				Files:     map[string]string{"domain.yml": "domain"},
			}, nil
		},
	}
	recorder := performRequest(http.MethodPost, "/api/v1/intents/export", `{"corpus":"faq","questions":[{"question":"Opening hours?"}]}`, newRouterUnderTest(t, svc, defaultTestConfig()))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got intent.ExportResult
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, "faq", got.Run.Corpus)
	require.Equal(t, "domain", got.Files["domain.yml"])
}

func TestRouter_LatestAndAssignments(t *testing.T) {
	svc := &stubService{
		latestFn: func(_ context.Context, corpus string) (intent.Run, error) {
			if corpus == "faq" {
				return intent.Run{ID: "run-3", Corpus: "faq"}, nil
			}
			return intent.Run{}, apperrors.Wrap("not_found", "no intent run for corpus "+corpus, nil)
		},
		assignmentsFn: func(_ context.Context, corpus string) ([]intent.Assignment, error) {
			return []intent.Assignment{{Row: 0, Intent: "opening_hour"}}, nil
		},
	}
	server := newRouterUnderTest(t, svc, defaultTestConfig())

	recorder := performRequest(http.MethodGet, "/api/v1/intents/faq/latest", "", server)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = performRequest(http.MethodGet, "/api/v1/intents/other/latest", "", server)
	require.Equal(t, http.StatusNotFound, recorder.Code)
	require.Equal(t, "not_found", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])

	recorder = performRequest(http.MethodGet, "/api/v1/intents/faq/assignments", "", server)
	require.Equal(t, http.StatusOK, recorder.Code)
	var body struct {
		Assignments []intent.Assignment `json:"assignments"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Equal(t, "opening_hour", body.Assignments[0].Intent)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	server := newRouterUnderTest(t, &stubService{}, defaultTestConfig())

	recorder := performRequest(http.MethodGet, "/healthz", "", server)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())

	recorder = performRequest(http.MethodGet, "/metrics", "", server)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), "faq_intents_http_requests_total")
}

func TestRouter_AuthRequiresValidBearerToken(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.HTTP.Auth = config.AuthConfig{Secret: "s3cret", Issuer: "faq-intents"}
	svc := &stubService{
		latestFn: func(context.Context, string) (intent.Run, error) { return intent.Run{ID: "run-4"}, nil },
	}
	server := newRouterUnderTest(t, svc, cfg)

	recorder := performRequest(http.MethodGet, "/api/v1/intents/faq/latest", "", server)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = performRequestWithToken(http.MethodGet, "/api/v1/intents/faq/latest", signToken(t, "wrong", "faq-intents"), server)
	require.Equal(t, http.StatusForbidden, recorder.Code)
	require.Equal(t, "invalid_token", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])

	recorder = performRequestWithToken(http.MethodGet, "/api/v1/intents/faq/latest", signToken(t, "s3cret", "someone-else"), server)
	require.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = performRequestWithToken(http.MethodGet, "/api/v1/intents/faq/latest", signToken(t, "s3cret", "faq-intents"), server)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = performRequest(http.MethodGet, "/healthz", "", server)
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestRouter_RequestLogIncludesTokenSubject(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.HTTP.Auth = config.AuthConfig{Secret: "s3cret"}
	svc := &stubService{
		latestFn: func(context.Context, string) (intent.Run, error) { return intent.Run{ID: "run-5"}, nil },
	}
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	server := NewRouter(cfg, NewHandler(svc, logger))

	recorder := performRequestWithToken(http.MethodGet, "/api/v1/intents/faq/latest", signToken(t, "s3cret", ""), server)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, logs.String(), "subject=ci")

	logs.Reset()
	performRequest(http.MethodGet, "/healthz", "", server)
	require.Contains(t, logs.String(), "http request")
	require.NotContains(t, logs.String(), "subject=")
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.HTTP.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 2}
	server := newRouterUnderTest(t, &stubService{}, cfg)

	for i := 0; i < 2; i++ {
		recorder := performRequest(http.MethodGet, "/api/v1/intents/faq/assignments", "", server)
		require.Equal(t, http.StatusOK, recorder.Code)
	}
	recorder := performRequest(http.MethodGet, "/api/v1/intents/faq/assignments", "", server)
	require.Equal(t, http.StatusTooManyRequests, recorder.Code)
	require.Equal(t, "rate_limit_exceeded", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_CORSPreflight(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.HTTP.CORSOrigins = []string{"https://admin.example"}
	server := newRouterUnderTest(t, &stubService{}, cfg)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/intents", nil)
	req.Header.Set("Origin", "https://admin.example")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://admin.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestIPRateLimiterRefills(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := newIPRateLimiter(config.RateLimitConfig{RequestsPerMinute: 60, Burst: 1}, func() time.Time { return now })

	require.True(t, limiter.allow("10.0.0.1"))
	require.False(t, limiter.allow("10.0.0.1"))
	require.True(t, limiter.allow("10.0.0.2"))

	now = now.Add(time.Second)
	require.True(t, limiter.allow("10.0.0.1"))

	now = now.Add(10 * time.Minute)
	require.True(t, limiter.allow("10.0.0.3"))
	require.Len(t, limiter.buckets, 1)
}

func performRequest(method, path, body string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func performRequestWithToken(method, path, token string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func signToken(t *testing.T, secret, issuer string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   "ci",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func defaultTestConfig() *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
}

func newRouterUnderTest(t *testing.T, svc intent.Service, cfg *config.Config) *http.Server {
	t.Helper()
	return NewRouter(cfg, NewHandler(svc, newTestLogger()))
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubService struct {
	assignFn      func(ctx context.Context, req intent.Request) (intent.Run, error)
	exportFn      func(ctx context.Context, req intent.Request) (intent.ExportResult, error)
	latestFn      func(ctx context.Context, corpus string) (intent.Run, error)
	assignmentsFn func(ctx context.Context, corpus string) ([]intent.Assignment, error)
}

func (s *stubService) Assign(ctx context.Context, req intent.Request) (intent.Run, error) {
	if s.assignFn != nil {
		return s.assignFn(ctx, req)
	}
	return intent.Run{}, nil
}

func (s *stubService) Export(ctx context.Context, req intent.Request) (intent.ExportResult, error) {
	if s.exportFn != nil {
		return s.exportFn(ctx, req)
	}
	return intent.ExportResult{}, nil
}

func (s *stubService) Latest(ctx context.Context, corpus string) (intent.Run, error) {
	if s.latestFn != nil {
		return s.latestFn(ctx, corpus)
	}
	return intent.Run{}, nil
}

func (s *stubService) Assignments(ctx context.Context, corpus string) ([]intent.Assignment, error) {
	if s.assignmentsFn != nil {
		return s.assignmentsFn(ctx, corpus)
	}
	return []intent.Assignment{}, nil
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

var _ intent.Service = (*stubService)(nil)
