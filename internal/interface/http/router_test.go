package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/doorkeeper/internal/domain/registry"
	"github.com/avolkov/doorkeeper/internal/infra/config"
	apperrors "github.com/avolkov/doorkeeper/pkg/errors"
)

func TestRouter_RegisterSuccess(t *testing.T) {
	svc := &stubRegistry{
		registerFn: func(ctx context.Context, creds registry.Credentials) (registry.Record, error) {
			require.Equal(t, "user@example.com", creds.Email)
			require.Equal(t, "hunter2secret", creds.Password)
			return registry.Record{Email: creds.Email, PasswordHash: "$2a$10$stub"}, nil
		},
	}

	rec := performRequest(http.MethodPut, "/register", withBasicAuth("user@example.com", "hunter2secret"), newRouterUnderTest(t, svc, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Registered", rec.Body.String())
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "PUT, HEAD, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestRouter_RegisterMissingCredentials(t *testing.T) {
	svc := &stubRegistry{}

	rec := performRequest(http.MethodPut, "/register", nil, newRouterUnderTest(t, svc, nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Missing or malformed credentials", rec.Body.String())
}

func TestRouter_RegisterNonBasicScheme(t *testing.T) {
	svc := &stubRegistry{}

	rec := performRequest(http.MethodPut, "/register", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer some-token")
	}, newRouterUnderTest(t, svc, nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Missing or malformed credentials", rec.Body.String())
}

func TestRouter_RegisterDuplicate(t *testing.T) {
	svc := &stubRegistry{
		registerFn: func(ctx context.Context, creds registry.Credentials) (registry.Record, error) {
			return registry.Record{}, apperrors.Wrap(registry.CodeAlreadyRegistered, "email already registered", nil)
		},
	}

	rec := performRequest(http.MethodPut, "/register", withBasicAuth("user@example.com", "hunter2secret"), newRouterUnderTest(t, svc, nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "email already registered", rec.Body.String())
}

func TestRouter_RegisterNotEligible(t *testing.T) {
	svc := &stubRegistry{
		registerFn: func(ctx context.Context, creds registry.Credentials) (registry.Record, error) {
			return registry.Record{}, apperrors.Wrap(registry.CodeNotEligible, "email not eligible for registration", nil)
		},
	}

	rec := performRequest(http.MethodPut, "/register", withBasicAuth("user@example.com", "hunter2secret"), newRouterUnderTest(t, svc, nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "email not eligible for registration", rec.Body.String())
}

func TestRouter_RegisterVerifyFailure(t *testing.T) {
	svc := &stubRegistry{
		registerFn: func(ctx context.Context, creds registry.Credentials) (registry.Record, error) {
			return registry.Record{}, apperrors.Wrap(registry.CodeVerifyFailed, "stored registration does not match", nil)
		},
	}

	rec := performRequest(http.MethodPut, "/register", withBasicAuth("user@example.com", "hunter2secret"), newRouterUnderTest(t, svc, nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "stored registration does not match", rec.Body.String())
}

func TestRouter_TrivialMethods(t *testing.T) {
	svc := &stubRegistry{}
	server := newRouterUnderTest(t, svc, nil)

	for _, method := range []string{http.MethodHead, http.MethodOptions} {
		rec := performRequest(method, "/register", nil, server)
		require.Equal(t, http.StatusOK, rec.Code, method)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	svc := &stubRegistry{}
	server := newRouterUnderTest(t, svc, nil)

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodPatch} {
		rec := performRequest(method, "/register", nil, server)
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code, method)
		require.Equal(t, "Method not allowed", rec.Body.String(), method)
	}
}

func TestRouter_OriginGuard(t *testing.T) {
	registerCalled := false
	svc := &stubRegistry{
		registerFn: func(ctx context.Context, creds registry.Credentials) (registry.Record, error) {
			registerCalled = true
			return registry.Record{Email: creds.Email}, nil
		},
	}
	server := newRouterUnderTest(t, svc, func(cfg *config.Config) {
		cfg.Registry.AllowedOrigins = []string{"https://app.example.com"}
	})

	// disallowed origin is rejected before method dispatch, even for OPTIONS
	for _, method := range []string{http.MethodPut, http.MethodOptions, http.MethodHead} {
		rec := performRequest(method, "/register", func(req *http.Request) {
			req.Header.Set("Origin", "https://evil.example.net")
			req.SetBasicAuth("user@example.com", "hunter2secret")
		}, server)
		require.Equal(t, http.StatusForbidden, rec.Code, method)
	}
	require.False(t, registerCalled)

	rec := performRequest(http.MethodPut, "/register", func(req *http.Request) {
		req.Header.Set("Origin", "https://app.example.com")
		req.SetBasicAuth("user@example.com", "hunter2secret")
	}, server)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, registerCalled)
}

func TestRouter_RootAlias(t *testing.T) {
	svc := &stubRegistry{
		registerFn: func(ctx context.Context, creds registry.Credentials) (registry.Record, error) {
			return registry.Record{Email: creds.Email}, nil
		},
	}

	rec := performRequest(http.MethodPut, "/", withBasicAuth("user@example.com", "hunter2secret"), newRouterUnderTest(t, svc, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Registered", rec.Body.String())
}

func TestRouter_RateLimit(t *testing.T) {
	svc := &stubRegistry{
		registerFn: func(ctx context.Context, creds registry.Credentials) (registry.Record, error) {
			return registry.Record{Email: creds.Email}, nil
		},
	}
	server := newRouterUnderTest(t, svc, func(cfg *config.Config) {
		cfg.HTTP.RateLimit = config.RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 1,
			Burst:             1,
		}
	})

	first := performRequest(http.MethodPut, "/register", withBasicAuth("user@example.com", "hunter2secret"), server)
	require.Equal(t, http.StatusOK, first.Code)

	second := performRequest(http.MethodPut, "/register", withBasicAuth("user@example.com", "hunter2secret"), server)
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	require.Equal(t, "Too many requests", second.Body.String())
}

func TestRouter_UnmatchedRouteMetricLabel(t *testing.T) {
	svc := &stubRegistry{}
	handler := NewRegistrationHandler(svc, newTestLogger())
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	server := NewRouter(cfg, handler, newTestLogger())

	rec := performRequest(http.MethodGet, "/no/such/path", nil, server)
	require.Equal(t, http.StatusNotFound, rec.Code)

	counter := handler.metrics.requestTotal.WithLabelValues(http.MethodGet, "unmatched", "404")
	require.GreaterOrEqual(t, testutil.ToFloat64(counter), float64(1))
}

func performRequest(method, path string, mutate func(*http.Request), server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func withBasicAuth(email, password string) func(*http.Request) {
	return func(req *http.Request) {
		req.SetBasicAuth(email, password)
	}
}

func newRouterUnderTest(t *testing.T, svc registry.Service, mutateCfg func(*config.Config)) *http.Server {
	t.Helper()
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	if mutateCfg != nil {
		mutateCfg(cfg)
	}
	handler := NewRegistrationHandler(svc, newTestLogger())
	return NewRouter(cfg, handler, newTestLogger())
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubRegistry struct {
	registerFn func(ctx context.Context, creds registry.Credentials) (registry.Record, error)
}

func (s *stubRegistry) Register(ctx context.Context, creds registry.Credentials) (registry.Record, error) {
	if s.registerFn != nil {
		return s.registerFn(ctx, creds)
	}
	return registry.Record{}, nil
}
