package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/efreitasn/tradedesk/internal/market"
	"github.com/efreitasn/tradedesk/internal/metrics"
	"github.com/efreitasn/tradedesk/internal/orderentry"
	"github.com/efreitasn/tradedesk/internal/service"
	"github.com/efreitasn/tradedesk/internal/session"
	"github.com/efreitasn/tradedesk/internal/store"
	"github.com/efreitasn/tradedesk/internal/stream"
	"github.com/efreitasn/tradedesk/internal/synth"
)

type memoryBlobs struct {
	keys []string
}

func (m *memoryBlobs) Put(_ context.Context, path string, data io.Reader, _ string) error {
	_, _ = io.Copy(io.Discard, data)
	m.keys = append(m.keys, path)
	return nil
}

// testEnv bundles all dependencies for handler integration tests.
type testEnv struct {
	router  http.Handler
	hub     *stream.Hub
	metrics *metrics.Metrics
	blobs   *memoryBlobs
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithArchive(t, true)
}

func newTestEnvWithArchive(t *testing.T, archive bool) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()
	backend := market.NewBackend(synth.NewSource(11), market.Latency{}, m, logger)
	balances := orderentry.Balances{Instrument: 2.5, Quote: 50000}

	mkt := service.NewMarketService(backend)
	orders := service.NewOrderService(mkt, backend, backend, store.NewOrderStore(), balances, m, logger)
	sessions := session.NewManager(store.NewSessionStore(), session.Options{TTL: time.Hour}, m, logger)
	hub := stream.NewHub(nil, m, logger)

	blobs := &memoryBlobs{}
	archiveSvc := service.NewArchiveService(mkt, nil, logger)
	if archive {
		archiveSvc = service.NewArchiveService(mkt, blobs, logger)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = hub.Run(ctx) }()

	router := NewRouter(Services{
		Market:    mkt,
		Portfolio: service.NewPortfolioService(backend),
		Orders:    orders,
		Entry:     service.NewEntryService(mkt, balances),
		Funds:     service.NewFundsService(store.NewTransferStore(), logger),
		Archive:   archiveSvc,
		Dashboard: service.NewDashboard(backend, orders),
		Sessions:  sessions,
		Stream:    hub.HandleWS,
		Metrics:   m.Handler(),
		Observer:  m,
	}, []string{"http://app.test"}, logger)

	return &testEnv{router: router, hub: hub, metrics: m, blobs: blobs}
}

// do sends a request with an optional JSON body and bearer token.
func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

// doRaw sends a raw request with optional content-type override.
func (env *testEnv) doRaw(t *testing.T, method, path, token, contentType, rawBody string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(rawBody))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

// decodeJSON decodes the response body into v.
func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rr.Body.String())
	}
}

// login opens a session through the API and returns its token.
func (env *testEnv) login(t *testing.T) string {
	t.Helper()
	rr := env.do(t, "POST", "/auth/login", "", map[string]any{
		"identifier": "demo@example.com",
		"password":   "password123",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp map[string]any
	decodeJSON(t, rr, &resp)
	token, _ := resp["token"].(string)
	if token == "" {
		t.Fatalf("login returned no token: %v", resp)
	}
	return token
}

func assertError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) map[string]any {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, rr.Code, rr.Body.String())
	}
	var resp map[string]any
	decodeJSON(t, rr, &resp)
	if resp["error"] != code {
		t.Errorf("error = %v, want %q", resp["error"], code)
	}
	return resp
}
