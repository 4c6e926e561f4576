package server

import (
	"context"
	"errors"
	"io"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/leapstack-labs/leapbridge/internal/bridge"
	"github.com/leapstack-labs/leapbridge/internal/codec"
	"github.com/leapstack-labs/leapbridge/internal/gateway"
	"github.com/leapstack-labs/leapbridge/internal/generation"
	"github.com/leapstack-labs/leapbridge/internal/testutil"
	_ "github.com/leapstack-labs/leapbridge/pkg/adapters/sqlite"
	"github.com/leapstack-labs/leapbridge/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	codec    *codec.Codec
	rows     core.ResultSet
	queryErr error
	genText  string
	genErr   error
	gotModel string
}

func (f *fakeService) Encode(text string) string           { return f.codec.Encode(text) }
func (f *fakeService) Decode(token string) (string, error) { return f.codec.Decode(token) }

func (f *fakeService) Query(context.Context) (core.ResultSet, error) {
	return f.rows, f.queryErr
}

func (f *fakeService) GenerateWith(_ context.Context, prompt, model string) (string, error) {
	f.gotModel = model
	if f.genErr != nil {
		return "", f.genErr
	}
	return f.genText + prompt, nil
}

func newTestServer(t *testing.T, svc *fakeService) *httptest.Server {
	t.Helper()
	if svc.codec == nil {
		svc.codec = codec.New()
	}
	s := NewServer(Config{Service: svc, Logger: testutil.NewTestLogger(t)})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) (int, string) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, ts.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
	return resp.StatusCode, string(b)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &fakeService{})

	status, body := do(t, ts, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	svc := &fakeService{}
	ts := newTestServer(t, svc)

	status, body := do(t, ts, http.MethodPost, "/v1/encode", `{"text":"hello"}`)
	require.Equal(t, http.StatusOK, status)

	token := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(body), `{"text":"`), `"}`)
	plain, err := svc.codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "hello", plain)

	status, body = do(t, ts, http.MethodPost, "/v1/decode", `{"text":"`+token+`"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"text":"hello"}`, body)
}

func TestDecodeGarbage(t *testing.T) {
	ts := newTestServer(t, &fakeService{})

	status, body := do(t, ts, http.MethodPost, "/v1/decode", `{"text":"not a token"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, `"stage":"codec"`)
}

func TestQuery_PreservesColumnOrder(t *testing.T) {
	row := core.NewProjectedRow()
	row.Set("id", int64(1))
	row.Set("symbol", "BTC")
	row.Set("label", nil)

	ts := newTestServer(t, &fakeService{rows: core.ResultSet{row}})

	status, body := do(t, ts, http.MethodPost, "/v1/query", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, `[{"id":1,"symbol":"BTC","label":null}]`, strings.TrimSpace(body))
}

func TestQuery_Empty(t *testing.T) {
	ts := newTestServer(t, &fakeService{rows: core.ResultSet{}})

	status, body := do(t, ts, http.MethodPost, "/v1/query", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, `[]`, strings.TrimSpace(body))
}

func TestQuery_UnencodableRowIsServerError(t *testing.T) {
	row := core.NewProjectedRow()
	row.Set("score", math.Inf(1))

	ts := newTestServer(t, &fakeService{rows: core.ResultSet{row}})

	status, body := do(t, ts, http.MethodPost, "/v1/query", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, body, `"error":"failed to encode response`)
}

func TestQuery_NonFiniteFloatsFromStore(t *testing.T) {
	svc, err := bridge.New(bridge.Settings{
		StoreURI:  "sqlite::memory:",
		Statement: "SELECT 1 AS id, 9e999 AS score, -9e999 AS floor",
	})
	require.NoError(t, err)

	s := NewServer(Config{Service: svc, Logger: testutil.NewTestLogger(t)})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	status, body := do(t, ts, http.MethodPost, "/v1/query", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, `[{"id":1,"score":null,"floor":null}]`, strings.TrimSpace(body))
}

func TestQuery_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantStage  string
	}{
		{
			name:       "connection",
			err:        &gateway.Error{Class: gateway.ErrConnection, Stage: gateway.StageConnect, Err: errors.New("dial tcp: refused")},
			wantStatus: http.StatusBadGateway,
			wantStage:  gateway.StageConnect,
		},
		{
			name:       "execution",
			err:        &gateway.Error{Class: gateway.ErrQueryExecution, Stage: gateway.StageExecute, Err: errors.New("no such table")},
			wantStatus: http.StatusUnprocessableEntity,
			wantStage:  gateway.StageExecute,
		},
		{
			name:       "row decode",
			err:        &gateway.Error{Class: gateway.ErrRowDecode, Stage: gateway.StageDecode, Err: errors.New("bad row")},
			wantStatus: http.StatusInternalServerError,
			wantStage:  gateway.StageDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, &fakeService{queryErr: tt.err})

			status, body := do(t, ts, http.MethodPost, "/v1/query", "")
			assert.Equal(t, tt.wantStatus, status)
			assert.Contains(t, body, `"stage":"`+tt.wantStage+`"`)
			assert.Contains(t, body, tt.err.Error())
		})
	}
}

func TestGenerate(t *testing.T) {
	svc := &fakeService{genText: "echo: "}
	ts := newTestServer(t, svc)

	status, body := do(t, ts, http.MethodPost, "/v1/generate", `{"prompt":"hi","model":"mistral:7b"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"text":"echo: hi"}`, body)
	assert.Equal(t, "mistral:7b", svc.gotModel)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		genErr     error
		wantStatus int
	}{
		{name: "missing prompt", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "malformed body", body: `{"prompt":`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `{"prompt":"x","temperature":1}`, wantStatus: http.StatusBadRequest},
		{
			name:       "service unreachable",
			body:       `{"prompt":"x"}`,
			genErr:     errors.Join(generation.ErrGeneration, errors.New("connection refused")),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "unclassified",
			body:       `{"prompt":"x"}`,
			genErr:     errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, &fakeService{genErr: tt.genErr})

			status, body := do(t, ts, http.MethodPost, "/v1/generate", tt.body)
			assert.Equal(t, tt.wantStatus, status)
			assert.Contains(t, body, `"error":`)
		})
	}
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		reuse    bool
	}{
		{name: "generated", incoming: "", reuse: false},
		{name: "reused", incoming: "custom-id-123", reuse: true},
		{name: "rejected", incoming: "bad id\nwith newline", reuse: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured string
			h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				captured = RequestIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.NotEmpty(t, captured)
			assert.Equal(t, captured, rec.Header().Get(RequestIDHeader))
			if tt.reuse {
				assert.Equal(t, tt.incoming, captured)
			} else {
				assert.NotEqual(t, tt.incoming, captured)
			}
		})
	}
}

func TestServeListener_GracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewServer(Config{Service: &fakeService{codec: codec.New()}, Logger: testutil.NewTestLogger(t)})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeListener(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServe_InvalidAddr(t *testing.T) {
	s := NewServer(Config{Service: &fakeService{}, Addr: "not-an-address"})
	err := s.Serve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}

func TestCORS(t *testing.T) {
	s := NewServer(Config{
		Service:        &fakeService{codec: codec.New()},
		Logger:         testutil.NewTestLogger(t),
		AllowedOrigins: []string{"http://localhost:1420"},
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodOptions, ts.URL+"/v1/query", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:1420")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "http://localhost:1420", resp.Header.Get("Access-Control-Allow-Origin"))

	req, err = http.NewRequestWithContext(context.Background(), http.MethodOptions, ts.URL+"/v1/query", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp2, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp2.Body.Close() }()

	assert.Empty(t, resp2.Header.Get("Access-Control-Allow-Origin"))
}

func TestGenerate_RateLimited(t *testing.T) {
	s := NewServer(Config{
		Service:       &fakeService{codec: codec.New(), genText: "ok:"},
		Logger:        testutil.NewTestLogger(t),
		GenerateLimit: RateLimit{RequestsPerSecond: 0.001, Burst: 1},
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	status, _ := do(t, ts, http.MethodPost, "/v1/generate", `{"prompt":"a"}`)
	assert.Equal(t, http.StatusOK, status)

	status, body := do(t, ts, http.MethodPost, "/v1/generate", `{"prompt":"b"}`)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.JSONEq(t, `{"error":"rate limit exceeded","stage":"request"}`, body)

	// Other routes are not throttled.
	status, _ = do(t, ts, http.MethodPost, "/v1/encode", `{"text":"x"}`)
	assert.Equal(t, http.StatusOK, status)
}
