package proxy_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mandalnilabja/genrelay/internal/anthropic"
	"github.com/mandalnilabja/genrelay/internal/relay"
	"github.com/mandalnilabja/genrelay/internal/transport/http/handler/proxy"
	"github.com/mandalnilabja/genrelay/internal/types"
)

// providerStub serves canned Messages API replies and records the last payload.
type providerStub struct {
	srv      *httptest.Server
	calls    atomic.Int32
	lastBody map[string]any
}

func newProviderStub(t *testing.T, status int, body string) *providerStub {
	t.Helper()

	stub := &providerStub{}
	stub.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.calls.Add(1)
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &stub.lastBody)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(stub.srv.Close)
	return stub
}

func newHandler(stub *providerStub, apiKey string, profile relay.Profile) http.Handler {
	r := relay.New(relay.Options{
		Client:  anthropic.NewClient(stub.srv.URL, 0),
		APIKey:  apiKey,
		Profile: profile,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return proxy.New(r).Handler()
}

func serve(h http.Handler, method, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.APIError {
	t.Helper()

	var apiErr types.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}

func assertCORS(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestGenerate_Success(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{"content":[{"text":"hi there"}]}`)
	h := newHandler(stub, "test-key", relay.Serverless)

	rec := serve(h, http.MethodPost, `{"prompt":"hello"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assertCORS(t, rec)

	var result types.TextResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "hi there", result.Text)

	for _, field := range []string{"model", "max_tokens", "temperature", "messages"} {
		assert.Contains(t, stub.lastBody, field)
	}
}

func TestGenerate_ServerProfileReturnsBlock(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{"content":[{"type":"text","text":"hi there"}]}`)
	h := newHandler(stub, "test-key", relay.Server)

	rec := serve(h, http.MethodPost, `{"prompt":"hello","model":"ignored-model"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"text":"hi there"}`, rec.Body.String())
	assert.Equal(t, "claude-2.1", stub.lastBody["model"])
}

func TestGenerate_MultipleBlocksReturnsLast(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{"content":[{"type":"text","text":"one"},{"type":"text","text":"two"}]}`)
	h := newHandler(stub, "test-key", relay.Serverless)

	rec := serve(h, http.MethodPost, `{"prompt":"hello"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"text":"two"}`, rec.Body.String())
}

func TestGenerate_Preflight(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{}`)
	h := newHandler(stub, "test-key", relay.Serverless)

	rec := serve(h, http.MethodOptions, `garbage that is never read`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assertCORS(t, rec)
	assert.Zero(t, stub.calls.Load())
}

func TestGenerate_MethodNotAllowed(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{}`)
	h := newHandler(stub, "test-key", relay.Serverless)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			rec := serve(h, method, "")

			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.Equal(t, "POST, OPTIONS", rec.Header().Get("Allow"))
			assert.Equal(t, "Method Not Allowed", rec.Body.String())
			assertCORS(t, rec)
		})
	}
	assert.Zero(t, stub.calls.Load())
}

func TestGenerate_MalformedBody(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{}`)
	h := newHandler(stub, "test-key", relay.Serverless)

	rec := serve(h, http.MethodPost, `"not json"`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	apiErr := decodeError(t, rec)
	assert.Equal(t, types.ErrorTypeInvalidRequest, apiErr.Error.Type)
	assert.Contains(t, apiErr.Error.Message, "Failed to parse request body")
	assertCORS(t, rec)
	assert.Zero(t, stub.calls.Load())
}

func TestGenerate_EmptyPrompt(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{}`)
	h := newHandler(stub, "test-key", relay.Server)

	rec := serve(h, http.MethodPost, `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Prompt is required", decodeError(t, rec).Error.Message)
	assert.Zero(t, stub.calls.Load())
}

func TestGenerate_MissingAPIKey(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{"content":[{"text":"unused"}]}`)
	h := newHandler(stub, "", relay.Serverless)

	rec := serve(h, http.MethodPost, `{"prompt":"x"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	apiErr := decodeError(t, rec)
	assert.Equal(t, types.ErrorTypeConfiguration, apiErr.Error.Type)
	assert.Contains(t, apiErr.Error.Message, "ANTHROPIC_API_KEY")
	assert.Zero(t, stub.calls.Load())
}

func TestGenerate_UpstreamStatusError(t *testing.T) {
	tests := []struct {
		name       string
		profile    relay.Profile
		wantStatus int
	}{
		{name: "serverless", profile: relay.Serverless, wantStatus: http.StatusInternalServerError},
		{name: "server", profile: relay.Server, wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newProviderStub(t, http.StatusTooManyRequests, `{"error":{"message":"rate limited"}}`)
			h := newHandler(stub, "test-key", tt.profile)

			rec := serve(h, http.MethodPost, `{"prompt":"hello"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			apiErr := decodeError(t, rec)
			assert.Equal(t, types.ErrorTypeUpstream, apiErr.Error.Type)
			assert.Contains(t, apiErr.Error.Message, "429")
			assert.Contains(t, apiErr.Error.Message, "rate limited")
			assertCORS(t, rec)
		})
	}
}

func TestGenerate_EmptyUpstreamContent(t *testing.T) {
	for _, body := range []string{`{"content":[]}`, `{"content":null}`, `{}`} {
		t.Run(body, func(t *testing.T) {
			stub := newProviderStub(t, http.StatusOK, body)
			h := newHandler(stub, "test-key", relay.Serverless)

			rec := serve(h, http.MethodPost, `{"prompt":"hello"}`)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			apiErr := decodeError(t, rec)
			assert.Equal(t, types.ErrorTypeEmptyUpstreamResponse, apiErr.Error.Type)
			assert.Equal(t, "No content returned from API", apiErr.Error.Message)
		})
	}
}

func TestGenerate_UpstreamProtocolError(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `<html>bad gateway</html>`)
	h := newHandler(stub, "test-key", relay.Server)

	rec := serve(h, http.MethodPost, `{"prompt":"hello"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, types.ErrorTypeUpstreamProtocol, decodeError(t, rec).Error.Type)
}

func TestGenerate_DeferredResolveRunsAfterGateAndDecode(t *testing.T) {
	resolves := 0
	h := proxy.NewDeferred(func(context.Context) (*relay.Relay, error) {
		resolves++
		return nil, errors.New("invalid RELAY_MAX_TOKENS: strconv.Atoi: parsing \"lots\": invalid syntax")
	}).Handler()

	rec := serve(h, http.MethodOptions, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assertCORS(t, rec)

	rec = serve(h, http.MethodGet, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "POST, OPTIONS", rec.Header().Get("Allow"))

	rec = serve(h, http.MethodPost, `"not json"`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, resolves)

	rec = serve(h, http.MethodPost, `{"prompt":"hello"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	apiErr := decodeError(t, rec)
	assert.Equal(t, types.ErrorTypeConfiguration, apiErr.Error.Type)
	assert.Contains(t, apiErr.Error.Message, "RELAY_MAX_TOKENS")
	assertCORS(t, rec)
	assert.Equal(t, 1, resolves)
}
