package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shandysiswandi/twofactor/internal/pkg/config"
	"github.com/shandysiswandi/twofactor/internal/pkg/goerror"
	"github.com/shandysiswandi/twofactor/internal/pkg/instrument"
	"github.com/shandysiswandi/twofactor/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

type okPayload struct {
	Valid bool `json:"valid"`
}

func (okPayload) Message() string { return "done" }

type body struct {
	AccountID string `json:"account_id"`
	Code      string `json:"code"`
}

func newTestRouter(t *testing.T, yaml string) *Router {
	t.Helper()

	var cfg config.Config
	if yaml != "" {
		v, err := config.NewViperFromBytes("yaml", []byte(yaml))
		require.NoError(t, err)
		cfg = v
	}

	return NewRouter(Config{Config: cfg, UUID: fixedID("cid-generated"), Instrument: instrument.NewNoop()})
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func serve(ro *Router, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	rec := serve(newTestRouter(t, ""), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestRouter_HealthChecks(t *testing.T) {
	ro := newTestRouter(t, "")
	ro.AddHealthCheck("store", func(context.Context) error { return nil })

	rec := serve(ro, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["store"])

	ro.AddHealthCheck("cache", func(context.Context) error { return errors.New("connection refused") })

	rec = serve(ro, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "unavailable", body["cache"])
	assert.Equal(t, "ok", body["store"])
}

func TestRouter_NotFoundAndMethod(t *testing.T) {
	ro := newTestRouter(t, "")
	ro.POST("/x", func(*Request) (any, error) { return okPayload{}, nil })

	assert.Equal(t, http.StatusNotFound, serve(ro, httptest.NewRequest(http.MethodGet, "/nope", nil)).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(ro, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
}

func TestRouter_SuccessEnvelope(t *testing.T) {
	ro := newTestRouter(t, "")
	ro.POST("/x", func(*Request) (any, error) { return okPayload{Valid: true}, nil })

	rec := serve(ro, httptest.NewRequest(http.MethodPost, "/x", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, "done", out["message"])
	assert.Equal(t, map[string]any{"valid": true}, out["data"])
	assert.Equal(t, "cid-generated", rec.Header().Get(HeaderCorrelationID))
}

func TestRouter_ErrorEnvelope(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
		fields map[string]any
	}{
		{"conflict", goerror.NewBusiness("account already enrolled", goerror.CodeConflict), http.StatusConflict, "account already enrolled", nil},
		{"not found", goerror.NewBusiness("account not found", goerror.CodeNotFound), http.StatusNotFound, "account not found", nil},
		{"format", goerror.NewInvalidFormat(), http.StatusBadRequest, "Invalid request body", nil},
		{
			"validation",
			goerror.NewInvalidInput(validator.V10ValidationError{"account_id": "AccountID is a required field"}),
			http.StatusUnprocessableEntity,
			"Validation error",
			map[string]any{"account_id": "AccountID is a required field"},
		},
		{"server", goerror.NewServer(errors.New("boom")), http.StatusInternalServerError, "Internal server error", nil},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "internal server error", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ro := newTestRouter(t, "")
			ro.POST("/x", func(*Request) (any, error) { return nil, tt.err })

			rec := serve(ro, httptest.NewRequest(http.MethodPost, "/x", nil))

			assert.Equal(t, tt.status, rec.Code)
			out := decode(t, rec)
			assert.Equal(t, tt.msg, out["message"])
			if tt.fields != nil {
				assert.Equal(t, tt.fields, out["error"])
			} else {
				assert.NotContains(t, out, "error")
			}
		})
	}
}

func TestRouter_RecoversPanic(t *testing.T) {
	ro := newTestRouter(t, "")
	ro.GET("/panic", func(*Request) (any, error) { panic("kaboom") })

	rec := serve(ro, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decode(t, rec)["message"])
}

func TestRouter_Maintenance(t *testing.T) {
	ro := newTestRouter(t, "app:\n  maintenance:\n    endpoints: \"/api/v1/down\"\n")
	ro.POST("/api/v1/down", func(*Request) (any, error) { return okPayload{}, nil })
	ro.POST("/api/v1/up", func(*Request) (any, error) { return okPayload{}, nil })

	assert.Equal(t, http.StatusServiceUnavailable, serve(ro, httptest.NewRequest(http.MethodPost, "/api/v1/down", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(ro, httptest.NewRequest(http.MethodPost, "/api/v1/up", nil)).Code)
}

func TestRouter_CorrelationIDHeader(t *testing.T) {
	ro := newTestRouter(t, "")
	var seen string
	ro.GET("/cid", func(r *Request) (any, error) {
		seen = instrument.GetCorrelationID(r.Context())
		return okPayload{}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/cid", nil)
	req.Header.Set(HeaderRequestID, "  from-proxy ")
	rec := serve(ro, req)

	assert.Equal(t, "from-proxy", seen)
	assert.Equal(t, "from-proxy", rec.Header().Get(HeaderCorrelationID))
}

func TestRequest_DecodeBody(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"account_id":"alice","code":"123456"}`))
		req.Header.Set("Content-Type", "application/json")

		var got body
		require.NoError(t, (&Request{Request: req}).DecodeBody(&got))
		assert.Equal(t, body{AccountID: "alice", Code: "123456"}, got)
	})

	t.Run("form", func(t *testing.T) {
		form := url.Values{"account_id": {"alice@example.com"}, "code": {"012345"}}
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")

		var got body
		require.NoError(t, (&Request{Request: req}).DecodeBody(&got))
		assert.Equal(t, body{AccountID: "alice@example.com", Code: "012345"}, got)
	})

	bad := map[string]string{
		"malformed":      `{"account_id":`,
		"unknown field":  `{"user":"alice"}`,
		"trailing value": `{"account_id":"a"}{}`,
		"wrong type":     `{"account_id":1}`,
	}
	for name, payload := range bad {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))

			var got body
			err := (&Request{Request: req}).DecodeBody(&got)
			assert.True(t, goerror.IsCode(err, goerror.CodeInvalidFormat))
		})
	}

	t.Run("unknown form field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("usuario=alice"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		var got body
		err := (&Request{Request: req}).DecodeBody(&got)
		assert.True(t, goerror.IsCode(err, goerror.CodeInvalidFormat))
	})
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "h") }), mw("a"), nil, mw("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"a", "b", "h"}, order)
}

func TestRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "10.0.0.1", realIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
	assert.Equal(t, "203.0.113.7", realIP(req))

	req.Header.Set("X-Real-IP", "not-an-ip")
	assert.Equal(t, "10.0.0.1", realIP(req))
}

func TestMaskRequestBody(t *testing.T) {
	keys := instrument.BuildMaskKeys(nil)

	masked := maskRequestBody("application/x-www-form-urlencoded", []byte("account_id=alice&code=123456"), keys)
	assert.Equal(t, map[string]any{"account_id": "alice", "code": "***"}, masked)

	masked = maskRequestBody("application/json", []byte(`{"code":"1"}`), keys)
	assert.Equal(t, map[string]any{"code": "***"}, masked)

	assert.Nil(t, maskRequestBody("", nil, keys))
	assert.Equal(t, binaryBodyOmitted, maskRequestBody("", []byte{0xff, 0xfe}, keys))
}
