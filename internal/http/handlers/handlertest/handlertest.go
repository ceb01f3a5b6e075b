// Package handlertest общие помощники для тестов HTTP-обработчиков.
package handlertest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/syndicate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/syndicate/internal/models"
)

// NewNoopLogger логгер, который ничего не пишет.
func NewNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

// Envelope разобранный ответ {"status", "data", "error"}.
type Envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

// Request описание тестового запроса.
type Request struct {
	Method string
	Path   string
	// Body строка отправляется как есть, остальное кодируется в JSON.
	Body   any
	User   *models.User
	Params map[string]string
	Header map[string]string
}

// Do выполняет запрос к handler и возвращает код и разобранный ответ.
func Do(t *testing.T, h http.Handler, req Request) (int, Envelope) {
	t.Helper()
	rec := Raw(t, h, req)

	var env Envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	}
	return rec.Code, env
}

// Raw выполняет запрос и возвращает recorder без разбора тела.
func Raw(t *testing.T, h http.Handler, req Request) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader = http.NoBody
	switch v := req.Body.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(v)
	case []byte:
		body = bytes.NewReader(v)
	default:
		b, err := json.Marshal(v)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}

	if req.Method == "" {
		req.Method = http.MethodGet
	}
	if req.Path == "" {
		req.Path = "/"
	}
	r := httptest.NewRequest(req.Method, req.Path, body)
	for k, v := range req.Header {
		r.Header.Set(k, v)
	}

	ctx := context.WithValue(r.Context(), middleware.RequestIDKey, "reqid123")
	if req.User != nil {
		ctx = middlewarectx.WithUser(ctx, req.User)
	}
	if len(req.Params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range req.Params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r.WithContext(ctx))
	return rec
}

// DecodeData раскладывает поле data в out.
func DecodeData(t *testing.T, env Envelope, out any) {
	t.Helper()
	require.NotEmpty(t, env.Data, "response has no data")
	require.NoError(t, json.Unmarshal(env.Data, out))
}
