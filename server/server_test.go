package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"presentation_agent/generator"
	"presentation_agent/search"
)

func init() { gin.SetMode(gin.TestMode) }

func newTestServer(t *testing.T, b Builder) *gin.Engine {
	t.Helper()
	srv, err := New(b, nil, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv.Routes()
}

func mockAgent(t *testing.T) *generator.Agent {
	t.Helper()
	a, err := generator.NewAgent(generator.MockLLM{}, search.Static{Links: []string{"https://img.example/a.png"}},
		generator.WithController(generator.RuleController{}))
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}
	return a
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateAndGet(t *testing.T) {
	r := newTestServer(t, mockAgent(t))

	w := do(r, http.MethodPost, "/api/presentations", `{"text":"Julius Caesar was a Roman general.\n\nHe crossed the Rubicon."}`)
	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d body=%s", w.Code, w.Body.String())
	}
	var created presentation
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || !strings.HasPrefix(created.XML, "<slides><title>") || !strings.Contains(created.HTML, "<h1>") {
		t.Fatalf("unexpected presentation: %+v", created)
	}

	w = do(r, http.MethodGet, "/api/presentations/"+created.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	w = do(r, http.MethodGet, "/api/presentations/"+created.ID+"/html", "")
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("html status = %d type=%q", w.Code, w.Header().Get("Content-Type"))
	}
}

func TestCreateRejectsEmptyText(t *testing.T) {
	r := newTestServer(t, mockAgent(t))
	for _, body := range []string{`{"text":"   "}`, `not json`} {
		w := do(r, http.MethodPost, "/api/presentations", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d", body, w.Code)
		}
		var env errorEnvelope
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil || env.Error.Code != "invalid_request" {
			t.Fatalf("envelope = %+v, %v", env, err)
		}
	}
}

type failingBuilder struct{}

func (failingBuilder) Run(context.Context, *generator.Session) (generator.Document, error) {
	return generator.Document{}, errors.New("upstream down")
}

func TestCreateBuildFailure(t *testing.T) {
	r := newTestServer(t, failingBuilder{})
	w := do(r, http.MethodPost, "/api/presentations", `{"text":"x"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "build_failed") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestGetNotFound(t *testing.T) {
	r := newTestServer(t, mockAgent(t))
	if w := do(r, http.MethodGet, "/api/presentations/missing", ""); w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/healthcheck", ""); w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("healthcheck = %d %q", w.Code, w.Body.String())
	}
}
