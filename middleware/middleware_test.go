package middleware

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/nijaru/yt-proxy/config"
	"github.com/nijaru/yt-proxy/logger"
	"github.com/nijaru/yt-proxy/utils"
	"github.com/sirupsen/logrus"
)

func testLogger() (*logrus.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	return log, buf
}

func testCORSConfig() config.CORSConfig {
	return config.CORSConfig{
		Enabled:          true,
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS", "PATCH", "DELETE", "POST", "PUT"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}
}

func TestLoggingMiddleware(t *testing.T) {
	log, buf := testLogger()

	var sawEntry bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawEntry = logger.FromContext(r.Context()).Logger == log
		w.WriteHeader(http.StatusTeapot)
		io.WriteString(w, "short and stout")
	})

	r := chi.NewRouter()
	r.Use(RequestID(), Logging(log))
	r.Get("/test", handler)

	req := httptest.NewRequest("GET", "/test", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusTeapot {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusTeapot)
	}
	if !sawEntry {
		t.Error("expected handler to see the request-scoped logger")
	}
	if !strings.Contains(buf.String(), `"status":418`) {
		t.Errorf("expected completion log with status, got %s", buf.String())
	}
	if !strings.Contains(buf.String(), `"size":15`) {
		t.Errorf("expected completion log with size, got %s", buf.String())
	}
}

func TestLoggingResponseWriterFlushes(t *testing.T) {
	rr := httptest.NewRecorder()
	lrw := newLoggingResponseWriter(rr)

	lrw.Write([]byte("x"))
	lrw.Flush()

	if !rr.Flushed {
		t.Error("expected Flush to reach the underlying writer")
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if seen == "" || rr.Header().Get("X-Request-ID") != seen {
		t.Errorf("expected generated id to be echoed, got %q / %q", seen, rr.Header().Get("X-Request-ID"))
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "given-id")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if seen != "given-id" {
		t.Errorf("expected incoming id to be kept, got %q", seen)
	}
}

func TestRecovery(t *testing.T) {
	log, buf := testLogger()
	handler := Recovery(log, "Internal server error")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rr.Code)
	}
	if strings.TrimSpace(rr.Body.String()) != `{"success":false,"error":"Internal server error"}` {
		t.Errorf("unexpected body: %s", rr.Body.String())
	}
	if !strings.Contains(buf.String(), "kaboom") {
		t.Errorf("expected panic to be logged, got %s", buf.String())
	}
}

func TestRecovery_Localized(t *testing.T) {
	log, _ := testLogger()
	panicking := Recovery(log, "Error interno del servidor")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	rr := httptest.NewRecorder()
	panicking.ServeHTTP(rr, httptest.NewRequest("POST", "/", nil))
	if strings.TrimSpace(rr.Body.String()) != `{"success":false,"error":"Error interno del servidor"}` {
		t.Errorf("unexpected panic body: %s", rr.Body.String())
	}

	failing := Recovery(log, "Error interno del servidor")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithError(w, r, fmt.Errorf("unexpected"))
	}))

	rr = httptest.NewRecorder()
	failing.ServeHTTP(rr, httptest.NewRequest("POST", "/", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rr.Code)
	}
	if strings.TrimSpace(rr.Body.String()) != `{"success":false,"error":"Error interno del servidor"}` {
		t.Errorf("unexpected error body: %s", rr.Body.String())
	}
}

func TestCORS(t *testing.T) {
	called := false
	handler := CORS(testCORSConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/", nil))

	want := map[string]string{
		"Access-Control-Allow-Origin":      "*",
		"Access-Control-Allow-Credentials": "true",
		"Access-Control-Allow-Methods":     "GET,OPTIONS,PATCH,DELETE,POST,PUT",
		"Access-Control-Allow-Headers":     "Accept, Content-Type",
	}
	for k, v := range want {
		if got := rr.Header().Get(k); got != v {
			t.Errorf("%s: got %q want %q", k, got, v)
		}
	}
	if !called {
		t.Error("expected POST to reach the handler")
	}
}

func TestCORS_Preflight(t *testing.T) {
	called := false
	handler := CORS(testCORSConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("OPTIONS", "/", strings.NewReader(`{"url":"x"}`)))

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rr.Body.String())
	}
	if called {
		t.Error("expected pre-flight to stop before the handler")
	}
}

func TestAllowMethods(t *testing.T) {
	handler := AllowMethods("Method not allowed", http.MethodPost)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, method := range []string{"GET", "PUT", "PATCH", "DELETE", "HEAD"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(method, "/", nil))
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: expected 405, got %d", method, rr.Code)
		}
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/", nil))
	if rr.Code != http.StatusNoContent {
		t.Errorf("POST: expected pass-through, got %d", rr.Code)
	}
}
