package ui

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tinysteps/internal/errors"
)

func TestHealthz(t *testing.T) {
	router := NewOpsRouter(nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}

func TestReadyzWithoutCheck(t *testing.T) {
	router := NewOpsRouter(nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ready") {
		t.Errorf("Unexpected body: %s", w.Body.String())
	}
}

func TestReadyzReportsBackendOutage(t *testing.T) {
	router := NewOpsRouter(func() error {
		return errors.Unavailable("database unreachable")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "unavailable") {
		t.Errorf("Unexpected body: %s", w.Body.String())
	}
}

func TestVersionEndpoint(t *testing.T) {
	router := NewOpsRouter(nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/version", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), Version) {
		t.Errorf("Expected version %q in body, got %s", Version, w.Body.String())
	}
}
