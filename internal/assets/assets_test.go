package assets

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRenderLogin(t *testing.T) {
	a, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	w := httptest.NewRecorder()
	a.RenderLogin(w, false)
	if w.Code != 200 {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("Content-Type = %q", ct)
	}
	if strings.Contains(w.Body.String(), "Wrong username") {
		t.Fatal("did not expect the wrong-credentials notice")
	}

	w = httptest.NewRecorder()
	a.RenderLogin(w, true)
	if !strings.Contains(w.Body.String(), "Wrong username") {
		t.Fatal("expected the wrong-credentials notice")
	}
}

func TestServeStyles(t *testing.T) {
	a, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	w := httptest.NewRecorder()
	a.ServeStyles(w)
	if w.Code != 200 {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
		t.Fatalf("Content-Type = %q", ct)
	}
	if w.Body.Len() == 0 {
		t.Fatal("expected non-empty stylesheet body")
	}
}
