package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPageRenders(t *testing.T) {
	p, err := NewPage(PageData{MaxUploadMB: 16})
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"AI Image Analyzer", `name="file"`, "/upload", "16 MB", "GEMINI_API_KEY"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestPageHidesWarningWhenConfigured(t *testing.T) {
	p, err := NewPage(PageData{GeminiConfigured: true})
	if err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if strings.Contains(rec.Body.String(), "no está configurada") {
		t.Error("warning shown although Gemini is configured")
	}
}
