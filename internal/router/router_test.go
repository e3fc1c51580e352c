package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"notionsite/internal/handlers"
	"notionsite/internal/site"
)

type stubProvider struct{}

func (stubProvider) FetchSite(ctx context.Context, params site.Params) *site.SiteData {
	return &site.SiteData{
		Config:   map[string]string{},
		SiteInfo: &site.SiteInfo{Title: "T"},
	}
}

func newTestRouter() http.Handler {
	siteHandlers := handlers.NewSite(stubProvider{}, "root-1")
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return New(siteHandlers, metricsHandler)
}

func TestRoutes(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/site", http.StatusOK},
		{http.MethodGet, "/api/nav-pages", http.StatusOK},
		{http.MethodGet, "/nope", http.StatusNotFound},
		{http.MethodPost, "/api/site", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}
}

func TestHealthBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("health body = %q", rec.Body.String())
	}
}
