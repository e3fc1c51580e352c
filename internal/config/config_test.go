package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("NOTION_PAGE_ID", "")
	t.Setenv("CACHE_TTL_SECONDS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
	if !cfg.IsDev() {
		t.Error("expected development mode")
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v, want 5m", cfg.CacheTTL)
	}
}

func TestLoadProductionRequiresPageID(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("NOTION_PAGE_ID", "")

	if _, err := Load(); err == nil {
		t.Error("expected error without NOTION_PAGE_ID in production")
	}

	t.Setenv("NOTION_PAGE_ID", "abc123")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NotionPageID != "abc123" {
		t.Errorf("NotionPageID = %q", cfg.NotionPageID)
	}
}

func TestLoadRejectsBadTTL(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("CACHE_TTL_SECONDS", "nope")
	if _, err := Load(); err == nil {
		t.Error("expected error for unparseable TTL")
	}

	t.Setenv("CACHE_TTL_SECONDS", "-1")
	if _, err := Load(); err == nil {
		t.Error("expected error for negative TTL")
	}
}

func TestSiteBuiltinDefaults(t *testing.T) {
	s, err := LoadSite("")
	if err != nil {
		t.Fatalf("LoadSite: %v", err)
	}
	if got := s.Get("TITLE", "", nil); got != "Notion Site" {
		t.Errorf("TITLE = %q", got)
	}
	if got := s.Get("UNKNOWN_KEY", "fallback", nil); got != "fallback" {
		t.Errorf("unknown key = %q, want fallback", got)
	}
}

func TestSiteFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	data := "title: My Blog\ncustom_key: custom-value\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSite(path)
	if err != nil {
		t.Fatalf("LoadSite: %v", err)
	}
	if got := s.Get("TITLE", "", nil); got != "My Blog" {
		t.Errorf("TITLE = %q, want file overlay", got)
	}
	if got := s.Get("CUSTOM_KEY", "", nil); got != "custom-value" {
		t.Errorf("CUSTOM_KEY = %q", got)
	}
	// Untouched defaults survive the overlay.
	if got := s.Get("POSTS_SORT_BY", "", nil); got != "notion" {
		t.Errorf("POSTS_SORT_BY = %q", got)
	}
}

func TestSiteOverridePrecedence(t *testing.T) {
	s, err := LoadSite("")
	if err != nil {
		t.Fatalf("LoadSite: %v", err)
	}
	override := map[string]string{"TITLE": "Authored Title"}
	if got := s.Get("TITLE", "", override); got != "Authored Title" {
		t.Errorf("TITLE = %q, want content override to win", got)
	}
	// Empty override values do not mask lower layers.
	if got := s.Get("TITLE", "", map[string]string{"TITLE": ""}); got != "Notion Site" {
		t.Errorf("TITLE = %q, want builtin", got)
	}
}

func TestSiteTypedGetters(t *testing.T) {
	s, err := LoadSite("")
	if err != nil {
		t.Fatalf("LoadSite: %v", err)
	}
	if !s.GetBool("POST_SCHEDULE_PUBLISH", false, nil) {
		t.Error("POST_SCHEDULE_PUBLISH should default true")
	}
	if got := s.GetInt("LATEST_POST_COUNT", 0, nil); got != 6 {
		t.Errorf("LATEST_POST_COUNT = %d, want 6", got)
	}
	if got := s.GetInt("TITLE", 9, nil); got != 9 {
		t.Errorf("unparseable int = %d, want fallback", got)
	}
	if s.GetBool("TITLE", false, nil) {
		t.Error("unparseable bool must fall back")
	}
}

func TestLoadSiteMissingFile(t *testing.T) {
	if _, err := LoadSite("/nonexistent/site.yaml"); err == nil {
		t.Error("expected error for missing defaults file")
	}
}
