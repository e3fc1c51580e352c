// site.go provides the layered site-configuration lookup. Precedence,
// highest first: the content-authored override table extracted during
// assembly, the optional YAML defaults file, built-in defaults, then
// the caller-supplied fallback.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// builtinDefaults are the code-level site defaults.
var builtinDefaults = map[string]string{
	"TITLE":             "Notion Site",
	"DESCRIPTION":       "A site generated from a Notion workspace",
	"LINK":              "",
	"HOME_BANNER_IMAGE": "/bg_image.jpg",
	"AVATAR":            "/avatar.svg",

	"POST_SCHEDULE_PUBLISH": "true",
	"POSTS_SORT_BY":         "notion",
	"LATEST_POST_COUNT":     "6",

	// Collection column names the page extractor looks up.
	"PROPERTY_TITLE":    "title",
	"PROPERTY_STATUS":   "status",
	"PROPERTY_TYPE":     "type",
	"PROPERTY_SLUG":     "slug",
	"PROPERTY_SUMMARY":  "summary",
	"PROPERTY_TAGS":     "tags",
	"PROPERTY_CATEGORY": "category",
	"PROPERTY_DATE":     "date",
	"PROPERTY_ICON":     "icon",
	"PROPERTY_PASSWORD": "password",
}

// Site is the static (non-content-authored) layer of site configuration.
type Site struct {
	values map[string]string
}

// LoadSite builds the static layer: built-in defaults, overlaid with the
// YAML file at path when one is given.
func LoadSite(path string) (*Site, error) {
	values := make(map[string]string, len(builtinDefaults))
	for k, v := range builtinDefaults {
		values[k] = v
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("site config %s: %w", path, err)
		}
		var fileValues map[string]string
		if err := yaml.Unmarshal(raw, &fileValues); err != nil {
			return nil, fmt.Errorf("site config %s: %w", path, err)
		}
		for k, v := range fileValues {
			values[strings.ToUpper(k)] = v
		}
	}

	return &Site{values: values}, nil
}

// Get looks up a site-config key. override is the content-authored
// table (may be nil); def is returned when no layer has the key.
func (s *Site) Get(key, def string, override map[string]string) string {
	if v, ok := override[key]; ok && v != "" {
		return v
	}
	if s != nil {
		if v, ok := s.values[key]; ok && v != "" {
			return v
		}
	}
	return def
}

// GetBool is Get with boolean parsing; unparseable values fall back to def.
func (s *Site) GetBool(key string, def bool, override map[string]string) bool {
	raw := s.Get(key, "", override)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(strings.ToLower(raw))
	if err != nil {
		return def
	}
	return v
}

// GetInt is Get with integer parsing; unparseable values fall back to def.
func (s *Site) GetInt(key string, def int, override map[string]string) int {
	raw := s.Get(key, "", override)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
