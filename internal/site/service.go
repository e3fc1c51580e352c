// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package site

import (
	"context"
	"strings"
	"time"

	"golang.org/x/text/language"

	"notionsite/internal/config"
	"notionsite/internal/fetcher"
	"notionsite/internal/notion"
)

// Service is the produced entry point of the pipeline: it resolves
// which document serves a request, assembles the site model, applies
// scheduled visibility, and sanitizes the result.
type Service struct {
	fetcher   *fetcher.Fetcher
	assembler *Assembler
	conf      *config.Site
}

// NewService wires the pipeline facade.
func NewService(f *fetcher.Fetcher, a *Assembler, conf *config.Site) *Service {
	return &Service{fetcher: f, assembler: a, conf: conf}
}

// Params selects the document and locale for one request.
type Params struct {
	// DocumentID is the configured id list: comma-separated, each entry
	// optionally locale-prefixed ("zh:abc123,en:def456").
	DocumentID string

	// Locale is the requested content locale (BCP 47); empty keeps the
	// default document.
	Locale string
}

// FetchSite returns the sanitized site model for the request. The first
// configured document is the default; a later entry whose locale prefix
// matches the requested locale replaces it, last match winning. The
// returned model is owned by the caller; nothing in it is shared with
// the cache or other requests.
func (s *Service) FetchSite(ctx context.Context, params Params) *SiteData {
	ids := splitIDs(params.DocumentID)
	if len(ids) == 0 {
		return Sanitize(EmptyData(params.DocumentID, s.conf))
	}

	selected := ""
	for i, raw := range ids {
		prefix, id := notion.SplitLocaleID(raw)
		if i == 0 || localeMatches(params.Locale, prefix) {
			selected = id
		}
	}

	rm := s.fetcher.FetchDocument(ctx, selected)
	data := s.assembler.Assemble(ctx, rm, selected)

	if s.conf.GetBool("POST_SCHEDULE_PUBLISH", true, data.Config) {
		ApplySchedule(data.AllPages, time.Now())
	}
	return Sanitize(data)
}

func splitIDs(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// localeMatches reports whether an id's locale prefix serves the
// requested locale: exact tag match or same base language ("zh" serves
// "zh-CN"). Unparseable values fall back to case-insensitive equality.
func localeMatches(requested, prefix string) bool {
	if requested == "" || prefix == "" {
		return false
	}
	rt, errR := language.Parse(requested)
	pt, errP := language.Parse(prefix)
	if errR != nil || errP != nil {
		return strings.EqualFold(requested, prefix)
	}
	if rt == pt {
		return true
	}
	rb, _ := rt.Base()
	pb, _ := pt.Base()
	return rb == pb
}
