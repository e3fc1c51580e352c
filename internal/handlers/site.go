// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API over the site pipeline.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"notionsite/internal/site"
)

// SiteProvider is the pipeline contract the handlers consume.
type SiteProvider interface {
	FetchSite(ctx context.Context, params site.Params) *site.SiteData
}

// Site serves the assembled, sanitized site model.
type Site struct {
	provider   SiteProvider
	documentID string
}

// NewSite creates the site handlers. documentID is the configured
// document id list the provider resolves per request.
func NewSite(provider SiteProvider, documentID string) *Site {
	return &Site{provider: provider, documentID: documentID}
}

// Data serves the full site model. The optional "locale" query
// parameter selects a locale-prefixed document.
func (h *Site) Data(w http.ResponseWriter, r *http.Request) {
	data := h.provider.FetchSite(r.Context(), site.Params{
		DocumentID: h.documentID,
		Locale:     r.URL.Query().Get("locale"),
	})
	writeJSON(w, http.StatusOK, data)
}

// NavPages serves only the slim navigation projection.
func (h *Site) NavPages(w http.ResponseWriter, r *http.Request) {
	data := h.provider.FetchSite(r.Context(), site.Params{
		DocumentID: h.documentID,
		Locale:     r.URL.Query().Get("locale"),
	})
	writeJSON(w, http.StatusOK, data.AllNavPages)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response failed", "error", err)
	}
}
