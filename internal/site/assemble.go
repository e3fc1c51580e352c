// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package site

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"notionsite/internal/config"
	"notionsite/internal/fetcher"
	"notionsite/internal/notion"
)

// contentHost prefixes workspace-relative asset paths (collection covers
// and icons ship as "/images/...").
const contentHost = "https://www.notion.so"

// Assembler builds the SiteData aggregate from a canonical record map.
type Assembler struct {
	fetcher *fetcher.Fetcher
	conf    *config.Site
}

// NewAssembler wires the assembler. The fetcher backfills member blocks
// the document chunk dropped and loads the notice page's own graph.
func NewAssembler(f *fetcher.Fetcher, conf *config.Site) *Assembler {
	return &Assembler{fetcher: f, conf: conf}
}

// Assemble produces the full site model for one document. A nil record
// map, or a root that is not a database, degrades to EmptyData.
func (a *Assembler) Assemble(ctx context.Context, rm *notion.RecordMap, rootID string) *SiteData {
	if rm == nil {
		return EmptyData(rootID, a.conf)
	}

	meta := rm.BlockByID(rootID)
	if meta == nil || (meta.Type != "collection_view_page" && meta.Type != "collection_view") {
		slog.Error("root document is not a database", "id", rootID)
		return EmptyData(rootID, a.conf)
	}

	col := rm.CollectionByID(meta.CollectionID)
	schema := normalizeSchema(col)
	pageIDs := memberPageIDs(rm.CollectionQuery, meta.CollectionID, meta.ViewIDs)
	if len(pageIDs) == 0 {
		slog.Warn("database has no member pages", "id", rootID)
	}

	a.backfillMissing(ctx, rm, pageIDs)

	names := resolvePropertyNames(a.conf)
	var records []*Page
	for _, id := range pageIDs {
		bv := rm.BlockByID(id)
		p := extractPage(bv, schema, names)
		if p == nil {
			slog.Warn("skipping member page without page data", "id", id)
			continue
		}
		records = append(records, p)
	}

	override := configOverrides(records)
	tagColors := optionColors(schemaOptions(schema, names.tags))
	for _, p := range records {
		adjustPage(p, tagColors)
	}

	postCount := 0
	var allPages []*Page
	for _, p := range records {
		if p.Type == TypePost && p.Status == StatusPublished {
			postCount++
		}
		if p.Slug != "" && (p.Status == StatusPublished || p.Status == StatusInvisible) {
			allPages = append(allPages, p)
		}
	}
	if a.conf.Get("POSTS_SORT_BY", "", override) == "date" {
		sort.SliceStable(allPages, func(i, j int) bool {
			return allPages[i].PublishDate > allPages[j].PublishDate
		})
	}

	latestCount := a.conf.GetInt("LATEST_POST_COUNT", 6, override)

	return &SiteData{
		Config:   override,
		SiteInfo: a.siteInfo(col, override),
		Notice:   a.notice(ctx, records),

		AllPages:    allPages,
		AllNavPages: navPages(allPages),
		LatestPosts: latestPosts(allPages, latestCount),

		CategoryOptions: categoryOptions(allPages, schemaOptions(schema, names.category)),
		TagOptions:      tagOptions(allPages, schemaOptions(schema, names.tags)),

		CustomNav:  customNav(records),
		CustomMenu: customMenu(records),

		PostCount: postCount,

		Block:           rm.Block,
		Schema:          schema,
		RawMetadata:     meta,
		CollectionID:    meta.CollectionID,
		CollectionQuery: rm.CollectionQuery,
		PageIDs:         pageIDs,
		ViewIDs:         meta.ViewIDs,
	}
}

// backfillMissing fetches member blocks absent from the document chunk
// and merges them without overwriting anything already present.
func (a *Assembler) backfillMissing(ctx context.Context, rm *notion.RecordMap, pageIDs []string) {
	var missing []string
	for _, id := range pageIDs {
		if rm.BlockByID(id) == nil {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return
	}

	fetched := a.fetcher.FetchMissing(ctx, missing, fetcher.DefaultBatchSize)
	for id, b := range fetched {
		if _, exists := rm.Block[id]; exists {
			continue
		}
		rm.Block[id] = b
		rm.BlockOrder = append(rm.BlockOrder, id)
	}
}

// notice finds the first published notice page and loads its own content
// graph so consumers can render it inline.
func (a *Assembler) notice(ctx context.Context, records []*Page) *Page {
	for _, p := range records {
		if p.Type != TypeNotice || p.Status != StatusPublished {
			continue
		}
		p.BlockMap = a.fetcher.FetchDocument(ctx, p.ID)
		return p
	}
	return nil
}

// siteInfo resolves display metadata from the collection, falling back
// to configured defaults field by field.
func (a *Assembler) siteInfo(col *notion.CollectionValue, override map[string]string) *SiteInfo {
	info := &SiteInfo{
		Title:       a.conf.Get("TITLE", "", override),
		Description: a.conf.Get("DESCRIPTION", "", override),
		PageCover:   a.conf.Get("HOME_BANNER_IMAGE", "", override),
		Icon:        a.conf.Get("AVATAR", "", override),
		Link:        a.conf.Get("LINK", "", override),
	}
	if col == nil {
		return info
	}
	if t := col.Name.Plain(); t != "" {
		info.Title = t
	}
	if d := col.Description.Plain(); d != "" {
		info.Description = d
	}
	if c := assetURL(col.Cover); c != "" {
		info.PageCover = c
	}
	// Emoji icons cannot serve as favicon/avatar images; keep the default.
	if ic := assetURL(col.Icon); ic != "" && !isEmoji(col.Icon) {
		info.Icon = thumbnailURL(ic, thumbnailWidth)
	}
	return info
}

// configOverrides extracts the content-authored config table: the
// untyped columns of the member page typed (or titled) CONFIG.
func configOverrides(records []*Page) map[string]string {
	override := map[string]string{}
	for _, p := range records {
		if p.Type != TypeConfig && !strings.EqualFold(p.Title, string(TypeConfig)) {
			continue
		}
		for k, v := range p.Ext {
			override[strings.ToUpper(k)] = v
		}
	}
	return override
}

// normalizeSchema returns the collection schema with every entry made
// safe to index: nil maps become empty, unnamed columns keep their id
// as display name.
func normalizeSchema(col *notion.CollectionValue) map[string]notion.SchemaProp {
	if col == nil || col.Schema == nil {
		return map[string]notion.SchemaProp{}
	}
	out := make(map[string]notion.SchemaProp, len(col.Schema))
	for id, prop := range col.Schema {
		if prop.Name == "" {
			prop.Name = id
		}
		out[id] = prop
	}
	return out
}

// memberPageIDs resolves the database's member ids from the collection
// query, walking the root's views in order and deduplicating.
func memberPageIDs(q notion.CollectionQuery, collectionID string, viewIDs []string) []string {
	views, ok := q[collectionID]
	if !ok {
		views = q[notion.ToUUID(collectionID)]
	}
	if len(views) == 0 {
		return nil
	}

	seen := map[string]bool{}
	var out []string
	appendIDs := func(ids []string) {
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}

	for _, vid := range viewIDs {
		if r, ok := views[vid]; ok {
			appendIDs(r.PageIDs())
		}
	}
	if len(out) == 0 {
		// No declared view matched; take whatever views the query holds,
		// in a deterministic order.
		vids := make([]string, 0, len(views))
		for vid := range views {
			vids = append(vids, vid)
		}
		sort.Strings(vids)
		for _, vid := range vids {
			appendIDs(views[vid].PageIDs())
		}
	}
	return out
}

// assetURL maps workspace-relative asset paths onto the content host.
func assetURL(s string) string {
	if strings.HasPrefix(s, "/") {
		return contentHost + s
	}
	return s
}

// isEmoji reports whether the string is an emoji glyph rather than an
// asset reference.
func isEmoji(s string) bool {
	for _, r := range s {
		if r >= 0x1F000 || (r >= 0x2600 && r <= 0x27BF) {
			return true
		}
	}
	return false
}
