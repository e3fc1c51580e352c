// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package site turns a canonical content graph into the stable site
// data model the rendering layers consume: typed pages, site info, and
// the derived cross-document indices (tags, categories, menus,
// navigation). It also owns the scheduled-visibility filter and the
// output sanitizer.
package site

import (
	"notionsite/internal/notion"
)

// PageStatus is the authored visibility state of a page.
type PageStatus string

const (
	StatusPublished PageStatus = "Published"
	StatusInvisible PageStatus = "Invisible"
)

// PageType classifies a collection member.
type PageType string

const (
	TypePost    PageType = "Post"
	TypePage    PageType = "Page"
	TypeNotice  PageType = "Notice"
	TypeMenu    PageType = "Menu"
	TypeSubMenu PageType = "SubMenu"
	TypeConfig  PageType = "CONFIG"
)

// IsMenu reports whether the type is either menu level.
func (t PageType) IsMenu() bool {
	return t == TypeMenu || t == TypeSubMenu
}

// PageDate is the authored publish window of a page. Dates are
// YYYY-MM-DD, times HH:MM, the zone an IANA name.
type PageDate struct {
	StartDate string `json:"start_date,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
	TimeZone  string `json:"time_zone,omitempty"`
}

// Empty reports whether no window is authored at all.
func (d *PageDate) Empty() bool {
	return d == nil || (d.StartDate == "" && d.EndDate == "")
}

// TagItem is a page's tag reference with its display color.
type TagItem struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Page is one typed record extracted from a member block and the
// collection schema. It is created during assembly, mutated in place by
// the visibility scheduler and the sanitizer, and immutable afterwards.
type Page struct {
	ID      string     `json:"id,omitempty"`
	ShortID string     `json:"short_id,omitempty"`
	Title   string     `json:"title"`
	Slug    string     `json:"slug,omitempty"`
	Href    string     `json:"href,omitempty"`
	Type    PageType   `json:"type,omitempty"`
	Status  PageStatus `json:"status,omitempty"`

	Summary  string    `json:"summary,omitempty"`
	Category string    `json:"category,omitempty"`
	Tags     []string  `json:"tags,omitempty"`
	TagItems []TagItem `json:"tagItems,omitempty"`

	Date           *PageDate `json:"date,omitempty"`
	PublishDay     string    `json:"publishDay,omitempty"`
	LastEditedDay  string    `json:"lastEditedDay,omitempty"`
	PublishDate    int64     `json:"publishDate,omitempty"`
	LastEditedDate int64     `json:"lastEditedDate,omitempty"`

	PageIcon           string `json:"pageIcon,omitempty"`
	PageCover          string `json:"pageCover,omitempty"`
	PageCoverThumbnail string `json:"pageCoverThumbnail,omitempty"`
	FullWidth          bool   `json:"fullWidth,omitempty"`

	// Password never leaves the server.
	Password string `json:"-"`

	// BlockMap carries the page's own content graph where a consumer
	// needs it inline (the notice).
	BlockMap *notion.RecordMap `json:"blockMap,omitempty"`

	// Ext collects schema columns the extractor has no typed field for.
	Ext map[string]string `json:"ext,omitempty"`
}

// NavPage is the slim projection of a published post used by navigation.
type NavPage struct {
	ID                 string            `json:"id,omitempty"`
	ShortID            string            `json:"short_id,omitempty"`
	Title              string            `json:"title"`
	Slug               string            `json:"slug,omitempty"`
	Href               string            `json:"href,omitempty"`
	Summary            string            `json:"summary,omitempty"`
	Category           string            `json:"category,omitempty"`
	Tags               []string          `json:"tags,omitempty"`
	PageCoverThumbnail string            `json:"pageCoverThumbnail,omitempty"`
	PageIcon           string            `json:"pageIcon,omitempty"`
	PublishDate        int64             `json:"publishDate,omitempty"`
	LastEditedDate     int64             `json:"lastEditedDate,omitempty"`
	Ext                map[string]string `json:"ext,omitempty"`
}

// MenuItem is one entry of the two-level custom menu or the legacy nav.
type MenuItem struct {
	ID       string      `json:"id,omitempty"`
	Name     string      `json:"name"`
	Icon     string      `json:"icon,omitempty"`
	Href     string      `json:"href,omitempty"`
	Target   string      `json:"target,omitempty"`
	Show     bool        `json:"show"`
	SubMenus []*MenuItem `json:"subMenus,omitempty"`
}

// Option is one tag or category index entry. Source records which page
// status produced it; the sanitizer filters on it and then clears it.
type Option struct {
	ID     string     `json:"id,omitempty"`
	Name   string     `json:"name"`
	Color  string     `json:"color,omitempty"`
	Count  int        `json:"count"`
	Source PageStatus `json:"source,omitempty"`
}

// SiteInfo is the site's display metadata.
type SiteInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PageCover   string `json:"pageCover"`
	Icon        string `json:"icon"`
	Link        string `json:"link"`
}

// SiteData is the aggregate root handed to rendering layers. One
// instance is built per request and never shared across requests.
type SiteData struct {
	Config   map[string]string `json:"config"`
	SiteInfo *SiteInfo         `json:"siteInfo"`
	Notice   *Page             `json:"notice"`

	AllPages    []*Page    `json:"allPages"`
	AllNavPages []*NavPage `json:"allNavPages"`
	LatestPosts []*Page    `json:"latestPosts"`

	CategoryOptions []*Option `json:"categoryOptions"`
	TagOptions      []*Option `json:"tagOptions"`

	CustomNav  []*MenuItem `json:"customNav"`
	CustomMenu []*MenuItem `json:"customMenu"`

	PostCount int `json:"postCount"`

	// Server-only fields, removed by Sanitize before external exposure.
	Block           map[string]notion.Block      `json:"block,omitempty"`
	Schema          map[string]notion.SchemaProp `json:"schema,omitempty"`
	RawMetadata     *notion.BlockValue           `json:"rawMetadata,omitempty"`
	CollectionID    string                       `json:"collectionId,omitempty"`
	CollectionQuery notion.CollectionQuery       `json:"collectionQuery,omitempty"`
	PageIDs         []string                     `json:"pageIds,omitempty"`
	ViewIDs         []string                     `json:"viewIds,omitempty"`
}
