package site

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"notionsite/internal/cache"
	"notionsite/internal/config"
	"notionsite/internal/fetcher"
	"notionsite/internal/notion"
)

// fakeUpstream serves canned documents and block-table entries.
type fakeUpstream struct {
	docs   map[string]notion.RawRecordMap
	blocks map[string]any
}

func (f *fakeUpstream) GetDocument(ctx context.Context, id string) (notion.RawRecordMap, error) {
	if d, ok := f.docs[id]; ok {
		return d, nil
	}
	return nil, errors.New("no such document")
}

func (f *fakeUpstream) GetBlocks(ctx context.Context, ids []string) (notion.RawRecordMap, error) {
	entries := map[string]any{}
	for _, id := range ids {
		if raw, ok := f.blocks[id]; ok {
			entries[id] = raw
		}
	}
	table, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}
	return notion.RawRecordMap{"block": table}, nil
}

func mustRaw(t *testing.T, doc map[string]any) notion.RawRecordMap {
	t.Helper()
	encoded, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	var raw notion.RawRecordMap
	if err := json.Unmarshal(encoded, &raw); err != nil {
		t.Fatal(err)
	}
	return raw
}

func pageBlock(id string, props map[string]any, extra map[string]any) map[string]any {
	v := map[string]any{
		"id":           id,
		"type":         "page",
		"parent_id":    "col-1",
		"parent_table": "collection",
		"properties":   props,
	}
	for k, val := range extra {
		v[k] = val
	}
	return map[string]any{"value": v}
}

func text(s string) []any {
	return []any{[]any{s}}
}

func date(d map[string]any) []any {
	return []any{[]any{"‣", []any{[]any{"d", d}}}}
}

// fixtureDocument builds a site database with the full cast: posts in
// both statuses, a slug-less draft, a plain page, a two-level menu, a
// notice, a config row, and one member missing from the chunk.
func fixtureDocument(t *testing.T, id, title string) notion.RawRecordMap {
	t.Helper()
	return mustRaw(t, map[string]any{
		"block": map[string]any{
			id: map[string]any{"value": map[string]any{
				"id":            id,
				"type":          "collection_view_page",
				"collection_id": "col-1",
				"view_ids":      []string{"view-1"},
				"properties":    map[string]any{"title": text("internal notes")},
			}},
			"p1": pageBlock("p1", map[string]any{
				"tit": text("Post One"),
				"sta": text("Published"),
				"typ": text("Post"),
				"slg": text("post-one"),
				"smm": text("First post"),
				"tag": text("A, X"),
				"cat": text("Tech"),
				"dat": date(map[string]any{"start_date": "2024-01-15"}),
			}, map[string]any{
				"created_time":     1700000000000,
				"last_edited_time": 1700000500000,
				"format":           map[string]any{"page_cover": "https://example.com/cover1.jpg"},
			}),
			"p2": pageBlock("p2", map[string]any{
				"tit": text("Post Two"),
				"sta": text("Invisible"),
				"typ": text("Post"),
				"slg": text("post-two"),
				"tag": text("B"),
			}, map[string]any{"last_edited_time": 1700000400000}),
			"p3": pageBlock("p3", map[string]any{
				"tit": text("Draft"),
				"sta": text("Published"),
				"typ": text("Post"),
			}, map[string]any{"last_edited_time": 1700000300000}),
			"p4": pageBlock("p4", map[string]any{
				"tit": text("About Me"),
				"sta": text("Published"),
				"typ": text("Page"),
			}, nil),
			"p5": pageBlock("p5", map[string]any{
				"tit": text("GitHub"),
				"sta": text("Published"),
				"typ": text("Menu"),
				"slg": text("https://github.com/example"),
			}, nil),
			"p6": pageBlock("p6", map[string]any{
				"tit": text("Docs"),
				"sta": text("Published"),
				"typ": text("SubMenu"),
				"slg": text("docs"),
			}, nil),
			"p7": pageBlock("p7", map[string]any{
				"tit": text("Maintenance window"),
				"sta": text("Published"),
				"typ": text("Notice"),
			}, nil),
			"p9": pageBlock("p9", map[string]any{
				"tit": text("CONFIG"),
				"typ": text("CONFIG"),
				"lpc": text("1"),
			}, nil),
		},
		"collection": map[string]any{
			"col-1": map[string]any{"value": map[string]any{
				"id":          "col-1",
				"name":        text(title),
				"description": text("A test site"),
				"icon":        "/images/icon.png",
				"schema": map[string]any{
					"tit": map[string]any{"name": "title", "type": "title"},
					"sta": map[string]any{"name": "status", "type": "select"},
					"typ": map[string]any{"name": "type", "type": "select"},
					"slg": map[string]any{"name": "slug", "type": "text"},
					"smm": map[string]any{"name": "summary", "type": "text"},
					"tag": map[string]any{"name": "tags", "type": "multi_select", "options": []any{
						map[string]any{"id": "o1", "value": "A", "color": "red"},
						map[string]any{"id": "o2", "value": "B", "color": "blue"},
					}},
					"cat": map[string]any{"name": "category", "type": "select", "options": []any{
						map[string]any{"id": "c1", "value": "Tech", "color": "green"},
					}},
					"dat": map[string]any{"name": "date", "type": "date"},
					"lpc": map[string]any{"name": "LATEST_POST_COUNT", "type": "text"},
				},
			}},
		},
		"collection_query": map[string]any{
			"col-1": map[string]any{
				"view-1": map[string]any{
					"collection_group_results": map[string]any{
						"blockIds": []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8", "p9"},
					},
				},
			},
		},
	})
}

// p8 lives outside the document chunk and is served by batch fetch.
func fixtureMissingBlocks() map[string]any {
	return map[string]any{
		"p8": pageBlock("p8", map[string]any{
			"tit": text("Post Eight"),
			"sta": text("Published"),
			"typ": text("Post"),
			"slg": text("post-eight"),
			"tag": text("A"),
		}, map[string]any{"last_edited_time": 1700000900000}),
	}
}

func noticeDocument(t *testing.T) notion.RawRecordMap {
	t.Helper()
	return mustRaw(t, map[string]any{
		"block": map[string]any{
			"p7": map[string]any{"value": map[string]any{
				"id": "p7", "type": "page",
			}},
			"n1": map[string]any{"value": map[string]any{
				"id": "n1", "type": "text",
				"properties": map[string]any{"title": text("Back soon")},
			}},
		},
	})
}

func newTestPipeline(t *testing.T, up fetcher.Upstream) (*Assembler, *Service, *fetcher.Fetcher, *config.Site) {
	t.Helper()
	conf, err := config.LoadSite("")
	if err != nil {
		t.Fatal(err)
	}
	loader := cache.NewLoader(cache.NewMemory(), time.Minute)
	f := fetcher.New(loader, up, nil)
	f.SetRetryPolicy(1, 0)
	a := NewAssembler(f, conf)
	return a, NewService(f, a, conf), f, conf
}

func assembleFixture(t *testing.T) *SiteData {
	t.Helper()
	up := &fakeUpstream{
		docs: map[string]notion.RawRecordMap{
			"root-1": fixtureDocument(t, "root-1", "My Blog"),
			"p7":     noticeDocument(t),
		},
		blocks: fixtureMissingBlocks(),
	}
	a, _, f, _ := newTestPipeline(t, up)

	ctx := context.Background()
	rm := f.FetchDocument(ctx, "root-1")
	if rm == nil {
		t.Fatal("fixture document did not load")
	}
	return a.Assemble(ctx, rm, "root-1")
}

func TestAssembleSiteInfo(t *testing.T) {
	data := assembleFixture(t)

	if data.SiteInfo.Title != "My Blog" {
		t.Errorf("title = %q", data.SiteInfo.Title)
	}
	if data.SiteInfo.Description != "A test site" {
		t.Errorf("description = %q", data.SiteInfo.Description)
	}
	if want := "https://www.notion.so/images/icon.png?width=400"; data.SiteInfo.Icon != want {
		t.Errorf("icon = %q, want %q", data.SiteInfo.Icon, want)
	}
}

func TestAssemblePagesAndCounts(t *testing.T) {
	data := assembleFixture(t)

	// Published posts: p1, p3 (slug-less), p8 (batch-fetched).
	if data.PostCount != 3 {
		t.Errorf("postCount = %d, want 3", data.PostCount)
	}

	got := map[string]*Page{}
	for _, p := range data.AllPages {
		got[p.Title] = p
	}
	for _, want := range []string{"Post One", "Post Two", "About Me", "GitHub", "Docs", "Post Eight"} {
		if got[want] == nil {
			t.Errorf("allPages missing %q", want)
		}
	}
	if got["Draft"] != nil {
		t.Error("slug-less post must not be in allPages")
	}
	if got["CONFIG"] != nil {
		t.Error("config row must not be in allPages")
	}

	if p := got["About Me"]; p != nil && p.Href != "/about-me" {
		t.Errorf("generated page href = %q", p.Href)
	}
	if p := got["Post One"]; p != nil {
		if p.PublishDay != "2024-01-15" {
			t.Errorf("publishDay = %q", p.PublishDay)
		}
		if p.PageCoverThumbnail != "https://example.com/cover1.jpg" {
			t.Errorf("thumbnail = %q", p.PageCoverThumbnail)
		}
	}
}

func TestAssembleIndices(t *testing.T) {
	data := assembleFixture(t)

	// Tag options carry their producing status; undeclared X is absent.
	wantTags := map[string]struct {
		count  int
		source PageStatus
	}{
		"A": {2, StatusPublished},
		"B": {1, StatusInvisible},
	}
	if len(data.TagOptions) != len(wantTags) {
		t.Fatalf("tagOptions = %+v", data.TagOptions)
	}
	for _, o := range data.TagOptions {
		w, ok := wantTags[o.Name]
		if !ok {
			t.Errorf("unexpected tag option %q", o.Name)
			continue
		}
		if o.Count != w.count || o.Source != w.source {
			t.Errorf("tag %q = count %d source %q, want %d %q", o.Name, o.Count, o.Source, w.count, w.source)
		}
	}

	if len(data.CategoryOptions) != 1 || data.CategoryOptions[0].Name != "Tech" || data.CategoryOptions[0].Count != 1 {
		t.Errorf("categoryOptions = %+v", data.CategoryOptions)
	}

	if len(data.CustomNav) != 1 || data.CustomNav[0].Name != "About Me" || data.CustomNav[0].Href != "/about-me" {
		t.Errorf("customNav = %+v", data.CustomNav)
	}

	if len(data.CustomMenu) != 1 {
		t.Fatalf("customMenu = %+v", data.CustomMenu)
	}
	root := data.CustomMenu[0]
	if root.Name != "GitHub" || root.Href != "https://github.com/example" || root.Target != "_blank" {
		t.Errorf("menu root = %+v", root)
	}
	if len(root.SubMenus) != 1 || root.SubMenus[0].Name != "Docs" || root.SubMenus[0].Href != "/docs" {
		t.Errorf("submenus = %+v", root.SubMenus)
	}

	// The config row capped the latest list at one; the freshest edit wins.
	if len(data.LatestPosts) != 1 || data.LatestPosts[0].Title != "Post Eight" {
		t.Errorf("latestPosts = %+v", data.LatestPosts)
	}

	if len(data.AllNavPages) != 2 {
		t.Errorf("allNavPages = %+v", data.AllNavPages)
	}
}

func TestAssembleNoticeAndBackfill(t *testing.T) {
	data := assembleFixture(t)

	if data.Notice == nil || data.Notice.Title != "Maintenance window" {
		t.Fatalf("notice = %+v", data.Notice)
	}
	if data.Notice.BlockMap == nil || data.Notice.BlockMap.BlockByID("n1") == nil {
		t.Error("notice blockMap not loaded")
	}

	// p8 was absent from the chunk and must have been batch-fetched.
	found := false
	for _, p := range data.AllPages {
		if p.Title == "Post Eight" {
			found = true
		}
	}
	if !found {
		t.Error("batch-fetched member missing from allPages")
	}
}

func TestAssembleDegradedInputs(t *testing.T) {
	up := &fakeUpstream{}
	a, _, _, conf := newTestPipeline(t, up)
	ctx := context.Background()

	empty := a.Assemble(ctx, nil, "gone")
	if len(empty.AllPages) != 1 || empty.AllPages[0].Slug != "oops" {
		t.Errorf("nil record map should produce the placeholder page, got %+v", empty.AllPages)
	}
	if empty.PostCount != 1 {
		t.Errorf("postCount = %d, want 1", empty.PostCount)
	}
	if empty.SiteInfo.Title != conf.Get("TITLE", "", nil) {
		t.Errorf("degraded siteInfo title = %q", empty.SiteInfo.Title)
	}

	// A root that is not a database degrades the same way.
	rm := &notion.RecordMap{
		Block: map[string]notion.Block{
			"root-1": {Value: &notion.BlockValue{ID: "root-1", Type: "page"}},
		},
	}
	if got := a.Assemble(ctx, rm, "root-1"); len(got.AllPages) != 1 || got.AllPages[0].Slug != "oops" {
		t.Error("non-database root should produce the placeholder page")
	}
}

func TestAssembleRejectsEmojiIcon(t *testing.T) {
	conf, err := config.LoadSite("")
	if err != nil {
		t.Fatal(err)
	}
	a := NewAssembler(nil, conf)

	info := a.siteInfo(&notion.CollectionValue{
		ID:   "col-1",
		Name: notion.RichText{{"Emoji Site"}},
		Icon: "📕",
	}, nil)

	if info.Icon != conf.Get("AVATAR", "", nil) {
		t.Errorf("emoji icon must fall back to the default avatar, got %q", info.Icon)
	}
}
