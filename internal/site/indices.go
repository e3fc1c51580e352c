package site

import (
	"sort"

	"notionsite/internal/notion"
	"notionsite/internal/slug"
)

// schemaOptions returns the declared option set of the schema column
// with the given display name, or nil when the column is missing or not
// select-like.
func schemaOptions(schema map[string]notion.SchemaProp, name string) []notion.SchemaOption {
	for _, prop := range schema {
		if prop.Name == name {
			return prop.Options
		}
	}
	return nil
}

// optionColors indexes declared options by value.
func optionColors(options []notion.SchemaOption) map[string]string {
	colors := make(map[string]string, len(options))
	for _, o := range options {
		colors[o.Value] = o.Color
	}
	return colors
}

// tagOptions builds the tag index from posts, one entry per declared
// option per status that uses it, published first. Tags never declared
// in the schema are left out of the index entirely.
func tagOptions(pages []*Page, declared []notion.SchemaOption) []*Option {
	counts := map[PageStatus]map[string]int{}
	for _, p := range pages {
		if p.Type != TypePost {
			continue
		}
		for _, t := range p.Tags {
			if counts[p.Status] == nil {
				counts[p.Status] = map[string]int{}
			}
			counts[p.Status][t]++
		}
	}

	out := []*Option{}
	for _, source := range []PageStatus{StatusPublished, StatusInvisible} {
		for _, opt := range declared {
			if c := counts[source][opt.Value]; c > 0 {
				out = append(out, &Option{
					ID:     opt.ID,
					Name:   opt.Value,
					Color:  opt.Color,
					Count:  c,
					Source: source,
				})
			}
		}
	}
	return out
}

// categoryOptions builds the category index from published posts,
// keeping the schema's declared option order.
func categoryOptions(pages []*Page, declared []notion.SchemaOption) []*Option {
	counts := map[string]int{}
	for _, p := range pages {
		if p.Type != TypePost || p.Status != StatusPublished || p.Category == "" {
			continue
		}
		counts[p.Category]++
	}

	out := []*Option{}
	for _, opt := range declared {
		if c := counts[opt.Value]; c > 0 {
			out = append(out, &Option{
				ID:    opt.ID,
				Name:  opt.Value,
				Color: opt.Color,
				Count: c,
			})
		}
	}
	return out
}

// customNav is the flat navigation list: published plain pages in
// document order.
func customNav(records []*Page) []*MenuItem {
	out := []*MenuItem{}
	for _, p := range records {
		if p.Type != TypePage || p.Status != StatusPublished {
			continue
		}
		out = append(out, &MenuItem{
			ID:   p.ID,
			Icon: p.PageIcon,
			Name: p.Title,
			Href: p.Href,
			Show: true,
		})
	}
	return out
}

// customMenu is the two-level menu: Menu records open a group, SubMenu
// records attach to the most recent group. A SubMenu before any Menu has
// no parent and is dropped. Document order is preserved throughout.
func customMenu(records []*Page) []*MenuItem {
	out := []*MenuItem{}
	var current *MenuItem
	for _, p := range records {
		if !p.Type.IsMenu() || p.Status != StatusPublished {
			continue
		}
		item := &MenuItem{
			ID:     p.ID,
			Icon:   p.PageIcon,
			Name:   p.Title,
			Href:   p.Href,
			Target: p.Ext["target"],
			Show:   true,
		}
		if slug.IsExternal(p.Slug) && item.Target == "" {
			item.Target = "_blank"
		}
		switch p.Type {
		case TypeMenu:
			current = item
			out = append(out, item)
		case TypeSubMenu:
			if current != nil {
				current.SubMenus = append(current.SubMenus, item)
			}
		}
	}
	return out
}

// latestPosts returns the freshest published posts, ordered by last
// edit (falling back to publish time), capped at n.
func latestPosts(pages []*Page, n int) []*Page {
	if n <= 0 {
		n = 6
	}
	posts := []*Page{}
	for _, p := range pages {
		if p.Type == TypePost && p.Status == StatusPublished {
			posts = append(posts, p)
		}
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return freshness(posts[i]) > freshness(posts[j])
	})
	if len(posts) > n {
		posts = posts[:n]
	}
	return posts
}

func freshness(p *Page) int64 {
	if p.LastEditedDate > 0 {
		return p.LastEditedDate
	}
	return p.PublishDate
}

// navPages projects published posts into the slim navigation form.
func navPages(pages []*Page) []*NavPage {
	out := []*NavPage{}
	for _, p := range pages {
		if p.Type != TypePost || p.Status != StatusPublished {
			continue
		}
		// Tags are copied so later in-place filtering of either view
		// cannot corrupt the other through a shared backing array.
		out = append(out, &NavPage{
			ID:                 p.ID,
			Title:              p.Title,
			Slug:               p.Slug,
			Href:               p.Href,
			Summary:            p.Summary,
			Category:           p.Category,
			Tags:               append([]string(nil), p.Tags...),
			PageCoverThumbnail: p.PageCoverThumbnail,
			PageIcon:           p.PageIcon,
			PublishDate:        p.PublishDate,
			LastEditedDate:     p.LastEditedDate,
			Ext:                p.Ext,
		})
	}
	return out
}
