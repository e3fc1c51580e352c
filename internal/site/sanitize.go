package site

import (
	"notionsite/internal/notion"
)

// Sanitize strips everything from the site model that must not reach an
// external consumer: server-only graph fields, option sources, menu and
// notice ids, and tag references to non-published tags. Page content in
// allPages/latestPosts keeps its ids; only the slim nav projection
// trades them for short ids. It mutates and returns its argument and is
// idempotent, so a model sanitized twice is unchanged by the second pass.
func Sanitize(d *SiteData) *SiteData {
	if d == nil {
		return nil
	}

	// Tag options produced by unpublished pages are dropped; the empty
	// source marks an option that already survived a previous pass.
	valid := map[string]bool{}
	kept := []*Option{}
	for _, o := range d.TagOptions {
		if o.Source != StatusPublished && o.Source != "" {
			continue
		}
		valid[o.Name] = true
		o.ID = ""
		o.Source = ""
		kept = append(kept, o)
	}
	d.TagOptions = kept

	for _, o := range d.CategoryOptions {
		o.ID = ""
	}

	for _, p := range d.AllPages {
		scrubPage(p, valid)
	}
	for _, p := range d.LatestPosts {
		scrubPage(p, valid)
	}
	if d.Notice != nil {
		scrubPage(d.Notice, valid)
		d.Notice.ID = ""
	}
	for _, np := range d.AllNavPages {
		np.Tags = filterTags(np.Tags, valid)
		if np.ID != "" {
			np.ShortID = notion.ShortID(np.ID)
			np.ID = ""
		}
	}

	stripMenuIDs(d.CustomNav)
	stripMenuIDs(d.CustomMenu)

	d.Block = nil
	d.Schema = nil
	d.RawMetadata = nil
	d.CollectionID = ""
	d.CollectionQuery = nil
	d.PageIDs = nil
	d.ViewIDs = nil

	return d
}

// scrubPage removes secrets and unpublished tag references. The page id
// stays; renderers address full pages by it.
func scrubPage(p *Page, valid map[string]bool) {
	p.Password = ""
	p.Tags = filterTags(p.Tags, valid)
	if len(p.TagItems) > 0 {
		items := p.TagItems[:0]
		for _, ti := range p.TagItems {
			if valid[ti.Name] {
				items = append(items, ti)
			}
		}
		p.TagItems = items
	}
}

func filterTags(tags []string, valid map[string]bool) []string {
	if len(tags) == 0 {
		return tags
	}
	out := tags[:0]
	for _, t := range tags {
		if valid[t] {
			out = append(out, t)
		}
	}
	return out
}

func stripMenuIDs(items []*MenuItem) {
	for _, m := range items {
		m.ID = ""
		stripMenuIDs(m.SubMenus)
	}
}
