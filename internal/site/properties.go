package site

import (
	"time"

	"notionsite/internal/config"
	"notionsite/internal/notion"
	"notionsite/internal/slug"
)

// propertyNames are the collection column names the extractor matches
// against, resolved from static site config so renamed columns still map
// to typed fields.
type propertyNames struct {
	status   string
	typ      string
	slug     string
	summary  string
	tags     string
	category string
	date     string
	icon     string
	password string
}

func resolvePropertyNames(conf *config.Site) propertyNames {
	return propertyNames{
		status:   conf.Get("PROPERTY_STATUS", "status", nil),
		typ:      conf.Get("PROPERTY_TYPE", "type", nil),
		slug:     conf.Get("PROPERTY_SLUG", "slug", nil),
		summary:  conf.Get("PROPERTY_SUMMARY", "summary", nil),
		tags:     conf.Get("PROPERTY_TAGS", "tags", nil),
		category: conf.Get("PROPERTY_CATEGORY", "category", nil),
		date:     conf.Get("PROPERTY_DATE", "date", nil),
		icon:     conf.Get("PROPERTY_ICON", "icon", nil),
		password: conf.Get("PROPERTY_PASSWORD", "password", nil),
	}
}

// extractPage turns one member block into a typed Page using the
// collection schema. Returns nil when the block carries no page data.
// Column matching is by schema display name except the title column,
// which is recognized by its type.
func extractPage(bv *notion.BlockValue, schema map[string]notion.SchemaProp, names propertyNames) *Page {
	if bv == nil || (bv.Type == "" && bv.Properties == nil) {
		return nil
	}

	p := &Page{ID: bv.ID, Ext: map[string]string{}}

	for propID, prop := range schema {
		rt, ok := bv.Properties[propID]
		if !ok || len(rt) == 0 {
			continue
		}
		switch {
		case prop.Type == "title":
			p.Title = rt.Plain()
		case prop.Name == names.status:
			p.Status = PageStatus(rt.Text())
		case prop.Name == names.typ:
			p.Type = PageType(rt.Text())
		case prop.Name == names.slug:
			p.Slug = rt.Text()
		case prop.Name == names.summary:
			p.Summary = rt.Plain()
		case prop.Name == names.category:
			p.Category = rt.Text()
		case prop.Name == names.tags:
			p.Tags = rt.Strings()
		case prop.Name == names.date:
			if d := rt.Date(); d != nil {
				p.Date = &PageDate{
					StartDate: d.StartDate,
					StartTime: d.StartTime,
					EndDate:   d.EndDate,
					EndTime:   d.EndTime,
					TimeZone:  d.TimeZone,
				}
			}
		case prop.Name == names.icon:
			p.PageIcon = rt.Text()
		case prop.Name == names.password:
			p.Password = rt.Text()
		default:
			if v := rt.Plain(); v != "" {
				p.Ext[prop.Name] = v
			}
		}
	}

	if bv.Format != nil {
		if p.PageIcon == "" {
			p.PageIcon = bv.Format.PageIcon
		}
		p.PageCover = bv.Format.PageCover
		p.FullWidth = bv.Format.PageFullWidth
	}

	p.LastEditedDate = bv.LastEditedTime
	if p.LastEditedDate == 0 {
		p.LastEditedDate = bv.CreatedTime
	}
	p.PublishDate = publishTimestamp(p.Date, bv.CreatedTime)
	p.PublishDay = dayString(p.PublishDate)
	p.LastEditedDay = dayString(p.LastEditedDate)

	return p
}

// adjustPage applies the post-extraction fixups that depend on the
// merged config and the full option set: slug fallback, href, cover
// thumbnail, and colored tag items.
func adjustPage(p *Page, tagColors map[string]string) {
	// Plain pages get a generated slug so they stay addressable; posts
	// without an authored slug are deliberately left out of the site.
	if p.Slug == "" && p.Type == TypePage {
		p.Slug = slug.Generate(p.Title)
	}
	p.Href = slug.Href(p.Slug)

	if p.PageCoverThumbnail == "" {
		p.PageCoverThumbnail = thumbnailURL(p.PageCover, thumbnailWidth)
	}

	if len(p.Tags) > 0 {
		p.TagItems = make([]TagItem, 0, len(p.Tags))
		for _, t := range p.Tags {
			p.TagItems = append(p.TagItems, TagItem{Name: t, Color: tagColors[t]})
		}
	}
}

// publishTimestamp prefers the authored start date over the block's
// created time. Authored dates are day-granular; the start time, when
// present, refines them.
func publishTimestamp(d *PageDate, createdTime int64) int64 {
	if d == nil || d.StartDate == "" {
		return createdTime
	}
	clock := d.StartTime
	if clock == "" {
		clock = "00:00"
	}
	t, err := time.Parse("2006-01-02 15:04", d.StartDate+" "+clock)
	if err != nil {
		return createdTime
	}
	return t.UnixMilli()
}

// dayString formats a millisecond timestamp as YYYY-MM-DD in UTC.
func dayString(ms int64) string {
	if ms <= 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02")
}
