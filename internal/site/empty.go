package site

import (
	"fmt"

	"notionsite/internal/config"
)

// EmptyData is the degraded site model served when a document cannot be
// produced at all. It is shaped exactly like real data, with a single
// placeholder page explaining the failure, so downstream consumers
// render normally instead of erroring.
func EmptyData(documentID string, conf *config.Site) *SiteData {
	oops := &Page{
		ID:     "oops",
		Title:  fmt.Sprintf("Failed to load site data from the content workspace. Check the document id: %s", documentID),
		Slug:   "oops",
		Type:   TypePost,
		Status: StatusPublished,
		Summary: "The document could not be fetched. Verify the document id is correct, " +
			"the database is shared publicly, and the upstream API is reachable.",
		PageCoverThumbnail: conf.Get("HOME_BANNER_IMAGE", "", nil),
		Date:               &PageDate{StartDate: "2023-04-24"},
		PublishDay:         "2023-04-24",
	}

	return &SiteData{
		Config: map[string]string{},
		SiteInfo: &SiteInfo{
			Title:       conf.Get("TITLE", "", nil),
			Description: conf.Get("DESCRIPTION", "", nil),
			PageCover:   conf.Get("HOME_BANNER_IMAGE", "", nil),
			Icon:        conf.Get("AVATAR", "", nil),
			Link:        conf.Get("LINK", "", nil),
		},
		AllPages:        []*Page{oops},
		AllNavPages:     []*NavPage{},
		LatestPosts:     []*Page{},
		CategoryOptions: []*Option{},
		TagOptions:      []*Option{},
		CustomNav:       []*MenuItem{},
		CustomMenu:      []*MenuItem{},
		PostCount:       1,
	}
}
