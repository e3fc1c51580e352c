package site

import (
	"net/url"
	"strconv"
	"strings"
)

// thumbnailWidth is the CDN render width requested for list covers and
// avatars.
const thumbnailWidth = 400

// thumbnailURL asks the content CDN for a downscaled rendition of an
// image by query parameter. URLs outside the CDN (and non-absolute
// paths) are returned unchanged; the CDN ignores repeated widths, so
// applying this twice is harmless.
func thumbnailURL(raw string, width int) string {
	if raw == "" || width <= 0 {
		return raw
	}
	if !strings.Contains(raw, "notion.so") && !strings.Contains(raw, "amazonaws.com") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Get("width") != "" {
		return raw
	}
	q.Set("width", strconv.Itoa(width))
	u.RawQuery = q.Encode()
	return u.String()
}
