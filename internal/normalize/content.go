// content.go holds the per-block content fixes applied after the
// canonical shape is established: synced-block inlining, code language
// aliasing, URL sanitization, and signed-URL rewriting for provider-
// hosted attachments.
package normalize

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"notionsite/internal/notion"
)

// PlaceholderImageURL replaces URLs that are still invalid after scheme
// fixing. Rendering a placeholder beats failing the whole document.
const PlaceholderImageURL = "https://via.placeholder.com/1x1?text=Invalid+Image"

// signedURLPrefix is the provider-relative signed-fetch form for
// attachment sources.
const signedURLPrefix = "https://notion.so/signed/"

// languageAliases maps legacy or ambiguous code-block language labels to
// the identifiers the highlighters expect. Unmapped labels pass through.
var languageAliases = map[string]string{
	"C++":      "cpp",
	"C#":       "csharp",
	"Assembly": "asm6502",
}

// signedSourceTypes are the block types whose sources are provider-
// hosted uploads needing a signed fetch URL.
var signedSourceTypes = map[string]bool{
	"file":  true,
	"pdf":   true,
	"video": true,
	"audio": true,
}

// applyContentFixes walks the block table in document order. Synced
// reference blocks are replaced in place by their materialized children
// under synthesized ids, so consumers see the children where the
// reference stood.
func applyContentFixes(rm *notion.RecordMap, rootID string) {
	root := notion.ToUUID(rootID)

	for i := 0; i < len(rm.BlockOrder); i++ {
		id := rm.BlockOrder[i]
		b, ok := rm.Block[id]
		if !ok || b.Value == nil {
			continue
		}
		bv := b.Value

		// The document's own page block can carry non-public text in
		// its properties; it never reaches renderers with them.
		if root != "" && bv.ID == root {
			bv.Properties = nil
			continue
		}

		if bv.Type == "sync_block" && len(bv.Children) > 0 {
			inlineSyncedBlock(rm, i, id, bv)
			// The splice put different content at index i; reprocess it.
			i--
			continue
		}

		fixBlock(bv)
	}
}

// inlineSyncedBlock replaces the reference block at position i with its
// children. When no child survives the validity gate the reference is
// still removed.
func inlineSyncedBlock(rm *notion.RecordMap, i int, id string, bv *notion.BlockValue) {
	children := bv.Children
	delete(rm.Block, id)

	newIDs := make([]string, 0, len(children))
	for ci, child := range children {
		if child.Value == nil {
			slog.Warn("dropping synced child without value", "parent", id, "index", ci)
			continue
		}
		childID := fmt.Sprintf("%s_child_%d", id, ci)
		rm.Block[childID] = child
		newIDs = append(newIDs, childID)
	}

	rest := append([]string(nil), rm.BlockOrder[i+1:]...)
	rm.BlockOrder = append(append(rm.BlockOrder[:i:i], newIDs...), rest...)
}

// fixBlock applies the single-block fixes.
func fixBlock(bv *notion.BlockValue) {
	if bv.Type == "code" {
		if lang, ok := bv.Properties["language"]; ok {
			if alias, mapped := languageAliases[lang.Text()]; mapped {
				lang.SetText(alias)
			}
		}
	}

	sanitizeBlockURLs(bv)
	rewriteSignedSource(bv)
}

// sanitizeBlockURLs fixes every URL-bearing field of a block: the
// primary source, the file URL, and the page cover.
func sanitizeBlockURLs(bv *notion.BlockValue) {
	if src, ok := bv.Properties["source"]; ok && src.Text() != "" {
		src.SetText(FixURL(src.Text()))
	}
	if bv.File != nil && bv.File.URL != "" {
		bv.File.URL = FixURL(bv.File.URL)
	}
	if bv.Format != nil && bv.Format.PageCover != "" {
		bv.Format.PageCover = FixURL(bv.Format.PageCover)
	}
}

// FixURL repairs malformed scheme prefixes (http: / https: without the
// double slash), then validates the result. Site-relative values pass
// through; anything still invalid becomes the placeholder image.
func FixURL(u string) string {
	if u == "" || strings.HasPrefix(u, "/") {
		return u
	}

	if strings.HasPrefix(u, "http:") && !strings.HasPrefix(u, "http://") {
		u = "http://" + u[len("http:"):]
	} else if strings.HasPrefix(u, "https:") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u[len("https:"):]
	}

	parsed, err := url.Parse(u)
	if err != nil || parsed.Scheme == "" || (parsed.Host == "" && parsed.Opaque == "") {
		slog.Warn("invalid url replaced with placeholder", "url", u)
		return PlaceholderImageURL
	}
	return u
}

// rewriteSignedSource rewrites provider-hosted attachment sources into
// the signed-fetch form, carrying the original URL as a query parameter
// and the block id as the lookup key. Already-rewritten sources are left
// alone so normalization stays idempotent.
func rewriteSignedSource(bv *notion.BlockValue) {
	if !signedSourceTypes[bv.Type] {
		return
	}
	src, ok := bv.Properties["source"]
	if !ok {
		return
	}
	u := src.Text()
	if u == "" || strings.HasPrefix(u, signedURLPrefix) {
		return
	}
	if strings.HasPrefix(u, "attachment") || strings.Index(u, "amazonaws.com") > 0 {
		src.SetText(fmt.Sprintf("%s%s?table=block&id=%s", signedURLPrefix, url.QueryEscape(u), bv.ID))
	}
}
