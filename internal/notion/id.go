package notion

import (
	"strings"

	"github.com/google/uuid"
)

// ToUUID converts a compact 32-hex document id (the form that appears in
// share URLs) into the dashed UUID form the record map is keyed by.
// Already-dashed ids and unparseable values are returned unchanged.
func ToUUID(id string) string {
	if id == "" {
		return id
	}
	if strings.Contains(id, "-") {
		if u, err := uuid.Parse(id); err == nil {
			return u.String()
		}
		return id
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return id
	}
	return u.String()
}

// ShortID is the compact projection of a dashed id used by the slim
// navigation records: the last UUID group (12 hex chars).
func ShortID(id string) string {
	if i := strings.LastIndex(id, "-"); i >= 0 {
		return id[i+1:]
	}
	if len(id) > 12 {
		return id[len(id)-12:]
	}
	return id
}

// SplitLocaleID splits a configured site id of the form "en:abc123..."
// into its locale prefix and document id. Ids without a prefix return an
// empty prefix. A colon is only treated as a prefix separator when the
// left side looks like a locale, not part of an URL-ish value.
func SplitLocaleID(raw string) (prefix, id string) {
	raw = strings.TrimSpace(raw)
	i := strings.Index(raw, ":")
	if i <= 0 || i > 5 {
		return "", raw
	}
	return raw[:i], raw[i+1:]
}
