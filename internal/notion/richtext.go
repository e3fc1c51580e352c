package notion

import (
	"encoding/json"
	"strings"
)

// RichText is the provider's rich-text property encoding: a list of
// segments, each an array whose first element is the text and whose
// optional second element is a list of decorations. Decorations carry
// non-text payloads such as dates ([["‣", [["d", {...}]]]]).
type RichText [][]any

// Text returns the first segment's text, or "" when the property is
// empty or not textual.
func (rt RichText) Text() string {
	if len(rt) == 0 || len(rt[0]) == 0 {
		return ""
	}
	s, _ := rt[0][0].(string)
	return s
}

// Plain concatenates the text of every segment. Used for titles, which
// may span segments when partially styled.
func (rt RichText) Plain() string {
	var b strings.Builder
	for _, seg := range rt {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			b.WriteString(s)
		}
	}
	return b.String()
}

// SetText replaces the first segment's text in place. No-op when the
// property has no first segment.
func (rt RichText) SetText(s string) {
	if len(rt) == 0 || len(rt[0]) == 0 {
		return
	}
	rt[0][0] = s
}

// DateValue is the payload of a "d" date decoration.
type DateValue struct {
	Type      string `json:"type,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
	TimeZone  string `json:"time_zone,omitempty"`
}

// Date extracts the first date decoration from the property, or nil when
// none is present.
func (rt RichText) Date() *DateValue {
	for _, seg := range rt {
		if len(seg) < 2 {
			continue
		}
		decos, ok := seg[1].([]any)
		if !ok {
			continue
		}
		for _, d := range decos {
			deco, ok := d.([]any)
			if !ok || len(deco) < 2 {
				continue
			}
			if kind, _ := deco[0].(string); kind != "d" {
				continue
			}
			// Round-trip the loosely decoded payload into the typed form.
			raw, err := json.Marshal(deco[1])
			if err != nil {
				continue
			}
			var dv DateValue
			if err := json.Unmarshal(raw, &dv); err != nil {
				continue
			}
			return &dv
		}
	}
	return nil
}

// Strings splits a comma-separated property (the multi-select wire form)
// into trimmed, non-empty values.
func (rt RichText) Strings() []string {
	raw := rt.Text()
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
