package notion

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestRichTextText(t *testing.T) {
	rt := RichText{{"Hello"}}
	if got := rt.Text(); got != "Hello" {
		t.Errorf("Text() = %q, want Hello", got)
	}
	if got := (RichText{}).Text(); got != "" {
		t.Errorf("empty Text() = %q, want empty", got)
	}
}

func TestRichTextPlainSpansSegments(t *testing.T) {
	rt := RichText{{"Hello "}, {"World", []any{[]any{"b"}}}}
	if got := rt.Plain(); got != "Hello World" {
		t.Errorf("Plain() = %q, want %q", got, "Hello World")
	}
}

func TestRichTextDate(t *testing.T) {
	raw := `[["‣",[["d",{"type":"daterange","start_date":"2025-01-01","start_time":"08:00","end_date":"2025-02-01","time_zone":"Asia/Tokyo"}]]]]`
	var rt RichText
	if err := json.Unmarshal([]byte(raw), &rt); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	d := rt.Date()
	if d == nil {
		t.Fatal("Date() = nil, want value")
	}
	if d.StartDate != "2025-01-01" || d.StartTime != "08:00" {
		t.Errorf("start = %q %q", d.StartDate, d.StartTime)
	}
	if d.EndDate != "2025-02-01" || d.TimeZone != "Asia/Tokyo" {
		t.Errorf("end = %q, zone = %q", d.EndDate, d.TimeZone)
	}

	if (RichText{{"just text"}}).Date() != nil {
		t.Error("Date() on plain text should be nil")
	}
}

func TestRichTextStrings(t *testing.T) {
	rt := RichText{{"Go, Web , ,Cache"}}
	got := rt.Strings()
	want := []string{"Go", "Web", "Cache"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Strings() = %v, want %v", got, want)
	}
	if (RichText{}).Strings() != nil {
		t.Error("empty Strings() should be nil")
	}
}

func TestRecordMapLookupsTolerateIDForms(t *testing.T) {
	dashed := "067dd719-46e1-11ea-bd9c-187cc434d970"
	rm := &RecordMap{
		Block:      map[string]Block{dashed: {Value: &BlockValue{ID: dashed}}},
		Collection: map[string]Collection{dashed: {Value: &CollectionValue{ID: dashed}}},
	}

	if rm.BlockByID("067dd71946e111eabd9c187cc434d970") == nil {
		t.Error("BlockByID should resolve the compact form")
	}
	if rm.CollectionByID("067dd71946e111eabd9c187cc434d970") == nil {
		t.Error("CollectionByID should resolve the compact form")
	}
	if rm.BlockByID("missing") != nil {
		t.Error("BlockByID should return nil for unknown ids")
	}
}

func TestQueryResultPageIDs(t *testing.T) {
	grouped := QueryResult{
		BlockIDs:               []string{"flat"},
		CollectionGroupResults: &GroupResult{BlockIDs: []string{"g1", "g2"}},
	}
	if got := grouped.PageIDs(); !reflect.DeepEqual(got, []string{"g1", "g2"}) {
		t.Errorf("grouped PageIDs = %v", got)
	}

	flat := QueryResult{BlockIDs: []string{"flat"}}
	if got := flat.PageIDs(); !reflect.DeepEqual(got, []string{"flat"}) {
		t.Errorf("flat PageIDs = %v", got)
	}
}
