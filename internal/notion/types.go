// Package notion defines the wire model for the hosted Notion content
// graph: the raw multi-generation record map returned by the API, the
// canonical single-generation form produced by the normalizer, and the
// rich-text property encoding shared by both.
package notion

import (
	"encoding/json"
)

// RawRecordMap is a record map exactly as the upstream API returned it:
// category ("block", "collection", "collection_view", ...) to an undecoded
// JSON table. The wrapping depth and shape of table entries varies by
// provider generation, so nothing here is typed until normalization.
type RawRecordMap map[string]json.RawMessage

// RecordMap is the canonical content graph. Every table entry is exactly
// one wrapper deep ({ id -> { value } }) regardless of which generation
// the raw data came from.
type RecordMap struct {
	Block map[string]Block `json:"block"`

	// BlockOrder preserves the document order of the block table, which
	// Go maps (and re-marshalled JSON) would otherwise lose. Synced-block
	// inlining depends on it.
	BlockOrder []string `json:"block_order,omitempty"`

	Collection      map[string]Collection `json:"collection,omitempty"`
	CollectionView  map[string]Block      `json:"collection_view,omitempty"`
	CollectionQuery CollectionQuery       `json:"collection_query,omitempty"`
}

// BlockByID returns the block value for an id, tolerating both compact
// and dashed id forms. Returns nil when absent.
func (rm *RecordMap) BlockByID(id string) *BlockValue {
	if rm == nil || rm.Block == nil {
		return nil
	}
	if b, ok := rm.Block[id]; ok {
		return b.Value
	}
	if b, ok := rm.Block[ToUUID(id)]; ok {
		return b.Value
	}
	return nil
}

// Clone returns a deep copy of the record map via a JSON round trip.
// Assembly mutates the graph (backfilled members, inlined notice
// content), so every consumer must own its instance.
func (rm *RecordMap) Clone() *RecordMap {
	if rm == nil {
		return nil
	}
	raw, err := json.Marshal(rm)
	if err != nil {
		return nil
	}
	var out RecordMap
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return &out
}

// CollectionByID resolves a collection tolerating compact and dashed ids.
func (rm *RecordMap) CollectionByID(id string) *CollectionValue {
	if rm == nil || rm.Collection == nil {
		return nil
	}
	if c, ok := rm.Collection[id]; ok {
		return c.Value
	}
	if c, ok := rm.Collection[ToUUID(id)]; ok {
		return c.Value
	}
	return nil
}

// Block is one canonical block table entry.
type Block struct {
	Value *BlockValue `json:"value"`
	Role  string      `json:"role,omitempty"`
}

// BlockValue is the concrete content of a block after unwrapping.
// Invariant: ID is always present after normalization; entries failing
// that are dropped by the normalizer, never propagated.
type BlockValue struct {
	ID           string   `json:"id"`
	Type         string   `json:"type,omitempty"`
	ParentID     string   `json:"parent_id,omitempty"`
	ParentTable  string   `json:"parent_table,omitempty"`
	CollectionID string   `json:"collection_id,omitempty"`
	ViewIDs      []string `json:"view_ids,omitempty"`
	SpaceID      string   `json:"space_id,omitempty"`

	Properties map[string]RichText `json:"properties,omitempty"`
	Format     *BlockFormat        `json:"format,omitempty"`
	File       *BlockFile          `json:"file,omitempty"`
	Content    []string            `json:"content,omitempty"`

	// Children carries materialized children of a synced/reference
	// block. The normalizer inlines and removes them.
	Children []Block `json:"children,omitempty"`

	CreatedTime    int64 `json:"created_time,omitempty"`
	LastEditedTime int64 `json:"last_edited_time,omitempty"`
}

// BlockFormat holds the presentation fields the pipeline cares about.
type BlockFormat struct {
	PageCover         string  `json:"page_cover,omitempty"`
	PageIcon          string  `json:"page_icon,omitempty"`
	PageCoverPosition float64 `json:"page_cover_position,omitempty"`
	PageFullWidth     bool    `json:"page_full_width,omitempty"`
}

// BlockFile holds the upload metadata of file-backed blocks.
type BlockFile struct {
	URL  string `json:"url,omitempty"`
	Name string `json:"name,omitempty"`
	Size string `json:"size,omitempty"`
}

// Collection is one canonical collection table entry.
type Collection struct {
	Value *CollectionValue `json:"value"`
	Role  string           `json:"role,omitempty"`
}

// CollectionValue is the structured-database container: its display
// metadata plus the schema describing member page properties.
type CollectionValue struct {
	ID          string                `json:"id"`
	Name        RichText              `json:"name,omitempty"`
	Description RichText              `json:"description,omitempty"`
	Cover       string                `json:"cover,omitempty"`
	Icon        string                `json:"icon,omitempty"`
	ParentID    string                `json:"parent_id,omitempty"`
	Schema      map[string]SchemaProp `json:"schema,omitempty"`
}

// SchemaProp describes one collection column: display name, value type,
// and for select-like columns the declared option set. Names are assumed
// unique within a collection, not globally.
type SchemaProp struct {
	Name    string         `json:"name"`
	Type    string         `json:"type"`
	Options []SchemaOption `json:"options,omitempty"`
}

// SchemaOption is one declared select/multi-select option.
type SchemaOption struct {
	ID    string `json:"id,omitempty"`
	Value string `json:"value"`
	Color string `json:"color,omitempty"`
}

// CollectionQuery maps collection id -> view id -> query result. The
// member page-id list of a site database lives here.
type CollectionQuery map[string]map[string]QueryResult

// QueryResult is one view's resolved member list. Newer generations nest
// the ids under collection_group_results.
type QueryResult struct {
	BlockIDs               []string     `json:"blockIds,omitempty"`
	CollectionGroupResults *GroupResult `json:"collection_group_results,omitempty"`
}

// GroupResult is the nested member list of grouped collection views.
type GroupResult struct {
	BlockIDs []string `json:"blockIds,omitempty"`
}

// PageIDs returns the member ids of a query result, preferring the
// grouped form when both are present.
func (q QueryResult) PageIDs() []string {
	if q.CollectionGroupResults != nil && len(q.CollectionGroupResults.BlockIDs) > 0 {
		return q.CollectionGroupResults.BlockIDs
	}
	return q.BlockIDs
}
