// Package normalize reconciles the provider's wire-format generations
// into the canonical record map. The upstream API has shipped at least
// two incompatible shapes for the same data: the "direct" generation
// (id -> { value }) and the "wrapped" generation that adds a space layer
// and nests value.value chains. Everything downstream of this package
// sees exactly one shape.
package normalize

import (
	"encoding/json"
	"log/slog"

	"notionsite/internal/notion"
)

// maxUnwrapDepth bounds value.value... unwrapping so malformed or
// self-referential wrapping cannot loop.
const maxUnwrapDepth = 5

// RecordMap converts a raw record map into the canonical form and
// applies the per-block content fixes. rootID, when non-empty, names the
// document's own page block, whose properties are stripped. Entries that
// fail the validity gate are dropped with a diagnostic.
func RecordMap(raw notion.RawRecordMap, rootID string) *notion.RecordMap {
	if raw == nil {
		return nil
	}

	rm := &notion.RecordMap{
		Block:          make(map[string]notion.Block),
		Collection:     make(map[string]notion.Collection),
		CollectionView: make(map[string]notion.Block),
	}

	order, blocks := BlockTable(raw.Table("block"))
	rm.Block = blocks
	rm.BlockOrder = applyOrderHint(order, raw.Table("block_order"))

	for id, raw := range flattenedTable(raw.Table("collection")) {
		if c := normalizeCollection(id, raw); c != nil {
			rm.Collection[id] = *c
		}
	}

	for id, raw := range flattenedTable(raw.Table("collection_view")) {
		if b := normalizeView(id, raw); b != nil {
			rm.CollectionView[id] = *b
		}
	}

	rm.CollectionQuery = normalizeQuery(raw.Table("collection_query"))

	applyContentFixes(rm, rootID)
	return rm
}

// BlockTable normalizes one raw block table, preserving document order.
// Used both for whole documents and for batch-fetched block sets.
func BlockTable(raw json.RawMessage) ([]string, map[string]notion.Block) {
	blocks := make(map[string]notion.Block)
	order, items := flattened(raw)
	kept := order[:0]
	for _, id := range order {
		b := normalizeBlock(id, items[id])
		if b == nil {
			continue
		}
		blocks[id] = *b
		kept = append(kept, id)
	}
	return kept, blocks
}

// UnwrapValueDeep unwraps value.value... chains until a concrete value
// is reached, bounded by maxUnwrapDepth.
func UnwrapValueDeep(raw json.RawMessage) json.RawMessage {
	cur := raw
	for i := 0; i < maxUnwrapDepth; i++ {
		m := decodeObject(cur)
		if m == nil {
			return cur
		}
		inner, ok := m["value"]
		if !ok {
			return cur
		}
		im := decodeObject(inner)
		if im == nil {
			return cur
		}
		if _, nested := im["value"]; nested {
			cur = inner
			continue
		}
		return inner
	}
	return cur
}

// normalizeBlock unwraps one raw block entry and applies the validity
// gate: a usable block has an id and at least one of type or properties.
func normalizeBlock(id string, raw json.RawMessage) *notion.Block {
	val := UnwrapValueDeep(raw)
	m := decodeObject(val)
	if m == nil {
		slog.Warn("dropping malformed block entry", "id", id)
		return nil
	}
	if _, hasType := m["type"]; !hasType {
		if _, hasProps := m["properties"]; !hasProps {
			slog.Warn("dropping block without type or properties", "id", id)
			return nil
		}
	}

	var bv notion.BlockValue
	if err := json.Unmarshal(val, &bv); err != nil {
		slog.Warn("dropping undecodable block", "id", id, "error", err)
		return nil
	}
	if bv.ID == "" {
		slog.Warn("dropping block without value.id", "id", id)
		return nil
	}
	return &notion.Block{Value: &bv}
}

func normalizeCollection(id string, raw json.RawMessage) *notion.Collection {
	val := UnwrapValueDeep(raw)
	var cv notion.CollectionValue
	if err := json.Unmarshal(val, &cv); err != nil {
		slog.Warn("dropping undecodable collection", "id", id, "error", err)
		return nil
	}
	if cv.ID == "" {
		cv.ID = id
	}
	return &notion.Collection{Value: &cv}
}

func normalizeView(id string, raw json.RawMessage) *notion.Block {
	val := UnwrapValueDeep(raw)
	var bv notion.BlockValue
	if err := json.Unmarshal(val, &bv); err != nil {
		slog.Warn("dropping undecodable collection view", "id", id, "error", err)
		return nil
	}
	if bv.ID == "" {
		bv.ID = id
	}
	return &notion.Block{Value: &bv}
}

// normalizeQuery decodes the collection_query table, which is keyed
// collection id -> view id in both generations and never value-wrapped.
func normalizeQuery(raw json.RawMessage) notion.CollectionQuery {
	if len(raw) == 0 {
		return nil
	}
	var q notion.CollectionQuery
	if err := json.Unmarshal(raw, &q); err != nil {
		slog.Warn("undecodable collection query", "error", err)
		return nil
	}
	return q
}

// flattened decodes a table and collapses the wrapped generation's space
// layer. Generation detection follows the first object entry: an entry
// already carrying a "value" key means the direct generation; otherwise
// each top-level entry is an inner id table to be merged.
func flattened(raw json.RawMessage) ([]string, map[string]json.RawMessage) {
	order, items, err := notion.DecodeTable(raw)
	if err != nil {
		slog.Warn("undecodable record table", "error", err)
		return nil, nil
	}
	if len(items) == 0 {
		return nil, nil
	}

	for _, key := range order {
		m := decodeObject(items[key])
		if m == nil {
			continue
		}
		if _, direct := m["value"]; direct {
			return order, items
		}
		break
	}

	// Wrapped generation: top-level keys are space ids.
	var flatOrder []string
	flat := make(map[string]json.RawMessage)
	for _, spaceID := range order {
		innerOrder, inner, err := notion.DecodeTable(items[spaceID])
		if err != nil {
			slog.Warn("undecodable space layer", "space", spaceID, "error", err)
			continue
		}
		for _, id := range innerOrder {
			if _, seen := flat[id]; !seen {
				flatOrder = append(flatOrder, id)
			}
			flat[id] = inner[id]
		}
	}
	return flatOrder, flat
}

// flattenedTable is flattened for callers that do not need order.
func flattenedTable(raw json.RawMessage) map[string]json.RawMessage {
	_, items := flattened(raw)
	return items
}

// applyOrderHint restores a previously recorded block order. Canonical
// record maps round-tripped through JSON (the cache) carry their order
// in a block_order array; without the hint, decode order stands.
func applyOrderHint(order []string, hintRaw json.RawMessage) []string {
	if len(hintRaw) == 0 {
		return order
	}
	var hint []string
	if err := json.Unmarshal(hintRaw, &hint); err != nil {
		return order
	}

	present := make(map[string]bool, len(order))
	for _, id := range order {
		present[id] = true
	}
	out := make([]string, 0, len(order))
	seen := make(map[string]bool, len(order))
	for _, id := range hint {
		if present[id] && !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	for _, id := range order {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}

// decodeObject returns the keys of a JSON object, or nil when raw is not
// an object.
func decodeObject(raw json.RawMessage) map[string]json.RawMessage {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
