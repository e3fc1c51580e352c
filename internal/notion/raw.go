package notion

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeTable decodes a raw record-map table into its entries while
// preserving JSON key order. Go maps and json.Unmarshal both discard
// order, but block tables are documents: consumers (synced-block
// inlining, member extraction) must see entries in source order.
func DecodeTable(raw json.RawMessage) ([]string, map[string]json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("decode table: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("decode table: expected object, got %v", tok)
	}

	var order []string
	items := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("decode table key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("decode table key: non-string %v", tok)
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, nil, fmt.Errorf("decode table %q: %w", key, err)
		}
		if _, seen := items[key]; !seen {
			order = append(order, key)
		}
		items[key] = val
	}
	return order, items, nil
}

// Table returns the named category table of a raw record map, or nil.
func (rm RawRecordMap) Table(category string) json.RawMessage {
	if rm == nil {
		return nil
	}
	return rm[category]
}
