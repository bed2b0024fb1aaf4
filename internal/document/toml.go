package document

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// DecodeTOML decodes a TOML document.
//
// BurntSushi's decoder hands tables back as Go maps, which lose document
// order, but MetaData.Keys lists every key path in order of appearance.
// The tree is rebuilt with that ordering so downstream consumers see blocks
// and fields in the order the author wrote them.
func DecodeTOML(data []byte) (*Node, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode TOML: %w", err)
	}

	ranks := make(map[string]int, len(md.Keys()))
	for i, key := range md.Keys() {
		ranks[joinKeyPath(key)] = i
	}

	return fromTOMLValue(raw, nil, ranks)
}

func joinKeyPath(key []string) string {
	return strings.Join(key, "\x1f")
}

func fromTOMLValue(v any, path []string, ranks map[string]int) (*Node, error) {
	switch v := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sortTOMLKeys(keys, path, ranks)

		n := &Node{Kind: KindMapping}
		for _, k := range keys {
			childPath := make([]string, 0, len(path)+1)
			childPath = append(append(childPath, path...), k)
			child, err := fromTOMLValue(v[k], childPath, ranks)
			if err != nil {
				return nil, err
			}
			n.Fields = append(n.Fields, Field{Key: k, Value: child})
		}
		return n, nil

	case []map[string]any:
		// Arrays of tables ([[table]]).
		n := &Node{Kind: KindSequence}
		for _, item := range v {
			child, err := fromTOMLValue(item, path, ranks)
			if err != nil {
				return nil, err
			}
			n.Items = append(n.Items, child)
		}
		return n, nil

	case []any:
		n := &Node{Kind: KindSequence}
		for _, item := range v {
			child, err := fromTOMLValue(item, path, ranks)
			if err != nil {
				return nil, err
			}
			n.Items = append(n.Items, child)
		}
		return n, nil

	case int64:
		return &Node{Kind: KindInt, Int: v}, nil
	case float64:
		return &Node{Kind: KindFloat, Float: v}, nil
	case bool:
		return &Node{Kind: KindBool, Bool: v}, nil
	case string:
		return &Node{Kind: KindString, Str: v}, nil
	}
	return nil, fmt.Errorf("failed to decode TOML: unsupported value type %T at %q", v, strings.Join(path, "."))
}

// sortTOMLKeys orders keys by their first appearance in the document. Keys
// without a recorded position (inline tables inside arrays) sort after
// positioned keys, alphabetically, so output stays deterministic.
func sortTOMLKeys(keys []string, path []string, ranks map[string]int) {
	rankOf := func(k string) (int, bool) {
		keyPath := make([]string, 0, len(path)+1)
		keyPath = append(append(keyPath, path...), k)
		r, ok := ranks[joinKeyPath(keyPath)]
		return r, ok
	}
	sort.SliceStable(keys, func(i, j int) bool {
		ri, oki := rankOf(keys[i])
		rj, okj := rankOf(keys[j])
		switch {
		case oki && okj:
			return ri < rj
		case oki:
			return true
		case okj:
			return false
		}
		return keys[i] < keys[j]
	})
}
