// Package document decodes layout files into a format-agnostic value tree.
//
// The decoders make no judgement about document structure beyond syntax;
// validation happens in the layout package. Supported formats are selected
// by file extension: .toml, .yaml/.yml, and .json.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// UnsupportedFormatError reports a file extension outside the accepted set.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format %q (expected .toml, .yaml, .yml, or .json)", e.Ext)
}

// Load reads path and decodes it according to its extension.
func Load(path string) (*Node, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml", ".yaml", ".yml", ".json":
	default:
		return nil, &UnsupportedFormatError{Ext: ext}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout file: %w", err)
	}

	switch ext {
	case ".toml":
		return DecodeTOML(data)
	case ".json":
		return DecodeJSON(data)
	default:
		return DecodeYAML(data)
	}
}

// DecodeYAML decodes a YAML document.
func DecodeYAML(data []byte) (*Node, error) {
	return decodeYAMLTree(data, "YAML")
}

// DecodeJSON decodes a JSON document. JSON is a subset of YAML, so the YAML
// parser handles it directly; unlike encoding/json it keeps object key order
// and source line numbers, which the validator needs for its diagnostics.
func DecodeJSON(data []byte) (*Node, error) {
	return decodeYAMLTree(data, "JSON")
}

func decodeYAMLTree(data []byte, format string) (*Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", format, err)
	}
	if root.Kind == 0 {
		// Empty document.
		return &Node{Kind: KindNull}, nil
	}
	node, err := fromYAMLNode(&root)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", format, err)
	}
	return node, nil
}

func fromYAMLNode(y *yaml.Node) (*Node, error) {
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return &Node{Kind: KindNull, Line: y.Line}, nil
		}
		return fromYAMLNode(y.Content[0])

	case yaml.AliasNode:
		return fromYAMLNode(y.Alias)

	case yaml.MappingNode:
		n := &Node{Kind: KindMapping, Line: y.Line}
		for i := 0; i+1 < len(y.Content); i += 2 {
			key := y.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
			}
			child, err := fromYAMLNode(y.Content[i+1])
			if err != nil {
				return nil, err
			}
			n.Fields = append(n.Fields, Field{Key: key.Value, Value: child})
		}
		return n, nil

	case yaml.SequenceNode:
		n := &Node{Kind: KindSequence, Line: y.Line}
		for _, item := range y.Content {
			child, err := fromYAMLNode(item)
			if err != nil {
				return nil, err
			}
			n.Items = append(n.Items, child)
		}
		return n, nil

	case yaml.ScalarNode:
		return fromYAMLScalar(y), nil
	}
	return nil, fmt.Errorf("line %d: unexpected YAML node kind %d", y.Line, y.Kind)
}

func fromYAMLScalar(y *yaml.Node) *Node {
	n := &Node{Line: y.Line}

	switch y.Tag {
	case "!!null":
		n.Kind = KindNull
		return n

	case "!!bool":
		var b bool
		if err := y.Decode(&b); err == nil {
			n.Kind = KindBool
			n.Bool = b
			return n
		}

	case "!!int":
		var i int64
		if err := y.Decode(&i); err == nil {
			n.Kind = KindInt
			n.Int = i
			return n
		}
		// Above the signed range; YAML integers may still fit in uint64.
		var u uint64
		if err := y.Decode(&u); err == nil {
			n.Kind = KindUint
			n.Uint = u
			return n
		}

	case "!!float":
		var f float64
		if err := y.Decode(&f); err == nil {
			n.Kind = KindFloat
			n.Float = f
			return n
		}
	}

	// Anything else (including unparseable tagged scalars) stays textual.
	n.Kind = KindString
	n.Str = y.Value
	return n
}
