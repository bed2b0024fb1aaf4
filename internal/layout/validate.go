package layout

import (
	"fmt"
	"math"

	"github.com/nvmkit/nvmlayout/internal/document"
)

// Validate walks a decoded document and builds a Config, or returns the
// accumulated ValidationErrors. Every error carries the field path from the
// document root to the violating value.
func Validate(doc *document.Node) (*Config, error) {
	v := &validator{}
	cfg := v.config(doc)
	if len(v.errs) > 0 {
		return nil, v.errs
	}
	return cfg, nil
}

type validator struct {
	errs ValidationErrors
}

func (v *validator) add(err ValidationError) {
	v.errs = append(v.errs, err)
}

func childPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// config flattens the top level: 'settings' is consumed into the fixed
// section, every other key becomes a block in document order.
func (v *validator) config(doc *document.Node) *Config {
	if doc == nil || doc.Kind != document.KindMapping {
		kind := document.KindNull
		if doc != nil {
			kind = doc.Kind
		}
		v.add(ValidationError{
			Kind:    ErrTypeMismatch,
			Message: fmt.Sprintf("layout document must be a mapping, got %s", kind),
		})
		return nil
	}

	cfg := &Config{}

	settingsNode, ok := doc.Get("settings")
	if !ok {
		v.add(ValidationError{
			Kind:    ErrMissingField,
			Path:    "settings",
			Message: "missing required 'settings' at top-level",
			Line:    doc.Line,
		})
	} else {
		cfg.Settings = v.settings(settingsNode, "settings")
	}

	for _, f := range doc.Fields {
		if f.Key == "settings" {
			continue
		}
		cfg.Blocks = append(cfg.Blocks, NamedBlock{
			Name:  f.Key,
			Block: v.block(f.Value, f.Key),
		})
	}

	return cfg
}

func (v *validator) settings(n *document.Node, path string) Settings {
	s := Settings{}
	if !v.requireMapping(n, path, "settings") {
		return s
	}

	if endian, ok := v.requireField(n, path, "endianness"); ok {
		epath := childPath(path, "endianness")
		if endian.Kind != document.KindString {
			v.add(ValidationError{
				Kind:    ErrTypeMismatch,
				Path:    epath,
				Message: fmt.Sprintf("endianness must be a string, got %s", endian.Kind),
				Line:    endian.Line,
			})
		} else if endian.Str != string(EndianLittle) && endian.Str != string(EndianBig) {
			v.add(ValidationError{
				Kind:       ErrUnionMismatch,
				Path:       epath,
				Message:    fmt.Sprintf("invalid endianness %q", endian.Str),
				Suggestion: "use 'little' or 'big'",
				Line:       endian.Line,
			})
		} else {
			s.Endianness = Endianness(endian.Str)
		}
	}

	s.VirtualOffset = v.optionalUint32(n, path, "virtual_offset", 0)
	s.ByteSwap = v.optionalBool(n, path, "byte_swap", false)
	s.PadToEnd = v.optionalBool(n, path, "pad_to_end", false)

	if crc, ok := v.requireField(n, path, "crc"); ok {
		s.Crc = v.crcParams(crc, childPath(path, "crc"))
	}

	return s
}

func (v *validator) crcParams(n *document.Node, path string) CrcParams {
	p := CrcParams{Area: CrcAreaData}
	if !v.requireMapping(n, path, "crc settings") {
		return p
	}

	p.Polynomial = v.requireUint(n, path, "polynomial")
	p.Start = v.requireUint(n, path, "start")
	p.XorOut = v.requireUint(n, path, "xor_out")
	p.RefIn = v.requireBool(n, path, "ref_in")
	p.RefOut = v.requireBool(n, path, "ref_out")

	if area, ok := n.Get("area"); ok {
		apath := childPath(path, "area")
		if area.Kind != document.KindString {
			v.add(ValidationError{
				Kind:    ErrTypeMismatch,
				Path:    apath,
				Message: fmt.Sprintf("crc area must be a string, got %s", area.Kind),
				Line:    area.Line,
			})
		} else if area.Str != string(CrcAreaData) && area.Str != string(CrcAreaBlock) {
			v.add(ValidationError{
				Kind:       ErrUnionMismatch,
				Path:       apath,
				Message:    fmt.Sprintf("invalid crc area %q", area.Str),
				Suggestion: "use 'data' or 'block'",
				Line:       area.Line,
			})
		} else {
			p.Area = CrcArea(area.Str)
		}
	}

	return p
}

func (v *validator) block(n *document.Node, path string) Block {
	b := Block{Header: Header{Padding: 0xFF}}
	if !v.requireMapping(n, path, "block") {
		return b
	}

	if header, ok := v.requireField(n, path, "header"); ok {
		b.Header = v.header(header, childPath(path, "header"))
	}
	if data, ok := v.requireField(n, path, "data"); ok {
		b.Data = v.entry(data, childPath(path, "data"))
	}

	return b
}

func (v *validator) header(n *document.Node, path string) Header {
	h := Header{Padding: 0xFF}
	if !v.requireMapping(n, path, "block header") {
		return h
	}

	h.StartAddress = v.requireUint32(n, path, "start_address")
	h.Length = v.requireUint32(n, path, "length")

	if padding, ok := n.Get("padding"); ok {
		ppath := childPath(path, "padding")
		if u, ok := padding.AsUint64(); ok && u <= 0xFF {
			h.Padding = byte(u)
		} else {
			v.add(ValidationError{
				Kind:    ErrTypeMismatch,
				Path:    ppath,
				Message: "padding must be an unsigned integer fitting in a single byte",
				Line:    padding.Line,
			})
		}
	}

	if loc, ok := v.requireField(n, path, "crc_location"); ok {
		h.CrcLocation = v.crcLocation(loc, childPath(path, "crc_location"))
	}

	return h
}

// crcLocation resolves the location union: a textual payload is a symbolic
// keyword, a numeric payload is an address. Keyword strings are not checked
// against any enumeration here.
func (v *validator) crcLocation(n *document.Node, path string) CrcLocation {
	if n.Kind == document.KindString {
		return CrcLocation{Symbolic: true, Keyword: n.Str}
	}
	if n.IsInteger() {
		if u, ok := n.AsUint64(); ok && u <= math.MaxUint32 {
			return CrcLocation{Address: uint32(u)}
		}
		v.add(ValidationError{
			Kind:    ErrUnionMismatch,
			Path:    path,
			Message: "crc_location address must fit in an unsigned 32-bit integer",
			Line:    n.Line,
		})
		return CrcLocation{}
	}
	v.add(ValidationError{
		Kind:    ErrUnionMismatch,
		Path:    path,
		Message: fmt.Sprintf("crc_location must be a keyword string or an address integer, got %s", n.Kind),
		Line:    n.Line,
	})
	return CrcLocation{}
}

// entry classifies a data-tree node: a mapping carrying a 'type' key is a
// leaf, any other mapping is a group of child entries.
func (v *validator) entry(n *document.Node, path string) Entry {
	if n.Kind != document.KindMapping {
		v.add(ValidationError{
			Kind:    ErrTypeMismatch,
			Path:    path,
			Message: fmt.Sprintf("entry must be a leaf or a group of entries, got %s", n.Kind),
			Line:    n.Line,
		})
		return Entry{}
	}

	if n.Has("type") {
		return Entry{Leaf: v.leaf(n, path)}
	}

	e := Entry{}
	for _, f := range n.Fields {
		e.Children = append(e.Children, NamedEntry{
			Name:  f.Key,
			Entry: v.entry(f.Value, childPath(path, f.Key)),
		})
	}
	return e
}

// leafKeys is the closed schema for leaf entries.
var leafKeys = map[string]bool{
	"type":  true,
	"size":  true,
	"SIZE":  true,
	"name":  true,
	"value": true,
}

func (v *validator) leaf(n *document.Node, path string) *LeafEntry {
	leaf := &LeafEntry{}

	for _, f := range n.Fields {
		if !leafKeys[f.Key] {
			v.add(ValidationError{
				Kind:       ErrUnrecognizedField,
				Path:       childPath(path, f.Key),
				Message:    fmt.Sprintf("unrecognized field %q in leaf entry", f.Key),
				Suggestion: "allowed fields are type, size, SIZE, name, value",
				Line:       n.Line,
			})
		}
	}

	if typeNode, ok := n.Get("type"); ok {
		tpath := childPath(path, "type")
		token := ""
		if typeNode.Kind == document.KindString {
			token = typeNode.Str
		}
		if t, ok := ParseScalarType(token); ok {
			leaf.Type = t
		} else {
			v.add(ValidationError{
				Kind:       ErrUnionMismatch,
				Path:       tpath,
				Message:    fmt.Sprintf("invalid scalar type %q", token),
				Suggestion: "use one of u8, u16, u32, u64, i8, i16, i32, i64, f32, f64",
				Line:       typeNode.Line,
			})
		}
	}

	sizeNode, hasSize := n.Get("size")
	strictNode, hasStrict := n.Get("SIZE")
	switch {
	case hasSize && hasStrict:
		v.add(ValidationError{
			Kind:    ErrMutualExclusion,
			Path:    path,
			Message: "use either 'size' or 'SIZE', not both",
			Line:    n.Line,
		})
	case hasSize:
		leaf.Size = v.sizeSource(sizeNode, childPath(path, "size"))
	case hasStrict:
		leaf.Size = v.sizeSource(strictNode, childPath(path, "SIZE"))
		leaf.StrictSize = true
	}

	leaf.Source = v.entrySource(n, path)

	return leaf
}

// entrySource normalizes the mutually exclusive 'name'/'value' keys into a
// single source representation.
func (v *validator) entrySource(n *document.Node, path string) EntrySource {
	nameNode, hasName := n.Get("name")
	valueNode, hasValue := n.Get("value")

	switch {
	case hasName && hasValue:
		v.add(ValidationError{
			Kind:    ErrMutualExclusion,
			Path:    path,
			Message: "leaf entry accepts either 'name' or 'value', not both",
			Line:    n.Line,
		})
		return EntrySource{}
	case !hasName && !hasValue:
		v.add(ValidationError{
			Kind:    ErrMissingField,
			Path:    path,
			Message: "leaf entry requires either 'name' or 'value'",
			Line:    n.Line,
		})
		return EntrySource{}
	case hasName:
		if nameNode.Kind != document.KindString {
			v.add(ValidationError{
				Kind:    ErrTypeMismatch,
				Path:    childPath(path, "name"),
				Message: fmt.Sprintf("name must be a string, got %s", nameNode.Kind),
				Line:    nameNode.Line,
			})
			return EntrySource{}
		}
		return EntrySource{Name: nameNode.Str}
	default:
		return EntrySource{Value: v.valueSource(valueNode, childPath(path, "value"))}
	}
}

// sizeSource resolves the size union, trying the two-dimension sequence arm
// before the bare integer so malformed lists get the list-specific message.
func (v *validator) sizeSource(n *document.Node, path string) *SizeSource {
	if n.Kind == document.KindSequence {
		if len(n.Items) != 2 {
			v.add(ValidationError{
				Kind:    ErrUnionMismatch,
				Path:    path,
				Message: "size must be length-2 list when array",
				Line:    n.Line,
			})
			return nil
		}
		rows, okRows := n.Items[0].AsUint64()
		cols, okCols := n.Items[1].AsUint64()
		if !okRows || !okCols {
			v.add(ValidationError{
				Kind:    ErrUnionMismatch,
				Path:    path,
				Message: "size list must contain integers",
				Line:    n.Line,
			})
			return nil
		}
		return &SizeSource{Rows: rows, Cols: cols, TwoD: true}
	}

	if u, ok := n.AsUint64(); ok {
		return &SizeSource{Rows: u}
	}

	v.add(ValidationError{
		Kind:    ErrUnionMismatch,
		Path:    path,
		Message: fmt.Sprintf("size must be an unsigned integer or a length-2 integer list, got %s", n.Kind),
		Line:    n.Line,
	})
	return nil
}

// valueSource resolves the value union: a single scalar, or a non-empty
// sequence of scalars. Mixed scalar kinds within one array are tolerated;
// checking them against the declared type is the builder's job.
func (v *validator) valueSource(n *document.Node, path string) *Value {
	if n.Kind == document.KindSequence {
		if len(n.Items) == 0 {
			v.add(ValidationError{
				Kind:    ErrUnionMismatch,
				Path:    path,
				Message: "value array must not be empty",
				Line:    n.Line,
			})
			return nil
		}
		vals := make([]DataValue, 0, len(n.Items))
		for i, item := range n.Items {
			dv, ok := v.dataValue(item, fmt.Sprintf("%s[%d]", path, i))
			if !ok {
				return nil
			}
			vals = append(vals, dv)
		}
		return NewArrayValue(vals)
	}

	dv, ok := v.dataValue(n, path)
	if !ok {
		return nil
	}
	return NewScalarValue(dv)
}

// dataValue resolves one scalar literal: unsigned integer first, then signed,
// then float, then string.
func (v *validator) dataValue(n *document.Node, path string) (DataValue, bool) {
	switch n.Kind {
	case document.KindUint:
		return DataValue{Kind: DataUint, Uint: n.Uint}, true
	case document.KindInt:
		if n.Int >= 0 {
			return DataValue{Kind: DataUint, Uint: uint64(n.Int)}, true
		}
		return DataValue{Kind: DataInt, Int: n.Int}, true
	case document.KindFloat:
		return DataValue{Kind: DataFloat, Float: n.Float}, true
	case document.KindString:
		return DataValue{Kind: DataString, Str: n.Str}, true
	}
	v.add(ValidationError{
		Kind:    ErrUnionMismatch,
		Path:    path,
		Message: fmt.Sprintf("value must be an integer, float, or string, got %s", n.Kind),
		Line:    n.Line,
	})
	return DataValue{}, false
}

// requireMapping checks that a node is a mapping, recording a type mismatch
// otherwise.
func (v *validator) requireMapping(n *document.Node, path, what string) bool {
	if n.Kind == document.KindMapping {
		return true
	}
	v.add(ValidationError{
		Kind:    ErrTypeMismatch,
		Path:    path,
		Message: fmt.Sprintf("%s must be a mapping, got %s", what, n.Kind),
		Line:    n.Line,
	})
	return false
}

// requireField fetches a required key from a mapping node.
func (v *validator) requireField(n *document.Node, path, key string) (*document.Node, bool) {
	child, ok := n.Get(key)
	if !ok {
		v.add(ValidationError{
			Kind:    ErrMissingField,
			Path:    childPath(path, key),
			Message: fmt.Sprintf("%s is required", key),
			Line:    n.Line,
		})
		return nil, false
	}
	return child, true
}

func (v *validator) requireUint(n *document.Node, path, key string) uint64 {
	child, ok := v.requireField(n, path, key)
	if !ok {
		return 0
	}
	u, ok := child.AsUint64()
	if !ok {
		v.add(ValidationError{
			Kind:    ErrTypeMismatch,
			Path:    childPath(path, key),
			Message: fmt.Sprintf("%s must be an unsigned integer, got %s", key, child.Kind),
			Line:    child.Line,
		})
		return 0
	}
	return u
}

func (v *validator) requireUint32(n *document.Node, path, key string) uint32 {
	u := v.requireUint(n, path, key)
	if u > math.MaxUint32 {
		v.add(ValidationError{
			Kind:    ErrTypeMismatch,
			Path:    childPath(path, key),
			Message: fmt.Sprintf("%s must fit in an unsigned 32-bit integer", key),
		})
		return 0
	}
	return uint32(u)
}

func (v *validator) requireBool(n *document.Node, path, key string) bool {
	child, ok := v.requireField(n, path, key)
	if !ok {
		return false
	}
	if child.Kind != document.KindBool {
		v.add(ValidationError{
			Kind:    ErrTypeMismatch,
			Path:    childPath(path, key),
			Message: fmt.Sprintf("%s must be a boolean, got %s", key, child.Kind),
			Line:    child.Line,
		})
		return false
	}
	return child.Bool
}

func (v *validator) optionalUint32(n *document.Node, path, key string, def uint32) uint32 {
	child, ok := n.Get(key)
	if !ok {
		return def
	}
	u, ok := child.AsUint64()
	if !ok || u > math.MaxUint32 {
		v.add(ValidationError{
			Kind:    ErrTypeMismatch,
			Path:    childPath(path, key),
			Message: fmt.Sprintf("%s must be an unsigned 32-bit integer", key),
			Line:    child.Line,
		})
		return def
	}
	return uint32(u)
}

func (v *validator) optionalBool(n *document.Node, path, key string, def bool) bool {
	child, ok := n.Get(key)
	if !ok {
		return def
	}
	if child.Kind != document.KindBool {
		v.add(ValidationError{
			Kind:    ErrTypeMismatch,
			Path:    childPath(path, key),
			Message: fmt.Sprintf("%s must be a boolean, got %s", key, child.Kind),
			Line:    child.Line,
		})
		return def
	}
	return child.Bool
}
